package main

import (
	"context"
	"net/http"
	"os"

	"golang.org/x/exp/slog"
)

var manager *Manager

func main() {
	config := ReadConfig("./config.yaml")
	slog.SetDefault(slog.New(NewLogHandler(os.Stdout, &slog.HandlerOptions{Level: ParseLogLevel(config.Server.LogLevel)})))

	manager = NewManager(config)
	defer manager.Close()

	app := http.NewServeMux()
	MapGet(app, "/v0/routing", HandleRoutingRequest)

	metricsApp := http.NewServeMux()
	metricsApp.Handle("/metrics", manager.metrics.Handler())

	go func() {
		slog.Info("metrics listening on " + config.Server.MetricsAddress)
		if err := http.ListenAndServe(config.Server.MetricsAddress, metricsApp); err != nil {
			slog.Error("metrics server stopped: " + err.Error())
		}
	}()

	slog.Info("routing listening on " + config.Server.Address)
	if err := http.ListenAndServe(config.Server.Address, app); err != nil {
		slog.Error("routing server stopped: " + err.Error())
	}
}

// HandleRoutingRequest answers GET /v0/routing?departure_area=..&destination_area=..&day=..&hour=..&minute=..&clockwise=..
func HandleRoutingRequest(req RoutingRequestParams) Result {
	paths, err := manager.Route(context.Background(), req)
	if err != nil {
		return BadRequest(NewErrorResponse("routing", err.Error()))
	}
	return OK(RoutingResponse{Paths: paths})
}
