package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-raptor/comps"
	"github.com/ttpr0/go-raptor/metrics"
	"github.com/ttpr0/go-raptor/routing"
	"github.com/ttpr0/go-raptor/store"
	"github.com/ttpr0/go-raptor/structs"
	"github.com/ttpr0/go-raptor/util"
)

// Manager owns the process-wide TransitData view, the routing engine
// built on top of it, and the ambient services (metrics, result cache)
// every request goes through.
type Manager struct {
	data    *comps.TransitData
	engine  *routing.Engine
	metrics *metrics.Collector
	cache   *store.Cache
	notify  *store.Notifier
}

// NewManager builds (or, once a real ingestion pipeline exists, would
// load) the TransitData view described by config, and wires up an
// Engine, a metrics Collector and the optional result Cache and
// Notifier around it.
func NewManager(config Config) *Manager {
	data := buildTransitData(config.Build.DataPath)

	collector := metrics.NewCollector()

	engine := routing.NewEngine(data, config.Routing)
	engine.SetMetrics(collector)

	m := &Manager{data: data, engine: engine, metrics: collector}

	if config.Cache.Enabled {
		ctx := context.Background()
		cache, err := store.Open(ctx, config.Cache.DSN)
		if err != nil {
			slog.Error("failed to open result cache, continuing without it: " + err.Error())
		} else if err := cache.EnsureSchema(ctx); err != nil {
			slog.Error("failed to prepare result cache schema, continuing without it: " + err.Error())
			cache.Close()
		} else {
			m.cache = cache
		}
	}

	if config.Notify.Enabled {
		notifier, err := store.Connect(config.Notify.URL)
		if err != nil {
			slog.Error("failed to connect query notifier, continuing without it: " + err.Error())
		} else {
			m.notify = notifier
		}
	}

	return m
}

func (m *Manager) Close() {
	if m.cache != nil {
		m.cache.Close()
	}
	if m.notify != nil {
		m.notify.Close()
	}
}

// Route answers one journey query, consulting the result cache first
// when one is configured.
func (m *Manager) Route(ctx context.Context, req RoutingRequestParams) ([]structs.Path, error) {
	dt := structs.NewDateTime(req.Day, req.Hour*3600+req.Minute*60)
	forbidden := parseForbiddenLines(req.ForbiddenLines)
	key := store.Key(structs.StopAreaID(req.DepartureArea), structs.StopAreaID(req.DestinationArea), dt, req.Clockwise) + ":" + req.ForbiddenLines

	if m.cache != nil {
		if cached, ok, err := m.cache.Get(ctx, key); err != nil {
			slog.Error("cache lookup failed: " + err.Error())
		} else if ok {
			return cached, nil
		}
	}

	paths := m.engine.ComputeForbidding(
		structs.StopAreaID(req.DepartureArea),
		structs.StopAreaID(req.DestinationArea),
		req.Hour, req.Minute, req.Day, req.Clockwise,
		forbidden,
	)

	if m.cache != nil && len(paths) > 0 {
		if err := m.cache.Put(ctx, key, paths); err != nil {
			slog.Error("cache write failed: " + err.Error())
		}
	}

	if m.notify != nil {
		evt := store.QueryComputed{
			DepartureArea:   structs.StopAreaID(req.DepartureArea),
			DestinationArea: structs.StopAreaID(req.DestinationArea),
			RequestTime:     dt,
			Clockwise:       req.Clockwise,
			PathsFound:      len(paths),
		}
		if err := m.notify.PublishQueryComputed(evt); err != nil {
			slog.Error("query notification publish failed: " + err.Error())
		}
	}

	return paths, nil
}

// parseForbiddenLines turns a comma-separated line-code list into the
// engine's forbidden-entry filter format; an empty string yields no
// restriction. Entries are matched against Engine's wired LineOf
// resolver (comps.TransitData.LineCode).
func parseForbiddenLines(csv string) []structs.ForbiddenEntry {
	if csv == "" {
		return nil
	}
	var entries []structs.ForbiddenEntry
	for _, code := range strings.Split(csv, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		entries = append(entries, structs.ForbiddenEntry{Kind: structs.ForbiddenLine, Code: code})
	}
	return entries
}

// buildTransitData stands in for a GTFS ingestion pipeline, which is
// out of scope for this module (see SPEC_FULL.md's Non-goals): it
// assembles a small fixed network through comps.Builder covering a
// direct route (L1), a route-to-route footpath transfer (L3 -> foot ->
// L2), and a shared validity pattern. The assembled TransitData is
// snapshotted to gtfsPath as JSON on first run and loaded straight
// from there afterward, following the build-if-empty-else-load shape
// a real ingestion pipeline would use.
func buildTransitData(gtfsPath string) *comps.TransitData {
	if gtfsPath == "" {
		return buildDemoNetwork()
	}
	if _, err := os.Stat(gtfsPath); err == nil {
		slog.Info("loading transit data snapshot from " + gtfsPath)
		data, err := util.ReadJSONFromFile[comps.TransitData](gtfsPath)
		if err != nil {
			slog.Error("failed to load transit data snapshot, rebuilding: " + err.Error())
			return buildDemoNetwork()
		}
		return &data
	}

	slog.Info("no transit data snapshot found, building demo network and writing " + gtfsPath)
	data := buildDemoNetwork()
	if err := os.MkdirAll(filepath.Dir(gtfsPath), 0o755); err != nil {
		slog.Error("failed to create snapshot directory: " + err.Error())
		return data
	}
	if err := util.WriteJSONToFile(*data, gtfsPath); err != nil {
		slog.Error("failed to write transit data snapshot: " + err.Error())
	}
	return data
}

func buildDemoNetwork() *comps.TransitData {
	b := comps.NewBuilder()

	spA := b.AddStopPoint()
	spB := b.AddStopPoint()
	spC := b.AddStopPoint()
	spP := b.AddStopPoint()
	spQ := b.AddStopPoint()
	spD := b.AddStopPoint()

	b.AddStopArea([]structs.StopPointID{spA})
	b.AddStopArea([]structs.StopPointID{spC})
	b.AddStopArea([]structs.StopPointID{spD})

	vp := b.AddValidityPattern(0, 7, 0, 1, 2, 3, 4, 5, 6)
	modeBus := b.AddMode("bus")
	lineL1 := b.AddLine("L1")
	lineL2 := b.AddLine("L2")
	lineL3 := b.AddLine("L3")

	routeDirect, _ := b.AddRoute(lineL1, modeBus, "L1", []structs.StopPointID{spA, spB, spC})
	b.AddVehicleJourney(routeDirect, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 10*60, Departure: 8*3600 + 10*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 25*60, Departure: 8*3600 + 25*60, PickUp: true, DropOff: true},
	})

	routeFeeder, _ := b.AddRoute(lineL3, modeBus, "L3", []structs.StopPointID{spA, spP})
	b.AddVehicleJourney(routeFeeder, vp, []comps.StopTimeSpec{
		{Arrival: 8 * 3600, Departure: 8 * 3600, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 12*60, Departure: 8*3600 + 12*60, PickUp: true, DropOff: true},
	})

	routeOnward, _ := b.AddRoute(lineL2, modeBus, "L2", []structs.StopPointID{spQ, spD})
	b.AddVehicleJourney(routeOnward, vp, []comps.StopTimeSpec{
		{Arrival: 8*3600 + 18*60, Departure: 8*3600 + 18*60, PickUp: true, DropOff: true},
		{Arrival: 8*3600 + 35*60, Departure: 8*3600 + 35*60, PickUp: true, DropOff: true},
	})

	b.AddFootpath(spP, spQ, 3*60)
	b.AddFootpath(spQ, spP, 3*60)

	return b.Build()
}
