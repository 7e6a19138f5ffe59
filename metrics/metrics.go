package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/exp/slog"
)

// Collector holds the process-wide instrumentation for the routing
// engine: one registry, attached to a routing.Engine with SetMetrics
// and updated around each of its Compute* calls (the algorithm package
// itself stays free of any metrics import).
type Collector struct {
	reg *prometheus.Registry

	QueriesTotal   *prometheus.CounterVec
	QueryDuration  *prometheus.HistogramVec
	RoundsPerQuery prometheus.Histogram
	PathsFound     prometheus.Histogram
	ActiveQueries  prometheus.Gauge
	PercentVisited prometheus.Histogram
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raptor_queries_total",
			Help: "Total number of Compute*/ComputeReverse* calls, by direction and outcome.",
		}, []string{"direction", "outcome"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "raptor_query_duration_seconds",
			Help:    "Wall time of a single Compute*/ComputeReverse* call.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 16),
		}, []string{"direction"}),
		RoundsPerQuery: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_rounds_per_query",
			Help:    "Number of RAPTOR rounds the query's first pass ran before quiescing.",
			Buckets: prometheus.LinearBuckets(1, 1, 16),
		}),
		PathsFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_paths_found",
			Help:    "Number of Pareto-optimal paths returned per query.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		ActiveQueries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "raptor_active_queries",
			Help: "Number of Compute*/ComputeReverse* calls currently in flight.",
		}),
		PercentVisited: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_percent_visited",
			Help:    "percent_visited reported by each path a query returns.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
	}

	reg.MustRegister(
		c.QueriesTotal, c.QueryDuration, c.RoundsPerQuery,
		c.PathsFound, c.ActiveQueries, c.PercentVisited,
	)
	return c
}

// Track wraps a single query, returning a func to call with its
// outcome once Compute*/ComputeReverse* returns.
func (c *Collector) Track(direction string) func(rounds int, paths int) {
	c.ActiveQueries.Inc()
	start := time.Now()
	return func(rounds, paths int) {
		c.ActiveQueries.Dec()
		c.QueryDuration.WithLabelValues(direction).Observe(time.Since(start).Seconds())
		c.RoundsPerQuery.Observe(float64(rounds))
		c.PathsFound.Observe(float64(paths))
		outcome := "found"
		if paths == 0 {
			outcome = "empty"
		}
		c.QueriesTotal.WithLabelValues(direction, outcome).Inc()
		slog.Debug("query answered",
			slog.String("direction", direction),
			slog.Int("rounds", rounds),
			slog.Int("paths", paths),
			slog.String("outcome", outcome),
		)
	}
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
