package observability

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Feed label values.
const (
	FeedStations = "stations"
	FeedLatest   = "latest_obs"
	FeedRealtime = "realtime"
)

// Entity label values.
const (
	EntityStation     = "station"
	EntityMeasurement = "measurement"
)

// Metrics holds the Prometheus counters and histograms for one ingestion run.
type Metrics struct {
	RowsParsed  *prometheus.CounterVec // labels: feed
	RowsDropped *prometheus.CounterVec // labels: feed — rows discarded during parsing

	RowsUpserted   *prometheus.CounterVec // labels: entity
	RowsDiscarded  *prometheus.CounterVec // labels: entity — rows dropped after per-row retry
	BatchFallbacks prometheus.Counter

	FetchDuration *prometheus.HistogramVec // labels: feed
	Runs          *prometheus.CounterVec   // labels: status

	registry *prometheus.Registry
}

// NewMetrics creates all pipeline metrics on a private registry so the
// whole set can be pushed at end of run.
func NewMetrics() *Metrics {
	m := newMetrics()
	m.registry.MustRegister(
		m.RowsParsed,
		m.RowsDropped,
		m.RowsUpserted,
		m.RowsDiscarded,
		m.BatchFallbacks,
		m.FetchDuration,
		m.Runs,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so parallel tests never
// collide on registration.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "rows_parsed_total",
			Help:      "Rows successfully parsed, per feed.",
		}, []string{"feed"}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "rows_dropped_total",
			Help:      "Malformed rows silently discarded during parsing, per feed.",
		}, []string{"feed"}),
		RowsUpserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "rows_upserted_total",
			Help:      "Rows written to the store, per entity.",
		}, []string{"entity"}),
		RowsDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "load_rows_discarded_total",
			Help:      "Rows dropped after failing the per-row upsert retry, per entity.",
		}, []string{"entity"}),
		BatchFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "batch_fallbacks_total",
			Help:      "Batch upserts that degraded to per-row writes.",
		}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ndbc_ingest",
			Name:      "fetch_duration_seconds",
			Help:      "Feed fetch duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ndbc_ingest",
			Name:      "runs_total",
			Help:      "Completed pipeline runs by terminal status.",
		}, []string{"status"}),
		registry: prometheus.NewRegistry(),
	}
}

// Push sends the metrics to a Pushgateway. A scheduled batch job has no
// scrape endpoint, so this is the only way the numbers leave the process.
// No-op when url is empty.
func (m *Metrics) Push(url, jobName string, logger *slog.Logger) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, jobName).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	logger.Info("metrics pushed", "gateway", url, "job", jobName)
	return nil
}
