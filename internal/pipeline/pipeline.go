// Package pipeline sequences one ingestion run: fetch and load the station
// catalog, then the latest observations, then (optionally) per-station
// history, with a single audit record tracking the run from start to its
// terminal state.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/marinewx/ndbc-ingest/internal/domain"
	"github.com/marinewx/ndbc-ingest/internal/feed"
	"github.com/marinewx/ndbc-ingest/internal/observability"
)

// maxErrorMessageLen bounds the error message persisted on the audit record.
const maxErrorMessageLen = 500

// Fetcher retrieves the raw text of the three NDBC feeds.
type Fetcher interface {
	StationTable(ctx context.Context) (string, error)
	LatestObservations(ctx context.Context) (string, error)
	StationRealtime(ctx context.Context, stationID string) (string, error)
}

// Loader writes record sets to the store and reports surviving-row counts.
type Loader interface {
	LoadStations(ctx context.Context, stations []domain.Station) (int, error)
	LoadMeasurements(ctx context.Context, measurements []domain.Measurement) (int, error)
}

// AuditStore owns IngestionRun persistence.
type AuditStore interface {
	BeginRun(ctx context.Context, source string) (int64, error)
	CompleteRun(ctx context.Context, id int64, stations, measurements int) error
	FailRun(ctx context.Context, id int64, message string) error
}

// Options selects the optional history phase.
type Options struct {
	FetchHistorical    bool
	HistoricalStations []string // defaults to DefaultHistoricalStations when empty
}

// DefaultHistoricalStations spans every region the classifier knows.
func DefaultHistoricalStations() []string {
	return []string{
		"41001", "41002", "41004", "41008", "41009", // Atlantic
		"42001", "42002", "42003", "42019", "42020", // Gulf
		"44013", "44017", "44025", // NE Atlantic
		"46001", "46005", "46011", "46025", "46042", // Pacific
		"51001", "51002", "51003", // Hawaii
	}
}

// Pipeline drives fetch→parse→load across all sources for one run.
type Pipeline struct {
	fetcher Fetcher
	loader  Loader
	audit   AuditStore
	regions domain.RegionTable
	source  string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline.
func New(f Fetcher, l Loader, a AuditStore, regions domain.RegionTable, source string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher: f,
		loader:  l,
		audit:   a,
		regions: regions,
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// Run executes one complete ingestion run. The audit record is opened
// before any fetch and always reaches a terminal state: success with final
// counts, or error with a truncated message — in which case the error is
// also returned so the process exits non-zero.
func (p *Pipeline) Run(ctx context.Context, opts Options) error {
	runID, err := p.audit.BeginRun(ctx, p.source)
	if err != nil {
		return fmt.Errorf("begin ingestion run: %w", err)
	}
	p.logger.Info("ingestion run started", "run_id", runID, "source", p.source, "historical", opts.FetchHistorical)

	stationsCount, measurementsCount, runErr := p.execute(ctx, opts)
	if runErr != nil {
		p.metrics.Runs.WithLabelValues(domain.RunStatusError).Inc()
		// The audit write must land even when the run context is cancelled.
		if failErr := p.audit.FailRun(context.WithoutCancel(ctx), runID, truncate(runErr.Error(), maxErrorMessageLen)); failErr != nil {
			p.logger.Error("persisting run failure state failed", "run_id", runID, "error", failErr)
		}
		p.logger.Error("ingestion run failed", "run_id", runID, "error", runErr)
		return runErr
	}

	if err := p.audit.CompleteRun(ctx, runID, stationsCount, measurementsCount); err != nil {
		return fmt.Errorf("complete ingestion run %d: %w", runID, err)
	}
	p.metrics.Runs.WithLabelValues(domain.RunStatusSuccess).Inc()
	p.logger.Info("ingestion run complete",
		"run_id", runID, "stations", stationsCount, "measurements", measurementsCount)
	return nil
}

// execute runs the fetch/parse/load phases and returns final counts. Errors
// from the two primary feeds are fatal for the run; a single station's
// history failure only skips that station.
func (p *Pipeline) execute(ctx context.Context, opts Options) (int, int, error) {
	text, err := p.timedFetch(ctx, observability.FeedStations, p.fetcher.StationTable)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch station table: %w", err)
	}
	stations, dropped := feed.ParseStationTable(text, p.regions)
	p.observeParse(observability.FeedStations, len(stations), dropped)

	stationsCount, err := p.loader.LoadStations(ctx, stations)
	if err != nil {
		return 0, 0, fmt.Errorf("load stations: %w", err)
	}

	text, err = p.timedFetch(ctx, observability.FeedLatest, p.fetcher.LatestObservations)
	if err != nil {
		return 0, 0, fmt.Errorf("fetch latest observations: %w", err)
	}
	observations, dropped := feed.ParseLatestObservations(text)
	p.observeParse(observability.FeedLatest, len(observations), dropped)

	measurementsCount, err := p.loader.LoadMeasurements(ctx, observations)
	if err != nil {
		return 0, 0, fmt.Errorf("load latest observations: %w", err)
	}

	if opts.FetchHistorical {
		historical, err := p.loadHistory(ctx, opts.HistoricalStations)
		if err != nil {
			return 0, 0, err
		}
		measurementsCount += historical
	}

	return stationsCount, measurementsCount, nil
}

// loadHistory fetches and loads the bounded recent history for each target
// station in sequence. Fetch failures skip the station; only context
// cancellation aborts the phase.
func (p *Pipeline) loadHistory(ctx context.Context, targets []string) (int, error) {
	if len(targets) == 0 {
		targets = DefaultHistoricalStations()
	}
	p.logger.Info("fetching station history", "stations", len(targets))

	total := 0
	for _, stationID := range targets {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("fetch history: %w", err)
		}

		text, err := p.timedFetch(ctx, observability.FeedRealtime, func(ctx context.Context) (string, error) {
			return p.fetcher.StationRealtime(ctx, stationID)
		})
		if err != nil {
			p.logger.Warn("station history fetch failed, skipping", "station", stationID, "error", err)
			continue
		}

		measurements, dropped := feed.ParseStationRealtime(stationID, text)
		p.observeParse(observability.FeedRealtime, len(measurements), dropped)

		n, err := p.loader.LoadMeasurements(ctx, measurements)
		if err != nil {
			return total, fmt.Errorf("load history for %s: %w", stationID, err)
		}
		total += n
		p.logger.Info("station history loaded", "station", stationID, "measurements", n)
	}
	return total, nil
}

func (p *Pipeline) timedFetch(ctx context.Context, feedName string, fetch func(context.Context) (string, error)) (string, error) {
	start := time.Now()
	text, err := fetch(ctx)
	p.metrics.FetchDuration.WithLabelValues(feedName).Observe(time.Since(start).Seconds())
	return text, err
}

func (p *Pipeline) observeParse(feedName string, parsed, dropped int) {
	p.metrics.RowsParsed.WithLabelValues(feedName).Add(float64(parsed))
	p.metrics.RowsDropped.WithLabelValues(feedName).Add(float64(dropped))
	p.logger.Info("feed parsed", "feed", feedName, "rows", parsed, "dropped", dropped)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
