// Command ingest runs one NDBC ingestion pass: station catalog, latest
// observations, and optionally per-station recent history, upserted into
// the configured relational store. It is meant to be invoked on a schedule
// (cron or similar) and exits non-zero when the run fails.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/marinewx/ndbc-ingest/internal/adapter/ndbc"
	"github.com/marinewx/ndbc-ingest/internal/adapter/sqlstore"
	"github.com/marinewx/ndbc-ingest/internal/config"
	"github.com/marinewx/ndbc-ingest/internal/domain"
	"github.com/marinewx/ndbc-ingest/internal/loader"
	"github.com/marinewx/ndbc-ingest/internal/observability"
	"github.com/marinewx/ndbc-ingest/internal/pipeline"
)

const sourceTag = "ndbc"

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	historical := flag.Bool("historical", false, "also fetch ~45-day history for selected stations")
	stationsFile := flag.String("stations", "", "YAML file listing station IDs for the historical fetch")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var stations []string
	if *stationsFile != "" {
		if stations, err = config.LoadStationList(*stationsFile); err != nil {
			logger.Error("failed to load station list", "error", err)
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Error("failed to open store", "driver", cfg.DatabaseDriver, "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("store close error", "error", err)
		}
	}()

	client := ndbc.NewClient(cfg.NDBCBaseURL, cfg.RequestTimeout, logger)
	ldr := loader.New(store, cfg.StationBatchSize, cfg.MeasurementBatchSize, logger, metrics)
	p := pipeline.New(client, ldr, store, domain.DefaultRegionTable(), sourceTag, logger, metrics)

	runErr := p.Run(ctx, pipeline.Options{
		FetchHistorical:    *historical,
		HistoricalStations: stations,
	})

	// Push whatever we counted, success or not; a failed run's metrics are
	// the ones worth seeing.
	if err := metrics.Push(cfg.PushgatewayURL, sourceTag+"_ingest", logger); err != nil {
		logger.Warn("metrics push failed", "error", err)
	}

	return runErr
}
