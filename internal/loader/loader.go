// Package loader writes record sets to the store in bounded batches with a
// degrade-to-per-row retry on batch failure. One poisoned row — a duplicate
// key inside the batch, a constraint violation — costs that row, never the
// rest of the batch.
package loader

import (
	"context"
	"log/slog"

	"github.com/marinewx/ndbc-ingest/internal/domain"
	"github.com/marinewx/ndbc-ingest/internal/observability"
)

// Store is the subset of the relational store the loader needs.
type Store interface {
	UpsertStations(ctx context.Context, stations []domain.Station) error
	UpsertMeasurements(ctx context.Context, measurements []domain.Measurement) error
}

// Loader batches upserts. Batch sizes are fixed configuration: measurements
// arrive in far larger volumes than stations, so the two differ.
type Loader struct {
	store                Store
	stationBatchSize     int
	measurementBatchSize int
	logger               *slog.Logger
	metrics              *observability.Metrics
}

// New creates a Loader. Batch sizes must be positive.
func New(store Store, stationBatchSize, measurementBatchSize int, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		store:                store,
		stationBatchSize:     stationBatchSize,
		measurementBatchSize: measurementBatchSize,
		logger:               logger,
		metrics:              metrics,
	}
}

// LoadStations upserts stations and returns the number of rows that reached
// the store. Re-running with the same input overwrites, never duplicates.
func (l *Loader) LoadStations(ctx context.Context, stations []domain.Station) (int, error) {
	return load(ctx, l, observability.EntityStation, stations, l.stationBatchSize, l.store.UpsertStations)
}

// LoadMeasurements upserts measurements; same contract as LoadStations.
func (l *Loader) LoadMeasurements(ctx context.Context, measurements []domain.Measurement) (int, error) {
	return load(ctx, l, observability.EntityMeasurement, measurements, l.measurementBatchSize, l.store.UpsertMeasurements)
}

// load partitions records into fixed-size batches in original order and
// upserts each batch as one statement. A failed batch is retried row by
// row; rows that still fail are dropped and counted. The only error load
// returns is context cancellation — everything else degrades.
func load[T any](ctx context.Context, l *Loader, entity string, records []T, batchSize int, upsert func(context.Context, []T) error) (int, error) {
	total := 0
	for start := 0; start < len(records); start += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		end := min(start+batchSize, len(records))
		batch := records[start:end]

		if err := upsert(ctx, batch); err != nil {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			l.logger.Warn("batch upsert failed, retrying per row",
				"entity", entity, "batch_size", len(batch), "error", err)
			l.metrics.BatchFallbacks.Inc()

			for _, rec := range batch {
				if err := ctx.Err(); err != nil {
					return total, err
				}
				if err := upsert(ctx, []T{rec}); err != nil {
					l.metrics.RowsDiscarded.WithLabelValues(entity).Inc()
					l.logger.Debug("row upsert failed, dropping", "entity", entity, "error", err)
					continue
				}
				total++
			}
			continue
		}

		total += len(batch)
		l.logger.Info("batch upserted", "entity", entity, "written", total, "of", len(records))
	}

	l.metrics.RowsUpserted.WithLabelValues(entity).Add(float64(total))
	return total, nil
}
