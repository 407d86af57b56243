// Package sqlstore persists stations, measurements, and ingestion-run audit
// records to a relational database. Two backends are wired: Postgres (via
// the pgx stdlib driver) for production and SQLite (modernc, pure Go) for
// local runs and tests. Upserts are keyed on the natural keys — station id,
// and (station_id, observed_at) for measurements — so re-ingestion
// overwrites instead of duplicating.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register the pure-Go sqlite driver

	"github.com/marinewx/ndbc-ingest/internal/domain"
)

const (
	// DriverPostgres and DriverSqlite are the accepted DATABASE_DRIVER values.
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// Store is a relational upsert store for the ingestion pipeline.
type Store struct {
	db      *sql.DB
	dialect dialect
	logger  *slog.Logger
}

// Open connects to the configured backend and applies the schema DDL.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*Store, error) {
	var d dialect
	switch driver {
	case DriverPostgres:
		d = postgresDialect
	case DriverSqlite:
		d = sqliteDialect
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	s := &Store{db: db, dialect: d, logger: logger}
	if err := s.applySchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) applySchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var stationColumns = []string{
	"id", "name", "latitude", "longitude", "region", "station_type", "is_active", "updated_at",
}

// UpsertStations writes one batch of stations in a single statement,
// overwriting rows that share an id.
func (s *Store) UpsertStations(ctx context.Context, stations []domain.Station) error {
	if len(stations) == 0 {
		return nil
	}

	now := clock.Now().UTC()
	args := make([]any, 0, len(stations)*len(stationColumns))
	for _, st := range stations {
		args = append(args, st.ID, st.Name, st.Latitude, st.Longitude, st.Region, st.Type, st.IsActive, now)
	}

	query := fmt.Sprintf(`INSERT INTO stations (%s) VALUES %s
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			region = excluded.region,
			station_type = excluded.station_type,
			is_active = excluded.is_active,
			updated_at = excluded.updated_at`,
		joinColumns(stationColumns),
		s.dialect.valuesClause(len(stations), len(stationColumns)),
	)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d stations: %w", len(stations), err)
	}
	return nil
}

var measurementColumns = []string{
	"station_id", "observed_at",
	"wind_direction", "wind_speed", "wind_gust",
	"wave_height", "dominant_period", "wave_direction",
	"pressure", "air_temp", "water_temp", "dewpoint", "visibility",
}

// UpsertMeasurements writes one batch of measurements in a single statement,
// overwriting rows that share (station_id, observed_at). A batch containing
// the same key twice fails on Postgres ("cannot affect row a second time");
// callers are expected to degrade to per-row writes on batch failure.
func (s *Store) UpsertMeasurements(ctx context.Context, measurements []domain.Measurement) error {
	if len(measurements) == 0 {
		return nil
	}

	args := make([]any, 0, len(measurements)*len(measurementColumns))
	for _, m := range measurements {
		args = append(args,
			m.StationID, m.ObservedAt.UTC(),
			m.WindDirection, m.WindSpeed, m.WindGust,
			m.WaveHeight, m.DominantPeriod, m.WaveDirection,
			m.Pressure, m.AirTemp, m.WaterTemp, m.Dewpoint, m.Visibility,
		)
	}

	query := fmt.Sprintf(`INSERT INTO measurements (%s) VALUES %s
		ON CONFLICT (station_id, observed_at) DO UPDATE SET
			wind_direction = excluded.wind_direction,
			wind_speed = excluded.wind_speed,
			wind_gust = excluded.wind_gust,
			wave_height = excluded.wave_height,
			dominant_period = excluded.dominant_period,
			wave_direction = excluded.wave_direction,
			pressure = excluded.pressure,
			air_temp = excluded.air_temp,
			water_temp = excluded.water_temp,
			dewpoint = excluded.dewpoint,
			visibility = excluded.visibility`,
		joinColumns(measurementColumns),
		s.dialect.valuesClause(len(measurements), len(measurementColumns)),
	)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d measurements: %w", len(measurements), err)
	}
	return nil
}

// BeginRun inserts a new audit record in the running state and returns its id.
func (s *Store) BeginRun(ctx context.Context, source string) (int64, error) {
	query := fmt.Sprintf(
		`INSERT INTO ingestion_runs (source, status, started_at) VALUES (%s,%s,%s) RETURNING id`,
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3),
	)

	var id int64
	if err := s.db.QueryRowContext(ctx, query, source, domain.RunStatusRunning, clock.Now().UTC()).Scan(&id); err != nil {
		return 0, fmt.Errorf("begin ingestion run: %w", err)
	}
	return id, nil
}

// CompleteRun moves a run to its terminal success state with final counts.
func (s *Store) CompleteRun(ctx context.Context, id int64, stations, measurements int) error {
	query := fmt.Sprintf(
		`UPDATE ingestion_runs SET status = %s, finished_at = %s, stations_count = %s, measurements_count = %s WHERE id = %s`,
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3),
		s.dialect.placeholder(4), s.dialect.placeholder(5),
	)

	if _, err := s.db.ExecContext(ctx, query,
		domain.RunStatusSuccess, clock.Now().UTC(), stations, measurements, id); err != nil {
		return fmt.Errorf("complete ingestion run %d: %w", id, err)
	}
	return nil
}

// FailRun moves a run to its terminal error state. The message is expected
// to be pre-truncated by the caller.
func (s *Store) FailRun(ctx context.Context, id int64, message string) error {
	query := fmt.Sprintf(
		`UPDATE ingestion_runs SET status = %s, finished_at = %s, error_message = %s WHERE id = %s`,
		s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3), s.dialect.placeholder(4),
	)

	if _, err := s.db.ExecContext(ctx, query,
		domain.RunStatusError, clock.Now().UTC(), message, id); err != nil {
		return fmt.Errorf("fail ingestion run %d: %w", id, err)
	}
	return nil
}

// Run reads one audit record back; used by tests and operational tooling.
func (s *Store) Run(ctx context.Context, id int64) (domain.IngestionRun, error) {
	query := fmt.Sprintf(
		`SELECT id, source, status, started_at, finished_at, stations_count, measurements_count, error_message
		 FROM ingestion_runs WHERE id = %s`,
		s.dialect.placeholder(1),
	)

	var run domain.IngestionRun
	var finished sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Source, &run.Status, &run.StartedAt, &finished,
		&run.StationsCount, &run.MeasurementsCount, &run.ErrorMessage,
	)
	if err != nil {
		return domain.IngestionRun{}, fmt.Errorf("read ingestion run %d: %w", id, err)
	}
	if finished.Valid {
		run.FinishedAt = &finished.Time
	}
	return run, nil
}

func joinColumns(cols []string) string { return strings.Join(cols, ", ") }
