// Package config loads pipeline settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/marinewx/ndbc-ingest/internal/adapter/ndbc"
	"github.com/marinewx/ndbc-ingest/internal/adapter/sqlstore"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	NDBCBaseURL    string
	RequestTimeout time.Duration

	StationBatchSize     int
	MeasurementBatchSize int

	LogLevel  string
	LogFormat string

	// PushgatewayURL is optional; when set, run metrics are pushed there.
	PushgatewayURL string
}

// Default DSNs keep local runs working without any environment, mirroring
// the driver defaults: a local Postgres for production-shaped runs, a file
// for sqlite.
const (
	defaultPostgresDSN = "postgres://localhost/buoys?sslmode=disable"
	defaultSqliteDSN   = "buoys.db"
)

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	stationBatch, err := parseInt("STATION_BATCH_SIZE", 200)
	if err != nil {
		return nil, err
	}
	measurementBatch, err := parseInt("MEASUREMENT_BATCH_SIZE", 500)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseDriver:       envOrDefault("DATABASE_DRIVER", sqlstore.DriverPostgres),
		DatabaseDSN:          os.Getenv("DATABASE_DSN"),
		NDBCBaseURL:          envOrDefault("NDBC_BASE_URL", ndbc.DefaultBaseURL),
		RequestTimeout:       timeout,
		StationBatchSize:     stationBatch,
		MeasurementBatchSize: measurementBatch,
		LogLevel:             envOrDefault("LOG_LEVEL", "info"),
		LogFormat:            envOrDefault("LOG_FORMAT", "json"),
		PushgatewayURL:       os.Getenv("PUSHGATEWAY_URL"),
	}

	switch cfg.DatabaseDriver {
	case sqlstore.DriverPostgres:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = defaultPostgresDSN
		}
	case sqlstore.DriverSqlite:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = defaultSqliteDSN
		}
	default:
		return nil, fmt.Errorf("invalid DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	if cfg.RequestTimeout <= 0 {
		return nil, errors.New("REQUEST_TIMEOUT must be positive")
	}
	if cfg.StationBatchSize <= 0 || cfg.MeasurementBatchSize <= 0 {
		return nil, errors.New("batch sizes must be positive")
	}

	return cfg, nil
}

// LoadStationList reads a YAML file holding a list of station identifiers
// for the historical fetch, e.g.:
//
//	- "41001"
//	- "46042"
func LoadStationList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read station list: %w", err)
	}

	var stations []string
	if err := yaml.Unmarshal(data, &stations); err != nil {
		return nil, fmt.Errorf("parse station list %s: %w", path, err)
	}
	if len(stations) == 0 {
		return nil, fmt.Errorf("station list %s is empty", path)
	}
	return stations, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return n, nil
}

func parseDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}
