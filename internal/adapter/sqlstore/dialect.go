package sqlstore

import (
	"fmt"
	"strings"
)

// dialect captures the differences between the two supported backends:
// driver registration name, placeholder syntax, and DDL types.
type dialect struct {
	name       string
	driverName string
	schema     []string
	// numbered reports whether placeholders are $N (postgres) or ? (sqlite).
	numbered bool
}

func (d dialect) placeholder(n int) string {
	if d.numbered {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// valuesClause renders the VALUES list for a rows×cols insert:
// "($1,$2),($3,$4)" or "(?,?),(?,?)".
func (d dialect) valuesClause(rows, cols int) string {
	var b strings.Builder
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			b.WriteString(d.placeholder(n))
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

var postgresDialect = dialect{
	name:       "postgres",
	driverName: "pgx",
	numbered:   true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			region TEXT NOT NULL,
			station_type TEXT NOT NULL,
			is_active BOOLEAN NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		// No foreign key to stations: a measurement may legitimately arrive
		// before its station row exists.
		`CREATE TABLE IF NOT EXISTS measurements (
			station_id TEXT NOT NULL,
			observed_at TIMESTAMPTZ NOT NULL,
			wind_direction DOUBLE PRECISION,
			wind_speed DOUBLE PRECISION,
			wind_gust DOUBLE PRECISION,
			wave_height DOUBLE PRECISION,
			dominant_period DOUBLE PRECISION,
			wave_direction DOUBLE PRECISION,
			pressure DOUBLE PRECISION,
			air_temp DOUBLE PRECISION,
			water_temp DOUBLE PRECISION,
			dewpoint DOUBLE PRECISION,
			visibility DOUBLE PRECISION,
			PRIMARY KEY (station_id, observed_at)
		)`,
		`CREATE TABLE IF NOT EXISTS ingestion_runs (
			id BIGSERIAL PRIMARY KEY,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ,
			stations_count INTEGER NOT NULL DEFAULT 0,
			measurements_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT ''
		)`,
	},
}

var sqliteDialect = dialect{
	name:       "sqlite",
	driverName: "sqlite",
	numbered:   false,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS stations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			region TEXT NOT NULL,
			station_type TEXT NOT NULL,
			is_active BOOLEAN NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS measurements (
			station_id TEXT NOT NULL,
			observed_at TIMESTAMP NOT NULL,
			wind_direction REAL,
			wind_speed REAL,
			wind_gust REAL,
			wave_height REAL,
			dominant_period REAL,
			wave_direction REAL,
			pressure REAL,
			air_temp REAL,
			water_temp REAL,
			dewpoint REAL,
			visibility REAL,
			PRIMARY KEY (station_id, observed_at)
		)`,
		`CREATE TABLE IF NOT EXISTS ingestion_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			stations_count INTEGER NOT NULL DEFAULT 0,
			measurements_count INTEGER NOT NULL DEFAULT 0,
			error_message TEXT NOT NULL DEFAULT ''
		)`,
	},
}
