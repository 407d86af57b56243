package domain

import "time"

// StationTypeBuoy is the station_type recorded for every station this
// pipeline produces; other types (C-MAN, ships) never pass the ID filter.
const StationTypeBuoy = "buoy"

// Station is one fixed sensor platform from the NDBC station table.
type Station struct {
	ID        string  // five-digit NDBC identifier, natural key
	Name      string  // human-readable label, truncated upstream
	Latitude  float64 // signed decimal degrees
	Longitude float64 // signed decimal degrees
	Region    string  // see RegionTable
	Type      string
	IsActive  bool
}

// Measurement is one timestamped observation for a station. The pair
// (StationID, ObservedAt) identifies it; every numeric field is
// independently optional and nil means the source reported no data.
type Measurement struct {
	StationID  string
	ObservedAt time.Time // always UTC

	WindDirection  *float64 // degrees true
	WindSpeed      *float64 // m/s
	WindGust       *float64 // m/s
	WaveHeight     *float64 // meters
	DominantPeriod *float64 // seconds
	WaveDirection  *float64 // degrees true
	Pressure       *float64 // hPa
	AirTemp        *float64 // °C
	WaterTemp      *float64 // °C
	Dewpoint       *float64 // °C
	Visibility     *float64 // nautical miles
}

// Run statuses. A run is created as running and moves exactly once to
// success or error.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// IngestionRun is the audit record for one pipeline invocation.
type IngestionRun struct {
	ID                int64
	Source            string
	Status            string
	StartedAt         time.Time
	FinishedAt        *time.Time
	StationsCount     int
	MeasurementsCount int
	ErrorMessage      string
}
