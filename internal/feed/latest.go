package feed

import (
	"strings"

	"github.com/marinewx/ndbc-ingest/internal/domain"
)

// latest_obs.txt row layout. Header for reference:
//
//	#STN  LAT  LON  YYYY MM DD hh mm  WDIR WSPD GST  WVHT  DPD  APD MWD  PRES  ATMP  WTMP  DEWP  VIS  TIDE
//
// Wave direction is read from column 14 (MWD); column 13 (APD, average
// period) is present in the feed but not ingested. This skip matches the
// historical behavior of the pipeline and must not be "fixed" without
// verifying against the live feed.
const (
	latestColStation    = 0
	latestColYear       = 3 // year through minute occupy columns 3–7
	latestColWindDir    = 8
	latestColWindSpeed  = 9
	latestColGust       = 10
	latestColWaveHeight = 11
	latestColDomPeriod  = 12
	latestColAvgPeriod  = 13 // skipped
	latestColWaveDir    = 14
	latestColPressure   = 15
	latestColAirTemp    = 16
	latestColWaterTemp  = 17
	latestColDewpoint   = 18
	latestColVisibility = 19 // trailing, not always present

	latestMinColumns = 19
)

// ParseLatestObservations parses latest_obs.txt, one whitespace-delimited
// row per station holding that station's most recent reading. Rows shorter
// than the minimum column count, with a non-buoy identifier, or with any
// unparseable timestamp component are dropped and counted. Missing numeric
// fields never drop a row.
func ParseLatestObservations(text string) ([]domain.Measurement, int) {
	var measurements []domain.Measurement
	dropped := 0

	for _, line := range dataLines(text) {
		fields := strings.Fields(line)
		if len(fields) < latestMinColumns {
			dropped++
			continue
		}

		id := fields[latestColStation]
		if !stationIDRe.MatchString(id) {
			dropped++
			continue
		}

		ts, ok := observedAt(fields, latestColYear)
		if !ok {
			dropped++
			continue
		}

		m := domain.Measurement{
			StationID:      id,
			ObservedAt:     ts,
			WindDirection:  domain.ParseValue(fields[latestColWindDir]),
			WindSpeed:      domain.ParseValue(fields[latestColWindSpeed]),
			WindGust:       domain.ParseValue(fields[latestColGust]),
			WaveHeight:     domain.ParseValue(fields[latestColWaveHeight]),
			DominantPeriod: domain.ParseValue(fields[latestColDomPeriod]),
			WaveDirection:  domain.ParseValue(fields[latestColWaveDir]),
			Pressure:       domain.ParseValue(fields[latestColPressure]),
			AirTemp:        domain.ParseValue(fields[latestColAirTemp]),
			WaterTemp:      domain.ParseValue(fields[latestColWaterTemp]),
			Dewpoint:       domain.ParseValue(fields[latestColDewpoint]),
		}
		if len(fields) > latestColVisibility {
			m.Visibility = domain.ParseValue(fields[latestColVisibility])
		}
		measurements = append(measurements, m)
	}

	return measurements, dropped
}
