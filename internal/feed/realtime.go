package feed

import (
	"strings"

	"github.com/marinewx/ndbc-ingest/internal/domain"
)

// realtime2/{ID}.txt row layout. The station is implied by the URL, so
// rows start directly with the timestamp. Header for reference:
//
//	#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
//
// This layout is NOT the latest_obs.txt layout: every column after the
// timestamp sits three positions earlier, and APD here is column 10. The
// two constant blocks are kept separate on purpose.
const (
	rtColYear       = 0 // year through minute occupy columns 0–4
	rtColWindDir    = 5
	rtColWindSpeed  = 6
	rtColGust       = 7
	rtColWaveHeight = 8
	rtColDomPeriod  = 9
	rtColAvgPeriod  = 10 // skipped
	rtColWaveDir    = 11
	rtColPressure   = 12
	rtColAirTemp    = 13
	rtColWaterTemp  = 14
	rtColDewpoint   = 15
	rtColVisibility = 16

	rtMinColumns = 17
)

// ParseStationRealtime parses a single station's realtime2 feed, roughly 45
// days of time-ordered observations. The station identifier comes from the
// caller, not the rows. Row failure policy matches the other parsers: drop,
// count, continue.
func ParseStationRealtime(stationID, text string) ([]domain.Measurement, int) {
	var measurements []domain.Measurement
	dropped := 0

	for _, line := range dataLines(text) {
		fields := strings.Fields(line)
		if len(fields) < rtMinColumns {
			dropped++
			continue
		}

		ts, ok := observedAt(fields, rtColYear)
		if !ok {
			dropped++
			continue
		}

		measurements = append(measurements, domain.Measurement{
			StationID:      stationID,
			ObservedAt:     ts,
			WindDirection:  domain.ParseValue(fields[rtColWindDir]),
			WindSpeed:      domain.ParseValue(fields[rtColWindSpeed]),
			WindGust:       domain.ParseValue(fields[rtColGust]),
			WaveHeight:     domain.ParseValue(fields[rtColWaveHeight]),
			DominantPeriod: domain.ParseValue(fields[rtColDomPeriod]),
			WaveDirection:  domain.ParseValue(fields[rtColWaveDir]),
			Pressure:       domain.ParseValue(fields[rtColPressure]),
			AirTemp:        domain.ParseValue(fields[rtColAirTemp]),
			WaterTemp:      domain.ParseValue(fields[rtColWaterTemp]),
			Dewpoint:       domain.ParseValue(fields[rtColDewpoint]),
			Visibility:     domain.ParseValue(fields[rtColVisibility]),
		})
	}

	return measurements, dropped
}
