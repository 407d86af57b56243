package feed

import (
	"strings"

	"github.com/marinewx/ndbc-ingest/internal/domain"
)

// maxStationNameLen bounds the name column; some station table entries carry
// long descriptive labels.
const maxStationNameLen = 200

// minStationFields is the least number of non-empty pipe-delimited fields a
// usable station row can have: id, name, latitude, longitude.
const minStationFields = 4

// ParseStationTable parses station_table.txt, a pipe-delimited table like:
//
//	| 41001 | LLNR 815 - 150 NM East of Cape HATTERAS | 34.700 N | 72.700 W | ...
//
// It returns the stations that passed every structural check and the number
// of candidate rows that were dropped. Comment lines, separator decoration,
// and the header row are skipped without counting; rows with too few fields,
// a non-buoy identifier, or an unparseable coordinate are dropped. A station
// is never emitted with a missing coordinate.
func ParseStationTable(text string, regions domain.RegionTable) ([]domain.Station, int) {
	var stations []domain.Station
	dropped := 0

	for _, line := range dataLines(text) {
		if strings.HasPrefix(line, "|--") {
			continue
		}

		var fields []string
		for _, f := range strings.Split(line, "|") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
		if len(fields) < minStationFields {
			dropped++
			continue
		}

		id := fields[0]
		if lower := strings.ToLower(id); lower == "station" || lower == "stn" {
			// Header row.
			continue
		}
		if !stationIDRe.MatchString(id) {
			dropped++
			continue
		}

		lat := domain.ParseCoordinate(fields[2])
		lon := domain.ParseCoordinate(fields[3])
		if lat == nil || lon == nil {
			dropped++
			continue
		}

		name := fields[1]
		if len(name) > maxStationNameLen {
			name = name[:maxStationNameLen]
		}

		stations = append(stations, domain.Station{
			ID:        id,
			Name:      name,
			Latitude:  *lat,
			Longitude: *lon,
			Region:    regions.Classify(id),
			Type:      domain.StationTypeBuoy,
			IsActive:  true,
		})
	}

	return stations, dropped
}
