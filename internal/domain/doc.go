// Package domain models National Data Buoy Center (NDBC) stations and
// meteorological observations.
//
// # Data Sources
//
// The NDBC publishes plain-text feeds with no authentication:
//
//	Station table:  https://www.ndbc.noaa.gov/data/stations/station_table.txt
//	Latest obs:     https://www.ndbc.noaa.gov/data/latest_obs/latest_obs.txt
//	Realtime2:      https://www.ndbc.noaa.gov/data/realtime2/{ID}.txt
//
// The station table is pipe-delimited, one station per line, with comment
// lines ("#"-prefixed) and separator decoration ("|--"). The observation
// feeds are whitespace-delimited with fixed column positions; each feed has
// its own layout (see the feed package).
//
// # Missing-Value Conventions
//
// NDBC marks missing data two ways:
//
//	"MM" or an empty field — the explicit marker.
//	99.0 / 999.0 / 9999.0  — legacy sentinel magnitudes, chosen per field to
//	be physically impossible (a 999 hPa pressure is plausible; a 999 m wave
//	is not). The sentinel table cannot distinguish a real 99.0 from the
//	marker, a limitation inherited from the source format.
//
// [ParseValue] maps all of these to nil. No unit conversion is performed;
// values are stored in the units the feed publishes (m/s, meters, hPa, °C).
//
// # Coordinates
//
// Station positions appear as "<degrees> <hemisphere>", e.g. "34.700 N" or
// "72.700 W". South and West are negative. [ParseCoordinate] converts these
// to signed decimal degrees.
//
// # Station Identifiers
//
// Buoy station IDs are exactly five digits. The first two digits encode the
// deployment area, which [RegionTable.Classify] maps to a coarse region:
//
//	41, 44 → atlantic     (Western Atlantic, Northeast US)
//	42     → gulf         (Gulf of Mexico)
//	45     → great_lakes
//	46     → pacific      (Northeast Pacific)
//	51, 52 → pacific      (Hawaii, Pacific Islands)
//
// Non-numeric identifiers (ships, drifters, C-MAN stations) are excluded
// upstream by the station table parser.
package domain
