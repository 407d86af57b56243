package domain

import "strings"

// Region tags derived from station ID prefixes.
const (
	RegionAtlantic   = "atlantic"
	RegionGulf       = "gulf"
	RegionGreatLakes = "great_lakes"
	RegionPacific    = "pacific"
	RegionOther      = "other"
)

// RegionRule maps one station ID prefix to a region tag.
type RegionRule struct {
	Prefix string
	Region string
}

// RegionTable is an ordered prefix→region lookup. First match wins; the
// default table's prefixes are mutually exclusive by construction, so order
// only documents the rule, it never changes the result.
type RegionTable []RegionRule

// DefaultRegionTable returns the NDBC deployment-area mapping.
func DefaultRegionTable() RegionTable {
	return RegionTable{
		{Prefix: "41", Region: RegionAtlantic},   // Western Atlantic
		{Prefix: "42", Region: RegionGulf},       // Gulf of Mexico
		{Prefix: "44", Region: RegionAtlantic},   // Northeast US Atlantic
		{Prefix: "45", Region: RegionGreatLakes}, // Great Lakes
		{Prefix: "46", Region: RegionPacific},    // Northeast Pacific
		{Prefix: "51", Region: RegionPacific},    // Hawaii
		{Prefix: "52", Region: RegionPacific},    // Pacific Islands
	}
}

// Classify returns the region for a station identifier, or RegionOther when
// no prefix matches.
func (t RegionTable) Classify(stationID string) string {
	for _, rule := range t {
		if strings.HasPrefix(stationID, rule.Prefix) {
			return rule.Region
		}
	}
	return RegionOther
}
