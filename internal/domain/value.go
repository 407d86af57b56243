package domain

import (
	"strconv"
	"strings"
)

// missingMarker is the explicit NDBC "no data" token.
const missingMarker = "MM"

// sentinelValues are the legacy missing-data magnitudes. The feed picks one
// per field to be physically impossible at that field's scale.
var sentinelValues = [...]float64{99.0, 999.0, 9999.0}

// ParseValue interprets a raw feed token as an optional measurement value.
// Empty tokens, the "MM" marker, unparseable tokens, and sentinel magnitudes
// all return nil. The value is never unit-converted.
func ParseValue(token string) *float64 {
	token = strings.TrimSpace(token)
	if token == "" || token == missingMarker {
		return nil
	}

	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	for _, s := range sentinelValues {
		if v == s {
			return nil
		}
	}
	return &v
}
