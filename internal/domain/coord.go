package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// coordRe matches station table coordinates like "34.700 N" or "72.700W".
var coordRe = regexp.MustCompile(`^([\d.]+)\s*([NSEWnsew])`)

// ParseCoordinate converts a "<degrees> <hemisphere>" token into signed
// decimal degrees. South and West negate the magnitude. Returns nil when the
// token does not match the expected shape or the magnitude is not a number.
func ParseCoordinate(token string) *float64 {
	m := coordRe.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return nil
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	switch strings.ToUpper(m[2]) {
	case "S", "W":
		v = -v
	}
	return &v
}
