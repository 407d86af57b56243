package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const realtimeSample = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi  hPa    ft
2026 08 29 14 50  230  8.0 10.5   1.5     7   5.1 190 1016.1  26.1  27.4  24.3   MM -1.2    MM
2026 08 29 13 50   MM   MM   MM  99.0    MM    MM 999 9999.0  25.8  27.3    MM   MM   MM    MM
2026 08 29 MM 50  230  8.0 10.5   1.5     7   5.1 190 1016.1  26.1  27.4  24.3   MM -1.2    MM
2026 08 29 12
2026 08 29 12 50  225  7.5  9.8   1.4     6   5.0 185 1016.4  26.0  27.4  24.1   MM -1.0    MM
`

func TestParseStationRealtime(t *testing.T) {
	measurements, dropped := ParseStationRealtime("41001", realtimeSample)

	require.Len(t, measurements, 3)
	assert.Equal(t, 2, dropped) // bad hour field, short row

	for _, m := range measurements {
		assert.Equal(t, "41001", m.StationID)
	}

	m := measurements[0]
	assert.Equal(t, time.Date(2026, 8, 29, 14, 50, 0, 0, time.UTC), m.ObservedAt)
	require.NotNil(t, m.WindDirection)
	assert.InDelta(t, 230, *m.WindDirection, 1e-9)
	require.NotNil(t, m.WindSpeed)
	assert.InDelta(t, 8.0, *m.WindSpeed, 1e-9)
	require.NotNil(t, m.WaveHeight)
	assert.InDelta(t, 1.5, *m.WaveHeight, 1e-9)
	assert.Nil(t, m.Visibility) // MM
}

// The realtime layout is offset from latest_obs: WDIR starts at column 5 and
// MWD sits at column 11, with APD at 10 skipped. The sample row has APD=5.1
// and MWD=190.
func TestParseStationRealtime_ColumnMap(t *testing.T) {
	measurements, _ := ParseStationRealtime("41001", realtimeSample)
	require.NotEmpty(t, measurements)

	m := measurements[0]
	require.NotNil(t, m.DominantPeriod)
	assert.InDelta(t, 7, *m.DominantPeriod, 1e-9)
	require.NotNil(t, m.WaveDirection)
	assert.InDelta(t, 190, *m.WaveDirection, 1e-9)
	require.NotNil(t, m.Pressure)
	assert.InDelta(t, 1016.1, *m.Pressure, 1e-9)
	require.NotNil(t, m.AirTemp)
	assert.InDelta(t, 26.1, *m.AirTemp, 1e-9)
	require.NotNil(t, m.WaterTemp)
	assert.InDelta(t, 27.4, *m.WaterTemp, 1e-9)
	require.NotNil(t, m.Dewpoint)
	assert.InDelta(t, 24.3, *m.Dewpoint, 1e-9)
}

func TestParseStationRealtime_SentinelsBecomeNil(t *testing.T) {
	measurements, _ := ParseStationRealtime("41001", realtimeSample)
	require.Len(t, measurements, 3)

	m := measurements[1]
	assert.Equal(t, time.Date(2026, 8, 29, 13, 50, 0, 0, time.UTC), m.ObservedAt)
	assert.Nil(t, m.WindDirection)
	assert.Nil(t, m.WaveHeight)    // 99.0
	assert.Nil(t, m.WaveDirection) // 999
	assert.Nil(t, m.Pressure)      // 9999.0
	require.NotNil(t, m.AirTemp)
	assert.InDelta(t, 25.8, *m.AirTemp, 1e-9)
}

func TestParseStationRealtime_RowsStayTimeOrdered(t *testing.T) {
	measurements, _ := ParseStationRealtime("41001", realtimeSample)
	require.Len(t, measurements, 3)

	// Feed order is newest first; the parser must not reorder.
	assert.True(t, measurements[0].ObservedAt.After(measurements[1].ObservedAt))
	assert.True(t, measurements[1].ObservedAt.After(measurements[2].ObservedAt))
}

func TestParseStationRealtime_Empty(t *testing.T) {
	measurements, dropped := ParseStationRealtime("41001", "")
	assert.Empty(t, measurements)
	assert.Zero(t, dropped)
}
