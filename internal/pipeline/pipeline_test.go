package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marinewx/ndbc-ingest/internal/domain"
	"github.com/marinewx/ndbc-ingest/internal/observability"
	"github.com/marinewx/ndbc-ingest/internal/pipeline"
)

const (
	testStationTable = `| 41001 | EAST HATTERAS | 34.700 N | 72.700 W |
| 46042 | MONTEREY | 36.785 N | 122.469 W |
`
	testLatestObs = `#STN LAT LON YYYY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS TIDE
41001 34.70 -72.70 2026 08 29 14 50 230 8.0 10.5 1.5 7 5.1 190 1016.1 26.1 27.4 24.3 MM MM
46042 36.79 -122.47 2026 08 29 14 50 310 5.5 7.0 2.1 9 6.3 280 1014.0 15.2 14.8 12.0 MM MM
`
	testRealtime = `#YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE
2026 08 29 14 50 230 8.0 10.5 1.5 7 5.1 190 1016.1 26.1 27.4 24.3 MM -1.2 MM
2026 08 29 13 50 225 7.5 9.8 1.4 6 5.0 185 1016.4 26.0 27.4 24.1 MM -1.0 MM
`
)

// --- mocks ---

type mockFetcher struct {
	stationTableErr error
	latestObsErr    error
	realtimeErrs    map[string]error // per-station fetch failures
	realtimeCalls   []string
}

func (m *mockFetcher) StationTable(context.Context) (string, error) {
	if m.stationTableErr != nil {
		return "", m.stationTableErr
	}
	return testStationTable, nil
}

func (m *mockFetcher) LatestObservations(context.Context) (string, error) {
	if m.latestObsErr != nil {
		return "", m.latestObsErr
	}
	return testLatestObs, nil
}

func (m *mockFetcher) StationRealtime(_ context.Context, stationID string) (string, error) {
	m.realtimeCalls = append(m.realtimeCalls, stationID)
	if err, ok := m.realtimeErrs[stationID]; ok {
		return "", err
	}
	return testRealtime, nil
}

type mockLoader struct {
	stations     []domain.Station
	measurements []domain.Measurement
}

func (m *mockLoader) LoadStations(_ context.Context, stations []domain.Station) (int, error) {
	m.stations = append(m.stations, stations...)
	return len(stations), nil
}

func (m *mockLoader) LoadMeasurements(_ context.Context, measurements []domain.Measurement) (int, error) {
	m.measurements = append(m.measurements, measurements...)
	return len(measurements), nil
}

// mockAudit captures the audit record lifecycle.
type mockAudit struct {
	begun        int
	beginErr     error
	status       string
	stations     int
	measurements int
	errorMessage string
}

func (m *mockAudit) BeginRun(context.Context, string) (int64, error) {
	if m.beginErr != nil {
		return 0, m.beginErr
	}
	m.begun++
	m.status = domain.RunStatusRunning
	return 77, nil
}

func (m *mockAudit) CompleteRun(_ context.Context, _ int64, stations, measurements int) error {
	m.status = domain.RunStatusSuccess
	m.stations = stations
	m.measurements = measurements
	return nil
}

func (m *mockAudit) FailRun(_ context.Context, _ int64, message string) error {
	m.status = domain.RunStatusError
	m.errorMessage = message
	return nil
}

func newPipeline(f pipeline.Fetcher, l pipeline.Loader, a pipeline.AuditStore) *pipeline.Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pipeline.New(f, l, a, domain.DefaultRegionTable(), "ndbc", logger, observability.NewMetricsForTesting())
}

// --- tests ---

func TestRunSuccessWithoutHistory(t *testing.T) {
	fetcher := &mockFetcher{}
	ldr := &mockLoader{}
	audit := &mockAudit{}

	err := newPipeline(fetcher, ldr, audit).Run(context.Background(), pipeline.Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, audit.begun)
	assert.Equal(t, domain.RunStatusSuccess, audit.status)
	assert.Equal(t, 2, audit.stations)
	assert.Equal(t, 2, audit.measurements)
	assert.Empty(t, fetcher.realtimeCalls)

	require.Len(t, ldr.stations, 2)
	assert.Equal(t, "41001", ldr.stations[0].ID)
	assert.Equal(t, domain.RegionAtlantic, ldr.stations[0].Region)
}

func TestRunWithHistoryUsesDefaultStationList(t *testing.T) {
	fetcher := &mockFetcher{}
	ldr := &mockLoader{}
	audit := &mockAudit{}

	err := newPipeline(fetcher, ldr, audit).Run(context.Background(), pipeline.Options{FetchHistorical: true})
	require.NoError(t, err)

	assert.Equal(t, pipeline.DefaultHistoricalStations(), fetcher.realtimeCalls)
	// 2 latest + 2 history rows per default station.
	assert.Equal(t, 2+2*len(pipeline.DefaultHistoricalStations()), audit.measurements)
}

func TestRunWithExplicitStationList(t *testing.T) {
	fetcher := &mockFetcher{}
	ldr := &mockLoader{}
	audit := &mockAudit{}

	opts := pipeline.Options{FetchHistorical: true, HistoricalStations: []string{"41001", "46042"}}
	err := newPipeline(fetcher, ldr, audit).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, []string{"41001", "46042"}, fetcher.realtimeCalls)
	assert.Equal(t, 6, audit.measurements)
}

func TestRunHistoryFailureSkipsOnlyThatStation(t *testing.T) {
	fetcher := &mockFetcher{realtimeErrs: map[string]error{"41001": errors.New("status 404")}}
	ldr := &mockLoader{}
	audit := &mockAudit{}

	opts := pipeline.Options{FetchHistorical: true, HistoricalStations: []string{"41001", "46042"}}
	err := newPipeline(fetcher, ldr, audit).Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, domain.RunStatusSuccess, audit.status)
	assert.Equal(t, []string{"41001", "46042"}, fetcher.realtimeCalls)
	assert.Equal(t, 4, audit.measurements) // 2 latest + 2 from 46042 only
}

func TestRunStationTableFailureIsFatal(t *testing.T) {
	fetcher := &mockFetcher{stationTableErr: errors.New("connection refused")}
	audit := &mockAudit{}

	err := newPipeline(fetcher, &mockLoader{}, audit).Run(context.Background(), pipeline.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch station table")

	assert.Equal(t, domain.RunStatusError, audit.status)
	assert.NotEmpty(t, audit.errorMessage)
}

func TestRunLatestObsFailureLeavesTerminalErrorRecord(t *testing.T) {
	fetcher := &mockFetcher{latestObsErr: errors.New("status 503")}
	audit := &mockAudit{}

	err := newPipeline(fetcher, &mockLoader{}, audit).Run(context.Background(), pipeline.Options{})
	require.Error(t, err)

	assert.Equal(t, 1, audit.begun)
	assert.Equal(t, domain.RunStatusError, audit.status)
	assert.Contains(t, audit.errorMessage, "fetch latest observations")
	assert.Contains(t, audit.errorMessage, "status 503")
}

func TestRunErrorMessageIsTruncated(t *testing.T) {
	longMsg := strings.Repeat("x", 2000)
	fetcher := &mockFetcher{latestObsErr: errors.New(longMsg)}
	audit := &mockAudit{}

	err := newPipeline(fetcher, &mockLoader{}, audit).Run(context.Background(), pipeline.Options{})
	require.Error(t, err)

	assert.Len(t, audit.errorMessage, 500)
	assert.NotEmpty(t, audit.errorMessage)
}

func TestRunBeginRunFailureAbortsBeforeFetch(t *testing.T) {
	fetcher := &mockFetcher{}
	audit := &mockAudit{beginErr: fmt.Errorf("database unreachable")}

	err := newPipeline(fetcher, &mockLoader{}, audit).Run(context.Background(), pipeline.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin ingestion run")
	assert.Zero(t, audit.begun)
}

func TestRunCancelledContextStillPersistsErrorState(t *testing.T) {
	fetcher := &mockFetcher{}
	audit := &mockAudit{}
	ldr := &mockLoader{}
	p := newPipeline(fetcher, ldr, audit)

	ctx, cancel := context.WithCancel(context.Background())
	audit2 := &cancellingAudit{mockAudit: audit, cancel: cancel}
	p = newPipeline(fetcher, ldr, audit2)

	err := p.Run(ctx, pipeline.Options{FetchHistorical: true, HistoricalStations: []string{"41001"}})
	require.Error(t, err)
	assert.Equal(t, domain.RunStatusError, audit.status)
}

// cancellingAudit cancels the run context right after the run record opens,
// simulating an interrupt mid-run.
type cancellingAudit struct {
	*mockAudit
	cancel context.CancelFunc
}

func (c *cancellingAudit) BeginRun(ctx context.Context, source string) (int64, error) {
	id, err := c.mockAudit.BeginRun(ctx, source)
	c.cancel()
	return id, err
}
