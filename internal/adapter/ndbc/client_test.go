package ndbc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClientFetchesFeeds(t *testing.T) {
	var gotPaths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPaths = append(gotPaths, r.URL.Path)
		_, _ = w.Write([]byte("payload for " + r.URL.Path))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newTestLogger())
	ctx := context.Background()

	body, err := c.StationTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload for /stations/station_table.txt", body)

	body, err = c.LatestObservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload for /latest_obs/latest_obs.txt", body)

	body, err = c.StationRealtime(ctx, "41001")
	require.NoError(t, err)
	assert.Equal(t, "payload for /realtime2/41001.txt", body)

	assert.Equal(t, []string{
		"/stations/station_table.txt",
		"/latest_obs/latest_obs.txt",
		"/realtime2/41001.txt",
	}, gotPaths)
}

func TestClientNonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newTestLogger())

	_, err := c.StationRealtime(context.Background(), "99999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClientTimeoutIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("too late"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond, newTestLogger())

	_, err := c.LatestObservations(context.Background())
	require.Error(t, err)
}

func TestClientContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.StationTable(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stations/station_table.txt", r.URL.Path)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, newTestLogger())
	_, err := c.StationTable(context.Background())
	require.NoError(t, err)
}
