// Package ndbc fetches the NDBC plain-text feeds over HTTP.
package ndbc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the NDBC data root.
const DefaultBaseURL = "https://www.ndbc.noaa.gov/data"

// Client fetches station and observation feeds from an NDBC data root.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a feed client. The timeout bounds each request,
// including reading the body.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// StationTable fetches the full station catalog feed.
func (c *Client) StationTable(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.baseURL+"/stations/station_table.txt")
}

// LatestObservations fetches the all-stations snapshot feed.
func (c *Client) LatestObservations(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.baseURL+"/latest_obs/latest_obs.txt")
}

// StationRealtime fetches one station's recent-observation feed. Stations
// without a realtime feed return 404; the caller decides whether that is
// fatal (for per-station history it is not).
func (c *Client) StationRealtime(ctx context.Context, stationID string) (string, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/realtime2/%s.txt", c.baseURL, stationID))
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}

	c.logger.Debug("feed fetched", "url", url, "bytes", len(body), "duration", time.Since(start))
	return string(body), nil
}
