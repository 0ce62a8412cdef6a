// Package client is an HTTP client for the stationreg discovery API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to a stationreg serve daemon.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *slog.Logger // Optional logger for client operations
}

// DefaultConfig returns default client configuration
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://127.0.0.1:8899/api",
		Timeout: 10 * time.Second,
	}
}

// New creates a new stationreg API client
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Client{
		baseURL: config.BaseURL,
		logger:  config.Logger,
		client:  &http.Client{Timeout: config.Timeout},
	}
}

// IsReachable checks if the daemon is running and reachable
func (c *Client) IsReachable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("daemon unreachable", "error", err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode == http.StatusOK
}

// ListStations returns all discovered stations. When aliveOnly is true
// only stations with a live process are returned.
func (c *Client) ListStations(ctx context.Context, aliveOnly bool) ([]StationStatus, error) {
	u := c.baseURL + "/stations"
	if aliveOnly {
		u += "?alive=true"
	}
	var stations []StationStatus
	if err := c.getJSON(ctx, u, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetStation returns one station's record with liveness.
func (c *Client) GetStation(ctx context.Context, name string) (StationStatus, error) {
	var st StationStatus
	if err := c.getJSON(ctx, c.baseURL+"/stations/"+name, &st); err != nil {
		return StationStatus{}, err
	}
	return st, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("api status %d: %s", resp.StatusCode, e.Error)
		}
		return fmt.Errorf("api status %d", resp.StatusCode)
	}
	return json.Unmarshal(body, out)
}
