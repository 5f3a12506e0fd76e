// Package staticfeed fetches the two published snapshot JSON files over
// HTTP. The files are produced out-of-band by the collector and served as
// static assets.
package staticfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "staticfeed"

	// DefaultStationsPath is the station directory file path.
	DefaultStationsPath = "/data/stations_with_coords.json"

	// DefaultReadingsPath is the latest-readings file path.
	DefaultReadingsPath = "/data/air-quality.json"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the static feed client.
type ClientConfig struct {
	// BaseURL is the host serving the snapshot files (required).
	BaseURL string

	// StationsPath and ReadingsPath override the default file paths.
	StationsPath string
	ReadingsPath string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client is created.
	HTTPClient HTTPDoer

	// Timeout for individual fetches (default: 10s).
	Timeout time.Duration
}

// Client fetches snapshot files from a static file host.
type Client struct {
	baseURL      string
	stationsPath string
	readingsPath string
	httpClient   HTTPDoer
}

// NewClient creates a new static feed client.
func NewClient(cfg ClientConfig) *Client {
	stationsPath := cfg.StationsPath
	if stationsPath == "" {
		stationsPath = DefaultStationsPath
	}
	readingsPath := cfg.ReadingsPath
	if readingsPath == "" {
		readingsPath = DefaultReadingsPath
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "staticfeed",
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		stationsPath: stationsPath,
		readingsPath: readingsPath,
		httpClient:   httpClient,
	}
}

// FetchSnapshot fetches both snapshot files and combines them. The two
// fetches have no data dependency, so they run concurrently.
func (c *Client) FetchSnapshot(ctx context.Context) (*airquality.Snapshot, error) {
	type fileResult struct {
		body []byte
		err  error
	}

	stationsCh := make(chan fileResult, 1)
	readingsCh := make(chan fileResult, 1)

	go func() {
		body, err := c.fetchFile(ctx, c.stationsPath)
		stationsCh <- fileResult{body, err}
	}()
	go func() {
		body, err := c.fetchFile(ctx, c.readingsPath)
		readingsCh <- fileResult{body, err}
	}()

	stationsRes := <-stationsCh
	readingsRes := <-readingsCh

	if stationsRes.err != nil {
		return nil, fmt.Errorf("fetch stations file: %w", stationsRes.err)
	}
	if readingsRes.err != nil {
		return nil, fmt.Errorf("fetch readings file: %w", readingsRes.err)
	}

	stations, err := airquality.DecodeStationsFile(stationsRes.body)
	if err != nil {
		return nil, err
	}
	readings, err := airquality.DecodeReadingsFile(readingsRes.body)
	if err != nil {
		return nil, err
	}

	return airquality.BuildSnapshot(ProviderName, stations, readings), nil
}

// fetchFile retrieves one snapshot file.
func (c *Client) fetchFile(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	return io.ReadAll(resp.Body)
}
