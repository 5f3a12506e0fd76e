// Package airkorea provides a client for the AirKorea real-time
// measurement open API, used by the collector to produce the readings
// snapshot file.
package airkorea

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this provider.
	ProviderName = "airkorea"

	// DefaultBaseURL is the measurement-by-station endpoint.
	DefaultBaseURL = "https://apis.data.go.kr/B552584/ArpltnInforInqireSvc"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the AirKorea client.
type ClientConfig struct {
	// ServiceKey is the open-data portal service key (required).
	ServiceKey string

	// BaseURL overrides the API base URL.
	BaseURL string

	// HTTPClient is the HTTP client to use. If nil, a default resilient
	// client is created; the API is slow, so the timeout default is 12s.
	HTTPClient HTTPDoer
}

// Client is an AirKorea measurement API client.
type Client struct {
	serviceKey string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new AirKorea client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            "airkorea",
			Timeout:         12 * time.Second,
			MaxRetries:      3,
			InitialInterval: 250 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		})
	}

	return &Client{
		serviceKey: cfg.ServiceKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// API response types. Schema version 1.3 keeps the value fields consistent.

type measureResponse struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body struct {
			Items []measureItem `json:"items"`
		} `json:"body"`
	} `json:"response"`
}

type measureItem struct {
	PM10Value string `json:"pm10Value"`
	PM25Value string `json:"pm25Value"`
	DataTime  string `json:"dataTime"`
}

// FetchReading retrieves the latest reading for one station. Stations that
// are offline report "-" for a pollutant; those come back as nil values in
// the reading, not as errors.
func (c *Client) FetchReading(ctx context.Context, stationName string) (*airquality.Reading, error) {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("returnType", "json")
	q.Set("numOfRows", "1")
	q.Set("pageNo", "1")
	q.Set("stationName", stationName)
	q.Set("dataTerm", "DAILY")
	q.Set("ver", "1.3")

	reqURL := c.baseURL + "/getMsrstnAcctoRltmMesureDnsty?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch reading for %s: %w", stationName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for station %s", resp.StatusCode, stationName)
	}

	var result measureResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode reading response: %w", err)
	}

	items := result.Response.Body.Items
	if len(items) == 0 {
		header := result.Response.Header
		return nil, fmt.Errorf("no items for station %s: resultCode=%s resultMsg=%s",
			stationName, header.ResultCode, header.ResultMsg)
	}

	item := items[0]
	return &airquality.Reading{
		PM10:     parseValue(item.PM10Value),
		PM25:     parseValue(item.PM25Value),
		DataTime: item.DataTime,
	}, nil
}

// parseValue converts an API value string to a float pointer. The feed uses
// "-" and the empty string for missing values.
func parseValue(v string) *float64 {
	if v == "" || v == "-" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}
