package kakao

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "kakao"

	// DefaultBaseURL is the Kakao Local API base URL.
	DefaultBaseURL = "https://dapi.kakao.com/v2/local"
)

// ClientConfig holds configuration for the Kakao Local client.
type ClientConfig struct {
	// APIKey is the Kakao REST API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the Kakao Local API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Kakao Local API client used for reverse geocoding.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

// NewClient creates a new Kakao Local client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig("kakao")
		clientCfg.Timeout = 10 * time.Second
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// ReverseGeocode resolves a coordinate to its administrative region name,
// e.g. "대전광역시 서구". The legal-district ("B") region is preferred and the
// name is the two top region depths joined with a space.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	// Kakao takes x=longitude, y=latitude.
	url := fmt.Sprintf("%s/geo/coord2regioncode.json?x=%.6f&y=%.6f", c.baseURL, lon, lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var kakaoResp regionCodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&kakaoResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	return regionName(&kakaoResp)
}

// regionName picks the legal-district document and joins its top two depths.
func regionName(resp *regionCodeResponse) (string, error) {
	for _, doc := range resp.Documents {
		if doc.RegionType != "B" {
			continue
		}
		if doc.Region1DepthName == "" {
			break
		}
		if doc.Region2DepthName == "" {
			return doc.Region1DepthName, nil
		}
		return doc.Region1DepthName + " " + doc.Region2DepthName, nil
	}
	return "", location.ErrAddressNotFound
}

// Kakao Local API response structures.

type regionCodeResponse struct {
	Meta struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
	Documents []struct {
		RegionType       string `json:"region_type"`
		AddressName      string `json:"address_name"`
		Region1DepthName string `json:"region_1depth_name"`
		Region2DepthName string `json:"region_2depth_name"`
		Region3DepthName string `json:"region_3depth_name"`
		Code             string `json:"code"`
	} `json:"documents"`
}
