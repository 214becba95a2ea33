package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public Nominatim search endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

const clientUserAgent = "chi-events-pro/1.0 (events dataset enrichment)"

// Client queries the Nominatim search API at no more than one request per
// second, per the service's usage policy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient builds a Client. An empty baseURL selects the public endpoint;
// tests point it at a local server.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		logger:     logger,
	}
}

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Lookup geocodes a free-text query. The boolean is false when the service
// has no match; errors cover transport and decoding failures only.
func (c *Client) Lookup(ctx context.Context, query string) (Coordinates, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Coordinates{}, false, fmt.Errorf("geocode rate wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("geocode request: %w", err)
	}
	req.Header.Set("User-Agent", clientUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("geocode fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, false, fmt.Errorf("geocode status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Coordinates{}, false, fmt.Errorf("geocode decode: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, false, nil
	}

	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lonErr != nil {
		return Coordinates{}, false, fmt.Errorf("geocode coordinates unparseable: %q %q", results[0].Lat, results[0].Lon)
	}
	return Coordinates{Lat: lat, Lon: lon}, true, nil
}
