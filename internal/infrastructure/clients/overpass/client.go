package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
)

// Element is one OSM element returned by the interpreter. Nodes carry
// Lat/Lon directly; ways and relations carry them under Center.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Center holds the computed centroid of a way or relation.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type queryResponse struct {
	Elements []Element `json:"elements"`
}

// Position resolves the element coordinate regardless of element type.
func (e Element) Position() (lat, lon float64, ok bool) {
	if e.Lat != 0 || e.Lon != 0 {
		return e.Lat, e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}

// Client queries an Overpass interpreter endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Overpass client.
func NewClient(cfg *config.OverpassConfig) *Client {
	endpoint := "https://overpass-api.de/api/interpreter"
	timeout := 10 * time.Second
	if cfg != nil {
		if cfg.URL != "" {
			endpoint = cfg.URL
		}
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
	}

	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Query posts an Overpass QL statement and returns the matched elements.
func (c *Client) Query(ctx context.Context, query string) ([]Element, error) {
	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	return decoded.Elements, nil
}
