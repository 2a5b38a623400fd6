package pharmacy

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/overpass"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
)

const (
	userLat = 28.6139
	userLon = 77.2090
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OverpassProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := overpass.NewClient(&config.OverpassConfig{
		URL:            server.URL,
		TimeoutSeconds: 2,
	})
	return NewOverpassProvider(client, nil, 3000, nil)
}

// node at an offset of deg degrees of latitude from the user, so larger
// offsets are strictly farther away.
func nodeAt(id int, name string, deg float64) string {
	return fmt.Sprintf(
		`{"type":"node","id":%d,"lat":%f,"lon":%f,"tags":{"name":%q}}`,
		id, userLat+deg, userLon, name,
	)
}

func TestFindNearby_SortsByDistanceAndCapsAtLimit(t *testing.T) {
	// Seven pharmacies, deliberately out of order.
	elements := []string{
		nodeAt(1, "Far Pharmacy", 0.020),
		nodeAt(2, "Nearest Pharmacy", 0.001),
		nodeAt(3, "Sixth Pharmacy", 0.015),
		nodeAt(4, "Second Pharmacy", 0.002),
		nodeAt(5, "Fifth Pharmacy", 0.009),
		nodeAt(6, "Third Pharmacy", 0.004),
		nodeAt(7, "Fourth Pharmacy", 0.007),
	}

	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		data := r.FormValue("data")
		if !strings.Contains(data, "amenity=pharmacy") || !strings.Contains(data, "around:3000") {
			t.Errorf("unexpected overpass query: %s", data)
		}
		fmt.Fprintf(w, `{"elements":[%s]}`, strings.Join(elements, ","))
	})

	chemists, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chemists) != 5 {
		t.Fatalf("expected 5 chemists, got %d", len(chemists))
	}

	expected := []string{
		"Nearest Pharmacy", "Second Pharmacy", "Third Pharmacy",
		"Fourth Pharmacy", "Fifth Pharmacy",
	}
	for i, name := range expected {
		if chemists[i].Name != name {
			t.Errorf("position %d: expected %q, got %q", i, name, chemists[i].Name)
		}
	}
}

func TestFindNearby_DegradesToEmptyOnServerError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too busy", http.StatusGatewayTimeout)
	})

	chemists, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("lookup failures must not surface as errors, got: %v", err)
	}
	if len(chemists) != 0 {
		t.Errorf("expected empty list, got %d entries", len(chemists))
	}
}

func TestFindNearby_DegradesToEmptyOnTimeout(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
	})

	chemists, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("lookup timeouts must not surface as errors, got: %v", err)
	}
	if len(chemists) != 0 {
		t.Errorf("expected empty list, got %d entries", len(chemists))
	}
}

func TestFindNearby_UnnamedElementGetsFallbackName(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"elements":[{"type":"node","id":1,"lat":%f,"lon":%f,"tags":{"addr:street":"High Street","addr:city":"Springfield"}}]}`, userLat, userLon)
	})

	chemists, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chemists) != 1 {
		t.Fatalf("expected 1 chemist, got %d", len(chemists))
	}
	if chemists[0].Name != "Pharmacy" {
		t.Errorf("expected fallback name, got %q", chemists[0].Name)
	}
	if chemists[0].Address != "High Street, Springfield" {
		t.Errorf("unexpected address: %q", chemists[0].Address)
	}
}

func TestFindNearby_WayUsesCenterCoordinates(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"elements":[{"type":"way","id":42,"center":{"lat":%f,"lon":%f},"tags":{"name":"Mall Pharmacy"}}]}`, userLat+0.001, userLon)
	})

	chemists, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chemists) != 1 {
		t.Fatalf("expected 1 chemist, got %d", len(chemists))
	}
	if !strings.Contains(chemists[0].MapURL, "mlat=") || !strings.Contains(chemists[0].MapURL, "mlon=") {
		t.Errorf("map url should pin the center coordinate: %q", chemists[0].MapURL)
	}
}

type memoryCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.gets++
	if data, ok := c.entries[key]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("key not found: %s", key)
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.sets++
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestFindNearby_SecondLookupServedFromCache(t *testing.T) {
	var serverCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serverCalls++
		fmt.Fprintf(w, `{"elements":[{"type":"node","id":1,"lat":%f,"lon":%f,"tags":{"name":"City Care Pharmacy"}}]}`, userLat, userLon)
	}))
	t.Cleanup(server.Close)

	client := overpass.NewClient(&config.OverpassConfig{URL: server.URL, TimeoutSeconds: 2})
	cache := newMemoryCache()
	provider := NewOverpassProvider(client, cache, 3000, nil)

	first, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := provider.FindNearby(context.Background(), userLat, userLon, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if serverCalls != 1 {
		t.Errorf("expected one upstream call, got %d", serverCalls)
	}
	if cache.sets != 1 || cache.gets != 2 {
		t.Errorf("expected 1 set and 2 gets, got %d/%d", cache.sets, cache.gets)
	}
	if len(first) != 1 || len(second) != 1 || second[0].Name != "City Care Pharmacy" {
		t.Errorf("cached lookup should match the live one: %+v vs %+v", first, second)
	}
}

func TestFormatAddress_JoinsHouseNumberAndStreet(t *testing.T) {
	address := formatAddress(map[string]string{
		"addr:housenumber": "12",
		"addr:street":      "Main Street",
		"addr:city":        "Springfield",
		"addr:postcode":    "110001",
	})
	if address != "12 Main Street, Springfield, 110001" {
		t.Errorf("unexpected address: %q", address)
	}
}

func TestFormatAddress_EmptyTags(t *testing.T) {
	if address := formatAddress(map[string]string{}); address != "" {
		t.Errorf("expected empty address, got %q", address)
	}
}
