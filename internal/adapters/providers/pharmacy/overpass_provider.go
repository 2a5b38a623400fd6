package pharmacy

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/providers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/overpass"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/observability"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/geo"
)

const (
	fallbackName    = "Pharmacy"
	cacheTTLSeconds = 600
)

// OverpassProvider finds pharmacies around a coordinate through the
// Overpass API. Lookup failures never surface past this provider: the
// caller always receives a usable, possibly empty, list.
type OverpassProvider struct {
	client       *overpass.Client
	cache        providers.CacheProvider
	metrics      *observability.Metrics
	radiusMeters int
}

// NewOverpassProvider creates a pharmacy provider backed by Overpass.
// Cache and metrics are optional; pass nil to look up live every time
// without instrumentation.
func NewOverpassProvider(client *overpass.Client, cache providers.CacheProvider, radiusMeters int, metrics *observability.Metrics) *OverpassProvider {
	if radiusMeters <= 0 {
		radiusMeters = 3000
	}
	return &OverpassProvider{
		client:       client,
		cache:        cache,
		metrics:      metrics,
		radiusMeters: radiusMeters,
	}
}

// FindNearby returns up to limit pharmacies around the coordinate,
// nearest first.
func (p *OverpassProvider) FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entities.Chemist, error) {
	if limit <= 0 {
		limit = entities.MaxChemists
	}

	logger := observability.LoggerFromContext(ctx)

	if cached, ok := p.readCache(ctx, lat, lon, limit); ok {
		return cached, nil
	}

	query := fmt.Sprintf(
		"[out:json][timeout:10];nwr[amenity=pharmacy](around:%d,%f,%f);out center;",
		p.radiusMeters, lat, lon,
	)

	elements, err := p.client.Query(ctx, query)
	observability.RecordGeoLookupMetric(ctx, p.metrics, "overpass", err != nil)
	if err != nil {
		logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("pharmacy lookup failed, continuing without chemists")
		return []entities.Chemist{}, nil
	}

	type scored struct {
		chemist  entities.Chemist
		distance float64
	}

	candidates := make([]scored, 0, len(elements))
	for _, element := range elements {
		elemLat, elemLon, ok := element.Position()
		if !ok {
			continue
		}
		candidates = append(candidates, scored{
			chemist: entities.Chemist{
				Name:    displayName(element.Tags),
				Address: formatAddress(element.Tags),
				MapURL:  fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f", elemLat, elemLon),
			},
			distance: geo.HaversineMeters(lat, lon, elemLat, elemLon),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	chemists := make([]entities.Chemist, 0, len(candidates))
	for _, candidate := range candidates {
		chemists = append(chemists, candidate.chemist)
	}

	p.writeCache(ctx, lat, lon, limit, chemists)

	return chemists, nil
}

func (p *OverpassProvider) readCache(ctx context.Context, lat, lon float64, limit int) ([]entities.Chemist, bool) {
	if p.cache == nil {
		return nil, false
	}

	data, err := p.cache.Get(ctx, cacheKey(lat, lon, limit))
	if err != nil {
		observability.RecordCacheMetric(ctx, p.metrics, "pharmacies", false)
		return nil, false
	}

	var chemists []entities.Chemist
	if err := json.Unmarshal(data, &chemists); err != nil {
		observability.RecordCacheMetric(ctx, p.metrics, "pharmacies", false)
		return nil, false
	}

	observability.RecordCacheMetric(ctx, p.metrics, "pharmacies", true)
	return chemists, true
}

func (p *OverpassProvider) writeCache(ctx context.Context, lat, lon float64, limit int, chemists []entities.Chemist) {
	if p.cache == nil {
		return
	}

	data, err := json.Marshal(chemists)
	if err != nil {
		return
	}

	if err := p.cache.Set(ctx, cacheKey(lat, lon, limit), data, cacheTTLSeconds); err != nil {
		observability.LoggerFromContext(ctx).Debug().Err(err).Msg("failed to cache pharmacy lookup")
	}
}

// cacheKey rounds coordinates to ~11m so nearby requests share entries.
func cacheKey(lat, lon float64, limit int) string {
	return fmt.Sprintf("pharmacies:%.4f:%.4f:%d", lat, lon, limit)
}

func displayName(tags map[string]string) string {
	if name := strings.TrimSpace(tags["name"]); name != "" {
		return name
	}
	return fallbackName
}

// formatAddress joins the addr:* tags that are present, in postal order.
func formatAddress(tags map[string]string) string {
	parts := make([]string, 0, 4)

	street := strings.TrimSpace(tags["addr:street"])
	if number := strings.TrimSpace(tags["addr:housenumber"]); number != "" && street != "" {
		parts = append(parts, number+" "+street)
	} else if street != "" {
		parts = append(parts, street)
	}
	if city := strings.TrimSpace(tags["addr:city"]); city != "" {
		parts = append(parts, city)
	}
	if postcode := strings.TrimSpace(tags["addr:postcode"]); postcode != "" {
		parts = append(parts, postcode)
	}

	return strings.Join(parts, ", ")
}
