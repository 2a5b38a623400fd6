package pharmacy

import (
	"context"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
)

// MockProvider returns a fixed pharmacy list, for development and tests.
type MockProvider struct {
	Chemists []entities.Chemist
	Err      error
}

// NewMockProvider creates a mock provider with a small fixed list.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Chemists: []entities.Chemist{
			{
				Name:    "City Care Pharmacy",
				Address: "12 Main Street, Springfield",
				MapURL:  "https://www.openstreetmap.org/?mlat=28.613900&mlon=77.209000",
			},
			{
				Name:    "Wellness Chemist",
				Address: "48 Park Avenue, Springfield",
				MapURL:  "https://www.openstreetmap.org/?mlat=28.615200&mlon=77.210400",
			},
		},
	}
}

// FindNearby returns the configured list, truncated to limit.
func (m *MockProvider) FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entities.Chemist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && len(m.Chemists) > limit {
		return m.Chemists[:limit], nil
	}
	return m.Chemists, nil
}
