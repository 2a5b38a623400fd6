package providers

import (
	"context"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
)

// PharmacyProvider defines the interface for nearby pharmacy lookups.
type PharmacyProvider interface {
	// FindNearby returns up to limit pharmacies around the coordinate,
	// nearest first. Lookup failures degrade to an empty slice; the
	// error return is reserved for programming mistakes such as an
	// invalid limit.
	FindNearby(ctx context.Context, lat, lon float64, limit int) ([]entities.Chemist, error)
}
