package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/handlers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/middleware"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	adviceHandler *handlers.AdviceHandler
	metrics       *observability.Metrics
	version       string
}

// NewRouter creates a new router
func NewRouter(adviceHandler *handlers.AdviceHandler, metrics *observability.Metrics, version string) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		adviceHandler: adviceHandler,
		metrics:       metrics,
		version:       version,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   r.version,
		})
	})

	// Tool-call endpoint
	r.mux.HandleFunc("POST /mcp", r.adviceHandler.HandleToolCall)

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS must be outermost so error responses also get CORS headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
