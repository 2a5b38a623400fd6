package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/handlers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/routes"
)

func TestHealthEndpoint_ReturnsStatusJSON(t *testing.T) {
	router := routes.NewRouter(handlers.NewAdviceHandler(nil), nil, "1.2.3")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.SetupRoutes().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.2.3", body["version"])

	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err, "timestamp should be RFC3339")
}

func TestUnknownRoute_NotFound(t *testing.T) {
	router := routes.NewRouter(handlers.NewAdviceHandler(nil), nil, "1.2.3")

	req := httptest.NewRequest("GET", "/nope", nil)
	w := httptest.NewRecorder()
	router.SetupRoutes().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
