//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/adapters/providers/pharmacy"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/handlers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/api/routes"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/application/services"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/openai"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/overpass"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
)

const modelReply = `{
	"intent": "fever relief",
	"otc_medicines": [{"name": "Paracetamol", "dosage_guidance": "500mg every 6 hours", "cautions": "Max 4g/day"}],
	"nearby_chemists": [{"name": "Hallucinated Pharmacy"}],
	"home_remedies": [{"title": "Hydration", "rationale": "Fever increases fluid loss"}],
	"videos": ["https://youtu.be/abc123"],
	"red_flags": ["fever above 104F"],
	"disclaimers": ["Not medical advice"]
}`

// Full pipeline through the real router: stubbed chat-completion and
// Overpass endpoints, real prompt builder, normalizer and orchestrator.
func TestAdvicePipeline_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	var modelCalls, overpassCalls int32

	modelServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&modelCalls, 1)
		content, _ := json.Marshal(modelReply)
		fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%s}}]}`, content)
	}))
	defer modelServer.Close()

	overpassServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&overpassCalls, 1)
		fmt.Fprint(w, `{"elements":[
			{"type":"node","id":1,"lat":28.6145,"lon":77.2090,"tags":{"name":"City Care Pharmacy","addr:street":"Main Street","addr:city":"Delhi"}},
			{"type":"node","id":2,"lat":28.6300,"lon":77.2090,"tags":{"name":"Far Pharmacy"}}
		]}`)
	}))
	defer overpassServer.Close()

	modelClient, err := openai.NewClient(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      modelServer.URL,
		RateLimitRPM: -1,
	})
	require.NoError(t, err)

	overpassClient := overpass.NewClient(&config.OverpassConfig{
		URL:            overpassServer.URL,
		TimeoutSeconds: 2,
	})
	pharmacyProvider := pharmacy.NewOverpassProvider(overpassClient, nil, 3000, nil)

	adviceService := services.NewAdviceService(modelClient, pharmacyProvider, config.AdviceConfig{
		PharmacyEnrichmentEnabled: true,
		MaxOutboundRequests:       5,
	})
	router := routes.NewRouter(handlers.NewAdviceHandler(adviceService), nil, "test")
	app := httptest.NewServer(router.SetupRoutes())
	defer app.Close()

	body := `{"method":"analyze_symptoms","params":{"query":"fever since 2 days","userLocation":{"lat":28.6139,"lon":77.209}},"id":1}`
	resp, err := http.Post(app.URL+"/mcp", "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		ID     interface{}            `json:"id"`
		Result map[string]interface{} `json:"result"`
		Error  interface{}            `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)

	assert.Equal(t, int32(1), atomic.LoadInt32(&modelCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&overpassCalls))

	assert.Equal(t, "fever relief", envelope.Result["intent"])

	chemists, ok := envelope.Result["nearby_chemists"].([]interface{})
	require.True(t, ok)
	require.Len(t, chemists, 2)
	first := chemists[0].(map[string]interface{})
	assert.Equal(t, "City Care Pharmacy", first["name"], "nearest pharmacy first, model chemists discarded")

	videos, ok := envelope.Result["videos"].([]interface{})
	require.True(t, ok)
	require.Len(t, videos, 1)
	video := videos[0].(map[string]interface{})
	assert.Equal(t, "https://www.youtube.com/embed/abc123", video["embed_url"])

	disclaimers, ok := envelope.Result["disclaimers"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, disclaimers)
}

func TestAdvicePipeline_ModelOutageReturnsError(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	modelServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer modelServer.Close()

	modelClient, err := openai.NewClient(&config.OpenAIConfig{
		APIKey:       "test-key",
		BaseURL:      modelServer.URL,
		RateLimitRPM: -1,
	})
	require.NoError(t, err)

	adviceService := services.NewAdviceService(modelClient, nil, config.AdviceConfig{MaxOutboundRequests: 5})
	router := routes.NewRouter(handlers.NewAdviceHandler(adviceService), nil, "test")
	app := httptest.NewServer(router.SetupRoutes())
	defer app.Close()

	body := `{"method":"analyze_symptoms","params":{"query":"fever"},"id":1}`
	resp, err := http.Post(app.URL+"/mcp", "application/json", bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope struct {
		Error map[string]interface{} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, float64(-32603), envelope.Error["code"])
}
