package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/providers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/observability"
	apperrors "github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/errors"
)

const (
	codeMethodNotFound = -32601
	codeParseError     = -32700
	codeInternalError  = -32603
)

// AdviceOperations defines the advisory operations used by the handler.
type AdviceOperations interface {
	Advise(ctx context.Context, query entities.SymptomQuery) (*entities.AdvicePayload, error)
}

// AdviceHandler serves the tool-call endpoint.
type AdviceHandler struct {
	service AdviceOperations
}

// NewAdviceHandler creates a new advice handler.
func NewAdviceHandler(service AdviceOperations) *AdviceHandler {
	return &AdviceHandler{service: service}
}

type toolRequest struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	ID     interface{}     `json:"id"`
}

type toolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type toolResponse struct {
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *toolError  `json:"error,omitempty"`
	JSONRPC string      `json:"jsonrpc"`
}

type analyzeParams struct {
	Query        string                `json:"query"`
	UserLocation *entities.Coordinates `json:"userLocation"`
}

// HandleToolCall handles POST /mcp
func (h *AdviceHandler) HandleToolCall(w http.ResponseWriter, r *http.Request) {
	var request toolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		respondWithToolError(w, nil, codeParseError, "Parse error")
		return
	}

	if request.ID == nil {
		request.ID = uuid.NewString()
	}

	switch request.Method {
	case "analyze_symptoms":
		h.analyzeSymptoms(w, r, request)
	case "list_tools":
		respondWithToolResult(w, request.ID, toolDescriptors())
	case "":
		respondWithToolError(w, request.ID, codeMethodNotFound, "Method required")
	default:
		respondWithToolError(w, request.ID, codeMethodNotFound, "Unknown method: "+request.Method)
	}
}

func (h *AdviceHandler) analyzeSymptoms(w http.ResponseWriter, r *http.Request, request toolRequest) {
	var params analyzeParams
	if len(request.Params) > 0 {
		if err := json.Unmarshal(request.Params, &params); err != nil {
			respondWithToolError(w, request.ID, codeParseError, "Parse error")
			return
		}
	}

	query := entities.SymptomQuery{
		Text:     params.Query,
		Location: params.UserLocation,
	}

	payload, err := h.service.Advise(r.Context(), query)
	if err != nil {
		logger := observability.LoggerFromContext(r.Context())

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrorTypeValidation {
			respondWithToolError(w, request.ID, codeInternalError, appErr.Message)
			return
		}
		if errors.Is(err, providers.ErrUpstreamModel) || errors.Is(err, providers.ErrMalformedModelReply) {
			logger.Error().Err(err).Msg("advice model invocation failed")
			respondWithToolError(w, request.ID, codeInternalError, "advice generation failed")
			return
		}

		logger.Error().Err(err).Msg("symptom analysis failed")
		respondWithToolError(w, request.ID, codeInternalError, "internal error")
		return
	}

	respondWithToolResult(w, request.ID, payload)
}

func toolDescriptors() map[string]interface{} {
	return map[string]interface{}{
		"tools": []map[string]interface{}{
			{
				"name":        "analyze_symptoms",
				"description": "Analyze symptoms and return self-care advice, nearby pharmacies and red flags",
				"parameters": map[string]string{
					"query":        "string",
					"userLocation": "object {lat, lon} (optional)",
				},
			},
			{
				"name":        "list_tools",
				"description": "List available tools",
				"parameters":  map[string]string{},
			},
		},
	}
}

func respondWithToolResult(w http.ResponseWriter, id interface{}, result interface{}) {
	respondWithJSON(w, http.StatusOK, toolResponse{
		ID:      id,
		Result:  result,
		JSONRPC: "2.0",
	})
}

func respondWithToolError(w http.ResponseWriter, id interface{}, code int, message string) {
	respondWithJSON(w, http.StatusOK, toolResponse{
		ID:      id,
		Error:   &toolError{Code: code, Message: message},
		JSONRPC: "2.0",
	})
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
