package services

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/providers"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/clients/openai"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/infrastructure/observability"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/config"
	apperrors "github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/errors"
)

// emergencyKeywords are scanned against the raw symptom text. A hit adds
// an urgent-care red flag on top of whatever the model returned.
var emergencyKeywords = []string{
	"chest pain",
	"difficulty breathing",
	"shortness of breath",
	"severe bleeding",
	"unconscious",
	"seizure",
	"stroke",
	"suicidal",
	"overdose",
}

const emergencyRedFlag = "Your symptoms may need urgent care. Contact emergency services or visit the nearest hospital immediately."

// AdviceService runs the full advisory pipeline for one symptom query:
// prompt, model call, normalization, red-flag scan and pharmacy
// enrichment. Model failures abort the run; geo failures never do.
type AdviceService struct {
	model      providers.AdviceModelProvider
	pharmacies providers.PharmacyProvider
	enrichment bool
	outbound   chan struct{}
}

// NewAdviceService creates the advisory orchestrator. The pharmacy
// provider may be nil, which disables enrichment regardless of config.
func NewAdviceService(model providers.AdviceModelProvider, pharmacies providers.PharmacyProvider, cfg config.AdviceConfig) *AdviceService {
	maxOutbound := cfg.MaxOutboundRequests
	if maxOutbound <= 0 {
		maxOutbound = 5
	}

	return &AdviceService{
		model:      model,
		pharmacies: pharmacies,
		enrichment: cfg.PharmacyEnrichmentEnabled && pharmacies != nil,
		outbound:   make(chan struct{}, maxOutbound),
	}
}

// Advise produces the canonical advice payload for the query. Errors
// from the model path propagate to the caller; everything downstream of
// a successful model reply degrades instead of failing.
func (s *AdviceService) Advise(ctx context.Context, query entities.SymptomQuery) (*entities.AdvicePayload, error) {
	ctx, span := observability.StartSpan(ctx, "advice.advise")
	defer span.End()

	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, apperrors.NewValidationError("symptom text is required")
	}
	query.Text = text

	observability.SetSpanAttributes(span,
		attribute.Bool("advice.has_location", query.Location != nil),
	)

	prompt := openai.BuildAdvicePrompt(query)

	draft, err := s.completeWithLimit(ctx, prompt)
	if err != nil {
		return nil, err
	}

	payload := NormalizeAdvice(draft)
	s.applyEmergencyScan(query.Text, payload)

	if query.Location != nil && s.enrichment {
		s.enrichWithPharmacies(ctx, query.Location, payload)
	}

	return payload, nil
}

func (s *AdviceService) completeWithLimit(ctx context.Context, prompt string) (interface{}, error) {
	release, err := s.acquireOutbound(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.model.Complete(ctx, prompt)
}

// applyEmergencyScan appends an urgent-care flag when the raw text
// mentions an emergency keyword. Model-supplied flags are kept.
func (s *AdviceService) applyEmergencyScan(text string, payload *entities.AdvicePayload) {
	lowered := strings.ToLower(text)
	for _, keyword := range emergencyKeywords {
		if strings.Contains(lowered, keyword) {
			payload.RedFlags = append(payload.RedFlags, emergencyRedFlag)
			return
		}
	}
}

// enrichWithPharmacies overwrites the chemist list from the geo lookup.
// Any failure leaves the list empty and the payload usable.
func (s *AdviceService) enrichWithPharmacies(ctx context.Context, location *entities.Coordinates, payload *entities.AdvicePayload) {
	logger := observability.LoggerFromContext(ctx)

	release, err := s.acquireOutbound(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("skipping pharmacy enrichment")
		return
	}
	defer release()

	chemists, err := s.pharmacies.FindNearby(ctx, location.Latitude, location.Longitude, entities.MaxChemists)
	if err != nil {
		logger.Warn().Err(err).Msg("pharmacy enrichment failed, returning advice without chemists")
		return
	}

	payload.NearbyChemists = chemists
}

// acquireOutbound takes a slot from the outbound ceiling, queueing until
// one frees up or the context ends.
func (s *AdviceService) acquireOutbound(ctx context.Context) (func(), error) {
	select {
	case s.outbound <- struct{}{}:
		return func() { <-s.outbound }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
