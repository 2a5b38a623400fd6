package services

import (
	"fmt"
	"strings"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
	"github.com/Piyushrathoree/puch.ai-hack-mcp/pkg/utils"
)

// NormalizeAdvice coerces an untrusted model draft into the canonical
// payload. It never fails: whatever shape the draft has, the result is a
// complete payload with every list present, at most MaxVideos videos,
// an empty chemist list and at least one disclaimer. Pharmacy facts are
// never taken from the model.
func NormalizeAdvice(draft interface{}) *entities.AdvicePayload {
	payload := entities.NewAdvicePayload()

	obj, ok := draft.(map[string]interface{})
	if ok {
		payload.Intent = coerceString(obj["intent"])
		payload.OTCMedicines = coerceMedicines(obj["otc_medicines"])
		payload.HomeRemedies = coerceRemedies(obj["home_remedies"])
		payload.Videos = coerceVideos(obj["videos"])
		payload.RedFlags = coerceStrings(obj["red_flags"])
		payload.Disclaimers = coerceStrings(obj["disclaimers"])
	}

	if len(payload.Disclaimers) == 0 {
		payload.Disclaimers = []string{entities.DefaultDisclaimer}
	}

	return payload
}

// coerceString renders scalars as text and drops composite values.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return ""
	}
}

func coerceStrings(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if text := coerceString(item); text != "" {
			result = append(result, text)
		}
	}
	return result
}

func coerceMedicines(value interface{}) []entities.OTCMedicine {
	items, ok := value.([]interface{})
	if !ok {
		return []entities.OTCMedicine{}
	}

	result := make([]entities.OTCMedicine, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		result = append(result, entities.OTCMedicine{
			Name:           coerceString(obj["name"]),
			DosageGuidance: coerceString(obj["dosage_guidance"]),
			Cautions:       coerceString(obj["cautions"]),
		})
	}
	return result
}

func coerceRemedies(value interface{}) []entities.HomeRemedy {
	items, ok := value.([]interface{})
	if !ok {
		return []entities.HomeRemedy{}
	}

	result := make([]entities.HomeRemedy, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		result = append(result, entities.HomeRemedy{
			Title:     coerceString(obj["title"]),
			Rationale: coerceString(obj["rationale"]),
		})
	}
	return result
}

// coerceVideos accepts both bare URL strings and {"url": ...} objects,
// derives the embed form for recognized links and caps the list.
func coerceVideos(value interface{}) []entities.VideoLink {
	items, ok := value.([]interface{})
	if !ok {
		return []entities.VideoLink{}
	}

	result := make([]entities.VideoLink, 0, len(items))
	for _, item := range items {
		var rawURL string
		switch v := item.(type) {
		case string:
			rawURL = strings.TrimSpace(v)
		case map[string]interface{}:
			rawURL = coerceString(v["url"])
		}
		if rawURL == "" {
			continue
		}
		result = append(result, entities.VideoLink{
			URL:      rawURL,
			EmbedURL: utils.ToEmbedURL(rawURL),
		})
		if len(result) == entities.MaxVideos {
			break
		}
	}
	return result
}
