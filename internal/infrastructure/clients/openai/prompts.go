package openai

import (
	"fmt"

	"github.com/Piyushrathoree/puch.ai-hack-mcp/internal/domain/entities"
)

const adviceSystemPrompt = `You are a cautious medical self-care assistant. Return ONLY valid JSON with this schema:
{
  "intent": string (the likely intent behind the symptoms, 1 short phrase),
  "otc_medicines": [{"name": string, "dosage_guidance": string, "cautions": string}] (generic non-prescription substances only, never antibiotics, steroids or prescription medicines),
  "nearby_chemists": [],
  "home_remedies": [{"title": string, "rationale": string}] (3-5 items),
  "videos": [{"url": string}] (3-5 YouTube links with instructional self-care content),
  "red_flags": string[] (symptoms that require immediate professional care),
  "disclaimers": string[] (at least one)
}
Use exactly this key set. Keep language simple and non-alarmist. Do not diagnose.`

// BuildAdvicePrompt embeds the raw symptom text and optional coordinates
// into the user prompt. Pure function of its input: the same query always
// produces the same prompt.
func BuildAdvicePrompt(query entities.SymptomQuery) string {
	if query.Location != nil {
		return fmt.Sprintf(
			"Symptoms: %s\nUser coordinates: %.4f, %.4f\n",
			query.Text, query.Location.Latitude, query.Location.Longitude,
		)
	}
	return fmt.Sprintf("Symptoms: %s\n", query.Text)
}
