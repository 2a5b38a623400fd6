package entities

// Coordinates represents geographical coordinates
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// SymptomQuery is the immutable input to one advisory run.
type SymptomQuery struct {
	Text     string
	Location *Coordinates
}

// OTCMedicine is a non-prescription medicine suggestion.
type OTCMedicine struct {
	Name           string `json:"name"`
	DosageGuidance string `json:"dosage_guidance"`
	Cautions       string `json:"cautions"`
}

// Chemist is a nearby pharmacy entry. Pharmacy facts come exclusively
// from the geo lookup, never from the model.
type Chemist struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	MapURL  string `json:"map_url"`
}

// HomeRemedy is a supportive-care suggestion with its rationale.
type HomeRemedy struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

// VideoLink pairs an instructional video URL with its embeddable form.
type VideoLink struct {
	URL      string `json:"url"`
	EmbedURL string `json:"embed_url"`
}

// AdvicePayload is the canonical advisory response for one symptom query.
// Every field is always present with the correct shape, whatever the
// model returned.
type AdvicePayload struct {
	Intent         string        `json:"intent"`
	OTCMedicines   []OTCMedicine `json:"otc_medicines"`
	NearbyChemists []Chemist     `json:"nearby_chemists"`
	HomeRemedies   []HomeRemedy  `json:"home_remedies"`
	Videos         []VideoLink   `json:"videos"`
	RedFlags       []string      `json:"red_flags"`
	Disclaimers    []string      `json:"disclaimers"`
}

// MaxChemists caps the nearby pharmacy list.
const MaxChemists = 5

// MaxVideos caps the instructional video list.
const MaxVideos = 5

// DefaultDisclaimer is injected whenever the model supplies no
// disclaimers; the payload never ships without at least one.
const DefaultDisclaimer = "This is informational only and not a substitute for professional medical advice. Consult a healthcare professional."

// NewAdvicePayload returns an empty payload with every list initialized,
// so serialization always emits the full key set.
func NewAdvicePayload() *AdvicePayload {
	return &AdvicePayload{
		OTCMedicines:   []OTCMedicine{},
		NearbyChemists: []Chemist{},
		HomeRemedies:   []HomeRemedy{},
		Videos:         []VideoLink{},
		RedFlags:       []string{},
		Disclaimers:    []string{},
	}
}
