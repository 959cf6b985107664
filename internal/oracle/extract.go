package oracle

import (
	"context"
	"fmt"
	"log"
)

type ExtractedOrganization struct {
	Name          string   `json:"name"`
	CanonicalName string   `json:"canonicalName"`
	Roles         []string `json:"roles"`
	Confidence    float64  `json:"confidence"`
}

type ExtractedAISystem struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type Extraction struct {
	Organizations []ExtractedOrganization `json:"organizations"`
	AISystems     []ExtractedAISystem     `json:"aiSystems"`
}

const extractSystem = "You are a legal entity extractor for an AI litigation database. " +
	"Extract organizations and AI systems from case text. " +
	"Always respond with valid JSON only, no prose, no markdown code fences."

// ExtractEntities pulls organization and AI-system candidates out of a case's
// free-text fields. Three attempts with exponential backoff; exhaustion
// returns empty lists plus the last error so the batch keeps moving while the
// audit trail records what went wrong.
func (o *Oracle) ExtractEntities(ctx context.Context, caseID, caption, organizationsText, algorithmText string) (Extraction, error) {
	prompt := fmt.Sprintf(
		"Case: %s\nOrganizations text: %s\nAlgorithm names: %s\n\n"+
			"Return JSON with this exact schema:\n"+
			`{"organizations": [{"name": string, "canonicalName": string, `+
			`"roles": ["plaintiff"|"defendant"|"third_party"], "confidence": float}], `+
			`"aiSystems": [{"name": string, `+
			`"category": "LLM"|"biometric"|"autonomous"|"recommender"|"classifier"|"other", `+
			`"confidence": float}]}`,
		caption, organizationsText, algorithmText)

	var lastErr error
	for attempt := 0; attempt < extractAttempts; attempt++ {
		text, err := o.generate(ctx, "extract", extractSystem, prompt)
		if err == nil {
			var ex Extraction
			if perr := extractJSON(text, &ex); perr == nil {
				log.Printf("extracted entities for %s: %d orgs, %d systems", caseID, len(ex.Organizations), len(ex.AISystems))
				return ex, nil
			} else {
				err = perr
			}
		}
		lastErr = err
		log.Printf("entity extraction attempt %d failed for %s: %v", attempt+1, caseID, err)
		if attempt < extractAttempts-1 {
			o.sleep(backoffDelay(attempt))
		}
	}
	return Extraction{Organizations: []ExtractedOrganization{}, AISystems: []ExtractedAISystem{}}, lastErr
}
