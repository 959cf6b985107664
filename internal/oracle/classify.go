package oracle

import (
	"context"
	"fmt"
	"log"
)

// Classification is the oracle's verdict on one feed case.
type Classification struct {
	IsAILitigation       bool     `json:"isAiLitigation"`
	Confidence           float64  `json:"confidence"`
	AreaOfApplication    []string `json:"areaOfApplication"`
	CauseOfAction        []string `json:"causeOfAction"`
	PrimaryDefendantType string   `json:"primaryDefendantType"`
	Reasoning            string   `json:"reasoning"`
}

const classifySystem = "You are a classifier for an AI litigation database. " +
	"Classify incoming court cases. Respond with JSON only, no prose, no markdown."

// ClassifyCase decides whether a feed case belongs in the graph. An oracle
// failure returns the zero-confidence negative so the run treats the case as
// not AI litigation rather than aborting; the error comes back alongside it
// for the audit trail only.
func (o *Oracle) ClassifyCase(ctx context.Context, caption, courtName, dateFiled, snippet string) (Classification, error) {
	if len(snippet) > 1000 {
		snippet = snippet[:1000]
	}
	prompt := fmt.Sprintf(
		"Case caption: %s\nCourt: %s\nFiled: %s\nText snippet: %s\n\n"+
			"Respond with JSON:\n"+
			`{"isAiLitigation": bool, "confidence": float (0-1), `+
			`"areaOfApplication": [list from: Generative AI, Facial Recognition, `+
			"Autonomous Vehicles, Employment, Healthcare, Housing, Criminal Justice, "+
			"Intellectual Property, Social Media, Other], "+
			`"causeOfAction": [list of up to 3 strings], `+
			`"primaryDefendantType": string, "reasoning": string}`,
		caption, courtName, dateFiled, snippet)

	text, err := o.generate(ctx, "classify", classifySystem, prompt)
	if err == nil {
		var c Classification
		if perr := extractJSON(text, &c); perr == nil {
			return c, nil
		} else {
			err = perr
		}
	}
	log.Printf("classification failed for %q: %v", caption, err)
	return Classification{
		IsAILitigation:    false,
		Confidence:        0.0,
		AreaOfApplication: []string{},
		CauseOfAction:     []string{},
		Reasoning:         "error",
	}, err
}
