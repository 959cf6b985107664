package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

const narrateSystem = "You are a legal research assistant explaining graph database query results " +
	"to a law researcher. Be specific, cite case names, and explain what the " +
	"graph traversal path reveals about the AI litigation landscape."

// NarrateResults explains query rows in plain legal English. Failure degrades
// to a one-line row count.
func (o *Oracle) NarrateResults(ctx context.Context, question, sql string, results []map[string]any) string {
	sample := results
	if len(sample) > 20 {
		sample = sample[:20]
	}
	encoded, _ := json.Marshal(sample)
	prompt := fmt.Sprintf(
		"Original question: %s\nQuery executed: %s\nResults (first %d of %d): %s\n\n"+
			"Write a 3-5 sentence narrative explaining:\n"+
			"1. What the graph traversal found\n"+
			"2. The most significant patterns or entities in the results\n"+
			"3. What this means for the researcher's question\n"+
			"End with one concrete suggested follow-up question they could ask.",
		question, sql, len(sample), len(results), encoded)

	text, err := o.generate(ctx, "narrate", narrateSystem, prompt)
	if err != nil {
		log.Printf("narration failed: %v", err)
		return fmt.Sprintf("Found %d results for your query about AI litigation.", len(results))
	}
	return strings.TrimSpace(text)
}

const waveSystem = "You are a legal analyst writing briefing notes about litigation trends. " +
	"Be concise and specific."

// DescribeWave writes the briefing note for a detected filing cluster. The
// fallback is a fixed-form sentence built from the cluster facts.
func (o *Oracle) DescribeWave(ctx context.Context, defendant string, caseCount int, theories, jurisdictions []string) string {
	prompt := fmt.Sprintf(
		"Litigation wave detected:\nDefendant: %s\nCases in last 60 days: %d\n"+
			"Legal theories: %s\nJurisdictions: %s\n\n"+
			"Write a 2-3 sentence briefing note for a legal research team explaining "+
			"the significance of this litigation cluster.",
		defendant, caseCount, strings.Join(head(theories, 5), ", "), strings.Join(head(dedupe(jurisdictions), 5), ", "))

	text, err := o.generate(ctx, "describe_wave", waveSystem, prompt)
	if err != nil {
		log.Printf("wave description failed for %s: %v", defendant, err)
		return FallbackWaveNarrative(defendant, caseCount, theories)
	}
	return strings.TrimSpace(text)
}

// FallbackWaveNarrative is the deterministic briefing used when the oracle is
// unreachable.
func FallbackWaveNarrative(defendant string, caseCount int, theories []string) string {
	return fmt.Sprintf("%d cases filed against %s in the last 60 days involving %s.",
		caseCount, defendant, strings.Join(head(theories, 3), ", "))
}

func head(xs []string, n int) []string {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func dedupe(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x == "" {
			continue
		}
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
