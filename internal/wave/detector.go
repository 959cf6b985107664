// Package wave surfaces litigation clusters: defendants accumulating filings
// inside a trailing window fast enough to matter to the research team.
package wave

import (
	"context"
	"time"

	"dailgraph/internal/models"
	"dailgraph/internal/storage"
)

const (
	DefaultWindowDays = 60
	DefaultThreshold  = 3
)

// Narrator is the slice of the oracle the detector needs.
type Narrator interface {
	DescribeWave(ctx context.Context, defendant string, caseCount int, theories, jurisdictions []string) string
}

// CandidateSource yields defendant clusters inside the window.
type CandidateSource interface {
	WaveCandidates(ctx context.Context, now time.Time, windowDays, threshold int) ([]storage.WaveCandidate, error)
}

type Detector struct {
	graph      CandidateSource
	narrator   Narrator
	windowDays int
	threshold  int
}

func NewDetector(graph CandidateSource, narrator Narrator, windowDays, threshold int) *Detector {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{graph: graph, narrator: narrator, windowDays: windowDays, threshold: threshold}
}

// Detect returns every defendant at or above the filing threshold, each with
// a briefing narrative. Detection is a read: nothing is persisted, so two
// calls over the same data return the same clusters.
func (d *Detector) Detect(ctx context.Context) ([]models.WaveSignal, error) {
	candidates, err := d.graph.WaveCandidates(ctx, time.Now(), d.windowDays, d.threshold)
	if err != nil {
		return nil, err
	}
	out := make([]models.WaveSignal, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.WaveSignal{
			Defendant:     c.Defendant,
			CaseCount:     c.CaseCount,
			Theories:      c.Theories,
			Jurisdictions: c.Jurisdictions,
			Narrative:     d.narrator.DescribeWave(ctx, c.Defendant, c.CaseCount, c.Theories, c.Jurisdictions),
		})
	}
	return out, nil
}
