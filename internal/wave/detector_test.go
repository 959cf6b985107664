package wave

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dailgraph/internal/oracle"
	"dailgraph/internal/storage"
)

type fakeSource struct {
	candidates []storage.WaveCandidate
	gotWindow  int
	gotThresh  int
}

func (f *fakeSource) WaveCandidates(ctx context.Context, now time.Time, windowDays, threshold int) ([]storage.WaveCandidate, error) {
	f.gotWindow = windowDays
	f.gotThresh = threshold
	return f.candidates, nil
}

type fallbackNarrator struct{}

func (fallbackNarrator) DescribeWave(ctx context.Context, defendant string, caseCount int, theories, jurisdictions []string) string {
	return oracle.FallbackWaveNarrative(defendant, caseCount, theories)
}

func TestDetectBuildsSignals(t *testing.T) {
	src := &fakeSource{candidates: []storage.WaveCandidate{
		{Defendant: "ClearSight AI", CaseCount: 4, Theories: []string{"BIPA", "Negligence"}, Jurisdictions: []string{"Illinois"}},
		{Defendant: "ModelCo", CaseCount: 3, Theories: []string{"Copyright"}, Jurisdictions: []string{"California", "New York"}},
	}}
	d := NewDetector(src, fallbackNarrator{}, 60, 3)

	signals, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Len(t, signals, 2)
	require.Equal(t, 60, src.gotWindow)
	require.Equal(t, 3, src.gotThresh)
	require.Equal(t, "ClearSight AI", signals[0].Defendant)
	require.Equal(t, "4 cases filed against ClearSight AI in the last 60 days involving BIPA, Negligence.", signals[0].Narrative)
}

func TestDetectEmptyWindow(t *testing.T) {
	d := NewDetector(&fakeSource{}, fallbackNarrator{}, 0, 0)
	signals, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Empty(t, signals)
}

func TestDetectorDefaults(t *testing.T) {
	src := &fakeSource{}
	d := NewDetector(src, fallbackNarrator{}, 0, 0)
	_, err := d.Detect(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultWindowDays, src.gotWindow)
	require.Equal(t, DefaultThreshold, src.gotThresh)
}
