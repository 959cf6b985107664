package curation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouteBoundaries(t *testing.T) {
	r := NewRouter()

	cases := []struct {
		name       string
		confidence float64
		want       Decision
	}{
		{"well below min", 0.10, Discard},
		{"just below min", 0.6999, Discard},
		{"exactly min", 0.70, Queue},
		{"mid band", 0.78, Queue},
		{"just below auto", 0.8499, Queue},
		{"exactly auto", 0.85, AutoMerge},
		{"high", 0.97, AutoMerge},
		{"certain", 1.0, AutoMerge},
		{"zero", 0.0, Discard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, r.Route(tc.confidence))
		})
	}
}

func TestRouteClassificationNeverDiscards(t *testing.T) {
	r := NewRouter()

	require.Equal(t, Queue, r.RouteClassification(0.10))
	require.Equal(t, Queue, r.RouteClassification(0.70))
	require.Equal(t, Queue, r.RouteClassification(0.84))
	require.Equal(t, AutoMerge, r.RouteClassification(0.85))
	require.Equal(t, AutoMerge, r.RouteClassification(0.92))
}

func TestNewRouterWithRejectsBadThresholds(t *testing.T) {
	r := NewRouterWith(0.9, 0.5)
	require.Equal(t, Queue, r.Route(0.70))
	require.Equal(t, AutoMerge, r.Route(0.85))

	r = NewRouterWith(-0.1, 0.8)
	require.Equal(t, Discard, r.Route(0.69))
}

func TestNewRouterWithUnsetPairUsesDefaults(t *testing.T) {
	r := NewRouterWith(0, 0)
	require.Equal(t, Discard, r.Route(0.10))
	require.Equal(t, Queue, r.RouteClassification(0.10))
	require.Equal(t, AutoMerge, r.Route(0.85))

	// An explicit zero floor with a real auto threshold is still honored.
	r = NewRouterWith(0, 0.5)
	require.Equal(t, Queue, r.Route(0.10))
	require.Equal(t, AutoMerge, r.Route(0.5))
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "discard", Discard.String())
	require.Equal(t, "queue", Queue.String())
	require.Equal(t, "auto_merge", AutoMerge.String())
}
