package activities

import (
	"testing"

	"github.com/stretchr/testify/require"

	"dailgraph/internal/curation"
	"dailgraph/internal/oracle"
)

func TestRouteOrganizationGatesEveryRole(t *testing.T) {
	router := curation.NewRouter()

	// A mid-band plaintiff reaches the review queue like any other candidate.
	decision, canonical := routeOrganization(router, oracle.ExtractedOrganization{
		Name: "Jane Roe", CanonicalName: "Jane Roe", Roles: []string{"plaintiff"}, Confidence: 0.75,
	})
	require.Equal(t, curation.Queue, decision)
	require.Equal(t, "Jane Roe", canonical)

	decision, _ = routeOrganization(router, oracle.ExtractedOrganization{
		CanonicalName: "Mediation Partners LLC", Roles: []string{"third_party"}, Confidence: 0.90,
	})
	require.Equal(t, curation.AutoMerge, decision)

	decision, _ = routeOrganization(router, oracle.ExtractedOrganization{
		CanonicalName: "Acme Corp", Roles: []string{"defendant"}, Confidence: 0.40,
	})
	require.Equal(t, curation.Discard, decision)
}

func TestRouteOrganizationCanonicalFallback(t *testing.T) {
	router := curation.NewRouter()

	decision, canonical := routeOrganization(router, oracle.ExtractedOrganization{
		Name: "Acme", Roles: []string{"defendant"}, Confidence: 0.92,
	})
	require.Equal(t, curation.AutoMerge, decision)
	require.Equal(t, "Acme", canonical)

	decision, canonical = routeOrganization(router, oracle.ExtractedOrganization{Confidence: 0.99})
	require.Equal(t, curation.Discard, decision)
	require.Empty(t, canonical)
}
