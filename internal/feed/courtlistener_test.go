package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSearchNormalizesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/", r.URL.Path)
		require.Equal(t, "facial recognition", r.URL.Query().Get("q"))
		require.Equal(t, "r", r.URL.Query().Get("type"))
		require.Equal(t, "2026-08-23", r.URL.Query().Get("filed_after"))
		require.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"docket_id": 68123456, "caseName": " Doe v. ClearSight AI ", "court": "N.D. Cal.", "dateFiled": "2026-08-25", "docketNumber": " 3:26-cv-04821 ", "absolute_url": "/docket/68123456/doe-v-clearsight/"},
			{"docket_id": 0, "caseName": "Missing ID", "court": "", "dateFiled": "", "docketNumber": "", "absolute_url": ""}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-token", 10)
	after := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	results, err := c.Search(context.Background(), "facial recognition", after)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "68123456", results[0].ExternalID)
	require.Equal(t, "Doe v. ClearSight AI", results[0].Caption)
	require.Equal(t, "3:26-cv-04821", results[0].DocketNumber)
	require.Equal(t, "N.D. Cal.", results[0].CourtName)
}

func TestSearchServerErrorReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	_, err := c.Search(context.Background(), "deepfake", time.Now().AddDate(0, 0, -7))
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestSearchBadJSONReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	_, err := c.Search(context.Background(), "generative AI", time.Now())
	require.Error(t, err)
}

func TestOpinionTextPrefersPlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/clusters/9912/", r.URL.Path)
		w.Write([]byte(`{"plain_text": "The court finds...", "html_with_citations": "<p>ignored</p>"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	require.Equal(t, "The court finds...", c.OpinionText(context.Background(), "9912"))
}

func TestOpinionTextBestEffort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 10)
	require.Empty(t, c.OpinionText(context.Background(), "404"))
	require.Empty(t, c.OpinionText(context.Background(), ""))
}

func TestKeywordListOrder(t *testing.T) {
	require.Equal(t, "artificial intelligence", AILitigationKeywords[0])
	require.Len(t, AILitigationKeywords, 10)
}
