package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"dailgraph/internal/models"
)

type fakeReviewQueue struct {
	gotType  string
	gotLimit int
	items    []models.ReviewItem
}

func (f *fakeReviewQueue) ListPending(_ context.Context, itemType string, limit int) ([]models.ReviewItem, error) {
	f.gotType = itemType
	f.gotLimit = limit
	return f.items, nil
}

func (f *fakeReviewQueue) Stats(context.Context) (models.ReviewStats, error) {
	return models.ReviewStats{}, nil
}

func (f *fakeReviewQueue) ListCorrections(context.Context, int) ([]models.CorrectionLog, error) {
	return nil, nil
}

func TestReviewQueuePassesTypeFilter(t *testing.T) {
	fake := &fakeReviewQueue{items: []models.ReviewItem{{ID: "ri-1", Type: models.ReviewTypeEntity}}}
	s := &Server{reviewRepo: fake}

	w := httptest.NewRecorder()
	s.handleReviewQueue(w, httptest.NewRequest("GET", "/review/queue?type=entity&limit=5", nil))

	require.Equal(t, 200, w.Code)
	require.Equal(t, models.ReviewTypeEntity, fake.gotType)
	require.Equal(t, 5, fake.gotLimit)
}

func TestReviewQueueDefaultsUnfiltered(t *testing.T) {
	fake := &fakeReviewQueue{}
	s := &Server{reviewRepo: fake}

	w := httptest.NewRecorder()
	s.handleReviewQueue(w, httptest.NewRequest("GET", "/review/queue", nil))

	require.Equal(t, 200, w.Code)
	require.Equal(t, "", fake.gotType)
	require.Equal(t, 100, fake.gotLimit)
}
