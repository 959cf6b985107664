package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"dailgraph/internal/models"
	"dailgraph/internal/storage"
)

type fakeQueue struct {
	item storage.ResolvedItem
	err  error

	rejectedWith string
}

func (f *fakeQueue) Approve(ctx context.Context, id string) (storage.ResolvedItem, error) {
	return f.item, f.err
}

func (f *fakeQueue) Reject(ctx context.Context, id, correction string) (storage.ResolvedItem, error) {
	f.rejectedWith = correction
	return f.item, f.err
}

type fakeCases struct {
	classified  map[string]float64
	statuses    map[string]string
	statusError error
}

func newFakeCases() *fakeCases {
	return &fakeCases{classified: map[string]float64{}, statuses: map[string]string{}}
}

func (f *fakeCases) ApplyClassification(ctx context.Context, id string, areas, causes []string, confidence float64, auto bool) error {
	f.classified[id] = confidence
	return nil
}

func (f *fakeCases) SetStatus(ctx context.Context, id, status string) error {
	if f.statusError != nil {
		return f.statusError
	}
	f.statuses[id] = status
	return nil
}

type fakeEntities struct {
	defendants []models.DefendantRelation
	systems    []models.SystemRelation
	marked     []string
}

func (f *fakeEntities) UpsertDefendantRelation(ctx context.Context, rel models.DefendantRelation) error {
	f.defendants = append(f.defendants, rel)
	return nil
}

func (f *fakeEntities) UpsertSystemRelation(ctx context.Context, rel models.SystemRelation) error {
	f.systems = append(f.systems, rel)
	return nil
}

func (f *fakeEntities) MarkRelationsReviewed(ctx context.Context, reviewItemID string) error {
	f.marked = append(f.marked, reviewItemID)
	return nil
}

func TestApproveClassificationActivatesCase(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:         "ri-1",
		CaseID:     "cl-100",
		Type:       models.ReviewTypeClassification,
		Payload:    `{"isAiLitigation": true, "confidence": 0.78, "areaOfApplication": ["Employment"], "causeOfAction": ["Discrimination"]}`,
		Confidence: 0.78,
	}}
	cases := newFakeCases()
	entities := &fakeEntities{}
	svc := NewService(q, cases, entities)

	item, err := svc.Approve(context.Background(), "ri-1")
	require.NoError(t, err)
	require.Equal(t, "cl-100", item.CaseID)
	require.Equal(t, 0.78, cases.classified["cl-100"])
	require.Equal(t, []string{"ri-1"}, entities.marked)
}

func TestApproveEntityMaterializesReviewedRelation(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:      "ri-2",
		CaseID:  "cl-200",
		Type:    models.ReviewTypeEntity,
		Payload: `{"name": "Acme Inc.", "canonicalName": "Acme", "roles": ["defendant"], "confidence": 0.81}`,
	}}
	entities := &fakeEntities{}
	svc := NewService(q, newFakeCases(), entities)

	_, err := svc.Approve(context.Background(), "ri-2")
	require.NoError(t, err)
	require.Len(t, entities.defendants, 1)
	rel := entities.defendants[0]
	require.Equal(t, "Acme", rel.CanonicalName)
	require.True(t, rel.ReviewedByHuman)
	require.Equal(t, "ri-2", rel.ReviewItemID)
	require.Equal(t, models.ProvenanceClaude, rel.ExtractedBy)
}

func TestApproveAISystemMaterializesRelation(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:      "ri-3",
		CaseID:  "cl-300",
		Type:    models.ReviewTypeAISystem,
		Payload: `{"name": "FaceMatch", "category": "biometric", "confidence": 0.75}`,
	}}
	entities := &fakeEntities{}
	svc := NewService(q, newFakeCases(), entities)

	_, err := svc.Approve(context.Background(), "ri-3")
	require.NoError(t, err)
	require.Len(t, entities.systems, 1)
	require.Equal(t, "FaceMatch", entities.systems[0].SystemName)
	require.True(t, entities.systems[0].ReviewedByHuman)
}

func TestApproveAlreadyResolvedReturnsNotFound(t *testing.T) {
	q := &fakeQueue{err: storage.ErrNotFound}
	svc := NewService(q, newFakeCases(), &fakeEntities{})

	_, err := svc.Approve(context.Background(), "ri-4")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestApproveBadPayloadErrors(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:      "ri-5",
		CaseID:  "cl-500",
		Type:    models.ReviewTypeEntity,
		Payload: "not json at all",
	}}
	svc := NewService(q, newFakeCases(), &fakeEntities{})

	_, err := svc.Approve(context.Background(), "ri-5")
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode review payload")
}

func TestRejectClassificationDeactivatesCase(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:     "ri-6",
		CaseID: "cl-600",
		Type:   models.ReviewTypeClassification,
	}}
	cases := newFakeCases()
	svc := NewService(q, cases, &fakeEntities{})

	_, err := svc.Reject(context.Background(), "ri-6", "not about AI at all")
	require.NoError(t, err)
	require.Equal(t, "not about AI at all", q.rejectedWith)
	require.Equal(t, models.StatusInactive, cases.statuses["cl-600"])
}

func TestRejectEntityLeavesGraphUntouched(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:     "ri-7",
		CaseID: "cl-700",
		Type:   models.ReviewTypeEntity,
	}}
	cases := newFakeCases()
	entities := &fakeEntities{}
	svc := NewService(q, cases, entities)

	_, err := svc.Reject(context.Background(), "ri-7", "wrong entity")
	require.NoError(t, err)
	require.Empty(t, entities.defendants)
	require.Empty(t, cases.statuses)
}

func TestRejectMissingStubIsTolerated(t *testing.T) {
	q := &fakeQueue{item: storage.ResolvedItem{
		ID:     "ri-8",
		CaseID: "cl-gone",
		Type:   models.ReviewTypeClassification,
	}}
	cases := newFakeCases()
	cases.statusError = storage.ErrNotFound
	svc := NewService(q, cases, &fakeEntities{})

	_, err := svc.Reject(context.Background(), "ri-8", "stale item")
	require.NoError(t, err)
}
