// Package review applies the graph side effects of human review decisions.
// The queue transition itself is transactional in storage; this layer turns
// an approved candidate into graph material and a rejected one into a
// recorded correction.
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"dailgraph/internal/models"
	"dailgraph/internal/oracle"
	"dailgraph/internal/storage"
)

type Queue interface {
	Approve(ctx context.Context, id string) (storage.ResolvedItem, error)
	Reject(ctx context.Context, id, correction string) (storage.ResolvedItem, error)
}

type Cases interface {
	ApplyClassification(ctx context.Context, id string, areas, causes []string, confidence float64, auto bool) error
	SetStatus(ctx context.Context, id, status string) error
}

type Entities interface {
	UpsertDefendantRelation(ctx context.Context, rel models.DefendantRelation) error
	UpsertSystemRelation(ctx context.Context, rel models.SystemRelation) error
	MarkRelationsReviewed(ctx context.Context, reviewItemID string) error
}

type Service struct {
	queue    Queue
	cases    Cases
	entities Entities
}

func NewService(queue Queue, cases Cases, entities Entities) *Service {
	return &Service{queue: queue, cases: cases, entities: entities}
}

// Approve resolves a pending item and materializes its candidate. A second
// approval of the same item returns storage.ErrNotFound from the queue; the
// decision is final either way.
func (s *Service) Approve(ctx context.Context, id string) (storage.ResolvedItem, error) {
	item, err := s.queue.Approve(ctx, id)
	if err != nil {
		return storage.ResolvedItem{}, err
	}

	switch item.Type {
	case models.ReviewTypeClassification:
		var c oracle.Classification
		if err := unmarshalPayload(item.Payload, &c); err != nil {
			return item, err
		}
		if err := s.cases.ApplyClassification(ctx, item.CaseID, c.AreaOfApplication, c.CauseOfAction, c.Confidence, false); err != nil {
			return item, err
		}
	case models.ReviewTypeEntity:
		var org oracle.ExtractedOrganization
		if err := unmarshalPayload(item.Payload, &org); err != nil {
			return item, err
		}
		rel := models.DefendantRelation{
			CaseID:          item.CaseID,
			CanonicalName:   org.CanonicalName,
			Roles:           org.Roles,
			Confidence:      org.Confidence,
			ExtractedBy:     models.ProvenanceClaude,
			ReviewedByHuman: true,
			ReviewItemID:    item.ID,
		}
		if err := s.entities.UpsertDefendantRelation(ctx, rel); err != nil {
			return item, err
		}
	case models.ReviewTypeAISystem:
		var sys oracle.ExtractedAISystem
		if err := unmarshalPayload(item.Payload, &sys); err != nil {
			return item, err
		}
		rel := models.SystemRelation{
			CaseID:          item.CaseID,
			SystemName:      sys.Name,
			Confidence:      sys.Confidence,
			ExtractedBy:     models.ProvenanceClaude,
			ReviewedByHuman: true,
			ReviewItemID:    item.ID,
		}
		if err := s.entities.UpsertSystemRelation(ctx, rel); err != nil {
			return item, err
		}
	default:
		return item, fmt.Errorf("unknown review item type %q", item.Type)
	}

	// Any relationship auto-merged under this item also becomes
	// human-reviewed.
	if err := s.entities.MarkRelationsReviewed(ctx, item.ID); err != nil {
		log.Printf("mark relations reviewed for %s: %v", item.ID, err)
	}
	return item, nil
}

// Reject resolves a pending item with a correction. Rejecting a queued
// classification deactivates its stub case; nothing it proposed reaches the
// graph.
func (s *Service) Reject(ctx context.Context, id, correction string) (storage.ResolvedItem, error) {
	item, err := s.queue.Reject(ctx, id, correction)
	if err != nil {
		return storage.ResolvedItem{}, err
	}
	if item.Type == models.ReviewTypeClassification {
		if err := s.cases.SetStatus(ctx, item.CaseID, models.StatusInactive); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return item, err
		}
	}
	return item, nil
}

func unmarshalPayload(payload string, out any) error {
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode review payload: %w", err)
	}
	return nil
}
