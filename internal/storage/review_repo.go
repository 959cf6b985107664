package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dailgraph/internal/models"
)

type ReviewRepo struct {
	db *DB
}

func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Enqueue parks a candidate in the review queue and returns the item id.
// payload is stored as raw text so a malformed oracle response can still be
// inspected by a reviewer.
func (r *ReviewRepo) Enqueue(ctx context.Context, caseID, itemType, payload string, confidence float64, rawText string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO review_items (id, case_id, type, payload, confidence, status, raw_text)
VALUES ($1::uuid, $2, $3, $4, $5, 'pending', NULLIF($6,''))`,
		id, caseID, itemType, payload, confidence, rawText)
	if err != nil {
		return "", fmt.Errorf("enqueue review item: %w", err)
	}
	return id, nil
}

// decodePayload returns the parsed JSON payload, or the raw text when it does
// not parse. The queue never hides an item because its payload is mangled.
func decodePayload(payload string) any {
	var parsed any
	if err := json.Unmarshal([]byte(payload), &parsed); err == nil {
		return parsed
	}
	return payload
}

// ListPending returns the open queue, lowest confidence first so reviewers
// see the least certain candidates at the top. itemType narrows to one review
// kind when non-empty. Captions come from a left join; an item whose case was
// deleted still lists.
func (r *ReviewRepo) ListPending(ctx context.Context, itemType string, limit int) ([]models.ReviewItem, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT r.id::text, r.case_id, COALESCE(c.caption,''), r.type, r.payload, r.confidence, r.status,
       COALESCE(r.raw_text,''), r.created_at
FROM review_items r
LEFT JOIN cases c ON c.id = r.case_id
WHERE r.status = 'pending' AND ($1 = '' OR r.type = $1)
ORDER BY r.confidence ASC, r.created_at ASC
LIMIT $2`, itemType, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending reviews: %w", err)
	}
	defer rows.Close()

	out := make([]models.ReviewItem, 0)
	for rows.Next() {
		var item models.ReviewItem
		var payload string
		if err := rows.Scan(&item.ID, &item.CaseID, &item.CaseCaption, &item.Type, &payload,
			&item.Confidence, &item.Status, &item.RawText, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		item.Payload = decodePayload(payload)
		out = append(out, item)
	}
	return out, rows.Err()
}

// ResolvedItem is what a decision handed back to the caller so it can apply
// the graph side effects of the approval or rejection.
type ResolvedItem struct {
	ID         string
	CaseID     string
	Type       string
	Payload    string
	Confidence float64
}

// Approve flips a pending item to approved. The transition is one-way: a row
// that is no longer pending matches nothing and the call returns ErrNotFound.
func (r *ReviewRepo) Approve(ctx context.Context, id string) (ResolvedItem, error) {
	return r.resolve(ctx, id, models.ReviewStatusApproved, "")
}

// Reject flips a pending item to rejected and writes the correction to the
// append-only log inside the same transaction.
func (r *ReviewRepo) Reject(ctx context.Context, id, correction string) (ResolvedItem, error) {
	return r.resolve(ctx, id, models.ReviewStatusRejected, correction)
}

func (r *ReviewRepo) resolve(ctx context.Context, id, status, correction string) (ResolvedItem, error) {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return ResolvedItem{}, fmt.Errorf("begin review transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var item ResolvedItem
	err = tx.QueryRow(ctx, `
UPDATE review_items
SET status = $2, correction = NULLIF($3,''), reviewed_at = NOW()
WHERE id = $1::uuid AND status = 'pending'
RETURNING id::text, case_id, type, payload, confidence`,
		id, status, correction).
		Scan(&item.ID, &item.CaseID, &item.Type, &item.Payload, &item.Confidence)
	if errors.Is(err, pgx.ErrNoRows) {
		return ResolvedItem{}, ErrNotFound
	}
	if err != nil {
		return ResolvedItem{}, fmt.Errorf("resolve review item: %w", err)
	}

	if status == models.ReviewStatusRejected {
		if _, err := tx.Exec(ctx, `
INSERT INTO correction_log (review_item_id, correction) VALUES ($1::uuid, $2)`, id, correction); err != nil {
			return ResolvedItem{}, fmt.Errorf("log correction: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return ResolvedItem{}, fmt.Errorf("commit review transaction: %w", err)
	}
	return item, nil
}

func (r *ReviewRepo) Stats(ctx context.Context) (models.ReviewStats, error) {
	var s models.ReviewStats
	err := r.db.Pool.QueryRow(ctx, `
SELECT
  COUNT(*) FILTER (WHERE status = 'pending'),
  COUNT(*) FILTER (WHERE status = 'approved'),
  COUNT(*) FILTER (WHERE status = 'rejected'),
  COALESCE(AVG(confidence), 0)
FROM review_items`).
		Scan(&s.Pending, &s.Approved, &s.Rejected, &s.AvgConfidence)
	if err != nil {
		return models.ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return s, nil
}

func (r *ReviewRepo) ListCorrections(ctx context.Context, limit int) ([]models.CorrectionLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT review_item_id::text, correction, logged_at
FROM correction_log
ORDER BY logged_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list corrections: %w", err)
	}
	defer rows.Close()
	out := make([]models.CorrectionLog, 0)
	for rows.Next() {
		var entry models.CorrectionLog
		var at time.Time
		if err := rows.Scan(&entry.ReviewItemID, &entry.Correction, &at); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		entry.LoggedAt = at
		out = append(out, entry)
	}
	return out, rows.Err()
}
