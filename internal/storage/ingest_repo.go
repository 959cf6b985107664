package storage

import (
	"context"
	"fmt"

	"dailgraph/internal/models"
)

type IngestRepo struct {
	db *DB
}

func NewIngestRepo(db *DB) *IngestRepo {
	return &IngestRepo{db: db}
}

func (r *IngestRepo) RecordRun(ctx context.Context, run models.IngestRun) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO ingest_runs (cases_found, cases_added, cases_queued)
VALUES ($1, $2, $3)`, run.CasesFound, run.CasesAdded, run.CasesQueued)
	if err != nil {
		return fmt.Errorf("record ingest run: %w", err)
	}
	return nil
}

// StagedCase is a feed case parked below the auto-merge band, waiting on a
// classification review.
type StagedCase struct {
	ID         string   `json:"id"`
	Caption    string   `json:"caption"`
	CourtName  string   `json:"courtName"`
	DateFiled  string   `json:"dateFiled"`
	Confidence *float64 `json:"confidence"`
}

func (r *IngestRepo) ListStaged(ctx context.Context) ([]StagedCase, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT id, caption, COALESCE(court_name,''), COALESCE(date_filed,''), classification_confidence
FROM cases
WHERE source = $1 AND status = $2
ORDER BY COALESCE(date_filed,'') DESC`, models.SourceCourtListener, models.StatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("list staged cases: %w", err)
	}
	defer rows.Close()
	out := make([]StagedCase, 0)
	for rows.Next() {
		var sc StagedCase
		if err := rows.Scan(&sc.ID, &sc.Caption, &sc.CourtName, &sc.DateFiled, &sc.Confidence); err != nil {
			return nil, fmt.Errorf("scan staged case: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *IngestRepo) ListRuns(ctx context.Context, limit int) ([]models.IngestRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT run_at, cases_found, cases_added, cases_queued
FROM ingest_runs
ORDER BY run_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()
	out := make([]models.IngestRun, 0)
	for rows.Next() {
		var run models.IngestRun
		if err := rows.Scan(&run.Timestamp, &run.CasesFound, &run.CasesAdded, &run.CasesQueued); err != nil {
			return nil, fmt.Errorf("scan ingest run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
