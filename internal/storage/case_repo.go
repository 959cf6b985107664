package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dailgraph/internal/models"
)

type CaseRepo struct {
	db *DB
}

func NewCaseRepo(db *DB) *CaseRepo {
	return &CaseRepo{db: db}
}

// jsonList encodes a string slice for a jsonb column. Nil encodes as the
// empty list, never SQL NULL.
func jsonList(xs []string) []byte {
	if xs == nil {
		xs = []string{}
	}
	b, _ := json.Marshal(xs)
	return b
}

func scanList(raw []byte) []string {
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil || out == nil {
		return []string{}
	}
	return out
}

func (r *CaseRepo) UpsertCase(ctx context.Context, c models.Case) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO cases (id, caption, brief_description, area_of_application, cause_of_action, issues,
  algorithm_names, organizations_text, jurisdiction_type, jurisdiction_filed, court_name,
  docket_number, date_filed, status, is_class_action, summary_significance, source,
  absolute_url, auto_classified, classification_confidence)
VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7, NULLIF($8,''), NULLIF($9,''), NULLIF($10,''),
  NULLIF($11,''), NULLIF($12,''), NULLIF($13,''), $14, NULLIF($15,''), NULLIF($16,''), $17,
  NULLIF($18,''), $19, $20)
ON CONFLICT (id)
DO UPDATE SET
  caption = EXCLUDED.caption,
  brief_description = COALESCE(EXCLUDED.brief_description, cases.brief_description),
  area_of_application = EXCLUDED.area_of_application,
  cause_of_action = EXCLUDED.cause_of_action,
  issues = EXCLUDED.issues,
  algorithm_names = EXCLUDED.algorithm_names,
  organizations_text = COALESCE(EXCLUDED.organizations_text, cases.organizations_text),
  jurisdiction_type = COALESCE(EXCLUDED.jurisdiction_type, cases.jurisdiction_type),
  jurisdiction_filed = COALESCE(EXCLUDED.jurisdiction_filed, cases.jurisdiction_filed),
  court_name = COALESCE(EXCLUDED.court_name, cases.court_name),
  docket_number = COALESCE(EXCLUDED.docket_number, cases.docket_number),
  date_filed = COALESCE(EXCLUDED.date_filed, cases.date_filed),
  status = EXCLUDED.status,
  is_class_action = COALESCE(EXCLUDED.is_class_action, cases.is_class_action),
  summary_significance = COALESCE(EXCLUDED.summary_significance, cases.summary_significance),
  source = EXCLUDED.source,
  absolute_url = COALESCE(EXCLUDED.absolute_url, cases.absolute_url),
  auto_classified = EXCLUDED.auto_classified,
  classification_confidence = COALESCE(EXCLUDED.classification_confidence, cases.classification_confidence),
  updated_at = NOW()`,
		c.ID, c.Caption, c.BriefDescription, jsonList(c.AreaOfApplication), jsonList(c.CauseOfAction),
		jsonList(c.Issues), jsonList(c.AlgorithmNames), c.OrganizationsText, c.JurisdictionType,
		c.JurisdictionFiled, c.CourtName, c.DocketNumber, c.DateFiled, c.Status, c.IsClassAction,
		c.SummarySignificance, c.Source, c.AbsoluteURL, c.AutoClassified, c.ClassificationConfidence,
	)
	if err != nil {
		return fmt.Errorf("upsert case: %w", err)
	}
	return nil
}

const caseColumns = `id, caption, COALESCE(brief_description,''), area_of_application, cause_of_action,
  issues, algorithm_names, COALESCE(organizations_text,''), COALESCE(jurisdiction_type,''),
  COALESCE(jurisdiction_filed,''), COALESCE(court_name,''), COALESCE(docket_number,''),
  COALESCE(date_filed,''), status, COALESCE(is_class_action,''), COALESCE(summary_significance,''),
  source, COALESCE(absolute_url,''), auto_classified, classification_confidence, created_at, updated_at`

func scanCase(row pgx.Row) (models.Case, error) {
	var c models.Case
	var areas, causes, issues, algos []byte
	err := row.Scan(&c.ID, &c.Caption, &c.BriefDescription, &areas, &causes, &issues, &algos,
		&c.OrganizationsText, &c.JurisdictionType, &c.JurisdictionFiled, &c.CourtName,
		&c.DocketNumber, &c.DateFiled, &c.Status, &c.IsClassAction, &c.SummarySignificance,
		&c.Source, &c.AbsoluteURL, &c.AutoClassified, &c.ClassificationConfidence,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return models.Case{}, err
	}
	c.AreaOfApplication = scanList(areas)
	c.CauseOfAction = scanList(causes)
	c.Issues = scanList(issues)
	c.AlgorithmNames = scanList(algos)
	return c, nil
}

func (r *CaseRepo) GetCase(ctx context.Context, id string) (models.Case, error) {
	c, err := scanCase(r.db.Pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Case{}, ErrNotFound
	}
	if err != nil {
		return models.Case{}, fmt.Errorf("get case: %w", err)
	}
	return c, nil
}

func (r *CaseRepo) ListCases(ctx context.Context, status, source string, limit int) ([]models.Case, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT `+caseColumns+` FROM cases
WHERE ($1 = '' OR status = $1) AND ($2 = '' OR source = $2)
ORDER BY updated_at DESC
LIMIT $3`, status, source, limit)
	if err != nil {
		return nil, fmt.Errorf("list cases: %w", err)
	}
	defer rows.Close()
	out := make([]models.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ExistsByDocket reports whether any case already carries this docket number.
// Empty docket numbers never match; the feed dedup treats them as unknown.
func (r *CaseRepo) ExistsByDocket(ctx context.Context, docketNumber string) (bool, error) {
	if docketNumber == "" {
		return false, nil
	}
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cases WHERE docket_number=$1)`, docketNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check docket: %w", err)
	}
	return exists, nil
}

func (r *CaseRepo) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cases WHERE id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check case: %w", err)
	}
	return exists, nil
}

// SetStatus moves a case between lifecycle states without touching any other
// field.
func (r *CaseRepo) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE cases SET status=$2, updated_at=NOW() WHERE id=$1`, id, status)
	if err != nil {
		return fmt.Errorf("set case status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApplyClassification promotes a stub to a classified active case. Used both
// by auto-merge and by a human approving a queued classification.
func (r *CaseRepo) ApplyClassification(ctx context.Context, id string, areas, causes []string, confidence float64, auto bool) error {
	tag, err := r.db.Pool.Exec(ctx, `
UPDATE cases SET
  status = 'Active',
  area_of_application = $2,
  cause_of_action = $3,
  auto_classified = $4,
  classification_confidence = $5,
  updated_at = NOW()
WHERE id = $1`, id, jsonList(areas), jsonList(causes), auto, confidence)
	if err != nil {
		return fmt.Errorf("apply classification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCasesNeedingExtraction returns cases that carry raw entity text but no
// defendant relationship yet, oldest first.
func (r *CaseRepo) ListCasesNeedingExtraction(ctx context.Context, limit int) ([]models.Case, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT `+caseColumns+` FROM cases c
WHERE COALESCE(c.organizations_text, '') <> ''
  AND NOT EXISTS (SELECT 1 FROM case_defendants d WHERE d.case_id = c.id)
  AND NOT EXISTS (SELECT 1 FROM review_items r WHERE r.case_id = c.id AND r.type = 'entity' AND r.status = 'pending')
ORDER BY c.created_at
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list cases needing extraction: %w", err)
	}
	defer rows.Close()
	out := make([]models.Case, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan case: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
