package storage

import (
	"context"
	"fmt"

	"dailgraph/internal/models"
)

// EntityRepo owns the entity nodes and the case relationships that connect
// them. Node upserts never downgrade an existing non-empty attribute.
type EntityRepo struct {
	db *DB
}

func NewEntityRepo(db *DB) *EntityRepo {
	return &EntityRepo{db: db}
}

func (r *EntityRepo) UpsertOrganization(ctx context.Context, org models.Organization) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO organizations (canonical_name, name)
VALUES ($1, NULLIF($2,''))
ON CONFLICT (canonical_name)
DO UPDATE SET name = COALESCE(EXCLUDED.name, organizations.name)`,
		org.CanonicalName, org.Name)
	if err != nil {
		return fmt.Errorf("upsert organization: %w", err)
	}
	return nil
}

func (r *EntityRepo) UpsertAISystem(ctx context.Context, sys models.AISystem) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO ai_systems (name, category)
VALUES ($1, NULLIF($2,''))
ON CONFLICT (name)
DO UPDATE SET category = COALESCE(EXCLUDED.category, ai_systems.category)`,
		sys.Name, sys.Category)
	if err != nil {
		return fmt.Errorf("upsert ai system: %w", err)
	}
	return nil
}

func (r *EntityRepo) UpsertLegalTheory(ctx context.Context, name string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO legal_theories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("upsert legal theory: %w", err)
	}
	return nil
}

func (r *EntityRepo) UpsertCourt(ctx context.Context, name, jurisdictionType string) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO courts (name, jurisdiction_type)
VALUES ($1, NULLIF($2,''))
ON CONFLICT (name)
DO UPDATE SET jurisdiction_type = COALESCE(EXCLUDED.jurisdiction_type, courts.jurisdiction_type)`,
		name, jurisdictionType)
	if err != nil {
		return fmt.Errorf("upsert court: %w", err)
	}
	return nil
}

// UpsertDefendantRelation links a case to an organization, creating the
// organization node first so the foreign key holds.
func (r *EntityRepo) UpsertDefendantRelation(ctx context.Context, rel models.DefendantRelation) error {
	if err := r.UpsertOrganization(ctx, models.Organization{CanonicalName: rel.CanonicalName}); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_defendants (case_id, canonical_name, roles, confidence, extracted_by, reviewed_by_human, review_item_id)
VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7,'')::uuid)
ON CONFLICT (case_id, canonical_name)
DO UPDATE SET
  roles = EXCLUDED.roles,
  confidence = GREATEST(case_defendants.confidence, EXCLUDED.confidence),
  extracted_by = EXCLUDED.extracted_by,
  reviewed_by_human = case_defendants.reviewed_by_human OR EXCLUDED.reviewed_by_human,
  review_item_id = COALESCE(EXCLUDED.review_item_id, case_defendants.review_item_id)`,
		rel.CaseID, rel.CanonicalName, jsonList(rel.Roles), rel.Confidence, rel.ExtractedBy,
		rel.ReviewedByHuman, rel.ReviewItemID)
	if err != nil {
		return fmt.Errorf("upsert defendant relation: %w", err)
	}
	return nil
}

func (r *EntityRepo) UpsertSystemRelation(ctx context.Context, rel models.SystemRelation) error {
	if err := r.UpsertAISystem(ctx, models.AISystem{Name: rel.SystemName}); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_systems (case_id, system_name, confidence, extracted_by, reviewed_by_human, review_item_id)
VALUES ($1, $2, $3, $4, $5, NULLIF($6,'')::uuid)
ON CONFLICT (case_id, system_name)
DO UPDATE SET
  confidence = GREATEST(case_systems.confidence, EXCLUDED.confidence),
  extracted_by = EXCLUDED.extracted_by,
  reviewed_by_human = case_systems.reviewed_by_human OR EXCLUDED.reviewed_by_human,
  review_item_id = COALESCE(EXCLUDED.review_item_id, case_systems.review_item_id)`,
		rel.CaseID, rel.SystemName, rel.Confidence, rel.ExtractedBy, rel.ReviewedByHuman, rel.ReviewItemID)
	if err != nil {
		return fmt.Errorf("upsert system relation: %w", err)
	}
	return nil
}

func (r *EntityRepo) LinkTheory(ctx context.Context, caseID, theory string) error {
	if err := r.UpsertLegalTheory(ctx, theory); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_theories (case_id, theory_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, caseID, theory)
	if err != nil {
		return fmt.Errorf("link theory: %w", err)
	}
	return nil
}

func (r *EntityRepo) LinkCourt(ctx context.Context, caseID, court, jurisdictionType string) error {
	if err := r.UpsertCourt(ctx, court, jurisdictionType); err != nil {
		return err
	}
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_courts (case_id, court_name) VALUES ($1, $2) ON CONFLICT DO NOTHING`, caseID, court)
	if err != nil {
		return fmt.Errorf("link court: %w", err)
	}
	return nil
}

// DeriveTheoriesAndCourts materializes LegalTheory and Court nodes from case
// attributes in one set-based pass. Used after a bulk import. Returns the
// number of theory and court links written.
func (r *EntityRepo) DeriveTheoriesAndCourts(ctx context.Context) (int, int, error) {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO legal_theories (name)
SELECT DISTINCT TRIM(theory.value)
FROM cases, jsonb_array_elements_text(cause_of_action) AS theory(value)
WHERE TRIM(theory.value) <> ''
ON CONFLICT (name) DO NOTHING`)
	if err != nil {
		return 0, 0, fmt.Errorf("derive legal theories: %w", err)
	}
	theoryTag, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_theories (case_id, theory_name)
SELECT DISTINCT c.id, TRIM(theory.value)
FROM cases c, jsonb_array_elements_text(c.cause_of_action) AS theory(value)
WHERE TRIM(theory.value) <> ''
ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, 0, fmt.Errorf("derive theory links: %w", err)
	}

	_, err = r.db.Pool.Exec(ctx, `
INSERT INTO courts (name, jurisdiction_type)
SELECT DISTINCT jurisdiction_filed, NULLIF(MIN(COALESCE(jurisdiction_type,'')), '')
FROM cases
WHERE COALESCE(jurisdiction_filed, '') <> ''
GROUP BY jurisdiction_filed
ON CONFLICT (name) DO UPDATE SET jurisdiction_type = COALESCE(courts.jurisdiction_type, EXCLUDED.jurisdiction_type)`)
	if err != nil {
		return 0, 0, fmt.Errorf("derive courts: %w", err)
	}
	courtTag, err := r.db.Pool.Exec(ctx, `
INSERT INTO case_courts (case_id, court_name)
SELECT id, jurisdiction_filed
FROM cases
WHERE COALESCE(jurisdiction_filed, '') <> ''
ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, 0, fmt.Errorf("derive court links: %w", err)
	}
	return int(theoryTag.RowsAffected()), int(courtTag.RowsAffected()), nil
}

// MarkRelationsReviewed flips every relationship created from one review item
// to human-reviewed. Called when that item is approved.
func (r *EntityRepo) MarkRelationsReviewed(ctx context.Context, reviewItemID string) error {
	_, err := r.db.Pool.Exec(ctx, `
UPDATE case_defendants SET reviewed_by_human = TRUE WHERE review_item_id = $1::uuid`, reviewItemID)
	if err != nil {
		return fmt.Errorf("mark defendant relations reviewed: %w", err)
	}
	_, err = r.db.Pool.Exec(ctx, `
UPDATE case_systems SET reviewed_by_human = TRUE WHERE review_item_id = $1::uuid`, reviewItemID)
	if err != nil {
		return fmt.Errorf("mark system relations reviewed: %w", err)
	}
	return nil
}
