package storage

import (
	"context"
	"fmt"
)

// EnsureSchema creates the full graph schema. All DDL is idempotent so the
// api, worker, and seed binaries can each run it at startup.
func EnsureSchema(ctx context.Context, db *DB) error {
	ddl := `
CREATE TABLE IF NOT EXISTS cases (
  id TEXT PRIMARY KEY,
  caption TEXT NOT NULL,
  brief_description TEXT,
  area_of_application JSONB NOT NULL DEFAULT '[]'::jsonb,
  cause_of_action JSONB NOT NULL DEFAULT '[]'::jsonb,
  issues JSONB NOT NULL DEFAULT '[]'::jsonb,
  algorithm_names JSONB NOT NULL DEFAULT '[]'::jsonb,
  organizations_text TEXT,
  jurisdiction_type TEXT,
  jurisdiction_filed TEXT,
  court_name TEXT,
  docket_number TEXT,
  date_filed TEXT,
  status TEXT NOT NULL DEFAULT 'Active',
  is_class_action TEXT,
  summary_significance TEXT,
  source TEXT NOT NULL DEFAULT 'dail',
  absolute_url TEXT,
  auto_classified BOOLEAN NOT NULL DEFAULT FALSE,
  classification_confidence DOUBLE PRECISION,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_cases_docket ON cases(docket_number) WHERE docket_number IS NOT NULL AND docket_number <> '';
CREATE INDEX IF NOT EXISTS idx_cases_status ON cases(status);
CREATE INDEX IF NOT EXISTS idx_cases_source ON cases(source);

CREATE TABLE IF NOT EXISTS organizations (
  canonical_name TEXT PRIMARY KEY,
  name TEXT
);

CREATE TABLE IF NOT EXISTS ai_systems (
  name TEXT PRIMARY KEY,
  category TEXT
);

CREATE TABLE IF NOT EXISTS legal_theories (
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS courts (
  name TEXT PRIMARY KEY,
  jurisdiction_type TEXT
);

CREATE TABLE IF NOT EXISTS case_defendants (
  case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
  canonical_name TEXT NOT NULL REFERENCES organizations(canonical_name) ON DELETE CASCADE,
  roles JSONB NOT NULL DEFAULT '[]'::jsonb,
  confidence DOUBLE PRECISION NOT NULL DEFAULT 1.0,
  extracted_by TEXT NOT NULL DEFAULT 'demo',
  reviewed_by_human BOOLEAN NOT NULL DEFAULT FALSE,
  review_item_id UUID,
  PRIMARY KEY (case_id, canonical_name)
);

CREATE TABLE IF NOT EXISTS case_systems (
  case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
  system_name TEXT NOT NULL REFERENCES ai_systems(name) ON DELETE CASCADE,
  confidence DOUBLE PRECISION NOT NULL DEFAULT 1.0,
  extracted_by TEXT NOT NULL DEFAULT 'demo',
  reviewed_by_human BOOLEAN NOT NULL DEFAULT FALSE,
  review_item_id UUID,
  PRIMARY KEY (case_id, system_name)
);

CREATE TABLE IF NOT EXISTS case_theories (
  case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
  theory_name TEXT NOT NULL REFERENCES legal_theories(name) ON DELETE CASCADE,
  PRIMARY KEY (case_id, theory_name)
);

CREATE TABLE IF NOT EXISTS case_courts (
  case_id TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
  court_name TEXT NOT NULL REFERENCES courts(name) ON DELETE CASCADE,
  PRIMARY KEY (case_id, court_name)
);

CREATE TABLE IF NOT EXISTS review_items (
  id UUID PRIMARY KEY,
  case_id TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('entity','classification','ai_system')),
  payload TEXT NOT NULL,
  confidence DOUBLE PRECISION NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','approved','rejected')),
  raw_text TEXT,
  correction TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  reviewed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_review_pending ON review_items(status, confidence) WHERE status = 'pending';

CREATE TABLE IF NOT EXISTS correction_log (
  id BIGSERIAL PRIMARY KEY,
  review_item_id UUID NOT NULL REFERENCES review_items(id),
  correction TEXT NOT NULL,
  logged_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ingest_runs (
  id BIGSERIAL PRIMARY KEY,
  run_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  cases_found INT NOT NULL DEFAULT 0,
  cases_added INT NOT NULL DEFAULT 0,
  cases_queued INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS oracle_calls (
  call_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
  operation TEXT NOT NULL,
  case_id TEXT,
  provider_name TEXT NOT NULL,
  model TEXT,
  status TEXT NOT NULL,
  error_type TEXT,
  called_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
