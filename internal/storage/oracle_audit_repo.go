package storage

import (
	"context"
	"fmt"
)

type OracleCallRecord struct {
	Operation    string
	CaseID       string
	ProviderName string
	Model        string
	Status       string
	ErrorType    string
}

// OracleAuditRepo records every oracle invocation so provider spend and
// failure modes stay observable.
type OracleAuditRepo struct {
	db *DB
}

func NewOracleAuditRepo(db *DB) *OracleAuditRepo {
	return &OracleAuditRepo{db: db}
}

func (r *OracleAuditRepo) Insert(ctx context.Context, rec OracleCallRecord) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO oracle_calls (operation, case_id, provider_name, model, status, error_type)
VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), $5, NULLIF($6,''))`,
		rec.Operation, rec.CaseID, rec.ProviderName, rec.Model, rec.Status, rec.ErrorType)
	if err != nil {
		return fmt.Errorf("insert oracle call: %w", err)
	}
	return nil
}
