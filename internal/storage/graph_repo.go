package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dailgraph/internal/models"

	"github.com/jackc/pgx/v5"
)

// GraphRepo serves the read-side analytics queries: overview counts,
// defendant rankings, wave candidates, and the guarded raw query used by the
// natural-language endpoint.
type GraphRepo struct {
	db *DB
}

func NewGraphRepo(db *DB) *GraphRepo {
	return &GraphRepo{db: db}
}

func (r *GraphRepo) Overview(ctx context.Context) (models.GraphOverview, error) {
	var o models.GraphOverview
	err := r.db.Pool.QueryRow(ctx, `
SELECT
  (SELECT COUNT(*) FROM cases),
  (SELECT COUNT(*) FROM organizations),
  (SELECT COUNT(*) FROM ai_systems),
  (SELECT COUNT(*) FROM legal_theories),
  (SELECT COUNT(*) FROM courts),
  (SELECT COUNT(*) FROM case_defendants) + (SELECT COUNT(*) FROM case_systems)
    + (SELECT COUNT(*) FROM case_theories) + (SELECT COUNT(*) FROM case_courts)`).
		Scan(&o.Cases, &o.Organizations, &o.AISystems, &o.LegalTheories, &o.Courts, &o.Relationships)
	if err != nil {
		return models.GraphOverview{}, fmt.Errorf("graph overview: %w", err)
	}
	return o, nil
}

func (r *GraphRepo) TopDefendants(ctx context.Context, limit int) ([]models.DefendantRanking, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT d.canonical_name,
       COUNT(*),
       COUNT(*) FILTER (WHERE c.status = 'Active'),
       COUNT(*) FILTER (WHERE c.status <> 'Active')
FROM case_defendants d
JOIN cases c ON c.id = d.case_id
GROUP BY d.canonical_name
ORDER BY COUNT(*) DESC, d.canonical_name
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top defendants: %w", err)
	}
	defer rows.Close()
	out := make([]models.DefendantRanking, 0)
	for rows.Next() {
		var dr models.DefendantRanking
		if err := rows.Scan(&dr.CanonicalName, &dr.CaseCount, &dr.ActiveCount, &dr.InactiveCount); err != nil {
			return nil, fmt.Errorf("scan defendant ranking: %w", err)
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

func (r *GraphRepo) TopAISystems(ctx context.Context, limit int) ([]models.AISystemRanking, error) {
	if limit <= 0 || limit > 100 {
		limit = 15
	}
	rows, err := r.db.Pool.Query(ctx, `
SELECT s.name, COALESCE(s.category,''), COUNT(cs.case_id)
FROM ai_systems s
JOIN case_systems cs ON cs.system_name = s.name
GROUP BY s.name, s.category
ORDER BY COUNT(cs.case_id) DESC, s.name
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top ai systems: %w", err)
	}
	defer rows.Close()
	out := make([]models.AISystemRanking, 0)
	for rows.Next() {
		var ar models.AISystemRanking
		if err := rows.Scan(&ar.Name, &ar.Category, &ar.CaseCount); err != nil {
			return nil, fmt.Errorf("scan ai system ranking: %w", err)
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

// DefendantCases lists every case naming the organization, with the theories
// and systems attached to each.
func (r *GraphRepo) DefendantCases(ctx context.Context, canonicalName string) ([]models.CaseSummary, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT c.id, c.caption, c.status, COALESCE(c.date_filed,''), COALESCE(c.jurisdiction_type,''),
       COALESCE((SELECT jsonb_agg(DISTINCT ct.theory_name) FROM case_theories ct WHERE ct.case_id = c.id), '[]'::jsonb),
       COALESCE((SELECT jsonb_agg(DISTINCT cs.system_name) FROM case_systems cs WHERE cs.case_id = c.id), '[]'::jsonb)
FROM case_defendants d
JOIN cases c ON c.id = d.case_id
WHERE d.canonical_name = $1
ORDER BY COALESCE(c.date_filed,'') DESC`, canonicalName)
	if err != nil {
		return nil, fmt.Errorf("defendant cases: %w", err)
	}
	defer rows.Close()
	out := make([]models.CaseSummary, 0)
	for rows.Next() {
		var (
			cs       models.CaseSummary
			theories []byte
			systems  []byte
		)
		if err := rows.Scan(&cs.ID, &cs.Caption, &cs.Status, &cs.DateFiled, &cs.JurisdictionType, &theories, &systems); err != nil {
			return nil, fmt.Errorf("scan defendant case: %w", err)
		}
		cs.Theories = scanList(theories)
		cs.AISystems = scanList(systems)
		out = append(out, cs)
	}
	return out, rows.Err()
}

func (r *GraphRepo) CasesByTheory(ctx context.Context, theoryName string) ([]models.CaseSummary, error) {
	rows, err := r.db.Pool.Query(ctx, `
SELECT c.id, c.caption, c.status, COALESCE(c.date_filed,''), COALESCE(c.jurisdiction_type,'')
FROM case_theories ct
JOIN cases c ON c.id = ct.case_id
WHERE ct.theory_name = $1
ORDER BY COALESCE(c.date_filed,'') DESC`, theoryName)
	if err != nil {
		return nil, fmt.Errorf("cases by theory: %w", err)
	}
	defer rows.Close()
	out := make([]models.CaseSummary, 0)
	for rows.Next() {
		var cs models.CaseSummary
		if err := rows.Scan(&cs.ID, &cs.Caption, &cs.Status, &cs.DateFiled, &cs.JurisdictionType); err != nil {
			return nil, fmt.Errorf("scan theory case: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

// CaseNeighbors returns a case with all of its one-hop relationships.
func (r *GraphRepo) CaseNeighbors(ctx context.Context, caseID string) (models.CaseNeighbors, error) {
	var n models.CaseNeighbors
	c, err := scanCase(r.db.Pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1`, caseID))
	if errors.Is(err, pgx.ErrNoRows) {
		return n, ErrNotFound
	}
	if err != nil {
		return n, fmt.Errorf("case neighbors: %w", err)
	}
	n.Case = c

	rows, err := r.db.Pool.Query(ctx, `
SELECT canonical_name, roles, confidence, COALESCE(extracted_by,''), reviewed_by_human
FROM case_defendants WHERE case_id = $1 ORDER BY canonical_name`, caseID)
	if err != nil {
		return n, fmt.Errorf("case defendants: %w", err)
	}
	n.Organizations = make([]models.DefendantRelation, 0)
	for rows.Next() {
		var (
			dr    models.DefendantRelation
			roles []byte
		)
		if err := rows.Scan(&dr.CanonicalName, &roles, &dr.Confidence, &dr.ExtractedBy, &dr.ReviewedByHuman); err != nil {
			rows.Close()
			return n, fmt.Errorf("scan case defendant: %w", err)
		}
		dr.CaseID = caseID
		dr.Roles = scanList(roles)
		n.Organizations = append(n.Organizations, dr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return n, err
	}

	rows, err = r.db.Pool.Query(ctx, `
SELECT system_name, confidence, COALESCE(extracted_by,''), reviewed_by_human
FROM case_systems WHERE case_id = $1 ORDER BY system_name`, caseID)
	if err != nil {
		return n, fmt.Errorf("case systems: %w", err)
	}
	n.AISystems = make([]models.SystemRelation, 0)
	for rows.Next() {
		var sr models.SystemRelation
		if err := rows.Scan(&sr.SystemName, &sr.Confidence, &sr.ExtractedBy, &sr.ReviewedByHuman); err != nil {
			rows.Close()
			return n, fmt.Errorf("scan case system: %w", err)
		}
		sr.CaseID = caseID
		n.AISystems = append(n.AISystems, sr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return n, err
	}

	n.LegalTheories, err = r.stringColumn(ctx, `SELECT theory_name FROM case_theories WHERE case_id = $1 ORDER BY theory_name`, caseID)
	if err != nil {
		return n, fmt.Errorf("case theories: %w", err)
	}
	n.Courts, err = r.stringColumn(ctx, `SELECT court_name FROM case_courts WHERE case_id = $1 ORDER BY court_name`, caseID)
	if err != nil {
		return n, fmt.Errorf("case courts: %w", err)
	}
	return n, nil
}

// SimilarCases ranks other cases by shared defendants plus shared theories,
// keeping overlaps of at least two.
func (r *GraphRepo) SimilarCases(ctx context.Context, caseID string) ([]models.SimilarCase, error) {
	rows, err := r.db.Pool.Query(ctx, `
WITH shared_orgs AS (
  SELECT other.case_id, COUNT(*) AS n
  FROM case_defendants mine
  JOIN case_defendants other ON other.canonical_name = mine.canonical_name AND other.case_id <> mine.case_id
  WHERE mine.case_id = $1
  GROUP BY other.case_id
), shared_theories AS (
  SELECT other.case_id, COUNT(*) AS n
  FROM case_theories mine
  JOIN case_theories other ON other.theory_name = mine.theory_name AND other.case_id <> mine.case_id
  WHERE mine.case_id = $1
  GROUP BY other.case_id
)
SELECT c.id, c.caption, c.status,
       COALESCE(o.n, 0) + COALESCE(t.n, 0) AS overlap
FROM shared_orgs o
FULL OUTER JOIN shared_theories t ON t.case_id = o.case_id
JOIN cases c ON c.id = COALESCE(o.case_id, t.case_id)
WHERE COALESCE(o.n, 0) + COALESCE(t.n, 0) >= 2
ORDER BY overlap DESC, c.id
LIMIT 10`, caseID)
	if err != nil {
		return nil, fmt.Errorf("similar cases: %w", err)
	}
	defer rows.Close()
	out := make([]models.SimilarCase, 0)
	for rows.Next() {
		var sc models.SimilarCase
		if err := rows.Scan(&sc.ID, &sc.Caption, &sc.Status, &sc.Overlap); err != nil {
			return nil, fmt.Errorf("scan similar case: %w", err)
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *GraphRepo) stringColumn(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// WaveCandidate is one defendant cluster inside the trailing window.
type WaveCandidate struct {
	Defendant     string
	CaseCount     int
	Theories      []string
	Jurisdictions []string
}

// WaveCandidates groups recent filings by defendant. date_filed is stored as
// an ISO date string so a plain string comparison against the cutoff works.
func (r *GraphRepo) WaveCandidates(ctx context.Context, now time.Time, windowDays, threshold int) ([]WaveCandidate, error) {
	cutoff := now.AddDate(0, 0, -windowDays).Format("2006-01-02")
	rows, err := r.db.Pool.Query(ctx, `
SELECT d.canonical_name,
       COUNT(DISTINCT c.id),
       COALESCE(jsonb_agg(DISTINCT theory.value) FILTER (WHERE theory.value IS NOT NULL), '[]'::jsonb),
       COALESCE(jsonb_agg(DISTINCT c.jurisdiction_type) FILTER (WHERE COALESCE(c.jurisdiction_type,'') <> ''), '[]'::jsonb)
FROM case_defendants d
JOIN cases c ON c.id = d.case_id
LEFT JOIN LATERAL jsonb_array_elements_text(c.cause_of_action) AS theory(value) ON TRUE
WHERE COALESCE(c.date_filed, '') >= $1
GROUP BY d.canonical_name
HAVING COUNT(DISTINCT c.id) >= $2
ORDER BY COUNT(DISTINCT c.id) DESC`, cutoff, threshold)
	if err != nil {
		return nil, fmt.Errorf("wave candidates: %w", err)
	}
	defer rows.Close()
	out := make([]WaveCandidate, 0)
	for rows.Next() {
		var (
			wc       WaveCandidate
			theories []byte
			juris    []byte
		)
		if err := rows.Scan(&wc.Defendant, &wc.CaseCount, &theories, &juris); err != nil {
			return nil, fmt.Errorf("scan wave candidate: %w", err)
		}
		wc.Theories = scanList(theories)
		wc.Jurisdictions = scanList(juris)
		out = append(out, wc)
	}
	return out, rows.Err()
}

// RunGuardedQuery executes an already-guarded read query and returns generic
// rows. Row count is capped regardless of the query's own LIMIT.
func (r *GraphRepo) RunGuardedQuery(ctx context.Context, sql string) ([]map[string]any, error) {
	rows, err := r.db.Pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("run guarded query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read query row: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
		if len(out) >= 50 {
			break
		}
	}
	return out, rows.Err()
}
