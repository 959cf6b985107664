package oracle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dailgraph/internal/providers"
)

// scriptedProvider returns queued responses in order, then errors.
type scriptedProvider struct {
	responses []string
	errs      []error
	calls     int
	lastReq   providers.GenerateRequest
}

func (s *scriptedProvider) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	s.lastReq = req
	i := s.calls
	s.calls++
	info := providers.ProviderInfo{Name: "scripted"}
	if i < len(s.errs) && s.errs[i] != nil {
		return providers.GenerateResponse{}, info, s.errs[i]
	}
	if i < len(s.responses) {
		return providers.GenerateResponse{Text: s.responses[i]}, info, nil
	}
	return providers.GenerateResponse{}, info, errors.New("no more scripted responses")
}

func newTestOracle(p providers.LLMProvider) *Oracle {
	o := New(p)
	o.sleep = func(time.Duration) {}
	return o
}

func TestStripCodeFences(t *testing.T) {
	require.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	require.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}

func TestExtractJSONRecoversEmbeddedObject(t *testing.T) {
	var out map[string]any
	require.NoError(t, extractJSON(`Sure, here is the result: {"confidence": 0.9} hope that helps`, &out))
	require.Equal(t, 0.9, out["confidence"])

	require.Error(t, extractJSON("no json here", &out))
}

func TestClassifyCaseParsesResponse(t *testing.T) {
	p := &scriptedProvider{responses: []string{
		"```json\n" + `{"isAiLitigation": true, "confidence": 0.92, "areaOfApplication": ["Generative AI"], "causeOfAction": ["Copyright"], "reasoning": "training data claims"}` + "\n```",
	}}
	o := newTestOracle(p)
	c, err := o.ClassifyCase(context.Background(), "Authors v. ModelCo", "N.D. Cal.", "2026-08-01", "complaint text")
	require.NoError(t, err)
	require.True(t, c.IsAILitigation)
	require.Equal(t, 0.92, c.Confidence)
	require.Equal(t, []string{"Generative AI"}, c.AreaOfApplication)
	require.Equal(t, "classify", p.lastReq.Operation)
}

func TestClassifyCaseFailureReturnsNegativeDefault(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("boom")}}
	o := newTestOracle(p)
	c, err := o.ClassifyCase(context.Background(), "Doe v. Roe", "", "", "")
	require.Error(t, err)
	require.False(t, c.IsAILitigation)
	require.Equal(t, 0.0, c.Confidence)
	require.Equal(t, "error", c.Reasoning)
	require.NotNil(t, c.AreaOfApplication)
}

func TestClassifyCaseTruncatesSnippet(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"isAiLitigation": false, "confidence": 0.1}`}}
	o := newTestOracle(p)
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	_, _ = o.ClassifyCase(context.Background(), "c", "", "", string(long))
	require.LessOrEqual(t, len(p.lastReq.Prompt), 2200)
}

func TestExtractEntitiesRetriesThenSucceeds(t *testing.T) {
	good := `{"organizations": [{"name": "Acme", "canonicalName": "Acme", "roles": ["defendant"], "confidence": 0.88}], "aiSystems": []}`
	p := &scriptedProvider{
		errs:      []error{errors.New("transient"), nil},
		responses: []string{"", good},
	}
	o := newTestOracle(p)
	ex, err := o.ExtractEntities(context.Background(), "case-1", "Doe v. Acme", "Acme Inc.", "")
	require.NoError(t, err)
	require.Len(t, ex.Organizations, 1)
	require.Equal(t, "Acme", ex.Organizations[0].CanonicalName)
	require.Equal(t, 2, p.calls)
}

func TestExtractEntitiesParsesMockProvider(t *testing.T) {
	o := newTestOracle(providers.NewMockProvider())
	ex, err := o.ExtractEntities(context.Background(), "case-3", "Doe v. Mock Corp", "Mock Corp (defendant)", "MockNet")
	require.NoError(t, err)
	require.NotEmpty(t, ex.Organizations)
	require.Equal(t, "Mock Corp", ex.Organizations[0].CanonicalName)
	require.Contains(t, ex.Organizations[0].Roles, "defendant")
	require.NotEmpty(t, ex.AISystems)
	require.Equal(t, "MockNet", ex.AISystems[0].Name)
}

func TestExtractEntitiesExhaustionReturnsEmptyLists(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("a"), errors.New("b"), errors.New("c")}}
	o := newTestOracle(p)
	ex, err := o.ExtractEntities(context.Background(), "case-2", "x", "", "")
	require.EqualError(t, err, "c")
	require.NotNil(t, ex.Organizations)
	require.NotNil(t, ex.AISystems)
	require.Empty(t, ex.Organizations)
	require.Equal(t, 3, p.calls)
}

func TestQueryFromQuestionGuardsWrites(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"sql": "DELETE FROM cases", "explanation": "bad"}`}}
	o := newTestOracle(p)
	plan := o.QueryFromQuestion(context.Background(), "remove everything")
	require.Equal(t, FallbackQuery, plan.SQL)
}

func TestQueryFromQuestionAcceptsSelect(t *testing.T) {
	p := &scriptedProvider{responses: []string{`{"sql": "SELECT caption FROM cases LIMIT 50", "explanation": "recent cases"}`}}
	o := newTestOracle(p)
	plan := o.QueryFromQuestion(context.Background(), "what cases exist?")
	require.Equal(t, "SELECT caption FROM cases LIMIT 50", plan.SQL)
	require.NotNil(t, plan.Parameters)
}

func TestGuardQuery(t *testing.T) {
	require.NoError(t, GuardQuery("SELECT 1"))
	require.NoError(t, GuardQuery("WITH x AS (SELECT 1) SELECT * FROM x"))
	require.Error(t, GuardQuery("SELECT 1; DROP TABLE cases"))
	require.Error(t, GuardQuery("update cases set status='x'"))
	require.Error(t, GuardQuery("EXPLAIN SELECT 1"))
}

func TestGuardQueryAllowsTimestampColumns(t *testing.T) {
	require.NoError(t, GuardQuery(FallbackQuery))
	require.NoError(t, GuardQuery("SELECT id, updated_at, created_at FROM cases ORDER BY updated_at DESC"))
	require.Error(t, GuardQuery("SELECT 1; UPDATE cases SET updated_at = now()"))
}

func TestDescribeWaveFallback(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("offline")}}
	o := newTestOracle(p)
	got := o.DescribeWave(context.Background(), "ClearSight AI", 4,
		[]string{"BIPA", "Negligence", "Fraud", "Privacy"}, []string{"Illinois", "Illinois"})
	require.Equal(t, "4 cases filed against ClearSight AI in the last 60 days involving BIPA, Negligence, Fraud.", got)
}

func TestNarrateResultsFallback(t *testing.T) {
	p := &scriptedProvider{errs: []error{errors.New("offline")}}
	o := newTestOracle(p)
	got := o.NarrateResults(context.Background(), "q", "SELECT 1", []map[string]any{{"a": 1}, {"a": 2}})
	require.Equal(t, "Found 2 results for your query about AI litigation.", got)
}
