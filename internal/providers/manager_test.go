package providers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseProviderList(t *testing.T) {
	refs := ParseProviderList("mock|claude:primary")
	require.Len(t, refs, 2)
	require.Equal(t, "mock", refs[0].Name)
	require.Equal(t, "claude", refs[1].Name)
	require.Equal(t, "primary", refs[1].KeyAlias)

	refs = ParseProviderList("")
	require.Len(t, refs, 1)
	require.Equal(t, "mock", refs[0].Name)
}

func TestManagerFallsBackToMock(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)
	require.Equal(t, 1, m.LLMCount())
	_, ref := m.LLMProviderByIndex(0)
	require.Equal(t, "mock", ref.Name)
}

func TestManagerRejectsUnknownProvider(t *testing.T) {
	_, err := NewManager("oracle9000")
	require.Error(t, err)
}

func TestMockClassifyIsValidJSON(t *testing.T) {
	m := NewMockProvider()
	resp, info, err := m.Generate(context.Background(), GenerateRequest{Operation: "classify", Prompt: "Doe v. ClearSight AI"})
	require.NoError(t, err)
	require.Equal(t, "mock", info.Name)

	var parsed struct {
		IsAiLitigation bool    `json:"isAiLitigation"`
		Confidence     float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Text), &parsed))
	require.GreaterOrEqual(t, parsed.Confidence, 0.40)
	require.LessOrEqual(t, parsed.Confidence, 0.99)
}

func TestMockIsDeterministic(t *testing.T) {
	m := NewMockProvider()
	a, _, _ := m.Generate(context.Background(), GenerateRequest{Operation: "extract", Prompt: "same prompt"})
	b, _, _ := m.Generate(context.Background(), GenerateRequest{Operation: "extract", Prompt: "same prompt"})
	require.Equal(t, a.Text, b.Text)
}

func TestClassifyError(t *testing.T) {
	require.Equal(t, ErrorRate, ClassifyError(errors.New("status 429 too many requests")))
	require.Equal(t, ErrorQuota, ClassifyError(errors.New("insufficient_quota")))
	require.Equal(t, ErrorTransient, ClassifyError(errors.New("api temporarily unavailable")))
	require.Equal(t, ErrorPermanent, ClassifyError(errors.New("invalid api key")))
	require.True(t, Retryable(ErrorRate))
	require.False(t, Retryable(ErrorPermanent))
}
