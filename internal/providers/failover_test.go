package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	errs  []error
	text  string
	calls int
}

func (s *stubLLM) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return GenerateResponse{}, ProviderInfo{}, s.errs[i]
	}
	return GenerateResponse{Text: s.text}, ProviderInfo{}, nil
}

func newFailover(providers ...NamedLLMProvider) *FailoverProvider {
	f := (&Manager{llmProviders: providers}).Failover()
	f.sleep = func(time.Duration) {}
	return f
}

func TestFailoverSkipsToNextProviderOnPermanentError(t *testing.T) {
	broken := &stubLLM{errs: []error{errors.New("invalid api key")}}
	healthy := &stubLLM{text: "ok"}
	f := newFailover(
		NamedLLMProvider{Ref: ProviderRef{Name: "claude"}, Provider: broken},
		NamedLLMProvider{Ref: ProviderRef{Name: "mock"}, Provider: healthy},
	)

	resp, info, err := f.Generate(context.Background(), GenerateRequest{Operation: "classify"})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text)
	require.Equal(t, "mock", info.Name)
	require.Equal(t, 1, broken.calls)
}

func TestFailoverRetriesRateLimitedProviderOnce(t *testing.T) {
	limited := &stubLLM{errs: []error{errors.New("status 429 too many requests")}, text: "recovered"}
	f := newFailover(NamedLLMProvider{Ref: ProviderRef{Name: "claude"}, Provider: limited})

	resp, info, err := f.Generate(context.Background(), GenerateRequest{Operation: "extract"})
	require.NoError(t, err)
	require.Equal(t, "recovered", resp.Text)
	require.Equal(t, "claude", info.Name)
	require.Equal(t, 2, limited.calls)
}

func TestFailoverReturnsLastErrorWhenAllProvidersFail(t *testing.T) {
	first := &stubLLM{errs: []error{errors.New("invalid api key")}}
	second := &stubLLM{errs: []error{errors.New("model retired")}}
	f := newFailover(
		NamedLLMProvider{Ref: ProviderRef{Name: "claude"}, Provider: first},
		NamedLLMProvider{Ref: ProviderRef{Name: "claude"}, Provider: second},
	)

	_, _, err := f.Generate(context.Background(), GenerateRequest{})
	require.EqualError(t, err, "model retired")
}
