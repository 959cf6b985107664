// Package oracle wraps the LLM provider with the pipeline's five analysis
// operations. Every operation degrades to a documented fallback instead of
// propagating provider failures, so callers never branch on oracle errors.
package oracle

import (
	"context"
	"time"

	"dailgraph/internal/providers"
)

const extractAttempts = 3

type Oracle struct {
	provider providers.LLMProvider
	// sleep is swappable in tests to avoid real backoff waits.
	sleep func(time.Duration)
}

func New(provider providers.LLMProvider) *Oracle {
	return &Oracle{provider: provider, sleep: time.Sleep}
}

func (o *Oracle) generate(ctx context.Context, op, system, prompt string) (string, error) {
	resp, _, err := o.provider.Generate(ctx, providers.GenerateRequest{
		Operation: op,
		System:    system,
		Prompt:    prompt,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}
