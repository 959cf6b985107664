package providers

import (
	"context"
	"time"
)

// FailoverProvider walks the configured provider list in order. A retryable
// error gets one more attempt against the same provider after a short pause;
// anything else moves on to the next provider. The last error surfaces only
// when every provider has failed.
type FailoverProvider struct {
	m     *Manager
	sleep func(time.Duration)
}

func (m *Manager) Failover() *FailoverProvider {
	return &FailoverProvider{m: m, sleep: time.Sleep}
}

const retryPause = 2 * time.Second

func (f *FailoverProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	var lastErr error
	for i := 0; i < f.m.LLMCount(); i++ {
		p, ref := f.m.LLMProviderByIndex(i)
		for attempt := 0; attempt < 2; attempt++ {
			resp, info, err := p.Generate(ctx, req)
			if err == nil {
				if info.Name == "" {
					info.Name = ref.Name
				}
				return resp, info, nil
			}
			lastErr = err
			if !Retryable(ClassifyError(err)) {
				break
			}
			f.sleep(retryPause)
		}
	}
	return GenerateResponse{}, ProviderInfo{}, lastErr
}
