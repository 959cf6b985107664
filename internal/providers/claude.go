package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider calls the Anthropic messages API. All oracle prompts ask for
// strict JSON, so temperature is pinned to zero.
type ClaudeProvider struct {
	keyName string
	model   string
	client  anthropic.Client
	hasKey  bool
}

func NewClaudeProvider(keyName string) *ClaudeProvider {
	model := os.Getenv("DAIL_CLAUDE_MODEL")
	if strings.TrimSpace(model) == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	apiKey := resolveClaudeKey(keyName)
	return &ClaudeProvider{
		keyName: keyName,
		model:   model,
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		hasKey:  apiKey != "",
	}
}

func (c *ClaudeProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "claude", Key: c.keyName, Model: c.model}
	if !c.hasKey {
		return GenerateResponse{}, info, fmt.Errorf("anthropic key missing for alias %q", c.keyName)
	}
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		Temperature: anthropic.Float(0),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("claude %s request failed: %w", req.Operation, err)
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return GenerateResponse{}, info, fmt.Errorf("claude %s returned no text blocks", req.Operation)
	}
	return GenerateResponse{Text: sb.String()}, info, nil
}

func resolveClaudeKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("DAIL_ANTHROPIC_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}
