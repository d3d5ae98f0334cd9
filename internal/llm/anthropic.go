package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Backland-Labs/courier/internal/config"
)

const anthropicDefaultMaxTokens = 1024

// AnthropicClient generates text with the Anthropic Messages API
type AnthropicClient struct {
	client      anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

// NewAnthropicClient creates an AnthropicClient. The SDK's own retries are
// disabled; callers see the first failure.
func NewAnthropicClient(settings config.LLMSettings, httpClient *http.Client, opts ...option.RequestOption) (*AnthropicClient, error) {
	if settings.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(settings.AnthropicAPIKey),
		option.WithMaxRetries(0),
	}
	if httpClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(httpClient))
	}
	clientOpts = append(clientOpts, opts...)

	model := settings.AnthropicModel
	if model == "" {
		model = config.DefaultAnthropicModel
	}
	maxTokens := int64(settings.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	// The Messages API accepts temperatures up to 1.0.
	temperature := settings.Temperature
	if temperature > 1 {
		temperature = 1
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(clientOpts...),
		model:       anthropic.Model(model),
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Generate sends a single-turn message and joins the returned text blocks
func (c *AnthropicClient) Generate(ctx context.Context, system, user string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages API: %w", err)
	}

	var parts []string
	for _, block := range msg.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
