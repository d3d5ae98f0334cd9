// Package llm provides text generation backends for content generation.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Backland-Labs/courier/internal/config"
)

const defaultTimeout = 60 * time.Second

// TextGenerator turns a system and user prompt into generated text
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// New builds the generator selected by settings.Provider
func New(settings config.LLMSettings) (TextGenerator, error) {
	httpClient := &http.Client{Timeout: defaultTimeout}

	switch settings.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicClient(settings, httpClient)
	case config.ProviderBridge, "":
		return NewBridgeClient(settings, httpClient)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", settings.Provider)
	}
}
