package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LovationAdmin/expense-api/config"
)

// ErrMissingCredential is returned by generators built without an API key.
var ErrMissingCredential = errors.New("LLM API key not set")

// TextGenerator sends one prompt to a text generation service and returns
// the raw answer.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// unavailableGenerator fails every call, which sends each extraction down
// the fallback path.
type unavailableGenerator struct {
	err error
}

func (g unavailableGenerator) GenerateText(context.Context, string) (string, error) {
	return "", g.err
}

// NewTextGenerator builds the generator for cfg.Provider. It never returns
// nil: a missing key or a client that cannot be created yields a generator
// that always errors, and the problem is logged once here.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig) TextGenerator {
	if cfg.APIKey() == "" {
		slog.Warn("No API key for extraction provider, expenses will use default categorization",
			"provider", cfg.Provider)
		return unavailableGenerator{err: fmt.Errorf("%s: %w", cfg.Provider, ErrMissingCredential)}
	}

	switch cfg.Provider {
	case config.ProviderClaude:
		return NewClaudeService(cfg.AnthropicAPIKey, cfg.ClaudeModel)
	default:
		gen, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			slog.Error("Failed to create Gemini client", "error", err)
			return unavailableGenerator{err: err}
		}
		return gen
	}
}
