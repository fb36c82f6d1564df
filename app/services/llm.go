package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amirphl/AdaptMuse/config"
)

const (
	LLMProviderOpenAI    = "openai"
	LLMProviderAnthropic = "anthropic"
	LLMProviderGemini    = "gemini"
)

// ErrEmptyCompletion is returned when a provider answers with no text
var ErrEmptyCompletion = errors.New("empty completion")

// Completer turns a single prompt into text
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
	Provider() string
}

// NewCompleter builds the completer selected by cfg.Provider
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case LLMProviderOpenAI, "":
		return NewOpenAICompleter(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case LLMProviderAnthropic:
		return NewAnthropicCompleter(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case LLMProviderGemini:
		return NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

// InstrumentedCompleter counts completions per purpose
type InstrumentedCompleter struct {
	next    Completer
	purpose string
}

// WithPurpose labels calls made through the returned completer, e.g. "content" or "icon"
func WithPurpose(next Completer, purpose string) *InstrumentedCompleter {
	return &InstrumentedCompleter{next: next, purpose: purpose}
}

func (c *InstrumentedCompleter) Provider() string {
	return c.next.Provider()
}

func (c *InstrumentedCompleter) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	text, err := c.next.Complete(ctx, prompt, maxTokens, temperature)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyCompletion
	}
	RecordLLMCall(c.next.Provider(), c.purpose, err)
	if err != nil {
		return "", err
	}
	return text, nil
}
