package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilchouksey/study-planner/config"
)

// ErrNotConfigured is returned when no provider credential is available
var ErrNotConfigured = errors.New("AI API Key not configured. Please add a valid API key to the .env file.")

// Completer sends a single-turn prompt to a language model
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewCompleterFromEnv builds the provider selected by AI_PROVIDER.
// It returns ErrNotConfigured when the selected provider has no key.
func NewCompleterFromEnv(ctx context.Context, env *config.EnviornmentVariable) (Completer, error) {
	switch strings.ToLower(env.AI_PROVIDER) {
	case "gemini":
		if env.GEMINI_API_KEY == "" {
			return nil, ErrNotConfigured
		}
		return NewGeminiClient(ctx, GeminiConfig{APIKey: env.GEMINI_API_KEY, Model: env.GEMINI_MODEL})
	default:
		if !keyConfigured(env.OPENAI_API_KEY) {
			return nil, ErrNotConfigured
		}
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  env.OPENAI_API_KEY,
			BaseURL: env.OPENAI_BASE_URL,
			Model:   env.OPENAI_MODEL,
		}), nil
	}
}

// keyConfigured rejects empty keys and the placeholder shipped in .env.example
func keyConfigured(key string) bool {
	return key != "" && !strings.Contains(key, "your_openai_api_key_here")
}
