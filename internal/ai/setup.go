package ai

import (
	"context"
	"os"
	"strings"

	"github.com/suPer8Hu/taim-chat/internal/config"
)

// RegisterDefaults wires the gemini, ollama and openrouter providers.
// The gemini key is looked up on every call so a key exported after
// startup is picked up.
func RegisterDefaults(reg *Registry, cfg config.Config) {
	reg.Register("gemini", func(ctx context.Context, model string) (Provider, error) {
		key := os.Getenv("API_KEY")
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			key = cfg.GeminiAPIKey
		}
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.GeminiModel
		}
		return NewGeminiProvider(ctx, key, m, cfg.GeminiBaseURL)
	})

	reg.Register("ollama", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OllamaModel
		}
		return NewOllamaProvider(cfg.OllamaBaseURL, m), nil
	})

	reg.Register("openrouter", func(ctx context.Context, model string) (Provider, error) {
		_ = ctx
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenRouterModel
		}
		return NewOpenRouterProvider(cfg.OpenRouterBaseURL, cfg.OpenRouterAPIKey, m, cfg.OpenRouterSiteURL, cfg.OpenRouterAppName), nil
	})
}
