package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suPer8Hu/taim-chat/internal/observability"
)

// ErrMissingAPIKey is a configuration error. Its text is shown to the user
// verbatim.
var ErrMissingAPIKey = errors.New("API_KEY environment variable not set")

const (
	EmptyResponseText = "I'm sorry, I couldn't generate a response. The content may have been blocked."
	AttributionText   = "I was created by Taim, and I'm powered by Google's Gemini models."
	TitleFallback     = "New Chat"

	attributionPrompt = "who created you"
	titleInstruction  = "Summarize the following exchange as a short chat title of at most five words. Reply with the title only, without quotes or punctuation at the end."
)

// Gateway sends single prompts to the configured provider.
type Gateway struct {
	registry *Registry
	provider string
	model    string
}

func NewGateway(registry *Registry, provider, model string) *Gateway {
	return &Gateway{
		registry: registry,
		provider: strings.ToLower(strings.TrimSpace(provider)),
		model:    model,
	}
}

func (g *Gateway) Provider() string { return g.provider }
func (g *Gateway) Model() string    { return g.model }

// Generate answers one prompt with an optional data URI image.
func (g *Gateway) Generate(ctx context.Context, prompt, image string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(prompt), attributionPrompt) {
		return AttributionText, nil
	}

	msg := Message{Role: "user", Content: prompt}
	if image != "" {
		inline, err := ParseDataURI(image)
		if err != nil {
			return "", err
		}
		msg.Image = inline
	}

	p, err := g.registry.Get(ctx, g.provider, g.model)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return "", err
		}
		return "", fmt.Errorf("%s: %w", g.provider, err)
	}

	text, err := p.Chat(ctx, []Message{msg})
	if err != nil {
		return "", fmt.Errorf("%s api error: %w", g.provider, err)
	}
	if strings.TrimSpace(text) == "" {
		return EmptyResponseText, nil
	}
	return text, nil
}

// SummarizeTitle is best effort; any failure yields TitleFallback.
func (g *Gateway) SummarizeTitle(ctx context.Context, prompt, response string) string {
	log := observability.LoggerFromContext(ctx)

	p, err := g.registry.Get(ctx, g.provider, g.model)
	if err != nil {
		log.Warn("title provider unavailable", "error", err)
		return TitleFallback
	}

	content := fmt.Sprintf("%s\n\nUser: %s\n\nAssistant: %s", titleInstruction, prompt, response)
	title, err := p.Chat(ctx, []Message{{Role: "user", Content: content}})
	if err != nil {
		log.Warn("title generation failed", "error", err)
		return TitleFallback
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return TitleFallback
	}
	return title
}
