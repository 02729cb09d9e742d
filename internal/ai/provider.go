package ai

import (
	"context"
	"fmt"

	"github.com/v0xg/contactcheck/internal/crawler"
)

// Provider proposes replacement CSS selectors for the page object's
// locators that no longer match the page.
type Provider interface {
	// SuggestSelectors gets the crawled form and the missing locators
	// (logical name → stale CSS) and returns logical name → proposed CSS.
	SuggestSelectors(ctx context.Context, pageMap *crawler.PageMap, missing map[string]string) (map[string]string, error)
}

// NewProvider creates a new AI provider based on the provider name
func NewProvider(name, model string) (Provider, error) {
	switch name {
	case "claude", "anthropic":
		return NewClaudeProvider(model)
	case "openai", "gpt":
		return NewOpenAIProvider(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s (supported: claude, openai)", name)
	}
}
