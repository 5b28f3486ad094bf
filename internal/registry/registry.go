// Package registry enumerates the third-party API providers a guest can
// configure. The list is static; the vault iterates it during bulk loads
// and rejects provider ids outside it.
package registry

import "github.com/quillchat/keyvault/internal/models"

// Provider describes one supported API provider.
type Provider struct {
	ID          models.ProviderID `json:"id"`
	Name        string            `json:"name"`
	Required    bool              `json:"required"`
	Description string            `json:"description"`
	Badge       string            `json:"badge,omitempty"`
}

// providers is the ordered registry. Order is display order.
var providers = []Provider{
	{
		ID:          models.ProviderOpenAI,
		Name:        "OpenAI",
		Required:    true,
		Description: "GPT models for chat and completions",
		Badge:       "Popular",
	},
	{
		ID:          models.ProviderAnthropic,
		Name:        "Anthropic",
		Required:    false,
		Description: "Claude models",
		Badge:       "Popular",
	},
	{
		ID:          models.ProviderMistral,
		Name:        "Mistral",
		Required:    false,
		Description: "Mistral and Mixtral open-weight models",
	},
	{
		ID:          models.ProviderGoogle,
		Name:        "Google",
		Required:    false,
		Description: "Gemini models",
	},
	{
		ID:          models.ProviderPerplexity,
		Name:        "Perplexity",
		Required:    false,
		Description: "Sonar online models with web search",
	},
	{
		ID:          models.ProviderXAI,
		Name:        "xAI",
		Required:    false,
		Description: "Grok models",
	},
	{
		ID:          models.ProviderOpenRouter,
		Name:        "OpenRouter",
		Required:    false,
		Description: "Single key routing to many model providers",
		Badge:       "Aggregator",
	},
	{
		ID:          models.ProviderLangSmith,
		Name:        "LangSmith",
		Required:    false,
		Description: "Tracing and observability for LLM calls",
		Badge:       "Tooling",
	},
}

// All returns the providers in display order. The returned slice is a
// copy; callers may not mutate the registry.
func All() []Provider {
	out := make([]Provider, len(providers))
	copy(out, providers)
	return out
}

// Get returns the provider for an id.
func Get(id models.ProviderID) (Provider, bool) {
	for _, p := range providers {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// Known reports whether the id names a supported provider.
func Known(id models.ProviderID) bool {
	_, ok := Get(id)
	return ok
}
