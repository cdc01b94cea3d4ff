package aimodels

import (
	"fmt"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
)

// Catalog is the immutable model registry built at process start.
type Catalog struct {
	byID  map[string]ModelDescriptor
	order []string
}

// NewCatalog builds a catalog from descriptors, rejecting duplicate ids.
func NewCatalog(descriptors ...ModelDescriptor) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]ModelDescriptor, len(descriptors))}
	for _, d := range descriptors {
		if d.ID == "" {
			return nil, fmt.Errorf("model descriptor with empty id")
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate model id %q", d.ID)
		}
		c.byID[d.ID] = d
		c.order = append(c.order, d.ID)
	}
	return c, nil
}

// Resolve returns the descriptor for id. Ids that look like local models
// resolve to a synthesized local descriptor even without a registry entry.
func (c *Catalog) Resolve(id string) (ModelDescriptor, error) {
	if d, ok := c.byID[id]; ok {
		return d, nil
	}
	if IsLocalModelID(id) {
		return ModelDescriptor{
			ID:              id,
			ProviderModelID: id,
			Provider:        ProviderLocal,
			Name:            id,
		}, nil
	}
	return ModelDescriptor{}, aierrors.Newf(aierrors.KindModelNotFound, "unknown model %q", id)
}

// All returns the descriptors in registration order.
func (c *Catalog) All() []ModelDescriptor {
	out := make([]ModelDescriptor, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Default returns the catalog of built-in models.
func Default() *Catalog {
	c, err := NewCatalog(
		ModelDescriptor{
			ID:              "gpt-4o",
			ProviderModelID: "gpt-4o",
			Provider:        ProviderOpenAI,
			Name:            "GPT-4o",
			MaxTokens:       16384,
			Capabilities:    Capabilities{Vision: true, SpeechToText: true},
		},
		ModelDescriptor{
			ID:              "gpt-4.1",
			ProviderModelID: "gpt-4.1",
			Provider:        ProviderOpenAI,
			Name:            "GPT-4.1",
			MaxTokens:       32768,
			Capabilities:    Capabilities{Vision: true},
		},
		ModelDescriptor{
			ID:              "o3-mini",
			ProviderModelID: "o3-mini",
			Provider:        ProviderOpenAI,
			Name:            "o3-mini",
			MaxTokens:       100000,
			ReasoningEffort: EffortHigh,
		},
		ModelDescriptor{
			ID:              "o4-mini",
			ProviderModelID: "o4-mini",
			Provider:        ProviderOpenAI,
			Name:            "o4-mini",
			MaxTokens:       100000,
			Capabilities:    Capabilities{Vision: true},
			ReasoningEffort: EffortMedium,
		},
		ModelDescriptor{
			ID:              "claude-sonnet-4",
			ProviderModelID: "claude-sonnet-4-20250514",
			Provider:        ProviderAnthropic,
			Name:            "Claude Sonnet 4",
			MaxTokens:       8192,
			Capabilities:    Capabilities{Vision: true},
			ThinkingBudget:  4096,
		},
		ModelDescriptor{
			ID:              "claude-opus-4",
			ProviderModelID: "claude-opus-4-20250514",
			Provider:        ProviderAnthropic,
			Name:            "Claude Opus 4",
			MaxTokens:       8192,
			Capabilities:    Capabilities{Vision: true},
			ThinkingBudget:  8192,
		},
		ModelDescriptor{
			ID:              "gemini-2.5-flash",
			ProviderModelID: "gemini-2.5-flash",
			Provider:        ProviderGoogle,
			Name:            "Gemini 2.5 Flash",
			MaxTokens:       8192,
			Capabilities:    Capabilities{Vision: true, SearchGrounding: true},
		},
		ModelDescriptor{
			ID:              "gemini-2.5-pro",
			ProviderModelID: "gemini-2.5-pro",
			Provider:        ProviderGoogle,
			Name:            "Gemini 2.5 Pro",
			MaxTokens:       8192,
			Capabilities:    Capabilities{Vision: true, SearchGrounding: true},
		},
		ModelDescriptor{
			ID:              "deepseek-chat",
			ProviderModelID: "deepseek-chat",
			Provider:        ProviderDeepSeek,
			Name:            "DeepSeek Chat",
			MaxTokens:       8192,
		},
		ModelDescriptor{
			ID:              "deepseek-reasoner",
			ProviderModelID: "deepseek-reasoner",
			Provider:        ProviderDeepSeek,
			Name:            "DeepSeek Reasoner",
			MaxTokens:       65536,
		},
		ModelDescriptor{
			ID:              "llama-4-maverick",
			ProviderModelID: "Llama-4-Maverick-17B-128E-Instruct-FP8",
			Provider:        ProviderMeta,
			Name:            "Llama 4 Maverick",
			MaxTokens:       8192,
			Capabilities:    Capabilities{Vision: true},
		},
	)
	if err != nil {
		// Default table is compiled in; a duplicate is a programming error.
		panic(err)
	}
	return c
}
