// Package aimodels holds the static model catalog: every logical model id
// the dispatcher accepts, which provider serves it, and what it can do.
package aimodels

import (
	"strings"
)

// Provider identifies which adapter handles a model.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderMeta      Provider = "meta"
	ProviderLocal     Provider = "local"
)

// Providers lists all known providers in registration order.
var Providers = []Provider{
	ProviderOpenAI,
	ProviderAnthropic,
	ProviderGoogle,
	ProviderDeepSeek,
	ProviderMeta,
	ProviderLocal,
}

// ParseProvider returns the provider for a name, or false for unknown names.
func ParseProvider(name string) (Provider, bool) {
	switch Provider(strings.ToLower(strings.TrimSpace(name))) {
	case ProviderOpenAI:
		return ProviderOpenAI, true
	case ProviderAnthropic:
		return ProviderAnthropic, true
	case ProviderGoogle:
		return ProviderGoogle, true
	case ProviderDeepSeek:
		return ProviderDeepSeek, true
	case ProviderMeta:
		return ProviderMeta, true
	case ProviderLocal:
		return ProviderLocal, true
	}
	return "", false
}

// ReasoningEffort controls reasoning depth for models that accept it.
type ReasoningEffort string

const (
	EffortLow    ReasoningEffort = "low"
	EffortMedium ReasoningEffort = "medium"
	EffortHigh   ReasoningEffort = "high"
)

// Capabilities describes optional features of a model.
type Capabilities struct {
	Vision          bool
	SpeechToText    bool
	SearchGrounding bool
}

// ModelDescriptor is an immutable record describing one catalog entry.
type ModelDescriptor struct {
	// ID is the logical id callers pass to the dispatcher. Unique
	// across the catalog.
	ID string
	// ProviderModelID is the id sent to the remote API.
	ProviderModelID string
	Provider        Provider
	Name            string
	MaxTokens       int
	Capabilities    Capabilities
	// ReasoningEffort is only sent for models that accept the parameter.
	ReasoningEffort ReasoningEffort
	// ThinkingBudget caps extended-thinking tokens where supported.
	ThinkingBudget int
}

// IsReasoningModel reports whether the model belongs to the OpenAI "o*"
// reasoning family. These models reject the temperature parameter.
func (d ModelDescriptor) IsReasoningModel() bool {
	return isReasoningModelID(d.ProviderModelID)
}

func isReasoningModelID(id string) bool {
	if len(id) < 2 || id[0] != 'o' {
		return false
	}
	return id[1] >= '0' && id[1] <= '9'
}

// SupportsStructuredOutput reports whether the model can be asked for
// schema-constrained JSON output. This is a provider/model capability:
// only the OpenAI-family "gpt-*" and "o*" ids declare it.
func (d ModelDescriptor) SupportsStructuredOutput() bool {
	if d.Provider != ProviderOpenAI {
		return false
	}
	return strings.HasPrefix(d.ProviderModelID, "gpt-") || isReasoningModelID(d.ProviderModelID)
}

// localModelPrefixes marks ids that route to the local runtime even when
// they carry no registry entry.
var localModelPrefixes = []string{
	"llama",
	"mistral",
	"qwen",
	"phi",
	"gemma",
	"codellama",
	"deepseek-r1",
}

// IsLocalModelID reports whether a model id should be routed to the local
// Ollama runtime: either it carries a tag delimiter (colon) or a known
// local-model prefix.
func IsLocalModelID(id string) bool {
	if strings.Contains(id, ":") {
		return true
	}
	lower := strings.ToLower(id)
	for _, prefix := range localModelPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
