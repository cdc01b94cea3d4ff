package aiprovider

import (
	"context"

	"github.com/rs/xid"

	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

// Adapter translates normalized requests into one provider's API.
type Adapter interface {
	// Name returns the provider name (e.g. "openai", "anthropic").
	Name() string

	// Call executes the request on the provider's preferred path
	// (SDK client where one exists).
	Call(ctx context.Context, params CallParams) (*CallResult, error)
}

// NativeFallback is implemented by adapters that carry a provider-native
// HTTP path in addition to the preferred SDK path. The dispatcher falls
// back to it transparently when the preferred path fails.
type NativeFallback interface {
	CallNative(ctx context.Context, params CallParams) (*CallResult, error)
}

// Credentials supplies provider API keys at call time. Keys may be
// refreshed between calls without restarting the process.
type Credentials interface {
	Key(provider aimodels.Provider) (string, bool)
}

// Registry stores adapters keyed by provider.
type Registry struct {
	adapters map[aimodels.Provider]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[aimodels.Provider]Adapter)}
}

// Register adds or replaces the adapter for a provider.
func (r *Registry) Register(provider aimodels.Provider, adapter Adapter) {
	if r == nil || adapter == nil {
		return
	}
	if r.adapters == nil {
		r.adapters = make(map[aimodels.Provider]Adapter)
	}
	r.adapters[provider] = adapter
}

// Get returns the adapter for a provider, or nil.
func (r *Registry) Get(provider aimodels.Provider) Adapter {
	if r == nil {
		return nil
	}
	return r.adapters[provider]
}

// NewRequestID synthesizes an outbound request id for providers that do
// not assign one.
func NewRequestID() string {
	return "req_" + xid.New().String()
}
