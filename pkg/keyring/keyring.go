// Package keyring holds provider API keys. Keys are read at call time so
// they can be rotated without restarting the process.
package keyring

import (
	"os"
	"strings"
	"sync"

	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

// envVars maps each provider to the environment variables it is seeded
// from, in priority order.
var envVars = map[aimodels.Provider][]string{
	aimodels.ProviderOpenAI:    {"OPENAI_API_KEY"},
	aimodels.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	aimodels.ProviderGoogle:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	aimodels.ProviderDeepSeek:  {"DEEPSEEK_API_KEY"},
	aimodels.ProviderMeta:      {"META_API_KEY", "LLAMA_API_KEY"},
}

// Store is a mutex-guarded in-memory key store.
type Store struct {
	mu   sync.RWMutex
	keys map[aimodels.Provider]string
}

// New creates an empty store.
func New() *Store {
	return &Store{keys: make(map[aimodels.Provider]string)}
}

// NewFromEnv creates a store seeded from the environment.
func NewFromEnv() *Store {
	s := New()
	for provider, names := range envVars {
		for _, name := range names {
			if v := strings.TrimSpace(os.Getenv(name)); v != "" {
				s.keys[provider] = v
				break
			}
		}
	}
	return s
}

// Set stores or replaces the key for a provider. Empty keys clear.
func (s *Store) Set(provider aimodels.Provider, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = strings.TrimSpace(key)
	if key == "" {
		delete(s.keys, provider)
		return
	}
	s.keys[provider] = key
}

// Clear removes the key for a provider.
func (s *Store) Clear(provider aimodels.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, provider)
}

// Key returns the key for a provider. Implements aiprovider.Credentials.
func (s *Store) Key(provider aimodels.Provider) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[provider]
	return key, ok
}

// Configured returns the set of providers with a key present.
func (s *Store) Configured() map[aimodels.Provider]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[aimodels.Provider]bool, len(s.keys))
	for provider := range s.keys {
		out[provider] = true
	}
	return out
}
