package keyring

import (
	"testing"

	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

func TestSetAndKey(t *testing.T) {
	s := New()
	if _, ok := s.Key(aimodels.ProviderOpenAI); ok {
		t.Fatalf("empty store must report no key")
	}

	s.Set(aimodels.ProviderOpenAI, "sk-test")
	key, ok := s.Key(aimodels.ProviderOpenAI)
	if !ok || key != "sk-test" {
		t.Fatalf("unexpected key: %q, %v", key, ok)
	}
}

func TestSetTrimsWhitespace(t *testing.T) {
	s := New()
	s.Set(aimodels.ProviderAnthropic, "  sk-ant  ")
	key, _ := s.Key(aimodels.ProviderAnthropic)
	if key != "sk-ant" {
		t.Fatalf("key must be trimmed, got %q", key)
	}
}

func TestSetEmptyClears(t *testing.T) {
	s := New()
	s.Set(aimodels.ProviderGoogle, "g-key")
	s.Set(aimodels.ProviderGoogle, "   ")
	if _, ok := s.Key(aimodels.ProviderGoogle); ok {
		t.Fatalf("setting an empty key must clear the entry")
	}
}

func TestClear(t *testing.T) {
	s := New()
	s.Set(aimodels.ProviderDeepSeek, "ds-key")
	s.Clear(aimodels.ProviderDeepSeek)
	if _, ok := s.Key(aimodels.ProviderDeepSeek); ok {
		t.Fatalf("cleared key must be gone")
	}
	// Clearing an absent key is a no-op.
	s.Clear(aimodels.ProviderDeepSeek)
}

func TestConfigured(t *testing.T) {
	s := New()
	s.Set(aimodels.ProviderOpenAI, "sk-a")
	s.Set(aimodels.ProviderMeta, "sk-b")

	configured := s.Configured()
	if len(configured) != 2 {
		t.Fatalf("expected 2 configured providers, got %d", len(configured))
	}
	if !configured[aimodels.ProviderOpenAI] || !configured[aimodels.ProviderMeta] {
		t.Fatalf("unexpected configured set: %#v", configured)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "env-google")

	s := NewFromEnv()
	key, ok := s.Key(aimodels.ProviderOpenAI)
	if !ok || key != "env-openai" {
		t.Fatalf("unexpected openai key: %q", key)
	}
	// The secondary variable seeds when the primary is empty.
	key, ok = s.Key(aimodels.ProviderGoogle)
	if !ok || key != "env-google" {
		t.Fatalf("unexpected google key: %q", key)
	}
}
