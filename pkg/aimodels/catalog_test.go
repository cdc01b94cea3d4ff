package aimodels

import (
	"testing"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
)

func TestNewCatalogRejectsDuplicateIDs(t *testing.T) {
	_, err := NewCatalog(
		ModelDescriptor{ID: "m1", Provider: ProviderOpenAI},
		ModelDescriptor{ID: "m1", Provider: ProviderAnthropic},
	)
	if err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestNewCatalogRejectsEmptyID(t *testing.T) {
	if _, err := NewCatalog(ModelDescriptor{Provider: ProviderOpenAI}); err == nil {
		t.Fatalf("expected empty id error")
	}
}

func TestResolveKnownModel(t *testing.T) {
	c := Default()
	d, err := c.Resolve("gpt-4o")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Provider != ProviderOpenAI {
		t.Fatalf("expected openai provider, got %q", d.Provider)
	}
	if !d.Capabilities.Vision {
		t.Fatalf("gpt-4o must be vision-capable")
	}
}

func TestResolveUnknownModel(t *testing.T) {
	c := Default()
	_, err := c.Resolve("gpt-99-ultra")
	if err == nil {
		t.Fatalf("expected error for unknown model")
	}
	if !aierrors.Is(err, aierrors.KindModelNotFound) {
		t.Fatalf("expected model-not-found kind, got %v", err)
	}
}

func TestResolveSynthesizesLocalDescriptor(t *testing.T) {
	c := Default()
	for _, id := range []string{"llama3.2:3b", "qwen2.5-coder", "some-model:latest"} {
		d, err := c.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		if d.Provider != ProviderLocal {
			t.Fatalf("Resolve(%q) provider = %q, want local", id, d.Provider)
		}
		if d.ProviderModelID != id {
			t.Fatalf("Resolve(%q) provider model id = %q", id, d.ProviderModelID)
		}
	}
}

func TestIsLocalModelID(t *testing.T) {
	cases := []struct {
		id   string
		want bool
	}{
		{"llama3.2:3b", true},
		{"mistral-nemo", true},
		{"deepseek-r1", true},
		{"gemma2", true},
		{"gpt-4o", false},
		{"claude-sonnet-4", false},
		{"deepseek-chat", false},
	}
	for _, tc := range cases {
		if got := IsLocalModelID(tc.id); got != tc.want {
			t.Fatalf("IsLocalModelID(%q) = %v, want %v", tc.id, got, tc.want)
		}
	}
}

func TestIsReasoningModel(t *testing.T) {
	o3 := ModelDescriptor{ProviderModelID: "o3-mini", Provider: ProviderOpenAI}
	if !o3.IsReasoningModel() {
		t.Fatalf("o3-mini must be a reasoning model")
	}
	gpt := ModelDescriptor{ProviderModelID: "gpt-4o", Provider: ProviderOpenAI}
	if gpt.IsReasoningModel() {
		t.Fatalf("gpt-4o must not be a reasoning model")
	}
	// "ollama" starts with o but is not o<digit>.
	ollama := ModelDescriptor{ProviderModelID: "ollama-model"}
	if ollama.IsReasoningModel() {
		t.Fatalf("ollama-model must not be a reasoning model")
	}
}

func TestSupportsStructuredOutput(t *testing.T) {
	cases := []struct {
		d    ModelDescriptor
		want bool
	}{
		{ModelDescriptor{Provider: ProviderOpenAI, ProviderModelID: "gpt-4.1"}, true},
		{ModelDescriptor{Provider: ProviderOpenAI, ProviderModelID: "o4-mini"}, true},
		{ModelDescriptor{Provider: ProviderAnthropic, ProviderModelID: "claude-opus-4"}, false},
		{ModelDescriptor{Provider: ProviderGoogle, ProviderModelID: "gemini-2.5-pro"}, false},
		{ModelDescriptor{Provider: ProviderOpenAI, ProviderModelID: "whisper-1"}, false},
	}
	for _, tc := range cases {
		if got := tc.d.SupportsStructuredOutput(); got != tc.want {
			t.Fatalf("SupportsStructuredOutput(%q/%q) = %v, want %v",
				tc.d.Provider, tc.d.ProviderModelID, got, tc.want)
		}
	}
}

func TestDefaultCatalogSearchGrounding(t *testing.T) {
	c := Default()
	for _, id := range []string{"gemini-2.5-flash", "gemini-2.5-pro"} {
		d, err := c.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", id, err)
		}
		if !d.Capabilities.SearchGrounding {
			t.Fatalf("%s must support search grounding", id)
		}
	}
	d, _ := c.Resolve("gpt-4o")
	if d.Capabilities.SearchGrounding {
		t.Fatalf("gpt-4o must not claim search grounding")
	}
}
