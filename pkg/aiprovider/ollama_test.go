package aiprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

func localModel(id string) aimodels.ModelDescriptor {
	return aimodels.ModelDescriptor{
		ID:              id,
		ProviderModelID: id,
		Provider:        aimodels.ProviderLocal,
	}
}

func TestOllamaCall(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"local reply"}}`))
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, zerolog.Nop())
	result, err := adapter.Call(context.Background(), CallParams{
		Model: localModel("llama3.2:3b"),
		Messages: []Message{
			NewTextMessage(RoleDeveloper, "be terse"),
			NewMixedMessage(RoleUser, "what's in the image?", "aW1n"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "local reply" {
		t.Fatalf("unexpected text: %q", result.Text)
	}
	if gotBody["model"] != "llama3.2:3b" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Fatalf("streaming must be disabled")
	}
	messages := gotBody["messages"].([]any)
	if messages[0].(map[string]any)["role"] != "system" {
		t.Fatalf("developer message must be sent as system")
	}
	user := messages[1].(map[string]any)
	images := user["images"].([]any)
	if len(images) != 1 || images[0] != "aW1n" {
		t.Fatalf("unexpected images field: %#v", user["images"])
	}
}

func TestOllamaEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":{"content":""}}`))
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model:    localModel("llama3.2:3b"),
		Messages: []Message{NewTextMessage(RoleUser, "hi")},
	})
	if !aierrors.Is(err, aierrors.KindEmptyResponse) {
		t.Fatalf("expected empty-response, got %v", err)
	}
}

func TestOllamaStripsDataURIPrefix(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":{"content":"ok"}}`))
	}))
	defer server.Close()

	adapter := NewOllamaAdapter(server.URL, zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model: localModel("llama3.2:3b"),
		Messages: []Message{
			NewMixedMessage(RoleUser, "see", "data:image/png;base64,cGl4ZWxz"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	messages := gotBody["messages"].([]any)
	images := messages[0].(map[string]any)["images"].([]any)
	if images[0] != "cGl4ZWxz" {
		t.Fatalf("data URI prefix must be stripped, got %q", images[0])
	}
}
