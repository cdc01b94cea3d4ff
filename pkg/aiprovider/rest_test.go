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

type mapCreds map[aimodels.Provider]string

func (c mapCreds) Key(p aimodels.Provider) (string, bool) {
	key, ok := c[p]
	return key, ok
}

func deepseekModel() aimodels.ModelDescriptor {
	return aimodels.ModelDescriptor{
		ID:              "deepseek-chat",
		ProviderModelID: "deepseek-chat",
		Provider:        aimodels.ProviderDeepSeek,
		MaxTokens:       4096,
	}
}

func TestRESTAdapterCall(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cmpl-1","choices":[{"message":{"content":"hello"}}]}`))
	}))
	defer server.Close()

	adapter := NewDeepSeekAdapter(mapCreds{aimodels.ProviderDeepSeek: "sk-ds"}, server.URL, zerolog.Nop())
	result, err := adapter.Call(context.Background(), CallParams{
		Model: deepseekModel(),
		Messages: []Message{
			NewTextMessage(RoleDeveloper, "be terse"),
			NewTextMessage(RoleUser, "hi"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "hello" || result.RequestID != "cmpl-1" {
		t.Fatalf("unexpected result: %#v", result)
	}
	if gotAuth != "Bearer sk-ds" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotBody["model"] != "deepseek-chat" {
		t.Fatalf("unexpected model: %v", gotBody["model"])
	}
	if int(gotBody["max_tokens"].(float64)) != 4096 {
		t.Fatalf("unexpected max_tokens: %v", gotBody["max_tokens"])
	}
	messages := gotBody["messages"].([]any)
	first := messages[0].(map[string]any)
	// The developer role is downgraded to "system" on the wire.
	if first["role"] != "system" {
		t.Fatalf("developer message must be sent as system, got %v", first["role"])
	}
}

func TestRESTAdapterImageParts(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"described"}}]}`))
	}))
	defer server.Close()

	adapter := NewMetaAdapter(mapCreds{aimodels.ProviderMeta: "llm-key"}, server.URL, zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model: aimodels.ModelDescriptor{ProviderModelID: "llama-test", Provider: aimodels.ProviderMeta},
		Messages: []Message{
			NewMixedMessage(RoleUser, "what's this?", "aW1hZ2ViYXNlNjQ="),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	messages := gotBody["messages"].([]any)
	content := messages[0].(map[string]any)["content"].([]any)
	if len(content) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(content))
	}
	img := content[1].(map[string]any)
	if img["type"] != "image_url" {
		t.Fatalf("unexpected part type: %v", img["type"])
	}
	url := img["image_url"].(map[string]any)["url"].(string)
	if url != "data:image/png;base64,aW1hZ2ViYXNlNjQ=" {
		t.Fatalf("image must be sent as a data URI, got %q", url)
	}
}

func TestRESTAdapterEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	adapter := NewDeepSeekAdapter(mapCreds{aimodels.ProviderDeepSeek: "sk-ds"}, server.URL, zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model:    deepseekModel(),
		Messages: []Message{NewTextMessage(RoleUser, "hi")},
	})
	if !aierrors.Is(err, aierrors.KindEmptyResponse) {
		t.Fatalf("expected empty-response, got %v", err)
	}
}

func TestRESTAdapterMissingKey(t *testing.T) {
	adapter := NewDeepSeekAdapter(mapCreds{}, "http://unused", zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model:    deepseekModel(),
		Messages: []Message{NewTextMessage(RoleUser, "hi")},
	})
	if !aierrors.Is(err, aierrors.KindAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestRESTAdapterHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	adapter := NewDeepSeekAdapter(mapCreds{aimodels.ProviderDeepSeek: "sk-ds"}, server.URL, zerolog.Nop())
	_, err := adapter.Call(context.Background(), CallParams{
		Model:    deepseekModel(),
		Messages: []Message{NewTextMessage(RoleUser, "hi")},
	})
	if err == nil {
		t.Fatalf("expected error on 429")
	}
}
