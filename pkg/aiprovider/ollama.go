package aiprovider

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaAdapter serves locally hosted models through the Ollama daemon.
// No API key is required and schemas are never attached; local models are
// always freeform text.
type OllamaAdapter struct {
	baseURL string
	log     zerolog.Logger
}

// NewOllamaAdapter creates an Ollama adapter.
func NewOllamaAdapter(baseURL string, log zerolog.Logger) *OllamaAdapter {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		log:     log.With().Str("provider", "ollama").Logger(),
	}
}

func (o *OllamaAdapter) Name() string {
	return string(aimodels.ProviderLocal)
}

// Call executes a non-streaming chat request against the local daemon.
func (o *OllamaAdapter) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	messages := make([]map[string]any, 0, len(params.Messages))
	for i := range params.Messages {
		msg := &params.Messages[i]
		role := string(msg.Role)
		if msg.Role == RoleDeveloper {
			role = "system"
		}
		entry := map[string]any{"role": role, "content": msg.Text()}
		var images []string
		for _, part := range msg.Content {
			if part.Type == ContentTypeImage {
				images = append(images, StripImageDataURI(part.ImageB64))
			}
		}
		if len(images) > 0 {
			entry["images"] = images
		}
		messages = append(messages, entry)
	}

	payload := map[string]any{
		"model":    params.Model.ProviderModelID,
		"messages": messages,
		"stream":   false,
	}

	data, _, err := postJSON(ctx, trimSlash(o.baseURL)+"/api/chat", nil, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, aierrors.Wrap(aierrors.KindRemote, "malformed Ollama response", err)
	}
	if resp.Message.Content == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "Ollama returned no content")
	}

	return &CallResult{Text: resp.Message.Content, RequestID: NewRequestID()}, nil
}
