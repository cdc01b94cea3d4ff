package aiprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

const (
	defaultDeepSeekBaseURL = "https://api.deepseek.com/v1"
	defaultMetaBaseURL     = "https://api.llama.com/compat/v1"
)

// RESTAdapter serves providers that expose an OpenAI-compatible
// chat-completions endpoint but have no Go SDK (DeepSeek, Meta).
type RESTAdapter struct {
	provider aimodels.Provider
	creds    Credentials
	baseURL  string
	log      zerolog.Logger
}

// NewDeepSeekAdapter creates the DeepSeek REST adapter.
func NewDeepSeekAdapter(creds Credentials, baseURL string, log zerolog.Logger) *RESTAdapter {
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	return newRESTAdapter(aimodels.ProviderDeepSeek, creds, baseURL, log)
}

// NewMetaAdapter creates the Meta Llama REST adapter.
func NewMetaAdapter(creds Credentials, baseURL string, log zerolog.Logger) *RESTAdapter {
	if baseURL == "" {
		baseURL = defaultMetaBaseURL
	}
	return newRESTAdapter(aimodels.ProviderMeta, creds, baseURL, log)
}

func newRESTAdapter(provider aimodels.Provider, creds Credentials, baseURL string, log zerolog.Logger) *RESTAdapter {
	return &RESTAdapter{
		provider: provider,
		creds:    creds,
		baseURL:  baseURL,
		log:      log.With().Str("provider", string(provider)).Logger(),
	}
}

func (r *RESTAdapter) Name() string {
	return string(r.provider)
}

// Call executes a plain chat-completions POST with bearer auth.
func (r *RESTAdapter) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	key, ok := r.creds.Key(r.provider)
	if !ok || key == "" {
		return nil, aierrors.Newf(aierrors.KindAuth, "no %s API key configured", r.provider)
	}

	payload := map[string]any{
		"model":    params.Model.ProviderModelID,
		"messages": toWireMessages(params.Messages),
	}
	if params.Model.MaxTokens > 0 {
		payload["max_tokens"] = params.Model.MaxTokens
	}

	return callChatCompletionsEndpoint(ctx, r.baseURL, key, payload)
}

// toWireMessages renders messages as OpenAI-compatible JSON objects.
// The developer role is sent as "system" since most compatible endpoints
// predate it.
func toWireMessages(messages []Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		role := string(msg.Role)
		if msg.Role == RoleDeveloper {
			role = "system"
		}
		if !msg.HasImages() {
			out = append(out, map[string]any{"role": role, "content": msg.Text()})
			continue
		}
		parts := make([]map[string]any, 0, len(msg.Content))
		for _, part := range msg.Content {
			switch part.Type {
			case ContentTypeText:
				parts = append(parts, map[string]any{"type": "text", "text": part.Text})
			case ContentTypeImage:
				parts = append(parts, map[string]any{
					"type":      "image_url",
					"image_url": map[string]any{"url": ImageDataURI(part.ImageB64)},
				})
			}
		}
		out = append(out, map[string]any{"role": role, "content": parts})
	}
	return out
}

type chatCompletionsResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// callChatCompletionsEndpoint POSTs a chat-completions payload and picks
// choices[0].message.content out of the response.
func callChatCompletionsEndpoint(ctx context.Context, baseURL, key string, payload map[string]any) (*CallResult, error) {
	data, _, err := postJSON(ctx, trimSlash(baseURL)+"/chat/completions", map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", key),
	}, payload)
	if err != nil {
		return nil, err
	}

	var resp chatCompletionsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, aierrors.Wrap(aierrors.KindRemote, "malformed completion response", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "completion response has no content")
	}

	requestID := resp.ID
	if requestID == "" {
		requestID = NewRequestID()
	}
	return &CallResult{
		Text:      resp.Choices[0].Message.Content,
		RequestID: requestID,
	}, nil
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}
