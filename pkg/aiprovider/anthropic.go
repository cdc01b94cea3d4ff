package aiprovider

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
)

// AnthropicAdapter serves Claude models. Messages are flattened into a
// single prompt string plus a task-derived system string; structured tasks
// get a strict JSON-only instruction and the reply is validated and
// re-serialized as JSON text.
type AnthropicAdapter struct {
	creds   Credentials
	baseURL string
	log     zerolog.Logger
}

// NewAnthropicAdapter creates an Anthropic adapter.
func NewAnthropicAdapter(creds Credentials, baseURL string, log zerolog.Logger) *AnthropicAdapter {
	return &AnthropicAdapter{
		creds:   creds,
		baseURL: baseURL,
		log:     log.With().Str("provider", "anthropic").Logger(),
	}
}

func (a *AnthropicAdapter) Name() string {
	return string(aimodels.ProviderAnthropic)
}

func (a *AnthropicAdapter) key() (string, error) {
	key, ok := a.creds.Key(aimodels.ProviderAnthropic)
	if !ok || key == "" {
		return "", aierrors.New(aierrors.KindAuth, "no Anthropic API key configured")
	}
	return key, nil
}

// Call executes the request through the Anthropic SDK.
func (a *AnthropicAdapter) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := a.key()
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if a.baseURL != "" {
		opts = append(opts, option.WithBaseURL(a.baseURL))
	}
	client := anthropic.NewClient(opts...)

	// Claude has no structured-output parameter; structured tasks are
	// coerced through the system prompt and the reply re-serialized.
	structured := params.Schema != nil || schemas.ForTask(params.Task) != nil

	prompt, imagesB64 := flattenMessages(params.Messages)
	blocks := []anthropic.ContentBlockParamUnion{anthropic.NewTextBlock(prompt)}
	for _, img := range imagesB64 {
		blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", StripImageDataURI(img)))
	}

	maxTokens := int64(params.Model.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}
	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(params.Model.ProviderModelID),
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		System: []anthropic.TextBlockParam{
			{Text: anthropicSystemPrompt(params.Task, structured)},
		},
	}

	resp, err := client.Messages.New(ctx, req)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, block := range resp.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			content.WriteString(b.Text)
		}
	}
	text := content.String()
	if text == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "Anthropic returned no text content")
	}
	if structured {
		text, err = reserializeJSON(text)
		if err != nil {
			return nil, err
		}
	}

	requestID := resp.ID
	if requestID == "" {
		requestID = NewRequestID()
	}
	return &CallResult{Text: text, RequestID: requestID}, nil
}

// CallNative executes the same request as a raw POST to /v1/messages.
func (a *AnthropicAdapter) CallNative(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := a.key()
	if err != nil {
		return nil, err
	}

	baseURL := a.baseURL
	if baseURL == "" {
		baseURL = defaultAnthropicBaseURL
	}

	structured := params.Schema != nil || schemas.ForTask(params.Task) != nil

	prompt, imagesB64 := flattenMessages(params.Messages)
	content := []map[string]any{{"type": "text", "text": prompt}}
	for _, img := range imagesB64 {
		content = append(content, map[string]any{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": "image/png",
				"data":       StripImageDataURI(img),
			},
		})
	}

	maxTokens := params.Model.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}
	payload := map[string]any{
		"model":      params.Model.ProviderModelID,
		"max_tokens": maxTokens,
		"system":     anthropicSystemPrompt(params.Task, structured),
		"messages": []map[string]any{
			{"role": "user", "content": content},
		},
	}

	data, _, err := postJSON(ctx, trimSlash(baseURL)+"/v1/messages", map[string]string{
		"x-api-key":         key,
		"anthropic-version": anthropicVersion,
	}, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		ID      string `json:"id"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, aierrors.Wrap(aierrors.KindRemote, "malformed Anthropic response", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	out := text.String()
	if out == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "Anthropic returned no text content")
	}
	if structured {
		out, err = reserializeJSON(out)
		if err != nil {
			return nil, err
		}
	}

	requestID := resp.ID
	if requestID == "" {
		requestID = NewRequestID()
	}
	return &CallResult{Text: out, RequestID: requestID}, nil
}

// flattenMessages concatenates all messages into one role-prefixed prompt
// string and collects image parts separately.
func flattenMessages(messages []Message) (string, []string) {
	var prompt strings.Builder
	var images []string
	for i := range messages {
		msg := &messages[i]
		if text := msg.Text(); text != "" {
			if prompt.Len() > 0 {
				prompt.WriteString("\n\n")
			}
			prompt.WriteString(string(msg.Role))
			prompt.WriteString(": ")
			prompt.WriteString(text)
		}
		for _, part := range msg.Content {
			if part.Type == ContentTypeImage {
				images = append(images, part.ImageB64)
			}
		}
	}
	return prompt.String(), images
}

func anthropicSystemPrompt(task schemas.TaskKind, structured bool) string {
	var system string
	switch task {
	case schemas.TaskExtract:
		system = "You extract structured coding problem details from screenshots."
	case schemas.TaskSolve:
		system = "You write clear, correct solutions to coding problems."
	case schemas.TaskDebug:
		system = "You find and fix bugs in code against a known problem statement."
	case schemas.TaskTeleprompter:
		system = "You suggest concise, natural interview answers in real time."
	default:
		system = "You are a helpful assistant."
	}
	if structured {
		system += " Respond with JSON only: your entire reply must be a single JSON object " +
			"that starts with { and ends with }. No prose, no code fences."
	}
	return system
}

// reserializeJSON validates that text carries one JSON object and returns
// it re-serialized, tolerating prose or fences around the object.
func reserializeJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", aierrors.New(aierrors.KindMalformedResponse, "no JSON object in Anthropic reply")
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return "", aierrors.Wrap(aierrors.KindMalformedResponse, "invalid JSON in Anthropic reply", err)
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return "", aierrors.Wrap(aierrors.KindMalformedResponse, "re-serialize Anthropic reply", err)
	}
	return string(out), nil
}
