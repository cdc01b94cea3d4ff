package aiprovider

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIAdapter serves the OpenAI-family models through the official SDK,
// with a raw chat-completions POST as the native fallback path.
type OpenAIAdapter struct {
	creds   Credentials
	baseURL string
	log     zerolog.Logger
}

// NewOpenAIAdapter creates an OpenAI adapter. baseURL is optional and
// defaults to the public API.
func NewOpenAIAdapter(creds Credentials, baseURL string, log zerolog.Logger) *OpenAIAdapter {
	return &OpenAIAdapter{
		creds:   creds,
		baseURL: baseURL,
		log:     log.With().Str("provider", "openai").Logger(),
	}
}

func (o *OpenAIAdapter) Name() string {
	return string(aimodels.ProviderOpenAI)
}

func (o *OpenAIAdapter) key() (string, error) {
	key, ok := o.creds.Key(aimodels.ProviderOpenAI)
	if !ok || key == "" {
		return "", aierrors.New(aierrors.KindAuth, "no OpenAI API key configured")
	}
	return key, nil
}

// Call executes the request through the OpenAI SDK.
func (o *OpenAIAdapter) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := o.key()
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(key)}
	if o.baseURL != "" {
		opts = append(opts, option.WithBaseURL(o.baseURL))
	}
	client := openai.NewClient(opts...)

	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(params.Model.ProviderModelID),
		Messages: toOpenAIMessages(params.Messages),
	}
	if params.Model.MaxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(int64(params.Model.MaxTokens))
	}
	// "o*" reasoning models reject the temperature parameter.
	if !params.Model.IsReasoningModel() {
		req.Temperature = openai.Float(0.7)
	} else if params.Model.ReasoningEffort != "" {
		req.ReasoningEffort = shared.ReasoningEffort(params.Model.ReasoningEffort)
	}
	if params.Schema != nil {
		req.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	resp, err := client.Chat.Completions.New(ctx, req)
	if err != nil {
		return nil, err
	}
	o.log.Debug().
		Str("model", params.Model.ProviderModelID).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("OpenAI completion finished")

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "OpenAI returned no choices")
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

// CallNative executes the same request as a raw chat-completions POST.
func (o *OpenAIAdapter) CallNative(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := o.key()
	if err != nil {
		return nil, err
	}

	baseURL := o.baseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	payload := map[string]any{
		"model":    params.Model.ProviderModelID,
		"messages": toWireMessages(params.Messages),
	}
	if params.Model.MaxTokens > 0 {
		payload["max_completion_tokens"] = params.Model.MaxTokens
	}
	if !params.Model.IsReasoningModel() {
		payload["temperature"] = 0.7
	} else if params.Model.ReasoningEffort != "" {
		payload["reasoning_effort"] = string(params.Model.ReasoningEffort)
	}
	if params.Schema != nil {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	return callChatCompletionsEndpoint(ctx, baseURL, key, payload)
}

// toOpenAIMessages converts normalized messages, substituting the
// developer role for instruction messages.
func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		switch msg.Role {
		case RoleDeveloper:
			out = append(out, openai.ChatCompletionMessageParamUnion{
				OfDeveloper: &openai.ChatCompletionDeveloperMessageParam{
					Content: openai.ChatCompletionDeveloperMessageParamContentUnion{
						OfString: openai.String(msg.Text()),
					},
				},
			})
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Text()))
		default:
			if msg.HasImages() {
				out = append(out, openai.ChatCompletionMessageParamUnion{
					OfUser: &openai.ChatCompletionUserMessageParam{
						Content: openai.ChatCompletionUserMessageParamContentUnion{
							OfArrayOfContentParts: toOpenAIContentParts(msg.Content),
						},
					},
				})
			} else {
				out = append(out, openai.UserMessage(msg.Text()))
			}
		}
	}
	return out
}

func toOpenAIContentParts(parts []ContentPart) []openai.ChatCompletionContentPartUnionParam {
	out := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, part := range parts {
		switch part.Type {
		case ContentTypeText:
			out = append(out, openai.ChatCompletionContentPartUnionParam{
				OfText: &openai.ChatCompletionContentPartTextParam{Text: part.Text},
			})
		case ContentTypeImage:
			out = append(out, openai.ChatCompletionContentPartUnionParam{
				OfImageURL: &openai.ChatCompletionContentPartImageParam{
					ImageURL: openai.ChatCompletionContentPartImageImageURLParam{
						URL:    ImageDataURI(part.ImageB64),
						Detail: "auto",
					},
				},
			})
		}
	}
	return out
}
