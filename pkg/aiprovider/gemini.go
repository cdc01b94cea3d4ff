package aiprovider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

	// searchDynamicThreshold is the fixed dynamic-retrieval threshold for
	// search grounding.
	searchDynamicThreshold = 0.8
)

// GeminiAdapter serves Google models through the genai SDK, supplying
// per-task schemas in the Gemini dialect and supporting search grounding.
type GeminiAdapter struct {
	creds   Credentials
	baseURL string
	log     zerolog.Logger
}

// NewGeminiAdapter creates a Gemini adapter.
func NewGeminiAdapter(creds Credentials, baseURL string, log zerolog.Logger) *GeminiAdapter {
	return &GeminiAdapter{
		creds:   creds,
		baseURL: baseURL,
		log:     log.With().Str("provider", "gemini").Logger(),
	}
}

func (g *GeminiAdapter) Name() string {
	return string(aimodels.ProviderGoogle)
}

func (g *GeminiAdapter) key() (string, error) {
	key, ok := g.creds.Key(aimodels.ProviderGoogle)
	if !ok || key == "" {
		return "", aierrors.New(aierrors.KindAuth, "no Gemini API key configured")
	}
	return key, nil
}

func (g *GeminiAdapter) searchRequested(params CallParams) bool {
	return params.SearchEnabled && params.Model.Capabilities.SearchGrounding
}

// structuredSchema picks the schema for structured tasks. Gemini speaks
// its own schema dialect, so the task schema applies even when the
// generic one was not attached.
func structuredSchema(params CallParams) map[string]any {
	if params.Schema != nil {
		return params.Schema
	}
	return schemas.ForTask(params.Task)
}

// Call executes the request through the genai SDK.
func (g *GeminiAdapter) Call(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := g.key()
	if err != nil {
		return nil, err
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	contents, system := toGeminiContents(params.Messages)

	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if params.Model.MaxTokens > 0 {
		config.MaxOutputTokens = int32(params.Model.MaxTokens)
	}
	if geminiSchema := structuredSchema(params); geminiSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = schemas.ToGeminiSchema(geminiSchema)
	}
	if g.searchRequested(params) {
		config.Tools = []*genai.Tool{{
			GoogleSearchRetrieval: &genai.GoogleSearchRetrieval{
				DynamicRetrievalConfig: &genai.DynamicRetrievalConfig{
					Mode:             genai.DynamicRetrievalConfigModeDynamic,
					DynamicThreshold: genai.Ptr[float32](searchDynamicThreshold),
				},
			},
		}}
	}

	resp, err := client.Models.GenerateContent(ctx, params.Model.ProviderModelID, contents, config)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	var sources []Source
	for _, candidate := range resp.Candidates {
		if candidate.Content != nil {
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
		}
		if candidate.GroundingMetadata != nil {
			for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
				if chunk.Web == nil || chunk.Web.URI == "" {
					continue
				}
				sources = append(sources, Source{
					Title: chunk.Web.Title,
					URL:   chunk.Web.URI,
				})
			}
		}
	}

	out := text.String()
	if out == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "Gemini returned no text content")
	}
	out = appendSourcesBlock(out, sources)

	requestID := resp.ResponseID
	if requestID == "" {
		requestID = NewRequestID()
	}
	return &CallResult{Text: out, RequestID: requestID, Sources: sources}, nil
}

// CallNative executes the same request as a raw generateContent POST.
func (g *GeminiAdapter) CallNative(ctx context.Context, params CallParams) (*CallResult, error) {
	key, err := g.key()
	if err != nil {
		return nil, err
	}

	baseURL := g.baseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}

	contents, system := toGeminiWireContents(params.Messages)
	payload := map[string]any{"contents": contents}
	if system != "" {
		payload["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": system}},
		}
	}
	generationConfig := map[string]any{}
	if params.Model.MaxTokens > 0 {
		generationConfig["maxOutputTokens"] = params.Model.MaxTokens
	}
	if geminiSchema := structuredSchema(params); geminiSchema != nil {
		generationConfig["responseMimeType"] = "application/json"
		generationConfig["responseSchema"] = geminiSchema
	}
	if len(generationConfig) > 0 {
		payload["generationConfig"] = generationConfig
	}
	if g.searchRequested(params) {
		payload["tools"] = []map[string]any{{
			"googleSearchRetrieval": map[string]any{
				"dynamicRetrievalConfig": map[string]any{
					"mode":             "MODE_DYNAMIC",
					"dynamicThreshold": searchDynamicThreshold,
				},
			},
		}}
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		trimSlash(baseURL), params.Model.ProviderModelID)
	data, _, err := postJSON(ctx, url, map[string]string{"x-goog-api-key": key}, payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			GroundingMetadata struct {
				GroundingChunks []struct {
					Web struct {
						URI   string `json:"uri"`
						Title string `json:"title"`
					} `json:"web"`
				} `json:"groundingChunks"`
			} `json:"groundingMetadata"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, aierrors.Wrap(aierrors.KindRemote, "malformed Gemini response", err)
	}

	var text strings.Builder
	var sources []Source
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			text.WriteString(part.Text)
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web.URI == "" {
				continue
			}
			sources = append(sources, Source{Title: chunk.Web.Title, URL: chunk.Web.URI})
		}
	}

	out := text.String()
	if out == "" {
		return nil, aierrors.New(aierrors.KindEmptyResponse, "Gemini returned no text content")
	}
	out = appendSourcesBlock(out, sources)

	return &CallResult{Text: out, RequestID: NewRequestID(), Sources: sources}, nil
}

// toGeminiContents converts messages to genai contents, extracting
// developer messages into the system instruction.
func toGeminiContents(messages []Message) ([]*genai.Content, string) {
	var system []string
	var contents []*genai.Content
	for i := range messages {
		msg := &messages[i]
		if msg.Role == RoleDeveloper {
			system = append(system, msg.Text())
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		var parts []*genai.Part
		for _, part := range msg.Content {
			switch part.Type {
			case ContentTypeText:
				parts = append(parts, &genai.Part{Text: part.Text})
			case ContentTypeImage:
				raw, err := base64.StdEncoding.DecodeString(StripImageDataURI(part.ImageB64))
				if err != nil {
					continue
				}
				parts = append(parts, &genai.Part{
					InlineData: &genai.Blob{MIMEType: "image/png", Data: raw},
				})
			}
		}
		if len(parts) > 0 {
			contents = append(contents, &genai.Content{Role: role, Parts: parts})
		}
	}
	return contents, strings.Join(system, "\n\n")
}

// toGeminiWireContents is the raw-REST twin of toGeminiContents.
func toGeminiWireContents(messages []Message) ([]map[string]any, string) {
	var system []string
	var contents []map[string]any
	for i := range messages {
		msg := &messages[i]
		if msg.Role == RoleDeveloper {
			system = append(system, msg.Text())
			continue
		}
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		var parts []map[string]any
		for _, part := range msg.Content {
			switch part.Type {
			case ContentTypeText:
				parts = append(parts, map[string]any{"text": part.Text})
			case ContentTypeImage:
				parts = append(parts, map[string]any{
					"inlineData": map[string]any{
						"mimeType": "image/png",
						"data":     StripImageDataURI(part.ImageB64),
					},
				})
			}
		}
		if len(parts) > 0 {
			contents = append(contents, map[string]any{"role": role, "parts": parts})
		}
	}
	return contents, strings.Join(system, "\n\n")
}

// appendSourcesBlock renders grounded sources as the literal
// "**Sources:**" block other components re-extract from plain text.
func appendSourcesBlock(text string, sources []Source) string {
	if len(sources) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(text, "\n"))
	b.WriteString("\n\n**Sources:**\n")
	for i, src := range sources {
		title := src.Title
		if title == "" {
			title = src.URL
		}
		fmt.Fprintf(&b, "[%d] %s: %s\n", i+1, title, src.URL)
	}
	return strings.TrimRight(b.String(), "\n")
}
