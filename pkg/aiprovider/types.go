// Package aiprovider defines the provider-agnostic message format, the
// Adapter contract every provider implements, and the adapters themselves.
package aiprovider

import (
	"strings"

	"github.com/promptdeck/promptdeck/pkg/aimodels"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// MessageRole represents the role of a message sender.
type MessageRole string

const (
	RoleDeveloper MessageRole = "developer"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ContentPartType identifies the type of content in a message.
type ContentPartType string

const (
	ContentTypeText  ContentPartType = "text"
	ContentTypeImage ContentPartType = "image"
)

// ContentPart is a single piece of message content. Images are
// base64-encoded PNG without the data-URI prefix; adapters add the
// "data:image/png;base64," prefix where the wire format requires it.
type ContentPart struct {
	Type     ContentPartType
	Text     string
	ImageB64 string
}

// Message is a provider-agnostic chat message with ordered content parts.
type Message struct {
	Role    MessageRole
	Content []ContentPart
}

// Text returns the concatenated text content of a message.
func (m *Message) Text() string {
	var texts []string
	for _, part := range m.Content {
		if part.Type == ContentTypeText {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// HasImages reports whether the message contains image content.
func (m *Message) HasImages() bool {
	for _, part := range m.Content {
		if part.Type == ContentTypeImage {
			return true
		}
	}
	return false
}

// NewTextMessage creates a simple text message.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Content: []ContentPart{
			{Type: ContentTypeText, Text: text},
		},
	}
}

// NewMixedMessage creates a message with leading text followed by images.
func NewMixedMessage(role MessageRole, text string, imagesB64 ...string) Message {
	parts := []ContentPart{{Type: ContentTypeText, Text: text}}
	for _, img := range imagesB64 {
		parts = append(parts, ContentPart{Type: ContentTypeImage, ImageB64: img})
	}
	return Message{Role: role, Content: parts}
}

// LastText returns the text of the final message, which carries the
// task-determining content when signature sniffing applies.
func LastText(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	return messages[len(messages)-1].Text()
}

// ImageDataURI renders a base64 PNG as a data URI for APIs that take URLs.
func ImageDataURI(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	return "data:image/png;base64," + b64
}

// StripImageDataURI removes a data-URI prefix if present.
func StripImageDataURI(s string) string {
	if idx := strings.Index(s, "base64,"); strings.HasPrefix(s, "data:") && idx >= 0 {
		return s[idx+len("base64,"):]
	}
	return s
}

// Source is one search-grounding citation attached to a response.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CallParams carries a fully shaped request into an adapter.
type CallParams struct {
	Model    aimodels.ModelDescriptor
	Messages []Message
	// Schema is the generic JSON-Schema for structured output, nil for
	// freeform requests. Adapters translate it to their own dialect.
	Schema map[string]any
	Task   schemas.TaskKind
	// SearchEnabled requests search grounding; only meaningful for
	// providers with the capability.
	SearchEnabled bool
}

// CallResult is the normalized adapter response.
type CallResult struct {
	Text string
	// RequestID is provider-assigned when available, synthesized
	// otherwise.
	RequestID string
	Sources   []Source
}
