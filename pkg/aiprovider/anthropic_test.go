package aiprovider

import (
	"strings"
	"testing"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

func TestFlattenMessages(t *testing.T) {
	prompt, images := flattenMessages([]Message{
		NewTextMessage(RoleDeveloper, "be precise"),
		NewMixedMessage(RoleUser, "check this", "aW1nMQ==", "aW1nMg=="),
		NewTextMessage(RoleAssistant, "looking"),
	})

	want := "developer: be precise\n\nuser: check this\n\nassistant: looking"
	if prompt != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", prompt, want)
	}
	if len(images) != 2 || images[0] != "aW1nMQ==" {
		t.Fatalf("unexpected images: %#v", images)
	}
}

func TestFlattenMessagesSkipsEmptyText(t *testing.T) {
	prompt, images := flattenMessages([]Message{
		{Role: RoleUser, Content: []ContentPart{{Type: ContentTypeImage, ImageB64: "aW1n"}}},
	})
	if prompt != "" {
		t.Fatalf("image-only message must add no prompt text, got %q", prompt)
	}
	if len(images) != 1 {
		t.Fatalf("image must still be collected")
	}
}

func TestAnthropicSystemPromptStructuredSuffix(t *testing.T) {
	plain := anthropicSystemPrompt(schemas.TaskChat, false)
	if strings.Contains(plain, "JSON only") {
		t.Fatalf("freeform prompt must not demand JSON")
	}
	structured := anthropicSystemPrompt(schemas.TaskExtract, true)
	if !strings.Contains(structured, "starts with { and ends with }") {
		t.Fatalf("structured prompt must demand a bare JSON object:\n%s", structured)
	}
}

func TestReserializeJSON(t *testing.T) {
	out, err := reserializeJSON("Here is the result:\n```json\n{\"title\": \"Two Sum\"}\n```\nHope that helps!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"title":"Two Sum"}` {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestReserializeJSONNoObject(t *testing.T) {
	_, err := reserializeJSON("I could not produce structured output.")
	if !aierrors.Is(err, aierrors.KindMalformedResponse) {
		t.Fatalf("expected malformed-response, got %v", err)
	}
}

func TestReserializeJSONInvalidObject(t *testing.T) {
	_, err := reserializeJSON("{not json}")
	if !aierrors.Is(err, aierrors.KindMalformedResponse) {
		t.Fatalf("expected malformed-response, got %v", err)
	}
}
