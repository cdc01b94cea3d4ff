package workflow

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/schemas"
	"github.com/promptdeck/promptdeck/pkg/sources"
)

// ChatCoordinator runs freeform chat requests and splits any trailing
// sources block out of the reply.
type ChatCoordinator struct {
	slot Slot
	gen  Generator
	log  zerolog.Logger
}

// NewChat creates the chat coordinator.
func NewChat(gen Generator, log zerolog.Logger) *ChatCoordinator {
	return &ChatCoordinator{
		gen: gen,
		log: log.With().Str("workflow", "chat").Logger(),
	}
}

// Send runs one chat turn and returns the reply synchronously.
func (c *ChatCoordinator) Send(parent context.Context, modelID, text string, history []ChatMessage, searchEnabled bool) (*ChatReply, error) {
	if strings.TrimSpace(text) == "" {
		return nil, aierrors.New(aierrors.KindInvalidInput, "chat message is empty")
	}

	ctx, err := c.slot.Begin(parent, 0)
	if err != nil {
		return nil, err
	}
	defer c.slot.End()

	result, err := c.gen.Generate(ctx, dispatch.Request{
		ModelID:       modelID,
		Messages:      chatMessages(history, text),
		Task:          schemas.TaskChat,
		SearchEnabled: searchEnabled,
	})
	if err != nil {
		classified := aierrors.Classify(err)
		c.log.Warn().Err(classified).Msg("Chat request failed")
		return nil, classified
	}

	cleaned, cites := sources.Extract(result.Text)
	return &ChatReply{Content: cleaned, Sources: cites}, nil
}

// Cancel aborts the in-flight request, if any. Idempotent.
func (c *ChatCoordinator) Cancel() {
	c.slot.Cancel()
}
