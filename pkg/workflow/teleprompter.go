package workflow

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// MinTranscriptLength is the shortest transcript worth answering.
const MinTranscriptLength = 10

// TeleprompterCoordinator turns live interview transcripts into suggested
// answers.
type TeleprompterCoordinator struct {
	slot Slot
	gen  Generator
	log  zerolog.Logger
}

// NewTeleprompter creates the teleprompter coordinator.
func NewTeleprompter(gen Generator, log zerolog.Logger) *TeleprompterCoordinator {
	return &TeleprompterCoordinator{
		gen: gen,
		log: log.With().Str("workflow", "teleprompter").Logger(),
	}
}

// Send suggests an answer for the transcript. Transcripts under
// MinTranscriptLength characters are rejected before any network call.
func (t *TeleprompterCoordinator) Send(parent context.Context, transcript string, rc RunConfig) (string, error) {
	if len(strings.TrimSpace(transcript)) < MinTranscriptLength {
		return "", aierrors.Newf(aierrors.KindInvalidInput,
			"transcript too short (minimum %d characters)", MinTranscriptLength)
	}

	ctx, err := t.slot.Begin(parent, 0)
	if err != nil {
		return "", err
	}
	defer t.slot.End()

	result, err := t.gen.Generate(ctx, dispatch.Request{
		ModelID:  rc.TeleprompterModel,
		Messages: teleprompterMessages(transcript),
		Task:     schemas.TaskTeleprompter,
	})
	if err != nil {
		classified := aierrors.Classify(err)
		t.log.Warn().Err(classified).Msg("Teleprompter request failed")
		return "", classified
	}
	return strings.TrimSpace(result.Text), nil
}

// Cancel aborts the in-flight request, if any. Idempotent.
func (t *TeleprompterCoordinator) Cancel() {
	t.slot.Cancel()
}
