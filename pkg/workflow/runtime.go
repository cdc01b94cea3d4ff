package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Runtime bundles the session state and the four coordinators behind a
// single facade. HTTP handlers talk to the runtime, never to individual
// coordinators.
type Runtime struct {
	session *Session

	processing   *ProcessingCoordinator
	debug        *DebugCoordinator
	chat         *ChatCoordinator
	teleprompter *TeleprompterCoordinator

	log zerolog.Logger
}

// NewRuntime wires a runtime from the given generator and emitter. A zero
// processingTimeout falls back to DefaultProcessingTimeout.
func NewRuntime(gen Generator, emitter Emitter, processingTimeout time.Duration, log zerolog.Logger) *Runtime {
	if processingTimeout <= 0 {
		processingTimeout = DefaultProcessingTimeout
	}
	session := NewSession()
	return &Runtime{
		session:      session,
		processing:   NewProcessing(gen, session, emitter, processingTimeout, log),
		debug:        NewDebug(gen, session, emitter, log),
		chat:         NewChat(gen, log),
		teleprompter: NewTeleprompter(gen, log),
		log:          log.With().Str("component", "workflow").Logger(),
	}
}

// Session exposes the shared session state.
func (r *Runtime) Session() *Session {
	return r.session
}

// StartExtractSolve runs the two-phase extract-then-solve flow against the
// session's queued screenshots.
func (r *Runtime) StartExtractSolve(ctx context.Context, rc RunConfig) error {
	return r.processing.Start(ctx, rc)
}

// StartDebug runs the debug flow against the session's queued screenshots.
// It requires a previously extracted problem.
func (r *Runtime) StartDebug(ctx context.Context, rc RunConfig) error {
	return r.debug.Start(ctx, rc)
}

// LaunchExtractSolve claims the processing slot synchronously and runs
// the flow in the background. A concurrent start fails here with
// AlreadyInProgress; everything after the claim is reported through the
// emitter.
func (r *Runtime) LaunchExtractSolve(ctx context.Context, rc RunConfig) error {
	return r.processing.Launch(ctx, rc)
}

// LaunchDebug is the background counterpart of StartDebug.
func (r *Runtime) LaunchDebug(ctx context.Context, rc RunConfig) error {
	return r.debug.Launch(ctx, rc)
}

// SendChatMessage runs a synchronous chat exchange.
func (r *Runtime) SendChatMessage(ctx context.Context, text string, history []ChatMessage, searchEnabled bool, rc RunConfig) (*ChatReply, error) {
	return r.chat.Send(ctx, rc.ChatModel, text, history, searchEnabled)
}

// SendTeleprompterTranscript suggests an answer for an interview transcript.
func (r *Runtime) SendTeleprompterTranscript(ctx context.Context, transcript string, rc RunConfig) (string, error) {
	return r.teleprompter.Send(ctx, transcript, rc)
}

// CancelOngoing aborts any in-flight extract-solve or debug run. Calling it
// with nothing in flight is a no-op.
func (r *Runtime) CancelOngoing() {
	r.processing.Cancel()
	r.debug.Cancel()
	r.log.Debug().Msg("Canceled ongoing workflow runs")
}

// Busy reports whether a processing or debug run is in flight.
func (r *Runtime) Busy() bool {
	return r.processing.Busy() || r.debug.Busy()
}
