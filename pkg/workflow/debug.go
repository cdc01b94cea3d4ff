package workflow

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// DebugCoordinator runs the debug workflow over screenshots of a failing
// attempt. It requires ProblemInfo from a prior processing run.
type DebugCoordinator struct {
	slot    Slot
	gen     Generator
	session *Session
	emitter Emitter
	log     zerolog.Logger
}

// NewDebug creates the debug coordinator.
func NewDebug(gen Generator, session *Session, emitter Emitter, log zerolog.Logger) *DebugCoordinator {
	return &DebugCoordinator{
		gen:     gen,
		session: session,
		emitter: emitter,
		log:     log.With().Str("workflow", "debug").Logger(),
	}
}

// Start runs one debug pass and emits the outcome.
func (d *DebugCoordinator) Start(parent context.Context, rc RunConfig) error {
	ctx, err := d.slot.Begin(parent, 0)
	if err != nil {
		return err
	}
	defer d.slot.End()
	return d.run(ctx, rc)
}

// Launch claims the slot before returning and runs the debug pass
// detached, reporting the outcome through the emitter.
func (d *DebugCoordinator) Launch(parent context.Context, rc RunConfig) error {
	ctx, err := d.slot.Begin(parent, 0)
	if err != nil {
		return err
	}
	go func() {
		defer d.slot.End()
		_ = d.run(ctx, rc)
	}()
	return nil
}

func (d *DebugCoordinator) run(ctx context.Context, rc RunConfig) error {
	problem := d.session.Problem()
	if problem == nil {
		err := aierrors.New(aierrors.KindNoProblemContext, "no problem extracted yet")
		d.emitter.Emit(Event{Type: EventDebugError, Payload: aierrors.HumanMessage(err)})
		return err
	}
	images := d.session.TakeScreenshots()
	if len(images) == 0 {
		err := aierrors.New(aierrors.KindInvalidInput, "no screenshots to debug")
		d.emitter.Emit(Event{Type: EventDebugError, Payload: aierrors.HumanMessage(err)})
		return err
	}

	result, err := d.gen.Generate(ctx, dispatch.Request{
		ModelID:  rc.DebugModel,
		Messages: debugMessages(problem, images, rc.Language),
		Task:     schemas.TaskDebug,
	})
	if err != nil {
		return d.fail(err)
	}
	var debug DebugResult
	if err := parseStructured(result.Text, &debug); err != nil {
		return d.fail(err)
	}
	d.emitter.Emit(Event{Type: EventDebugReady, Payload: debug})
	return nil
}

// Cancel aborts the in-flight run, if any. Idempotent.
func (d *DebugCoordinator) Cancel() {
	d.slot.Cancel()
}

// Busy reports whether a run is in flight.
func (d *DebugCoordinator) Busy() bool {
	return d.slot.Busy()
}

func (d *DebugCoordinator) fail(err error) error {
	classified := aierrors.Classify(err)
	d.emitter.Emit(Event{Type: EventDebugError, Payload: aierrors.HumanMessage(classified)})
	d.log.Warn().Err(classified).Msg("Debug workflow failed")
	return classified
}
