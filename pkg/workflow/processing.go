package workflow

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// DefaultProcessingTimeout bounds each extract-solve phase.
const DefaultProcessingTimeout = 120 * time.Second

// ProcessingCoordinator runs the two-phase extract-solve workflow:
// phase 1 extracts ProblemInfo from screenshots, phase 2 solves the
// stored problem. Phase 2 only starts after phase 1 succeeds; ProblemInfo
// from a successful phase 1 is retained even when phase 2 fails.
type ProcessingCoordinator struct {
	slot    Slot
	gen     Generator
	session *Session
	emitter Emitter
	timeout time.Duration
	log     zerolog.Logger
}

// NewProcessing creates the extract-solve coordinator. A timeout of zero
// selects the default deadline.
func NewProcessing(gen Generator, session *Session, emitter Emitter, timeout time.Duration, log zerolog.Logger) *ProcessingCoordinator {
	if timeout <= 0 {
		timeout = DefaultProcessingTimeout
	}
	return &ProcessingCoordinator{
		gen:     gen,
		session: session,
		emitter: emitter,
		timeout: timeout,
		log:     log.With().Str("workflow", "processing").Logger(),
	}
}

// Start runs both phases. It emits progress events and returns the
// classified error on failure.
func (p *ProcessingCoordinator) Start(parent context.Context, rc RunConfig) error {
	ctx, err := p.slot.Begin(parent, p.timeout)
	if err != nil {
		return err
	}
	defer p.slot.End()
	return p.run(ctx, rc)
}

// Launch claims the slot before returning, so a concurrent start is
// rejected here instead of inside the background goroutine, then runs
// both phases detached. Every later outcome reaches the caller through
// the emitter.
func (p *ProcessingCoordinator) Launch(parent context.Context, rc RunConfig) error {
	ctx, err := p.slot.Begin(parent, p.timeout)
	if err != nil {
		return err
	}
	go func() {
		defer p.slot.End()
		_ = p.run(ctx, rc)
	}()
	return nil
}

func (p *ProcessingCoordinator) run(ctx context.Context, rc RunConfig) error {
	// Drain only after the slot is claimed so a rejected call leaves the
	// queue intact.
	images := p.session.TakeScreenshots()
	if len(images) == 0 {
		p.emitter.Emit(Event{Type: EventNoScreenshots})
		return aierrors.New(aierrors.KindInvalidInput, "no screenshots to process")
	}

	// Phase 1: extract.
	result, err := p.gen.Generate(ctx, dispatch.Request{
		ModelID:  rc.ExtractionModel,
		Messages: extractMessages(images, rc.Language),
		Task:     schemas.TaskExtract,
	})
	if err != nil {
		return p.fail(err)
	}
	var problem ProblemInfo
	if err := parseStructured(result.Text, &problem); err != nil {
		return p.fail(err)
	}
	p.session.SetProblem(&problem)
	p.emitter.Emit(Event{Type: EventProblemExtracted, Payload: problem})
	p.log.Info().Str("title", problem.Title).Msg("Problem extracted")

	// Phase 2: solve. ProblemInfo stays set regardless of the outcome so
	// retries and the debug workflow can reuse it.
	result, err = p.gen.Generate(ctx, dispatch.Request{
		ModelID:  rc.SolutionModel,
		Messages: solveMessages(&problem, rc.Language),
		Task:     schemas.TaskSolve,
	})
	if err != nil {
		return p.fail(err)
	}
	var solution SolutionResult
	if err := parseStructured(result.Text, &solution); err != nil {
		return p.fail(err)
	}
	p.emitter.Emit(Event{Type: EventSolutionReady, Payload: solution})
	return nil
}

// Cancel aborts the in-flight run, if any. Idempotent.
func (p *ProcessingCoordinator) Cancel() {
	p.slot.Cancel()
}

// Busy reports whether a run is in flight.
func (p *ProcessingCoordinator) Busy() bool {
	return p.slot.Busy()
}

// fail maps an error to its terminal emissions. A timeout additionally
// clears the queued screenshots and signals the caller to reset to the
// baseline view.
func (p *ProcessingCoordinator) fail(err error) error {
	classified := aierrors.Classify(err)
	if aierrors.IsTimeout(classified) {
		p.session.ClearScreenshots()
		p.emitter.Emit(Event{Type: EventResetView})
	}
	p.emitter.Emit(Event{Type: EventSolutionError, Payload: aierrors.HumanMessage(classified)})
	p.log.Warn().Err(classified).Msg("Processing workflow failed")
	return classified
}
