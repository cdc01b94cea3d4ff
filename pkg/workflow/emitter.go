package workflow

// EventType identifies a workflow emission.
type EventType string

const (
	EventProblemExtracted EventType = "problem_extracted"
	EventSolutionReady    EventType = "solution_ready"
	EventSolutionError    EventType = "solution_error"
	EventNoScreenshots    EventType = "no_screenshots"
	EventDebugReady       EventType = "debug_ready"
	EventDebugError       EventType = "debug_error"
	// EventResetView tells the caller to return to the baseline view
	// after a processing timeout.
	EventResetView EventType = "reset_view"
)

// Event is one emission to the surrounding application.
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// Emitter delivers workflow events to the caller. Implementations must be
// safe for concurrent use.
type Emitter interface {
	Emit(event Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(event Event)

func (f EmitterFunc) Emit(event Event) { f(event) }

// NopEmitter discards events.
var NopEmitter = EmitterFunc(func(Event) {})
