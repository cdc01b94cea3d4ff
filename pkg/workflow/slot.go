package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/promptdeck/promptdeck/pkg/aierrors"
)

// Slot is the single-flight guard for one workflow kind. At most one
// operation runs per slot; the busy check and set happen under one lock
// acquisition so no second start can slip in between.
type Slot struct {
	mu     sync.Mutex
	busy   bool
	cancel context.CancelFunc
}

// Begin claims the slot and derives a cancelable context (with deadline
// when timeout > 0). It fails with KindAlreadyInProgress if an operation
// is in flight.
func (s *Slot) Begin(parent context.Context, timeout time.Duration) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, aierrors.New(aierrors.KindAlreadyInProgress, "operation already in progress")
	}

	var ctx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	s.busy = true
	s.cancel = cancel
	return ctx, nil
}

// End releases the slot. Safe to call once per Begin.
func (s *Slot) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.busy = false
}

// Cancel aborts the in-flight operation. Idempotent: canceling an idle
// slot, or canceling twice, is a no-op.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Busy reports whether an operation is in flight.
func (s *Slot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
