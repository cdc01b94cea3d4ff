package workflow

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the state shared across coordinators for one problem-solving
// session: the extracted ProblemInfo and the queued screenshots. The
// processing workflow is the only writer of the problem record.
type Session struct {
	mu          sync.RWMutex
	id          string
	problem     *ProblemInfo
	screenshots []string
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{id: uuid.NewString()}
}

// ID returns the session id.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Problem returns the extracted problem, or nil before extraction.
func (s *Session) Problem() *ProblemInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.problem
}

// SetProblem stores the extracted problem.
func (s *Session) SetProblem(p *ProblemInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problem = p
}

// EnqueueScreenshot appends a base64 PNG to the pending queue.
func (s *Session) EnqueueScreenshot(b64 string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = append(s.screenshots, b64)
}

// TakeScreenshots drains and returns the pending queue.
func (s *Session) TakeScreenshots() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.screenshots
	s.screenshots = nil
	return out
}

// ClearScreenshots drops the pending queue.
func (s *Session) ClearScreenshots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenshots = nil
}

// Reset clears all session state and assigns a fresh id.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.problem = nil
	s.screenshots = nil
}
