package suggest

import (
	"sync"

	"timescape_backend/internal/discovery/domain"
)

// Phase is the lifecycle state of the current query.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhasePending Phase = "pending"
	PhaseLoading Phase = "loading"
	PhaseSettled Phase = "settled"
	PhaseErrored Phase = "errored"
)

// Snapshot is one rendered view of the pipeline: the current phase, the
// latest batch the UI may show, and the error message when errored.
type Snapshot struct {
	Phase Phase
	Batch domain.SuggestionBatch
	Err   string
}

// State is the presentation state holder consumed by the UI layer. It
// performs no I/O and accepts updates only from the controller.
type State struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewState creates an idle state.
func NewState() *State {
	return &State{snap: Snapshot{Phase: PhaseIdle}}
}

// Snapshot returns the current view.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// apply replaces the view. Controller-only.
func (s *State) apply(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}
