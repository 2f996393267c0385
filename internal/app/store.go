package app

import (
	"log/slog"
	"sync"
)

// Listener is notified after each event has been applied.
type Listener func(e Event, s State)

// Store owns the current State and applies events one at a time.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
	logger    *slog.Logger
}

// NewStore creates a Store holding InitialState.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{state: InitialState(), logger: logger}
}

// Subscribe registers fn to run after every transition.
func (st *Store) Subscribe(fn Listener) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.listeners = append(st.listeners, fn)
}

// Dispatch applies e and returns the resulting state. Listeners run after
// the lock is released, so they may dispatch further events.
func (st *Store) Dispatch(e Event) State {
	st.mu.Lock()
	st.state = Reduce(st.state, e)
	next := st.state
	listeners := st.listeners
	st.mu.Unlock()

	st.logger.Debug("event applied", "event", e.Name(), "details", e.Details())
	for _, fn := range listeners {
		fn(e, next)
	}
	return next
}

// State returns the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}
