package state

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Dispatcher applies an action to a store.
type Dispatcher func(Action)

// ThunkFunc is a unit of work that may read the state and dispatch any
// number of actions, typically around a network call.
type ThunkFunc func(dispatch Dispatcher, getState func() State) error

// Store owns a State. Dispatches are serialized; readers always see a
// complete state.
type Store struct {
	logger *zap.Logger

	mu    sync.Mutex
	state State

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int
}

// NewStore returns a store holding preloaded.
func NewStore(preloaded State, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		logger:    logger,
		state:     preloaded,
		listeners: make(map[int]func(State)),
	}
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch reduces a into the state and notifies subscribers when anything
// changed.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	prev := s.state
	next := Reduce(prev, a)
	s.state = next
	s.mu.Unlock()

	changed := !sameState(prev, next)
	s.logger.Debug("dispatch",
		zap.String("action", fmt.Sprintf("%T", a)),
		zap.Bool("changed", changed),
	)
	if !changed {
		return
	}

	for _, l := range s.snapshotListeners() {
		l(next)
	}
}

// Thunk runs fn against the store and returns its error.
func (s *Store) Thunk(fn ThunkFunc) error {
	return fn(s.Dispatch, s.State)
}

// Subscribe registers l to be called with the new state after every
// dispatch that changed it. The returned function unregisters l.
func (s *Store) Subscribe(l func(State)) (unsubscribe func()) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.listenersMu.Lock()
		defer s.listenersMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) snapshotListeners() []func(State) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()

	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]func(State), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

// sameState compares collections by identity and the rest by value.
func sameState(a, b State) bool {
	return a.Entities == b.Entities &&
		slices.Equal(a.Errors.Backings, b.Errors.Backings) &&
		slices.Equal(a.Errors.Projects, b.Errors.Projects) &&
		slices.Equal(a.Errors.Rewards, b.Errors.Rewards) &&
		slices.Equal(a.Errors.Session, b.Errors.Session) &&
		a.Session == b.Session
}
