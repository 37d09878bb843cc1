package state

import (
	"log/slog"
	"slices"
)

// Store owns the AppState. Update is the only mutator; subscribers are
// notified after every update.
type Store struct {
	state  AppState
	subs   map[int]func(AppState)
	nextID int
	logger *slog.Logger
}

func NewStore(initial AppState, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{state: initial, subs: make(map[int]func(AppState)), logger: logger}
}

// Get returns a copy of the current state.
func (s *Store) Get() AppState {
	return s.state
}

// Update mutates the state and notifies subscribers.
func (s *Store) Update(fn func(*AppState)) {
	prev := s.state.Usermode
	fn(&s.state)
	if s.state.Usermode != prev {
		s.logger.Debug("usermode changed", "from", prev, "to", s.state.Usermode)
	}

	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		s.subs[id](s.state)
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(AppState)) func() {
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}
