package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/puzzlegraph/internal/domain/puzzle"
	"github.com/yungbote/puzzlegraph/internal/loader"
)

// Store keeps the loaded graph in process. It applies the same per-record
// rules as the persistent sinks and is used for dry runs and tests.
type Store struct {
	mu     sync.RWMutex
	states map[puzzle.StateID]puzzle.Configuration
	moves  map[puzzle.MoveEdge]struct{}
}

var _ loader.Sink = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		states: make(map[puzzle.StateID]puzzle.Configuration),
		moves:  make(map[puzzle.MoveEdge]struct{}),
	}
}

func (s *Store) InsertStates(ctx context.Context, states []puzzle.State) ([]error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]error, len(states))
	for i, st := range states {
		if !st.Config.Valid() {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidConfiguration, st.Config)
			continue
		}
		if prev, ok := s.states[st.ID]; ok {
			if prev != st.Config {
				results[i] = fmt.Errorf("%w: %s has %s", loader.ErrStateConflict, st.ID, prev)
			}
			continue
		}
		s.states[st.ID] = st.Config
	}
	return results, nil
}

func (s *Store) InsertMoves(ctx context.Context, moves []puzzle.MoveEdge) ([]error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]error, len(moves))
	for i, mv := range moves {
		if mv.From == 0 || !mv.From.Less(mv.To) {
			results[i] = fmt.Errorf("%w: %s", loader.ErrInvalidEdge, mv)
			continue
		}
		if _, ok := s.states[mv.From]; !ok {
			results[i] = fmt.Errorf("%w: %s", loader.ErrMissingEndpoint, mv.From)
			continue
		}
		if _, ok := s.states[mv.To]; !ok {
			results[i] = fmt.Errorf("%w: %s", loader.ErrMissingEndpoint, mv.To)
			continue
		}
		s.moves[mv] = struct{}{}
	}
	return results, nil
}

func (s *Store) CountStates() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func (s *Store) CountMoves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.moves)
}

// Config returns the stored configuration of id.
func (s *Store) Config(id puzzle.StateID) (puzzle.Configuration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.states[id]
	return c, ok
}

// HasMove reports whether the undirected move between a and b is stored.
func (s *Store) HasMove(a, b puzzle.StateID) bool {
	if b.Less(a) {
		a, b = b, a
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.moves[puzzle.MoveEdge{From: a, To: b}]
	return ok
}
