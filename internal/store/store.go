// Package store is the world state store: one game state per game id,
// with read-modify-write atomic per id and no coordination across ids.
package store

import (
	"errors"
	"slices"
	"sync"

	"github.com/DoyleJ11/lane-arena/internal/game"
)

var ErrGameNotFound = errors.New("game not found")
var ErrGameExists = errors.New("game already exists")

type entry struct {
	mu    sync.Mutex
	state game.State
}

// Store is safe for concurrent use. The outer lock only guards the id
// index; each game is guarded by its own lock.
type Store struct {
	mu    sync.RWMutex
	games map[string]*entry
}

func New() *Store {
	return &Store{games: make(map[string]*entry)}
}

func (s *Store) Create(st game.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[st.ID]; ok {
		return ErrGameExists
	}
	s.games[st.ID] = &entry{state: st.Clone()}
	return nil
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return e, nil
}

// Get returns a copy of the game's current state.
func (s *Store) Get(id string) (game.State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return game.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), nil
}

// Update replaces the game's state with fn's result while holding the
// game's lock. When fn fails the stored state is left as it was.
func (s *Store) Update(id string, fn func(game.State) (game.State, error)) (game.State, error) {
	e, err := s.lookup(id)
	if err != nil {
		return game.State{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.state.Clone())
	if err != nil {
		return game.State{}, err
	}
	e.state = next.Clone()
	return next, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(s.games, id)
	return nil
}

// IDs lists the stored game ids in sorted order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
