// Package engine advances one arena match by whole ticks. Every exported
// operation takes a state value and returns a new one; the caller owns the
// single writer discipline.
package engine

import (
	"errors"
	"slices"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

var ErrInvalidRoster = errors.New("invalid roster")
var ErrNotPlaying = errors.New("game is not in progress")
var ErrAlreadyStarted = errors.New("game already started")
var ErrPlayerNotFound = errors.New("player not found")

type Engine struct {
	catalog *content.Catalog
	topo    *topology.Map
	rules   game.Rules
}

type Option func(*Engine)

// WithRules replaces the rules new games are created with.
func WithRules(r game.Rules) Option {
	return func(e *Engine) { e.rules = r }
}

// New builds an engine over the given content and map. Nil arguments fall
// back to the bundled catalog and the standard map.
func New(catalog *content.Catalog, topo *topology.Map, opts ...Option) *Engine {
	if catalog == nil {
		catalog = content.Default()
	}
	if topo == nil {
		topo = topology.Standard()
	}
	e := &Engine{catalog: catalog, topo: topo, rules: game.DefaultRules()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *content.Catalog { return e.catalog }

func (e *Engine) Map() *topology.Map { return e.topo }

func (e *Engine) Rules() game.Rules { return e.rules }

// Start moves a game from picking to playing. Phases never go back.
func Start(s game.State) (game.State, error) {
	if s.Phase != game.PhasePicking {
		return s, ErrAlreadyStarted
	}
	s = s.Clone()
	s.Phase = game.PhasePlaying
	return s, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
