// Package hub keeps the registry of running matches. It is an actor: all
// access to the registry goes through its inbox.
package hub

import (
	"context"
	"errors"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/store"
)

const closeTimeout = 5 * time.Second

// ErrClosed is returned by requests made after the hub has shut down.
var ErrClosed = errors.New("hub closed")

type HubMsg interface{ isHubMsg() }

// CreateMatch stores a new game and starts its actor. Err is
// store.ErrGameExists when the id is taken.
type CreateMatch struct {
	State game.State
	Reply chan Created
}

type Created struct {
	Match *match.Match
	Err   error
}

type GetMatch struct {
	ID    string
	Reply chan *match.Match // nil when absent
}

type ListMatches struct {
	Reply chan []string
}

// RemoveMatch stops the match, if running, and discards its state.
type RemoveMatch struct {
	ID    string
	Reply chan error // may be nil
}

type ShutdownHub struct {
	Reply chan error // may be nil
}

func (CreateMatch) isHubMsg() {}
func (GetMatch) isHubMsg()    {}
func (ListMatches) isHubMsg() {}
func (RemoveMatch) isHubMsg() {}
func (ShutdownHub) isHubMsg() {}

type Config struct {
	TickDuration time.Duration
	Logger       *zap.Logger
	Results      match.Recorder
}

type Hub struct {
	inbox   chan HubMsg
	matches map[string]*match.Match
	eng     *engine.Engine
	store   *store.Store
	cfg     Config
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHub(parent context.Context, eng *engine.Engine, st *store.Store, cfg Config) *Hub {
	ctx, cancel := context.WithCancel(parent)
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		matches: make(map[string]*match.Match),
		eng:     eng,
		store:   st,
		cfg:     cfg,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) Engine() *engine.Engine { return h.eng }

// Done is closed once the hub has shut down.
func (h *Hub) Done() <-chan struct{} { return h.done }

func call[T any](ctx context.Context, h *Hub, msg HubMsg, reply chan T) (T, error) {
	var zero T
	select {
	case h.inbox <- msg:
	case <-h.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case r := <-reply:
		return r, nil
	case <-h.done:
		select {
		case r := <-reply:
			return r, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Match returns the running match for id, or nil when there is none.
func (h *Hub) Match(ctx context.Context, id string) (*match.Match, error) {
	reply := make(chan *match.Match, 1)
	return call(ctx, h, GetMatch{ID: id, Reply: reply}, reply)
}

func (h *Hub) Create(ctx context.Context, s game.State) (*match.Match, error) {
	reply := make(chan Created, 1)
	c, err := call(ctx, h, CreateMatch{State: s, Reply: reply}, reply)
	if err != nil {
		return nil, err
	}
	return c.Match, c.Err
}

func (h *Hub) List(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	return call(ctx, h, ListMatches{Reply: reply}, reply)
}

func (h *Hub) Remove(ctx context.Context, id string) error {
	reply := make(chan error, 1)
	err, callErr := call(ctx, h, RemoveMatch{ID: id, Reply: reply}, reply)
	if callErr != nil {
		return callErr
	}
	return err
}

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			_ = h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateMatch:
				msg.Reply <- h.create(msg.State)

			case GetMatch:
				msg.Reply <- h.matches[msg.ID]

			case ListMatches:
				msg.Reply <- h.store.IDs()

			case RemoveMatch:
				err := h.remove(msg.ID)
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case ShutdownHub:
				err := h.shutdown()
				if msg.Reply != nil {
					msg.Reply <- err
				}
				return
			}
		}
	}
}

func (h *Hub) create(s game.State) Created {
	if err := h.store.Create(s); err != nil {
		return Created{Err: err}
	}
	mt := match.New(h.ctx, s.ID, h.eng, h.store, match.Config{
		TickDuration: h.cfg.TickDuration,
		Logger:       h.log,
		Results:      h.cfg.Results,
		OnEnd:        h.ended,
	})
	h.matches[s.ID] = mt
	h.log.Info("match created", zap.String("game", s.ID), zap.Int("players", len(s.Players)))
	return Created{Match: mt}
}

// ended runs on the match's own goroutine after game over.
func (h *Hub) ended(id string) {
	select {
	case h.inbox <- RemoveMatch{ID: id}:
	case <-h.done:
	}
}

func (h *Hub) remove(id string) error {
	var err error
	if mt := h.matches[id]; mt != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		err = mt.Close(ctx)
		cancel()
		delete(h.matches, id)
	}
	return multierr.Append(err, h.store.Delete(id))
}

func (h *Hub) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	var err error
	for id, mt := range h.matches {
		err = multierr.Append(err, mt.Close(ctx))
		delete(h.matches, id)
	}
	h.cancel()
	h.log.Info("hub stopped")
	return err
}
