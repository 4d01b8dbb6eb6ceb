// Package match runs one game: an actor goroutine that owns the game's
// command queue and client outboxes, steps the engine on a fixed period
// and fans the per-player views out to connected clients.
package match

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/store"
	"github.com/DoyleJ11/lane-arena/internal/topology"
	"github.com/DoyleJ11/lane-arena/internal/vision"
)

var ErrPlayerNotFound = engine.ErrPlayerNotFound
var ErrNotRunning = errors.New("match is not running")
var ErrClosed = errors.New("match closed")

// Recorder receives the summary of a finished match exactly once.
type Recorder interface {
	Record(ctx context.Context, sum engine.Summary) error
}

type Msg interface{ isMatchMsg() }

// Join registers a client outbox for a player. The player's current view
// is sent right away.
type Join struct {
	PlayerID string
	Outbox   chan Frame
	Reply    chan error
}

// Leave unregisters Outbox. It is ignored when the player has since
// joined again with another outbox.
type Leave struct {
	PlayerID string
	Outbox   chan Frame
}

// Submit hands the match one command from an authenticated player.
// Queued commands replace whatever that player queued earlier in the
// tick; queries are answered on Reply immediately.
type Submit struct {
	PlayerID string
	Cmd      game.Command
	Reply    chan Answer
}

type GetView struct {
	PlayerID string
	Reply    chan Answer
}

type GetState struct {
	Reply chan Status
}

// Start moves the game from picking to playing and starts the ticker.
type Start struct {
	Reply chan error
}

// Advance runs one tick right now, outside the schedule.
type Advance struct {
	Reply chan error
}

type Shutdown struct{}

func (Join) isMatchMsg()     {}
func (Leave) isMatchMsg()    {}
func (Submit) isMatchMsg()   {}
func (GetView) isMatchMsg()  {}
func (GetState) isMatchMsg() {}
func (Start) isMatchMsg()    {}
func (Advance) isMatchMsg()  {}
func (Shutdown) isMatchMsg() {}

// Answer is the immediate reply to a submission or view request. At most
// one of the payload fields is set.
type Answer struct {
	Err  error
	View *vision.View
	Scan []vision.ZoneReport
	Map  []topology.Zone
}

// Status reflects the actor's internals without data races.
type Status struct {
	State      game.State
	NumClients int
	Pending    int
	Running    bool
}

type Config struct {
	TickDuration time.Duration // zero disables the ticker; ticks then only run on Advance
	Logger       *zap.Logger
	Results      Recorder
	OnEnd        func(id string)
}

type Match struct {
	id      string
	eng     *engine.Engine
	store   *store.Store
	cfg     Config
	log     *zap.Logger
	inbox   chan Msg
	pending map[string]game.Command
	clients map[string]chan Frame
	events  []game.Event
	step    func(game.State, map[string]game.Command) (engine.StepResult, error)
	ticker  *time.Ticker
	tickC   <-chan time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// New starts the actor for a game already present in st.
func New(parent context.Context, id string, eng *engine.Engine, st *store.Store, cfg Config) *Match {
	m := newMatch(parent, id, eng, st, cfg)
	go m.loop()
	return m
}

func newMatch(parent context.Context, id string, eng *engine.Engine, st *store.Store, cfg Config) *Match {
	ctx, cancel := context.WithCancel(parent)
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Match{
		id:      id,
		eng:     eng,
		store:   st,
		cfg:     cfg,
		log:     log.With(zap.String("game", id)),
		inbox:   make(chan Msg, 64),
		pending: make(map[string]game.Command),
		clients: make(map[string]chan Frame),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	m.step = eng.Step
	return m
}

func (m *Match) ID() string { return m.id }

// Inbox exposes the actor's mailbox to the hub and the transport.
func (m *Match) Inbox() chan<- Msg { return m.inbox }

// Done is closed once the actor has stopped.
func (m *Match) Done() <-chan struct{} { return m.done }

func (m *Match) loop() {
	defer close(m.done)
	for {
		select {
		case <-m.ctx.Done():
			m.shutdown()
			return

		case <-m.tickC:
			if m.tick() {
				return
			}

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case Join:
				err := m.join(msg)
				if msg.Reply != nil {
					msg.Reply <- err
				}

			case Leave:
				if m.clients[msg.PlayerID] == msg.Outbox {
					delete(m.clients, msg.PlayerID)
				}

			case Submit:
				msg.Reply <- m.submit(msg.PlayerID, msg.Cmd)

			case GetView:
				msg.Reply <- m.status(msg.PlayerID)

			case GetState:
				s, _ := m.store.Get(m.id)
				msg.Reply <- Status{
					State:      s,
					NumClients: len(m.clients),
					Pending:    len(m.pending),
					Running:    m.tickC != nil,
				}

			case Start:
				msg.Reply <- m.start()

			case Advance:
				s, err := m.store.Get(m.id)
				if err == nil && s.Phase != game.PhasePlaying {
					err = ErrNotRunning
				}
				if err != nil {
					msg.Reply <- err
					break
				}
				over := m.tick()
				msg.Reply <- nil
				if over {
					return
				}

			case Shutdown:
				m.shutdown()
				return
			}
		}
	}
}

func (m *Match) join(msg Join) error {
	s, err := m.store.Get(m.id)
	if err != nil {
		return err
	}
	if _, ok := s.Player(msg.PlayerID); !ok {
		return ErrPlayerNotFound
	}
	if old, ok := m.clients[msg.PlayerID]; ok && old != msg.Outbox {
		close(old)
	}
	m.clients[msg.PlayerID] = msg.Outbox
	v, err := vision.Filter(&s, m.eng.Map(), msg.PlayerID, m.events)
	if err != nil {
		return err
	}
	m.send(msg.PlayerID, Frame{Kind: FrameView, Tick: s.Tick, View: &v})
	return nil
}

func (m *Match) start() error {
	if _, err := m.store.Update(m.id, engine.Start); err != nil {
		return err
	}
	if m.cfg.TickDuration > 0 {
		m.ticker = time.NewTicker(m.cfg.TickDuration)
		m.tickC = m.ticker.C
	}
	m.log.Info("match started", zap.Duration("tick", m.cfg.TickDuration))
	m.broadcastState()
	return nil
}

func (m *Match) shutdown() {
	if m.ticker != nil {
		m.ticker.Stop()
	}
	for id, ch := range m.clients {
		close(ch)
		delete(m.clients, id)
	}
	m.cancel()
	m.log.Info("match stopped")
}

// send delivers to one client, dropping it when its outbox is full.
func (m *Match) send(playerID string, f Frame) {
	ch, ok := m.clients[playerID]
	if !ok {
		return
	}
	select {
	case ch <- f:
	default:
		m.log.Warn("dropping slow client", zap.String("player", playerID))
		close(ch)
		delete(m.clients, playerID)
	}
}

func (m *Match) broadcastState() {
	s, err := m.store.Get(m.id)
	if err != nil {
		return
	}
	m.broadcast(&s, m.events)
}

func (m *Match) broadcast(s *game.State, events []game.Event) {
	for _, id := range sortedClients(m.clients) {
		v, err := vision.Filter(s, m.eng.Map(), id, events)
		if err != nil {
			continue
		}
		m.send(id, Frame{Kind: FrameView, Tick: s.Tick, View: &v})
	}
}

// Methods below wrap the inbox for callers outside the actor. They fail
// with ErrClosed once the actor has stopped.

func call[T any](ctx context.Context, m *Match, msg Msg, reply chan T) (T, error) {
	var zero T
	select {
	case m.inbox <- msg:
	case <-m.done:
		return zero, ErrClosed
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	select {
	case r := <-reply:
		return r, nil
	case <-m.done:
		// The final reply may race the shutdown.
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

func (m *Match) Join(ctx context.Context, playerID string, outbox chan Frame) error {
	reply := make(chan error, 1)
	err, callErr := call(ctx, m, Join{PlayerID: playerID, Outbox: outbox, Reply: reply}, reply)
	if callErr != nil {
		return callErr
	}
	return err
}

// Leave is fire-and-forget; it never blocks on a stopped match.
func (m *Match) Leave(playerID string, outbox chan Frame) {
	select {
	case m.inbox <- Leave{PlayerID: playerID, Outbox: outbox}:
	case <-m.done:
	}
}

func (m *Match) Submit(ctx context.Context, playerID string, cmd game.Command) (Answer, error) {
	reply := make(chan Answer, 1)
	a, err := call(ctx, m, Submit{PlayerID: playerID, Cmd: cmd, Reply: reply}, reply)
	if err != nil {
		return Answer{}, err
	}
	return a, a.Err
}

func (m *Match) View(ctx context.Context, playerID string) (vision.View, error) {
	reply := make(chan Answer, 1)
	a, err := call(ctx, m, GetView{PlayerID: playerID, Reply: reply}, reply)
	if err != nil {
		return vision.View{}, err
	}
	if a.Err != nil {
		return vision.View{}, a.Err
	}
	return *a.View, nil
}

func (m *Match) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	return call(ctx, m, GetState{Reply: reply}, reply)
}

func (m *Match) Start(ctx context.Context) error {
	reply := make(chan error, 1)
	err, callErr := call(ctx, m, Start{Reply: reply}, reply)
	if callErr != nil {
		return callErr
	}
	return err
}

func (m *Match) Advance(ctx context.Context) error {
	reply := make(chan error, 1)
	err, callErr := call(ctx, m, Advance{Reply: reply}, reply)
	if callErr != nil {
		return callErr
	}
	return err
}

// Close asks the actor to stop and waits until it has.
func (m *Match) Close(ctx context.Context) error {
	select {
	case m.inbox <- Shutdown{}:
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
