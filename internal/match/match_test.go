package match

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/store"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

func testRoster() []engine.Entry {
	return []engine.Entry{
		{PlayerID: "r1", Name: "Alice", Team: game.TeamRadiant, HeroID: "axe"},
		{PlayerID: "r2", Name: "Bob", Team: game.TeamRadiant, HeroID: "crystal_maiden"},
		{PlayerID: "d1", Name: "Cara", Team: game.TeamDire, HeroID: "sniper"},
	}
}

type recorder struct{ got chan engine.Summary }

func (r recorder) Record(_ context.Context, sum engine.Summary) error {
	r.got <- sum
	return nil
}

func setup(t *testing.T, edit func(*game.State)) (*engine.Engine, *store.Store) {
	t.Helper()
	eng := engine.New(nil, nil)
	s, err := eng.NewGame("g1", testRoster())
	require.NoError(t, err)
	if edit != nil {
		edit(&s)
	}
	st := store.New()
	require.NoError(t, st.Create(s))
	return eng, st
}

func newTestMatch(t *testing.T, cfg Config) (*Match, *store.Store) {
	t.Helper()
	eng, st := setup(t, nil)
	m := New(context.Background(), "g1", eng, st, cfg)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m, st
}

func started(t *testing.T, cfg Config) (*Match, *store.Store) {
	t.Helper()
	m, st := newTestMatch(t, cfg)
	require.NoError(t, m.Start(context.Background()))
	return m, st
}

func recvFrame(t *testing.T, ch <-chan Frame) Frame {
	t.Helper()
	select {
	case f, ok := <-ch:
		require.True(t, ok, "outbox closed")
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func recvKind(t *testing.T, ch <-chan Frame, kind FrameKind) Frame {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case f, ok := <-ch:
			require.True(t, ok, "outbox closed")
			if f.Kind == kind {
				return f
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s frame", kind)
			return Frame{}
		}
	}
}

func recvNoFrame(t *testing.T, ch <-chan Frame) {
	t.Helper()
	select {
	case f := <-ch:
		t.Fatalf("unexpected %s frame", f.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func requireClosed(t *testing.T, ch <-chan Frame) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("outbox was not closed")
		}
	}
}

func TestJoin_SendsCurrentView(t *testing.T) {
	m, _ := newTestMatch(t, Config{})
	ctx := context.Background()

	out := make(chan Frame, 4)
	require.NoError(t, m.Join(ctx, "r1", out))
	f := recvFrame(t, out)
	assert.Equal(t, FrameView, f.Kind)
	require.NotNil(t, f.View)
	assert.Equal(t, "r1", f.View.PlayerID)
	assert.Equal(t, game.PhasePicking, f.View.Phase)

	err := m.Join(ctx, "ghost", make(chan Frame, 1))
	assert.ErrorIs(t, err, ErrPlayerNotFound)

	st, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.NumClients)

	m.Leave("r1", out)
	st, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.NumClients)
}

func TestJoin_ReconnectSurvivesStaleLeave(t *testing.T) {
	m, _ := started(t, Config{})
	ctx := context.Background()

	first := make(chan Frame, 4)
	require.NoError(t, m.Join(ctx, "r1", first))
	second := make(chan Frame, 4)
	require.NoError(t, m.Join(ctx, "r1", second))
	requireClosed(t, first)
	recvFrame(t, second)

	// The old connection unwinds after the new one registered.
	m.Leave("r1", first)
	st, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.NumClients)

	require.NoError(t, m.Advance(ctx))
	f := recvKind(t, second, FrameView)
	assert.Equal(t, 1, f.Tick)

	m.Leave("r1", second)
	st, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, st.NumClients)
}

func TestSubmit_BeforeStart(t *testing.T) {
	m, _ := newTestMatch(t, Config{})
	ctx := context.Background()

	_, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdMove, Zone: topology.RadiantBase})
	assert.ErrorIs(t, err, ErrNotRunning)

	a, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdMap})
	require.NoError(t, err)
	assert.NotEmpty(t, a.Map)

	err = m.Advance(ctx)
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStart_OnlyOnce(t *testing.T) {
	m, st := started(t, Config{})
	ctx := context.Background()

	assert.ErrorIs(t, m.Start(ctx), engine.ErrAlreadyStarted)
	s, err := st.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, game.PhasePlaying, s.Phase)
}

func TestAdvance_BroadcastsViews(t *testing.T) {
	m, st := started(t, Config{})
	ctx := context.Background()

	radiant := make(chan Frame, 8)
	dire := make(chan Frame, 8)
	require.NoError(t, m.Join(ctx, "r1", radiant))
	require.NoError(t, m.Join(ctx, "d1", dire))
	recvFrame(t, radiant)
	recvFrame(t, dire)

	for want := 1; want <= 3; want++ {
		require.NoError(t, m.Advance(ctx))
		f := recvKind(t, radiant, FrameView)
		assert.Equal(t, want, f.Tick)
		assert.Equal(t, game.TeamRadiant, f.View.Team)
		f = recvKind(t, dire, FrameView)
		assert.Equal(t, game.TeamDire, f.View.Team)
	}

	s, err := st.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Tick)
}

func TestSubmit_LastCommandWins(t *testing.T) {
	m, st := started(t, Config{})
	ctx := context.Background()

	_, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdMove, Zone: topology.RadiantBase})
	require.NoError(t, err)
	_, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdBuy, Item: "tango"})
	require.NoError(t, err)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)

	require.NoError(t, m.Advance(ctx))
	s, err := st.Get("g1")
	require.NoError(t, err)
	r1 := s.Players["r1"]
	assert.Equal(t, topology.RadiantFountain, r1.Zone, "the move was replaced")
	assert.GreaterOrEqual(t, r1.Items.Index("tango"), 0)

	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Pending, "queue is drained every tick")
}

func TestSubmit_ShopRejections(t *testing.T) {
	m, _ := started(t, Config{})
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  game.Command
		want error
	}{
		{name: "too expensive", cmd: game.Command{Type: game.CmdBuy, Item: "dagon"}, want: engine.ErrInsufficientGold},
		{name: "unknown item", cmd: game.Command{Type: game.CmdBuy, Item: "aegis"}, want: engine.ErrItemNotFound},
		{name: "sell not owned", cmd: game.Command{Type: game.CmdSell, Item: "tango"}, want: engine.ErrItemNotFound},
		{name: "use not owned", cmd: game.Command{Type: game.CmdUse, Item: "healing_salve"}, want: engine.ErrItemNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := m.Submit(ctx, "r1", tc.cmd)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Pending, "rejected commands are not queued")
}

func TestSubmit_ShopOutcomeFrame(t *testing.T) {
	m, _ := started(t, Config{})
	ctx := context.Background()

	out := make(chan Frame, 8)
	require.NoError(t, m.Join(ctx, "r1", out))
	recvFrame(t, out)

	_, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdBuy, Item: "clarity"})
	require.NoError(t, err)
	require.NoError(t, m.Advance(ctx))

	f := recvKind(t, out, FrameShop)
	require.NotNil(t, f.Shop)
	assert.Equal(t, "r1", f.Shop.PlayerID)
	assert.NoError(t, f.Shop.Err)
}

func TestSubmit_UnknownPlayer(t *testing.T) {
	m, _ := started(t, Config{})
	_, err := m.Submit(context.Background(), "ghost", game.Command{Type: game.CmdStatus})
	assert.ErrorIs(t, err, ErrPlayerNotFound)
	_, err = m.View(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestSubmit_Queries(t *testing.T) {
	m, st := started(t, Config{})
	ctx := context.Background()

	a, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdStatus})
	require.NoError(t, err)
	require.NotNil(t, a.View)
	assert.Equal(t, "r1", a.View.PlayerID)

	a, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdScan})
	require.NoError(t, err)
	require.NotEmpty(t, a.Scan)
	assert.Equal(t, topology.RadiantFountain, a.Scan[0].Zone)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Zero(t, status.Pending, "queries are never queued")

	s, err := st.Get("g1")
	require.NoError(t, err)
	assert.Zero(t, s.Tick)
}

func TestSubmit_ChatAndPing(t *testing.T) {
	m, _ := started(t, Config{})
	ctx := context.Background()

	ally := make(chan Frame, 8)
	enemy := make(chan Frame, 8)
	require.NoError(t, m.Join(ctx, "r2", ally))
	require.NoError(t, m.Join(ctx, "d1", enemy))
	recvFrame(t, ally)
	recvFrame(t, enemy)

	_, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdChat, Channel: game.ChannelTeam, Text: "gank mid"})
	require.NoError(t, err)
	f := recvFrame(t, ally)
	assert.Equal(t, FrameChat, f.Kind)
	assert.Equal(t, "gank mid", f.Chat.Text)
	assert.Equal(t, "Alice", f.Chat.Name)
	recvNoFrame(t, enemy)

	_, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdChat, Channel: game.ChannelAll, Text: "gg"})
	require.NoError(t, err)
	assert.Equal(t, "gg", recvFrame(t, ally).Chat.Text)
	assert.Equal(t, "gg", recvFrame(t, enemy).Chat.Text)

	_, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdPing, Zone: topology.RoshanPit})
	require.NoError(t, err)
	f = recvFrame(t, ally)
	assert.Equal(t, FramePing, f.Kind)
	assert.Equal(t, topology.RoshanPit, f.Chat.Zone)
	recvNoFrame(t, enemy)

	_, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdPing, Zone: "nowhere"})
	assert.ErrorIs(t, err, topology.ErrUnknownZone)
	_, err = m.Submit(ctx, "r1", game.Command{Type: game.CmdChat, Channel: "whisper", Text: "hi"})
	assert.ErrorIs(t, err, ErrBadChannel)
}

func TestBroadcast_DropsSlowClient(t *testing.T) {
	m, _ := started(t, Config{})
	ctx := context.Background()

	slow := make(chan Frame, 1)
	require.NoError(t, m.Join(ctx, "r1", slow))
	// The join view fills the outbox; the next broadcast finds it full.
	require.NoError(t, m.Advance(ctx))

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.NumClients)
	requireClosed(t, slow)
}

func TestTick_PanicIsRecovered(t *testing.T) {
	eng, st := setup(t, nil)
	m := newMatch(context.Background(), "g1", eng, st, Config{})
	var calls atomic.Int32
	m.step = func(s game.State, cmds map[string]game.Command) (engine.StepResult, error) {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return eng.Step(s, cmds)
	}
	go m.loop()
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	ctx := context.Background()

	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Advance(ctx))
	s, err := st.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Tick, "the failed tick leaves the state alone")

	require.NoError(t, m.Advance(ctx))
	s, err = st.Get("g1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Tick)
}

func TestTicker_RunsOnSchedule(t *testing.T) {
	m, _ := started(t, Config{TickDuration: 10 * time.Millisecond})
	ctx := context.Background()

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Running)

	out := make(chan Frame, 16)
	require.NoError(t, m.Join(ctx, "r1", out))
	recvFrame(t, out)

	prev := 0
	for range 3 {
		f := recvKind(t, out, FrameView)
		assert.Greater(t, f.Tick, prev, "ticks strictly increase")
		prev = f.Tick
	}
}

func TestGameOver(t *testing.T) {
	eng, st := setup(t, func(s *game.State) {
		for i := range s.Towers {
			if s.Towers[i].Team == game.TeamDire {
				s.Towers[i].HP = 0
				s.Towers[i].Alive = false
			}
		}
	})
	rec := recorder{got: make(chan engine.Summary, 1)}
	ended := make(chan string, 1)
	m := New(context.Background(), "g1", eng, st, Config{
		Results: rec,
		OnEnd:   func(id string) { ended <- id },
	})
	ctx := context.Background()

	out := make(chan Frame, 8)
	require.NoError(t, m.Join(ctx, "d1", out))
	recvFrame(t, out)
	require.NoError(t, m.Start(ctx))
	recvKind(t, out, FrameView)
	require.NoError(t, m.Advance(ctx))

	f := recvKind(t, out, FrameGameOver)
	require.NotNil(t, f.Summary)
	assert.Equal(t, game.TeamRadiant, f.Summary.Winner)
	requireClosed(t, out)

	select {
	case sum := <-rec.got:
		assert.Equal(t, "g1", sum.GameID)
		assert.Len(t, sum.Lines, 3)
	case <-time.After(time.Second):
		t.Fatal("result was not recorded")
	}
	select {
	case id := <-ended:
		assert.Equal(t, "g1", id)
	case <-time.After(time.Second):
		t.Fatal("end hook was not called")
	}

	<-m.Done()
	_, err := m.Submit(ctx, "r1", game.Command{Type: game.CmdStatus})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestClose(t *testing.T) {
	m, _ := newTestMatch(t, Config{})
	ctx := context.Background()

	out := make(chan Frame, 4)
	require.NoError(t, m.Join(ctx, "r1", out))
	recvFrame(t, out)

	require.NoError(t, m.Close(ctx))
	requireClosed(t, out)
	require.NoError(t, m.Close(ctx), "closing twice is fine")

	_, err := m.Status(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
