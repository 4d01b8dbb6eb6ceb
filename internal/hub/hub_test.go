package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/store"
)

func newGame(t *testing.T, eng *engine.Engine, id string) game.State {
	t.Helper()
	s, err := eng.NewGame(id, []engine.Entry{
		{PlayerID: "r1", Name: "Alice", Team: game.TeamRadiant, HeroID: "axe"},
		{PlayerID: "d1", Name: "Cara", Team: game.TeamDire, HeroID: "sniper"},
	})
	require.NoError(t, err)
	return s
}

func newTestHub(t *testing.T) (*Hub, *store.Store) {
	t.Helper()
	st := store.New()
	h := NewHub(context.Background(), engine.New(nil, nil), st, Config{})
	t.Cleanup(func() {
		select {
		case h.Inbox() <- ShutdownHub{}:
		case <-h.Done():
		}
	})
	return h, st
}

func create(t *testing.T, h *Hub, s game.State) Created {
	t.Helper()
	reply := make(chan Created, 1)
	h.Inbox() <- CreateMatch{State: s, Reply: reply}
	return <-reply
}

func get(h *Hub, id string) *match.Match {
	reply := make(chan *match.Match, 1)
	h.Inbox() <- GetMatch{ID: id, Reply: reply}
	return <-reply
}

func TestHub_Create_Get_SamePointer(t *testing.T) {
	h, st := newTestHub(t)

	c := create(t, h, newGame(t, h.Engine(), "g1"))
	require.NoError(t, c.Err)
	require.NotNil(t, c.Match)
	assert.Same(t, c.Match, get(h, "g1"))
	assert.Nil(t, get(h, "nope"))

	_, err := st.Get("g1")
	assert.NoError(t, err, "creating a match stores its state")
}

func TestHub_CreateDuplicate(t *testing.T) {
	h, _ := newTestHub(t)

	require.NoError(t, create(t, h, newGame(t, h.Engine(), "g1")).Err)
	c := create(t, h, newGame(t, h.Engine(), "g1"))
	assert.ErrorIs(t, c.Err, store.ErrGameExists)
	assert.Nil(t, c.Match)
}

func TestHub_List(t *testing.T) {
	h, _ := newTestHub(t)
	for _, id := range []string{"b", "a"} {
		require.NoError(t, create(t, h, newGame(t, h.Engine(), id)).Err)
	}
	reply := make(chan []string, 1)
	h.Inbox() <- ListMatches{Reply: reply}
	assert.Equal(t, []string{"a", "b"}, <-reply)
}

func TestHub_Remove(t *testing.T) {
	h, st := newTestHub(t)
	c := create(t, h, newGame(t, h.Engine(), "g1"))
	require.NoError(t, c.Err)

	reply := make(chan error, 1)
	h.Inbox() <- RemoveMatch{ID: "g1", Reply: reply}
	require.NoError(t, <-reply)

	assert.Nil(t, get(h, "g1"))
	_, err := st.Get("g1")
	assert.ErrorIs(t, err, store.ErrGameNotFound)
	select {
	case <-c.Match.Done():
	case <-time.After(time.Second):
		t.Fatal("match still running after remove")
	}

	h.Inbox() <- RemoveMatch{ID: "g1", Reply: reply}
	assert.ErrorIs(t, <-reply, store.ErrGameNotFound)
}

func TestHub_GameOverRemovesMatch(t *testing.T) {
	h, st := newTestHub(t)
	s := newGame(t, h.Engine(), "g1")
	for i := range s.Towers {
		if s.Towers[i].Team == game.TeamRadiant {
			s.Towers[i].HP = 0
			s.Towers[i].Alive = false
		}
	}
	c := create(t, h, s)
	require.NoError(t, c.Err)

	ctx := context.Background()
	require.NoError(t, c.Match.Start(ctx))
	require.NoError(t, c.Match.Advance(ctx))

	require.Eventually(t, func() bool {
		_, err := st.Get("g1")
		return get(h, "g1") == nil && err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestHub_Shutdown_StopsMatches(t *testing.T) {
	h, _ := newTestHub(t)
	c := create(t, h, newGame(t, h.Engine(), "g1"))
	require.NoError(t, c.Err)

	reply := make(chan error, 1)
	h.Inbox() <- ShutdownHub{Reply: reply}
	require.NoError(t, <-reply)

	select {
	case <-c.Match.Done():
	case <-time.After(time.Second):
		t.Fatal("match still running after hub shutdown")
	}
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub still running")
	}
}

func TestHub_RequestsAfterShutdown(t *testing.T) {
	h, _ := newTestHub(t)
	reply := make(chan error, 1)
	h.Inbox() <- ShutdownHub{Reply: reply}
	require.NoError(t, <-reply)
	<-h.Done()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	mt, err := h.Match(ctx, "g1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Nil(t, mt)
	_, err = h.Create(ctx, newGame(t, h.Engine(), "g2"))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = h.List(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, h.Remove(ctx, "g1"), ErrClosed)
	require.NoError(t, ctx.Err(), "requests blocked until the deadline")
}

func TestHub_TypedRequests(t *testing.T) {
	h, _ := newTestHub(t)
	ctx := context.Background()

	mt, err := h.Create(ctx, newGame(t, h.Engine(), "g1"))
	require.NoError(t, err)
	got, err := h.Match(ctx, "g1")
	require.NoError(t, err)
	assert.Same(t, mt, got)

	_, err = h.Create(ctx, newGame(t, h.Engine(), "g1"))
	assert.ErrorIs(t, err, store.ErrGameExists)

	ids, err := h.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, ids)

	require.NoError(t, h.Remove(ctx, "g1"))
	got, err = h.Match(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
