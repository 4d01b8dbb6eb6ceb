package match

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

const recordTimeout = 10 * time.Second

// tick drains the queued commands and runs one engine step. A panic
// inside the step is logged and the match keeps its previous state. It
// reports whether the match ended.
func (m *Match) tick() (over bool) {
	cmds := m.pending
	m.pending = make(map[string]game.Command)

	var res engine.StepResult
	err := m.guard(func() error {
		_, err := m.store.Update(m.id, func(s game.State) (game.State, error) {
			r, err := m.step(s, cmds)
			if err != nil {
				return s, err
			}
			res = r
			return r.State, nil
		})
		return err
	})
	if err != nil {
		m.log.Error("tick failed", zap.Error(err))
		return false
	}

	m.events = res.Events
	for _, out := range res.Shop {
		m.send(out.PlayerID, Frame{Kind: FrameShop, Tick: res.State.Tick, Shop: &out})
	}
	m.broadcast(&res.State, res.Events)

	if res.GameOver == nil {
		return false
	}
	m.finish(*res.GameOver)
	return true
}

func (m *Match) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("tick panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()
	return fn()
}

// finish hands the summary to the results sink, tells every client, and
// stops the actor.
func (m *Match) finish(sum engine.Summary) {
	m.log.Info("game over", zap.String("winner", string(sum.Winner)), zap.Int("tick", sum.Tick))
	if m.cfg.Results != nil {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		if err := m.cfg.Results.Record(ctx, sum); err != nil {
			m.log.Error("recording result", zap.Error(err))
		}
		cancel()
	}
	for _, id := range sortedClients(m.clients) {
		m.send(id, Frame{Kind: FrameGameOver, Tick: sum.Tick, Summary: &sum})
	}
	m.shutdown()
	if m.cfg.OnEnd != nil {
		go m.cfg.OnEnd(m.id)
	}
}

func sortedClients(clients map[string]chan Frame) []string {
	ids := make([]string, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
