package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/textcmd"
)

func TestClientMessage_Command(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want game.Command
	}{
		{name: "move", raw: `{"type":"move","zone":"mid_lane"}`, want: game.Command{Type: game.CmdMove, Zone: "mid_lane"}},
		{name: "attack creep", raw: `{"type":"attack","target":{"kind":"creep","index":1}}`, want: game.Command{Type: game.CmdAttack, Target: game.CreepAt(1)}},
		{name: "cast without target", raw: `{"type":"cast","slot":"e"}`, want: game.Command{Type: game.CmdCast, Slot: content.SlotE}},
		{name: "buy", raw: `{"type":"buy","item":"tango"}`, want: game.Command{Type: game.CmdBuy, Item: "tango"}},
		{name: "chat", raw: `{"type":"chat","channel":"all","text":"gl hf"}`, want: game.Command{Type: game.CmdChat, Channel: game.ChannelAll, Text: "gl hf"}},
		{name: "scan", raw: `{"type":"scan"}`, want: game.Command{Type: game.CmdScan}},
		{name: "text line", raw: `{"type":"text","line":"attack hero:Lion"}`, want: game.Command{Type: game.CmdAttack, Target: game.Hero("Lion")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var m ClientMessage
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &m))
			got, err := m.Command()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClientMessage_Malformed(t *testing.T) {
	cases := []struct {
		name string
		msg  ClientMessage
		want error
	}{
		{name: "unknown type", msg: ClientMessage{Type: "dance"}, want: ErrMalformed},
		{name: "move without zone", msg: ClientMessage{Type: "move"}, want: ErrMalformed},
		{name: "attack without target", msg: ClientMessage{Type: "attack"}, want: ErrMalformed},
		{name: "attack unknown kind", msg: ClientMessage{Type: "attack", Target: &game.TargetRef{Kind: "ally"}}, want: ErrMalformed},
		{name: "hero without name", msg: ClientMessage{Type: "attack", Target: &game.TargetRef{Kind: game.TargetHero}}, want: ErrMalformed},
		{name: "negative creep", msg: ClientMessage{Type: "attack", Target: game.CreepAt(-1)}, want: ErrMalformed},
		{name: "bad slot", msg: ClientMessage{Type: "cast", Slot: "x"}, want: ErrMalformed},
		{name: "buy without item", msg: ClientMessage{Type: "buy"}, want: ErrMalformed},
		{name: "bad channel", msg: ClientMessage{Type: "chat", Channel: "guild", Text: "hi"}, want: ErrMalformed},
		{name: "bad text line", msg: ClientMessage{Type: "text", Line: "attack"}, want: textcmd.ErrSyntax},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.msg.Command()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: engine.ErrInsufficientGold, want: "insufficient_gold"},
		{err: fmt.Errorf("buy: %w", engine.ErrInventoryFull), want: "inventory_full"},
		{err: match.ErrPlayerNotFound, want: "player_not_found"},
		{err: match.ErrClosed, want: "closed"},
		{err: hub.ErrClosed, want: "closed"},
		{err: fmt.Errorf("%w: x", ErrMalformed), want: "malformed"},
		{err: errors.New("boom"), want: "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorCode(tc.err))
		})
	}
}

func TestFromFrame_Shop(t *testing.T) {
	cmd := game.Command{Type: game.CmdBuy, PlayerID: "r1", Item: "dagon"}

	ok := FromFrame(match.Frame{Kind: match.FrameShop, Tick: 3, Shop: &engine.ShopOutcome{PlayerID: "r1", Command: cmd}})
	assert.Equal(t, "shop", ok.Type)
	require.NotNil(t, ok.Shop)
	assert.True(t, ok.Shop.OK)
	assert.Empty(t, ok.Shop.Code)

	rejected := FromFrame(match.Frame{Kind: match.FrameShop, Tick: 3, Shop: &engine.ShopOutcome{PlayerID: "r1", Command: cmd, Err: engine.ErrInsufficientGold}})
	assert.False(t, rejected.Shop.OK)
	assert.Equal(t, "insufficient_gold", rejected.Shop.Code)
}

func TestFromAnswer(t *testing.T) {
	assert.Equal(t, "ack", FromAnswer(match.Answer{}).Type)
	e := FromAnswer(match.Answer{Err: engine.ErrNotInShop})
	assert.Equal(t, "error", e.Type)
	assert.Equal(t, "not_in_shop", e.Code)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, string(data), `"line"`)
	assert.Contains(t, string(data), `"attack"`)
}
