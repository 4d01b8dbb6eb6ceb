package types

import (
	"errors"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/hub"
	"github.com/DoyleJ11/lane-arena/internal/match"
	"github.com/DoyleJ11/lane-arena/internal/textcmd"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

var codes = []struct {
	err  error
	code string
}{
	{engine.ErrNotInShop, "not_in_shop"},
	{engine.ErrInsufficientGold, "insufficient_gold"},
	{engine.ErrInventoryFull, "inventory_full"},
	{engine.ErrItemNotFound, "item_not_found"},
	{engine.ErrOnCooldown, "on_cooldown"},
	{match.ErrPlayerNotFound, "player_not_found"},
	{match.ErrNotRunning, "not_running"},
	{match.ErrClosed, "closed"},
	{hub.ErrClosed, "closed"},
	{match.ErrBadChannel, "malformed"},
	{topology.ErrUnknownZone, "unknown_zone"},
	{textcmd.ErrSyntax, "syntax"},
	{ErrMalformed, "malformed"},
}

// ErrorCode maps known failures to a stable code clients can switch on.
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

func FromFrame(f match.Frame) ServerMessage {
	msg := ServerMessage{Type: string(f.Kind), Tick: f.Tick}
	switch f.Kind {
	case match.FrameView:
		msg.View = f.View
	case match.FrameShop:
		r := &ShopResult{Command: f.Shop.Command, OK: f.Shop.Err == nil}
		if f.Shop.Err != nil {
			r.Code = ErrorCode(f.Shop.Err)
			r.Reason = f.Shop.Err.Error()
		}
		msg.Shop = r
	case match.FrameChat, match.FramePing:
		c := f.Chat
		msg.Chat = &ChatLine{From: c.From, Name: c.Name, Team: c.Team, Channel: c.Channel, Text: c.Text, Zone: c.Zone}
	case match.FrameGameOver:
		msg.Summary = f.Summary
	}
	return msg
}

// FromAnswer converts the immediate reply to a submission.
func FromAnswer(a match.Answer) ServerMessage {
	switch {
	case a.Err != nil:
		return ErrorMessage(a.Err)
	case a.View != nil:
		return ServerMessage{Type: "view", Tick: a.View.Tick, View: a.View}
	case a.Scan != nil:
		return ServerMessage{Type: "scan", Scan: a.Scan}
	case a.Map != nil:
		return ServerMessage{Type: "map", Map: a.Map}
	default:
		return ServerMessage{Type: "ack"}
	}
}
