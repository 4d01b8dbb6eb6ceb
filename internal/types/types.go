// Package types holds the websocket wire messages and their conversion
// to and from the match actor's vocabulary.
package types

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/textcmd"
	"github.com/DoyleJ11/lane-arena/internal/topology"
	"github.com/DoyleJ11/lane-arena/internal/vision"
)

var ErrMalformed = errors.New("malformed message")

// ClientMessage is one client frame. Type is a command type, or "text"
// for a typed command line carried in Line.
type ClientMessage struct {
	Type    string          `json:"type" jsonschema:"enum=move,enum=attack,enum=cast,enum=use,enum=buy,enum=sell,enum=ward,enum=scan,enum=status,enum=map,enum=chat,enum=ping,enum=text"`
	Zone    string          `json:"zone,omitempty" jsonschema:"description=Target zone id"`
	Target  *game.TargetRef `json:"target,omitempty"`
	Slot    string          `json:"slot,omitempty" jsonschema:"enum=q,enum=w,enum=e,enum=r"`
	Item    string          `json:"item,omitempty"`
	Channel string          `json:"channel,omitempty" jsonschema:"enum=all,enum=team"`
	Text    string          `json:"text,omitempty" jsonschema:"description=Chat text"`
	Line    string          `json:"line,omitempty" jsonschema:"description=Typed command line when type is text"`
}

const TypeText = "text"

// Command checks the message shape and converts it. The player id is
// left empty; the transport knows who sent it.
func (m ClientMessage) Command() (game.Command, error) {
	if m.Type == TypeText {
		return textcmd.Parse(m.Line)
	}
	cmd := game.Command{
		Type:    game.CommandType(m.Type),
		Zone:    game.ZoneID(m.Zone),
		Target:  m.Target,
		Item:    m.Item,
		Channel: game.ChatChannel(m.Channel),
		Text:    m.Text,
	}
	switch cmd.Type {
	case game.CmdMove, game.CmdWard, game.CmdPing:
		if m.Zone == "" {
			return game.Command{}, fmt.Errorf("%w: %s needs a zone", ErrMalformed, m.Type)
		}
	case game.CmdAttack:
		if err := checkTarget(m.Target); err != nil {
			return game.Command{}, err
		}
	case game.CmdCast:
		slot, ok := content.ParseSlot(m.Slot)
		if !ok {
			return game.Command{}, fmt.Errorf("%w: unknown ability slot %q", ErrMalformed, m.Slot)
		}
		cmd.Slot = slot
		if m.Target != nil {
			if err := checkTarget(m.Target); err != nil {
				return game.Command{}, err
			}
		}
	case game.CmdUse, game.CmdBuy, game.CmdSell:
		if m.Item == "" {
			return game.Command{}, fmt.Errorf("%w: %s needs an item", ErrMalformed, m.Type)
		}
	case game.CmdChat:
		if m.Channel != string(game.ChannelAll) && m.Channel != string(game.ChannelTeam) {
			return game.Command{}, fmt.Errorf("%w: unknown chat channel %q", ErrMalformed, m.Channel)
		}
	case game.CmdScan, game.CmdStatus, game.CmdMap:
	default:
		return game.Command{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, m.Type)
	}
	return cmd, nil
}

func checkTarget(t *game.TargetRef) error {
	if t == nil {
		return fmt.Errorf("%w: missing target", ErrMalformed)
	}
	switch t.Kind {
	case game.TargetHero:
		if t.Name == "" {
			return fmt.Errorf("%w: hero target needs a name", ErrMalformed)
		}
	case game.TargetCreep:
		if t.Index < 0 {
			return fmt.Errorf("%w: negative creep index", ErrMalformed)
		}
	case game.TargetTower:
		if t.Zone == "" {
			return fmt.Errorf("%w: tower target needs a zone", ErrMalformed)
		}
	case game.TargetRoshan, game.TargetSelf:
	default:
		return fmt.Errorf("%w: unknown target kind %q", ErrMalformed, t.Kind)
	}
	return nil
}

// ServerMessage is one server frame. Type says which payload is set.
type ServerMessage struct {
	Type    string              `json:"type"` // view | shop | chat | ping | game_over | ack | scan | map | error
	Tick    int                 `json:"tick,omitempty"`
	View    *vision.View        `json:"view,omitempty"`
	Shop    *ShopResult         `json:"shop,omitempty"`
	Chat    *ChatLine           `json:"chat,omitempty"`
	Summary *engine.Summary     `json:"summary,omitempty"`
	Scan    []vision.ZoneReport `json:"scan,omitempty"`
	Map     []topology.Zone     `json:"map,omitempty"`
	Error   string              `json:"error,omitempty"`
	Code    string              `json:"code,omitempty"`
}

type ShopResult struct {
	Command game.Command `json:"command"`
	OK      bool         `json:"ok"`
	Code    string       `json:"code,omitempty"`
	Reason  string       `json:"reason,omitempty"`
}

type ChatLine struct {
	From    string           `json:"from"`
	Name    string           `json:"name"`
	Team    game.Team        `json:"team"`
	Channel game.ChatChannel `json:"channel"`
	Text    string           `json:"text,omitempty"`
	Zone    game.ZoneID      `json:"zone,omitempty"`
}

func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: "error", Error: err.Error(), Code: ErrorCode(err)}
}
