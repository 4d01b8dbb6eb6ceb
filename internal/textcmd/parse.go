package textcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

var ErrSyntax = errors.New("unrecognized command")

var usage = map[string]string{
	"move":   "move <zone>",
	"attack": "attack hero:<name> | creep:<n> | tower:<zone> | roshan",
	"cast":   "cast <q|w|e|r> [target]",
	"use":    "use <item> [target]",
	"buy":    "buy <item>",
	"sell":   "sell <item>",
	"ward":   "ward <zone>",
	"ping":   "ping <zone>",
	"chat":   `chat <all|team> "<text>"`,
	"scan":   "scan",
	"status": "status",
	"map":    "map",
}

// Usage returns the syntax of verb, or the list of verbs when verb is
// unknown.
func Usage(verb string) string {
	if u, ok := usage[strings.ToLower(verb)]; ok {
		return u
	}
	return "commands: move, attack, cast, use, buy, sell, ward, scan, status, map, chat, ping"
}

// Parse turns one command line into a command. Errors wrap ErrSyntax and
// carry the usage of the verb that was typed.
func Parse(input string) (game.Command, error) {
	input = strings.TrimSpace(input)
	line, err := parser.ParseString("", input)
	if err != nil {
		verb, _, _ := strings.Cut(input, " ")
		return game.Command{}, fmt.Errorf("%w: usage: %s", ErrSyntax, Usage(verb))
	}
	return line.Command(), nil
}

// Command converts the parsed line. Zone and item ids are lower-cased;
// hero names keep their case since lookup folds it anyway.
func (l *Line) Command() game.Command {
	switch {
	case l.Move != nil:
		return game.Command{Type: game.CmdMove, Zone: zone(l.Move.Zone)}
	case l.Attack != nil:
		return game.Command{Type: game.CmdAttack, Target: l.Attack.Target.Ref()}
	case l.Cast != nil:
		slot, _ := content.ParseSlot(strings.ToLower(l.Cast.Slot))
		return game.Command{Type: game.CmdCast, Slot: slot, Target: l.Cast.Target.Ref()}
	case l.Use != nil:
		return game.Command{Type: game.CmdUse, Item: strings.ToLower(l.Use.Item), Target: l.Use.Target.Ref()}
	case l.Buy != nil:
		return game.Command{Type: game.CmdBuy, Item: strings.ToLower(l.Buy.Item)}
	case l.Sell != nil:
		return game.Command{Type: game.CmdSell, Item: strings.ToLower(l.Sell.Item)}
	case l.Ward != nil:
		return game.Command{Type: game.CmdWard, Zone: zone(l.Ward.Zone)}
	case l.Ping != nil:
		return game.Command{Type: game.CmdPing, Zone: zone(l.Ping.Zone)}
	case l.Chat != nil:
		return game.Command{Type: game.CmdChat, Channel: game.ChatChannel(strings.ToLower(l.Chat.Channel)), Text: l.Chat.Text}
	case l.Scan:
		return game.Command{Type: game.CmdScan}
	case l.Status:
		return game.Command{Type: game.CmdStatus}
	default:
		return game.Command{Type: game.CmdMap}
	}
}

// Ref converts the target; a nil target stays nil.
func (t *Target) Ref() *game.TargetRef {
	switch {
	case t == nil:
		return nil
	case t.Hero != nil:
		return game.Hero(*t.Hero)
	case t.Creep != nil:
		return game.CreepAt(*t.Creep)
	case t.Tower != nil:
		return game.TowerIn(zone(*t.Tower))
	case t.Roshan:
		return game.RoshanTarget()
	default:
		return game.Self()
	}
}

func zone(s string) game.ZoneID { return game.ZoneID(strings.ToLower(s)) }
