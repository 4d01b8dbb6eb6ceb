package engine

import (
	"errors"
	"fmt"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/economy"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// Shop rejections are reported to the player, never logged as failures.
var ErrNotInShop = errors.New("not in a shop zone")
var ErrInsufficientGold = errors.New("insufficient gold")
var ErrInventoryFull = errors.New("inventory full")
var ErrItemNotFound = errors.New("item not found")
var ErrOnCooldown = errors.New("item on cooldown")

// ShopOutcome reports how a buy, sell or use command ended. Err is nil on
// success.
type ShopOutcome struct {
	PlayerID string
	Command  game.Command
	Err      error
}

// CheckShop reports whether a buy, sell or use command would succeed
// against s right now.
func (e *Engine) CheckShop(s *game.State, cmd game.Command) error {
	p, ok := s.Player(cmd.PlayerID)
	if !ok {
		return ErrPlayerNotFound
	}
	item, known := e.catalog.Item(cmd.Item)
	switch cmd.Type {
	case game.CmdBuy:
		if !known {
			return ErrItemNotFound
		}
		if !e.inShop(p) {
			return ErrNotInShop
		}
		if p.Gold < item.Cost {
			return ErrInsufficientGold
		}
		if p.Items.FreeSlot() < 0 {
			return ErrInventoryFull
		}
	case game.CmdSell:
		if !e.inShop(p) {
			return ErrNotInShop
		}
		if p.Items.Index(cmd.Item) < 0 {
			return ErrItemNotFound
		}
	case game.CmdUse:
		if !known || item.Active == nil || p.Items.Index(cmd.Item) < 0 {
			return ErrItemNotFound
		}
		if p.ItemCooldowns[cmd.Item] > 0 {
			return ErrOnCooldown
		}
	default:
		return fmt.Errorf("%s is not a shop command", cmd.Type)
	}
	return nil
}

func (e *Engine) inShop(p *game.Player) bool {
	z, ok := e.topo.Zone(p.Zone)
	return ok && z.IsShop
}

func (e *Engine) buy(s *game.State, p *game.Player, item content.Item) []game.Event {
	slot := p.Items.FreeSlot()
	p.Items[slot] = item.ID
	applyBonus(p, item.Bonus)
	events := []game.Event{{
		Type:     game.EvtItemPurchased,
		Tick:     s.Tick,
		PlayerID: p.ID,
		Team:     p.Team,
		ItemID:   item.ID,
		Amount:   item.Cost,
	}}
	if ev, ok := economy.Grant(s, p.ID, -item.Cost, economy.ReasonBuy); ok {
		events = append(events, ev)
	}
	return events
}

func (e *Engine) sell(s *game.State, p *game.Player, itemID string) []game.Event {
	item, _ := e.catalog.Item(itemID)
	e.dropItem(p, itemID)
	events := []game.Event{{
		Type:     game.EvtItemSold,
		Tick:     s.Tick,
		PlayerID: p.ID,
		Team:     p.Team,
		ItemID:   itemID,
		Amount:   item.SellValue(),
	}}
	if ev, ok := economy.Grant(s, p.ID, item.SellValue(), economy.ReasonSell); ok {
		events = append(events, ev)
	}
	return events
}

// dropItem empties the first slot holding itemID and takes its bonus away.
func (e *Engine) dropItem(p *game.Player, itemID string) {
	i := p.Items.Index(itemID)
	if i < 0 {
		return
	}
	p.Items[i] = ""
	if item, ok := e.catalog.Item(itemID); ok {
		removeBonus(p, item.Bonus)
	}
}

func applyBonus(p *game.Player, b content.Stats) {
	p.MaxHP += b.HP
	p.MaxMP += b.MP
	if p.Alive {
		p.HP += b.HP
		p.MP += b.MP
	}
}

// removeBonus never kills: hp is clamped to the new maximum only.
func removeBonus(p *game.Player, b content.Stats) {
	p.MaxHP = max(1, p.MaxHP-b.HP)
	p.MaxMP = max(0, p.MaxMP-b.MP)
	p.HP = min(p.HP, p.MaxHP)
	p.MP = min(p.MP, p.MaxMP)
}
