package engine

import (
	"errors"

	"golang.org/x/text/cases"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// errDropped marks a command that is ignored for this tick without any
// trace.
var errDropped = errors.New("command dropped")

// order is a validated command with its references resolved against the
// pre-tick snapshot.
type order struct {
	cmd     game.Command
	ability content.Ability
	item    content.Item
	target  target
}

// target names a unit by id: a player id, creep id or tower zone. Roshan
// and area casts carry no id.
type target struct {
	kind game.TargetKind
	id   string
}

func (o order) casts() bool {
	return o.cmd.Type == game.CmdCast || o.cmd.Type == game.CmdUse
}

// validate checks cmd against s. Shop commands fail with the typed shop
// errors; every other failure is errDropped.
func (e *Engine) validate(s *game.State, cmd game.Command) (order, error) {
	p, ok := s.Player(cmd.PlayerID)
	if !ok || !p.Alive {
		return order{}, errDropped
	}
	o := order{cmd: cmd}
	switch cmd.Type {
	case game.CmdMove:
		if p.Stunned() || p.Rooted() || cmd.Zone == p.Zone || !e.topo.Adjacent(p.Zone, cmd.Zone) {
			return o, errDropped
		}
	case game.CmdAttack:
		if p.Stunned() || cmd.Target == nil {
			return o, errDropped
		}
		t, ok := e.unitTarget(s, p, *cmd.Target)
		if !ok {
			return o, errDropped
		}
		o.target = t
	case game.CmdCast:
		h, ok := e.catalog.Hero(p.HeroID)
		if !ok {
			return o, errDropped
		}
		a, ok := h.Abilities[cmd.Slot]
		if !ok || p.Stunned() || p.Silenced() || p.Cooldowns[cmd.Slot] > 0 || p.MP < a.ManaCost || p.Level < a.MinLevel {
			return o, errDropped
		}
		t, ok := e.abilityTarget(s, p, a, cmd.Target)
		if !ok {
			return o, errDropped
		}
		o.ability, o.target = a, t
	case game.CmdUse:
		if err := e.CheckShop(s, cmd); err != nil {
			return o, err
		}
		if p.Stunned() {
			return o, errDropped
		}
		it, _ := e.catalog.Item(cmd.Item)
		t, ok := e.abilityTarget(s, p, *it.Active, cmd.Target)
		if !ok {
			return o, errDropped
		}
		o.item, o.ability, o.target = it, *it.Active, t
	case game.CmdBuy, game.CmdSell:
		if err := e.CheckShop(s, cmd); err != nil {
			return o, err
		}
	case game.CmdWard:
		if !e.topo.Has(cmd.Zone) || (cmd.Zone != p.Zone && !e.topo.Adjacent(p.Zone, cmd.Zone)) {
			return o, errDropped
		}
	default:
		// queries and chatter never reach the resolver
		return o, errDropped
	}
	return o, nil
}

// unitTarget resolves an attack-style target. Towers must pass the tier
// gate and own creeps are only valid as denies.
func (e *Engine) unitTarget(s *game.State, p *game.Player, ref game.TargetRef) (target, bool) {
	switch ref.Kind {
	case game.TargetHero:
		victim, ok := findHero(s, ref.Name)
		if !ok || !victim.Alive || victim.Team == p.Team {
			return target{}, false
		}
		return target{kind: game.TargetHero, id: victim.ID}, true
	case game.TargetCreep:
		creeps := s.CreepsIn(p.Zone)
		if ref.Index < 0 || ref.Index >= len(creeps) {
			return target{}, false
		}
		c := creeps[ref.Index]
		if c.Team == p.Team && !deniable(s.Rules, c) {
			return target{}, false
		}
		return target{kind: game.TargetCreep, id: c.ID}, true
	case game.TargetTower:
		if !s.TowerTargetable(ref.Zone, p.Team) {
			return target{}, false
		}
		return target{kind: game.TargetTower, id: string(ref.Zone)}, true
	case game.TargetRoshan:
		if !s.Roshan.Alive {
			return target{}, false
		}
		return target{kind: game.TargetRoshan}, true
	}
	return target{}, false
}

func (e *Engine) abilityTarget(s *game.State, p *game.Player, a content.Ability, ref *game.TargetRef) (target, bool) {
	self := target{kind: game.TargetSelf, id: p.ID}
	switch a.Target {
	case content.TargetNone, content.TargetArea:
		return self, true
	case content.TargetAlly:
		if ref == nil || ref.Kind == game.TargetSelf {
			return self, true
		}
		if ref.Kind != game.TargetHero {
			return target{}, false
		}
		ally, ok := findHero(s, ref.Name)
		if !ok || !ally.Alive || ally.Team != p.Team {
			return target{}, false
		}
		return target{kind: game.TargetHero, id: ally.ID}, true
	case content.TargetUnit:
		if ref == nil {
			return target{}, false
		}
		return e.unitTarget(s, p, *ref)
	}
	return target{}, false
}

func deniable(r game.Rules, c game.Creep) bool {
	return c.HP*100 < c.MaxHP*r.DenyThresholdPct
}

// findHero looks a player up by id, then display name, then hero id,
// ignoring case.
func findHero(s *game.State, name string) (*game.Player, bool) {
	if name == "" {
		return nil, false
	}
	fold := cases.Fold()
	want := fold.String(name)
	ids := s.PlayerIDs()
	keys := []func(p *game.Player) string{
		func(p *game.Player) string { return p.ID },
		func(p *game.Player) string { return p.Name },
		func(p *game.Player) string { return p.HeroID },
	}
	for _, key := range keys {
		for _, id := range ids {
			p := s.Players[id]
			if k := key(p); k != "" && fold.String(k) == want {
				return p, true
			}
		}
	}
	return nil, false
}
