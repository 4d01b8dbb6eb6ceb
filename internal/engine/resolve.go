package engine

import (
	"errors"

	"github.com/DoyleJ11/lane-arena/internal/ai"
	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/economy"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// LastHit is a creep killed by a player, recorded for the economy pass.
type LastHit struct {
	PlayerID string
	Kind     game.CreepKind
	Denied   bool
}

type HeroKill struct {
	KillerID string
	VictimID string
}

// Resolution is the outcome of resolving one tick of player commands.
type Resolution struct {
	State  game.State
	Events []game.Event
	// Attackers maps a hero to the enemy hero it hit this tick.
	Attackers    map[string]string
	LastHits     []LastHit
	HeroKills    []HeroKill
	TowerKills   []ai.TowerKill
	RoshanKiller game.Team
	Shop         []ShopOutcome
}

// Resolve runs the command resolver alone against a copy of snapshot.
// cmds holds at most one command per player id.
func (e *Engine) Resolve(snapshot game.State, cmds map[string]game.Command) Resolution {
	s := snapshot.Clone()
	res := e.resolve(&s, cmds)
	res.State = s
	return res
}

type resolver struct {
	e   *Engine
	s   *game.State
	res Resolution
}

// resolve validates every command against s as it is on entry, then
// applies the survivors in five phases. Each phase decides who may act
// before anyone acts, so actions inside a phase are simultaneous.
func (e *Engine) resolve(s *game.State, cmds map[string]game.Command) Resolution {
	r := &resolver{e: e, s: s, res: Resolution{Attackers: map[string]string{}}}

	var orders []order
	for _, id := range sortedKeys(cmds) {
		cmd := cmds[id]
		cmd.PlayerID = id
		o, err := e.validate(s, cmd)
		switch {
		case err == nil:
			orders = append(orders, o)
		case errors.Is(err, errDropped):
		default:
			r.res.Shop = append(r.res.Shop, ShopOutcome{PlayerID: id, Command: cmd, Err: err})
		}
	}

	// 1. crowd control lands before anyone moves
	r.phase(orders, func(o order) bool { return o.casts() && o.ability.Instant() }, r.cast)
	// 2. movement, then runes go to whoever now stands on them
	r.phase(orders, func(o order) bool { return o.cmd.Type == game.CmdMove }, r.move)
	r.pickRunes()
	// 3. attacks and the remaining casts against post-move positions
	r.phase(orders, func(o order) bool {
		return o.cmd.Type == game.CmdAttack || (o.casts() && !o.ability.Instant())
	}, r.act)
	// 4. cooldowns and buffs
	r.passive()
	// 5. shop and wards
	for _, o := range orders {
		switch o.cmd.Type {
		case game.CmdBuy, game.CmdSell:
			r.trade(o)
		case game.CmdWard:
			r.ward(o)
		}
	}
	return r.res
}

func (r *resolver) phase(orders []order, in func(order) bool, run func(order)) {
	var ready []order
	for _, o := range orders {
		if in(o) && r.canAct(o) {
			ready = append(ready, o)
		}
	}
	for _, o := range ready {
		run(o)
	}
}

// canAct rechecks the disables that may have landed earlier this tick.
func (r *resolver) canAct(o order) bool {
	p, ok := r.s.Player(o.cmd.PlayerID)
	if !ok || !p.Alive || p.Stunned() {
		return false
	}
	switch o.cmd.Type {
	case game.CmdMove:
		return !p.Rooted()
	case game.CmdCast:
		return !p.Silenced()
	}
	return true
}

func (r *resolver) emit(events ...game.Event) {
	r.res.Events = append(r.res.Events, events...)
}

func (r *resolver) move(o order) {
	r.s.Players[o.cmd.PlayerID].Zone = o.cmd.Zone
}

func (r *resolver) act(o order) {
	if o.cmd.Type == game.CmdAttack {
		p := r.s.Players[o.cmd.PlayerID]
		r.strike(p, o.target, r.e.attackPower(p), content.DamagePhysical, "")
		return
	}
	r.cast(o)
}

// pickRunes hands each rune to the first living hero by id in its zone.
func (r *resolver) pickRunes() {
	for _, zone := range r.e.topo.RuneSpots() {
		rn, ok := r.s.Runes[zone]
		if !ok {
			continue
		}
		heroes := r.s.PlayersIn(zone, "")
		if len(heroes) == 0 {
			continue
		}
		p := r.s.Players[heroes[0]]
		delete(r.s.Runes, zone)
		rules := r.s.Rules
		switch rn.Kind {
		case game.RuneDoubleDamage:
			p.AddBuff(game.Buff{ID: game.BuffDoubleDamage, Stacks: 1, TicksRemaining: rules.RuneBuffDuration, SourceID: string(zone)})
		case game.RuneRegeneration:
			p.AddBuff(game.Buff{ID: game.BuffRegeneration, Stacks: rules.RuneRegen, TicksRemaining: rules.RuneBuffDuration, SourceID: string(zone)})
		}
		r.emit(game.Event{Type: game.EvtRunePicked, Tick: r.s.Tick, PlayerID: p.ID, Team: p.Team, Zone: zone, Rune: rn.Kind})
		if rn.Kind == game.RuneBounty {
			if ev, ok := economy.Grant(r.s, p.ID, rules.RuneBountyGold, economy.ReasonRune); ok {
				r.emit(ev)
			}
		}
	}
}

func (r *resolver) cast(o order) {
	p := r.s.Players[o.cmd.PlayerID]
	a := o.ability
	if o.cmd.Type == game.CmdCast {
		p.MP = max(0, p.MP-a.ManaCost)
		if p.Cooldowns == nil {
			p.Cooldowns = map[content.Slot]int{}
		}
		p.Cooldowns[o.cmd.Slot] = a.Cooldown
	} else {
		if a.Cooldown > 0 {
			if p.ItemCooldowns == nil {
				p.ItemCooldowns = map[string]int{}
			}
			p.ItemCooldowns[o.item.ID] = a.Cooldown
		}
		if o.item.Consumable {
			r.e.dropItem(p, o.item.ID)
		}
		r.res.Shop = append(r.res.Shop, ShopOutcome{PlayerID: p.ID, Command: o.cmd})
	}
	r.emit(game.Event{
		Type:      game.EvtAbilityUsed,
		Tick:      r.s.Tick,
		SourceID:  p.ID,
		PlayerID:  p.ID,
		TargetID:  o.target.id,
		Team:      p.Team,
		Zone:      p.Zone,
		AbilityID: a.ID,
		ItemID:    o.item.ID,
	})
	for _, t := range r.abilityTargets(p, a, o.target) {
		for _, eff := range a.Effects {
			r.applyEffect(p, t, eff, a.ID)
		}
	}
}

// abilityTargets expands an area cast to every enemy unit in the caster's
// zone.
func (r *resolver) abilityTargets(p *game.Player, a content.Ability, t target) []target {
	if a.Target != content.TargetArea {
		return []target{t}
	}
	var out []target
	for _, id := range r.s.PlayersIn(p.Zone, p.Team.Enemy()) {
		out = append(out, target{kind: game.TargetHero, id: id})
	}
	for _, c := range r.s.CreepsIn(p.Zone) {
		if c.Team != p.Team {
			out = append(out, target{kind: game.TargetCreep, id: c.ID})
		}
	}
	if r.s.Roshan.Alive && p.Zone == r.e.topo.RoshanPit() {
		out = append(out, target{kind: game.TargetRoshan})
	}
	return out
}

func (r *resolver) applyEffect(src *game.Player, t target, eff content.Effect, abilityID string) {
	if eff.Kind == content.EffectDamage {
		r.strike(src, t, eff.Amount, eff.DamageType, abilityID)
		return
	}
	if t.kind != game.TargetHero && t.kind != game.TargetSelf {
		return
	}
	p, ok := r.s.Player(t.id)
	if !ok || !p.Alive || p.Zone != src.Zone {
		return
	}
	switch eff.Kind {
	case content.EffectHeal:
		if healed := r.s.HealPlayer(p.ID, eff.Amount); healed > 0 {
			r.emit(game.Event{Type: game.EvtHeal, Tick: r.s.Tick, SourceID: src.ID, TargetID: p.ID, Zone: p.Zone, Amount: healed, AbilityID: abilityID})
		}
	case content.EffectMana:
		r.s.RestoreMana(p.ID, eff.Amount)
	case content.EffectShield:
		p.AddBuff(game.Buff{ID: game.BuffShield, Stacks: eff.Amount, TicksRemaining: eff.Duration, SourceID: src.ID})
	case content.EffectBuff:
		p.AddBuff(game.Buff{ID: eff.BuffID, Stacks: max(1, eff.Amount), TicksRemaining: eff.Duration, SourceID: src.ID})
	case content.EffectStun, content.EffectSilence, content.EffectRoot:
		if p.Team == src.Team {
			return
		}
		p.AddBuff(game.Buff{ID: string(eff.Kind), Stacks: 1, TicksRemaining: eff.Duration, SourceID: src.ID})
	}
}

// strike deals damage from a hero to a target that must still share the
// hero's zone.
func (r *resolver) strike(src *game.Player, t target, amount int, dt content.DamageType, abilityID string) {
	switch t.kind {
	case game.TargetHero:
		r.hitHero(src, t.id, amount, dt, abilityID)
	case game.TargetCreep:
		r.hitCreep(src, t.id, amount)
	case game.TargetTower:
		r.hitTower(src, game.ZoneID(t.id), amount, dt, abilityID)
	case game.TargetRoshan:
		r.hitRoshan(src, amount, dt, abilityID)
	}
}

func (r *resolver) hitHero(src *game.Player, victimID string, amount int, dt content.DamageType, abilityID string) {
	victim, ok := r.s.Player(victimID)
	if !ok || !victim.Alive || victim.Team == src.Team || victim.Zone != src.Zone {
		return
	}
	r.res.Attackers[src.ID] = victim.ID
	res := r.s.DamagePlayer(victim.ID, amount, src.ID)
	if res.Dealt == 0 && res.Absorbed == 0 {
		return
	}
	r.emit(game.Event{
		Type:       game.EvtDamage,
		Tick:       r.s.Tick,
		SourceID:   src.ID,
		TargetID:   victim.ID,
		Zone:       victim.Zone,
		Amount:     res.Dealt,
		DamageType: dt,
		AbilityID:  abilityID,
	})
	if res.Killed {
		r.res.HeroKills = append(r.res.HeroKills, HeroKill{KillerID: src.ID, VictimID: victim.ID})
		r.emit(game.Event{Type: game.EvtKill, Tick: r.s.Tick, SourceID: src.ID, TargetID: victim.ID, Team: src.Team, Zone: victim.Zone})
	}
}

func (r *resolver) hitCreep(src *game.Player, creepID string, amount int) {
	c, ok := r.s.Creep(creepID)
	if !ok || c.Zone != src.Zone {
		return
	}
	_, killed, dead, _ := r.s.DamageCreep(creepID, amount)
	if !killed {
		return
	}
	denied := dead.Team == src.Team
	r.res.LastHits = append(r.res.LastHits, LastHit{PlayerID: src.ID, Kind: dead.Kind, Denied: denied})
	r.emit(game.Event{
		Type:     game.EvtCreepLastHit,
		Tick:     r.s.Tick,
		SourceID: src.ID,
		PlayerID: src.ID,
		TargetID: dead.ID,
		Team:     src.Team,
		Zone:     dead.Zone,
		Denied:   denied,
	})
}

func (r *resolver) hitTower(src *game.Player, zone game.ZoneID, amount int, dt content.DamageType, abilityID string) {
	if zone != src.Zone || !r.s.TowerTargetable(zone, src.Team) {
		return
	}
	dealt, destroyed := r.s.DamageTower(zone, amount)
	if dealt == 0 {
		return
	}
	src.TowerDamage += dealt
	r.emit(game.Event{
		Type:       game.EvtDamage,
		Tick:       r.s.Tick,
		SourceID:   src.ID,
		TargetID:   string(zone),
		Zone:       zone,
		Amount:     dealt,
		DamageType: dt,
		AbilityID:  abilityID,
	})
	if destroyed {
		r.res.TowerKills = append(r.res.TowerKills, ai.TowerKill{Zone: zone, Team: src.Team, KillerID: src.ID})
	}
}

func (r *resolver) hitRoshan(src *game.Player, amount int, dt content.DamageType, abilityID string) {
	pit := r.e.topo.RoshanPit()
	if src.Zone != pit {
		return
	}
	dealt, killed := r.s.DamageRoshan(amount)
	if dealt == 0 {
		return
	}
	r.emit(game.Event{
		Type:       game.EvtDamage,
		Tick:       r.s.Tick,
		SourceID:   src.ID,
		TargetID:   game.RoshanID,
		Zone:       pit,
		Amount:     dealt,
		DamageType: dt,
		AbilityID:  abilityID,
	})
	if killed {
		r.s.Roshan.RespawnTick = r.s.Tick + r.s.Rules.RoshanRespawnTicks
		r.res.RoshanKiller = src.Team
		r.emit(game.Event{Type: game.EvtRoshanKilled, Tick: r.s.Tick, SourceID: src.ID, PlayerID: src.ID, Team: src.Team, Zone: pit})
	}
}

// passive ticks cooldowns and buffs of every living player. Regeneration
// heals before its buff counts down.
func (r *resolver) passive() {
	for _, id := range r.s.PlayerIDs() {
		p := r.s.Players[id]
		if !p.Alive {
			continue
		}
		if b, ok := p.Buff(game.BuffRegeneration); ok {
			if healed := r.s.HealPlayer(id, b.Stacks); healed > 0 {
				r.emit(game.Event{Type: game.EvtHeal, Tick: r.s.Tick, SourceID: b.SourceID, TargetID: id, Zone: p.Zone, Amount: healed})
			}
		}
		for slot, cd := range p.Cooldowns {
			p.Cooldowns[slot] = max(0, cd-1)
		}
		for item, cd := range p.ItemCooldowns {
			if cd <= 1 {
				delete(p.ItemCooldowns, item)
				continue
			}
			p.ItemCooldowns[item] = cd - 1
		}
		kept := p.Buffs[:0]
		for _, b := range p.Buffs {
			b.TicksRemaining--
			if b.TicksRemaining > 0 {
				kept = append(kept, b)
			}
		}
		p.Buffs = kept
	}
}

// trade rechecks a validated buy or sell against the post-combat state.
func (r *resolver) trade(o order) {
	p, ok := r.s.Player(o.cmd.PlayerID)
	if !ok {
		return
	}
	if err := r.e.CheckShop(r.s, o.cmd); err != nil {
		r.res.Shop = append(r.res.Shop, ShopOutcome{PlayerID: p.ID, Command: o.cmd, Err: err})
		return
	}
	if o.cmd.Type == game.CmdBuy {
		item, _ := r.e.catalog.Item(o.cmd.Item)
		r.emit(r.e.buy(r.s, p, item)...)
	} else {
		r.emit(r.e.sell(r.s, p, o.cmd.Item)...)
	}
	r.res.Shop = append(r.res.Shop, ShopOutcome{PlayerID: p.ID, Command: o.cmd})
}

// ward places a ward while the team is under its cap; over the cap the
// command is dropped.
func (r *resolver) ward(o order) {
	p, ok := r.s.Player(o.cmd.PlayerID)
	if !ok || r.s.ActiveWards(p.Team) >= r.s.Rules.WardCap {
		return
	}
	z := r.s.Zone(o.cmd.Zone)
	z.Wards = append(z.Wards, game.Ward{
		Team:       p.Team,
		OwnerID:    p.ID,
		PlacedTick: r.s.Tick,
		ExpiryTick: r.s.Tick + r.s.Rules.WardDuration,
	})
	r.emit(game.Event{Type: game.EvtWardPlaced, Tick: r.s.Tick, PlayerID: p.ID, Team: p.Team, Zone: o.cmd.Zone})
}

// attackPower is a basic attack: hero attack at level plus item and buff
// bonuses, doubled under the double damage rune.
func (e *Engine) attackPower(p *game.Player) int {
	stats := e.catalog.DefaultStats
	if h, ok := e.catalog.Hero(p.HeroID); ok {
		stats = h.StatsAt(p.Level)
	}
	atk := stats.Attack
	for _, id := range p.Items.Items() {
		if it, ok := e.catalog.Item(id); ok {
			atk += it.Bonus.Attack
		}
	}
	if b, ok := p.Buff(game.BuffAttackBonus); ok {
		atk += b.Stacks
	}
	if p.HasBuff(game.BuffDoubleDamage) {
		atk *= 2
	}
	return atk
}
