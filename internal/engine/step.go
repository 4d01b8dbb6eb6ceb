package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/DoyleJ11/lane-arena/internal/ai"
	"github.com/DoyleJ11/lane-arena/internal/economy"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

// StepResult is everything one tick produced. GameOver is set on the tick
// the match ends.
type StepResult struct {
	State    game.State
	Events   []game.Event
	Shop     []ShopOutcome
	GameOver *Summary
}

// Step runs one full tick over a copy of s: resolve commands, run the
// AI drivers, then the maintenance passes and the win check.
func (e *Engine) Step(s game.State, cmds map[string]game.Command) (StepResult, error) {
	if s.Phase != game.PhasePlaying {
		return StepResult{State: s}, ErrNotPlaying
	}
	s = s.Clone()
	s.Tick++
	t := &tick{
		e:   e,
		s:   &s,
		rng: rand.New(rand.NewPCG(s.Seed, uint64(s.Tick))),
	}

	res := e.resolve(&s, cmds)
	t.emit(res.Events...)
	t.awardResolution(res)

	creeps := ai.ApplyCreeps(&s, ai.DecideCreeps(s, e.topo))
	t.emit(creeps.Events...)
	t.recordTowerKills(creeps.TowerKills)

	towers := ai.ApplyTowers(&s, ai.DecideTowers(s, res.Attackers))
	t.emit(towers.Events...)

	pit := e.topo.RoshanPit()
	t.emit(ai.ApplyRoshan(&s, pit, ai.DecideRoshan(s, pit)).Events...)

	t.spawnWave()
	t.spawnRune()
	t.respawnRoshan()
	t.expireWards()
	economy.AwardPassiveIncome(&s)
	t.respawnPlayers()
	t.fountainRegen()
	t.markDeaths()
	t.levelUps()
	over := t.checkWin()

	s.RefreshZoneCreeps()
	s.RecalculateTeamGold()
	s.AppendEvents(t.events...)

	out := StepResult{State: s, Events: t.events, Shop: res.Shop}
	if over {
		sum := Summarize(s)
		out.GameOver = &sum
	}
	return out, nil
}

type tick struct {
	e      *Engine
	s      *game.State
	rng    *rand.Rand
	events []game.Event
}

func (t *tick) emit(events ...game.Event) {
	t.events = append(t.events, events...)
}

// awardResolution pays out the kills the resolver recorded. Kill bounties
// read the killer's counter before it is bumped.
func (t *tick) awardResolution(res Resolution) {
	s := t.s
	for _, lh := range res.LastHits {
		if lh.Denied {
			t.emit(economy.AwardDeny(s, lh.PlayerID)...)
			continue
		}
		t.emit(economy.AwardLastHit(s, lh.PlayerID, lh.Kind, t.rng)...)
	}
	for _, k := range res.HeroKills {
		killer, ok := s.Player(k.KillerID)
		if !ok {
			continue
		}
		assisters := s.Assisters(k.VictimID, k.KillerID)
		t.emit(economy.AwardKill(s, k.KillerID, k.VictimID, assisters)...)
		killer.Kills++
		for _, id := range assisters {
			s.Players[id].Assists++
		}
		s.AddTeamKill(killer.Team)
	}
	t.recordTowerKills(res.TowerKills)
	if res.RoshanKiller != "" {
		t.emit(economy.AwardRoshanKill(s, res.RoshanKiller)...)
	}
}

func (t *tick) recordTowerKills(kills []ai.TowerKill) {
	for _, k := range kills {
		t.s.AddTeamTowerKill(k.Team)
		t.emit(game.Event{
			Type:     game.EvtTowerKill,
			Tick:     t.s.Tick,
			SourceID: k.KillerID,
			TargetID: string(k.Zone),
			Team:     k.Team,
			Zone:     k.Zone,
		})
		t.emit(economy.AwardTowerKill(t.s, k.Zone, k.Team)...)
	}
}

// spawnWave sends a wave down every lane for both teams on wave ticks.
// Every Nth wave brings a siege creep along.
func (t *tick) spawnWave() {
	s, r := t.s, t.s.Rules
	if r.WaveInterval <= 0 || s.Tick%r.WaveInterval != 0 {
		return
	}
	s.Waves++
	kinds := make([]game.CreepKind, 0, r.MeleePerWave+r.RangedPerWave+1)
	for range r.MeleePerWave {
		kinds = append(kinds, game.CreepMelee)
	}
	for range r.RangedPerWave {
		kinds = append(kinds, game.CreepRanged)
	}
	if r.SiegeEveryNthWave > 0 && s.Waves%r.SiegeEveryNthWave == 0 {
		kinds = append(kinds, game.CreepSiege)
	}
	for _, team := range game.Teams {
		for _, lane := range topology.Lanes {
			route := t.e.topo.Route(team, lane)
			if len(route) == 0 {
				continue
			}
			for _, kind := range kinds {
				s.NextCreepID++
				hp := r.Creep(kind).HP
				s.Creeps = append(s.Creeps, game.Creep{
					ID:    fmt.Sprintf("c%d", s.NextCreepID),
					Team:  team,
					Zone:  route[0],
					Lane:  lane,
					HP:    hp,
					MaxHP: hp,
					Kind:  kind,
				})
			}
		}
	}
}

// spawnRune places a random rune on the next rune spot in rotation. A
// rune nobody picked up is replaced.
func (t *tick) spawnRune() {
	s, r := t.s, t.s.Rules
	spots := t.e.topo.RuneSpots()
	if r.RuneInterval <= 0 || len(spots) == 0 || s.Tick%r.RuneInterval != 0 {
		return
	}
	zone := spots[s.RuneSpawns%len(spots)]
	s.RuneSpawns++
	if s.Runes == nil {
		s.Runes = map[game.ZoneID]game.Rune{}
	}
	s.Runes[zone] = game.Rune{
		Kind:      game.RuneKinds[t.rng.IntN(len(game.RuneKinds))],
		Zone:      zone,
		SpawnTick: s.Tick,
	}
}

func (t *tick) respawnRoshan() {
	s := t.s
	if s.Roshan.Alive || s.Roshan.RespawnTick == 0 || s.Tick < s.Roshan.RespawnTick {
		return
	}
	s.Roshan = game.Roshan{HP: s.Roshan.MaxHP, MaxHP: s.Roshan.MaxHP, Alive: true}
}

func (t *tick) expireWards() {
	for _, z := range t.s.Zones {
		kept := z.Wards[:0]
		for _, w := range z.Wards {
			if w.ExpiryTick > t.s.Tick {
				kept = append(kept, w)
			}
		}
		z.Wards = kept
	}
}

func (t *tick) respawnPlayers() {
	s := t.s
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		if p.Alive || p.RespawnTick == nil || s.Tick < *p.RespawnTick {
			continue
		}
		p.Alive = true
		p.HP, p.MP = p.MaxHP, p.MaxMP
		p.Zone = t.e.topo.Fountain(p.Team)
		p.RespawnTick = nil
		t.emit(game.Event{Type: game.EvtRespawn, Tick: s.Tick, PlayerID: id, Team: p.Team, Zone: p.Zone})
	}
}

// fountainRegen restores a flat share of max hp and mp to living players
// standing in their own fountain.
func (t *tick) fountainRegen() {
	s := t.s
	pct := s.Rules.FountainRegenPct
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		if !p.Alive || p.Zone != t.e.topo.Fountain(p.Team) {
			continue
		}
		s.HealPlayer(id, p.MaxHP*pct/100)
		s.RestoreMana(id, p.MaxMP*pct/100)
	}
}

// markDeaths schedules a respawn for every player that died this tick.
func (t *tick) markDeaths() {
	s, r := t.s, t.s.Rules
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		if p.Alive || p.RespawnTick != nil {
			continue
		}
		p.HP = 0
		at := s.Tick + r.RespawnBase + r.RespawnPerLevel*p.Level
		p.RespawnTick = &at
		p.Deaths++
		p.Buffs = nil
		p.RecentAttackers = nil
		t.emit(game.Event{Type: game.EvtDeath, Tick: s.Tick, PlayerID: id, Team: p.Team, Zone: p.Zone, RespawnTick: at})
	}
}

func (t *tick) levelUps() {
	s := t.s
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		target := min(game.LevelForXP(p.XP), game.MaxLevel())
		if target <= p.Level {
			continue
		}
		if h, ok := t.e.catalog.Hero(p.HeroID); ok {
			gained := target - p.Level
			p.MaxHP += h.Growth.HP * gained
			p.MaxMP += h.Growth.MP * gained
			if p.Alive {
				p.HP += h.Growth.HP * gained
				p.MP += h.Growth.MP * gained
			}
		}
		for lvl := p.Level + 1; lvl <= target; lvl++ {
			t.emit(game.Event{Type: game.EvtLevelUp, Tick: s.Tick, PlayerID: id, Team: p.Team, Level: lvl})
		}
		p.Level = target
	}
}

// checkWin ends the game once a team has no towers left. Dire is checked
// first, so radiant wins a tick that levels both sides.
func (t *tick) checkWin() bool {
	s := t.s
	var winner game.Team
	switch {
	case s.AliveTowers(game.TeamDire) == 0:
		winner = game.TeamRadiant
	case s.AliveTowers(game.TeamRadiant) == 0:
		winner = game.TeamDire
	default:
		return false
	}
	s.Phase = game.PhaseEnded
	s.Winner = winner
	t.emit(game.Event{Type: game.EvtGameOver, Tick: s.Tick, Team: winner})
	return true
}
