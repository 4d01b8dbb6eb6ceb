// Package economy awards gold and experience. Every function is a no-op
// for player ids that do not exist.
package economy

import (
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// Rand is the slice of math/rand/v2 the economy draws from.
type Rand interface {
	IntN(n int) int
}

const (
	ReasonPassive = "passive"
	ReasonLastHit = "last_hit"
	ReasonDeny    = "deny"
	ReasonKill    = "kill"
	ReasonAssist  = "assist"
	ReasonTower   = "tower"
	ReasonRoshan  = "roshan"
	ReasonRune    = "rune"
	ReasonSell    = "sell"
	ReasonBuy     = "buy"
)

// Grant adds gold to a player and returns the matching gold_change event.
func Grant(s *game.State, playerID string, amount int, reason string) (game.Event, bool) {
	p, ok := s.Player(playerID)
	if !ok || amount == 0 {
		return game.Event{}, false
	}
	p.Gold = max(0, p.Gold+amount)
	return game.Event{
		Type:     game.EvtGoldChange,
		Tick:     s.Tick,
		PlayerID: playerID,
		Team:     p.Team,
		Amount:   amount,
		Reason:   reason,
	}, true
}

// GrantXP adds experience. Level changes are applied by the tick's
// level-up pass, not here.
func GrantXP(s *game.State, playerID string, amount int) {
	if p, ok := s.Player(playerID); ok && amount > 0 {
		p.XP += amount
	}
}

// AwardPassiveIncome pays every living player the per-tick income. No
// events are emitted for passive gold.
func AwardPassiveIncome(s *game.State) {
	for _, id := range s.PlayerIDs() {
		if p := s.Players[id]; p.Alive {
			p.Gold += s.Rules.PassiveGold
		}
	}
}

// LastHitBounty draws a melee/ranged bounty from [LastHitMin, LastHitMax];
// siege creeps pay a fixed amount.
func LastHitBounty(r game.Rules, kind game.CreepKind, rng Rand) int {
	if kind == game.CreepSiege {
		return r.SiegeBounty
	}
	span := r.LastHitMax - r.LastHitMin + 1
	if span <= 1 || rng == nil {
		return r.LastHitMin
	}
	return r.LastHitMin + rng.IntN(span)
}

func AwardLastHit(s *game.State, playerID string, kind game.CreepKind, rng Rand) []game.Event {
	if _, ok := s.Player(playerID); !ok {
		return nil
	}
	GrantXP(s, playerID, s.Rules.XPLastHit)
	if ev, ok := Grant(s, playerID, LastHitBounty(s.Rules, kind, rng), ReasonLastHit); ok {
		return []game.Event{ev}
	}
	return nil
}

// DenyBounty is half the average creep bounty.
func DenyBounty(r game.Rules) int { return r.AverageCreepBounty() / 2 }

func AwardDeny(s *game.State, playerID string) []game.Event {
	if _, ok := s.Player(playerID); !ok {
		return nil
	}
	GrantXP(s, playerID, s.Rules.XPDeny)
	if ev, ok := Grant(s, playerID, DenyBounty(s.Rules), ReasonDeny); ok {
		return []game.Event{ev}
	}
	return nil
}

// KillBounty scales with the killer's kill counter, capped at
// KillStreakCap. The counter is the running total, not reset on death.
func KillBounty(r game.Rules, killerKills int) int {
	streak := min(max(killerKills, 0), r.KillStreakCap)
	return r.KillBountyBase + r.KillStreakBonus*streak
}

// AwardKill pays the killer a bounty computed from their kill counter at
// the moment of the kill and splits the flat assist bounty evenly among
// assisters, dropping the remainder.
func AwardKill(s *game.State, killerID, victimID string, assisters []string) []game.Event {
	killer, ok := s.Player(killerID)
	if !ok {
		return nil
	}
	victimLevel := 1
	if v, ok := s.Player(victimID); ok {
		victimLevel = v.Level
	}
	var events []game.Event
	if ev, ok := Grant(s, killerID, KillBounty(s.Rules, killer.Kills), ReasonKill); ok {
		events = append(events, ev)
	}
	GrantXP(s, killerID, s.Rules.XPKillBase+s.Rules.XPKillPerLevel*victimLevel)

	var present []string
	for _, id := range assisters {
		if _, ok := s.Player(id); ok && id != killerID {
			present = append(present, id)
		}
	}
	if len(present) == 0 {
		return events
	}
	share := s.Rules.AssistBounty / len(present)
	for _, id := range present {
		if ev, ok := Grant(s, id, share, ReasonAssist); ok {
			events = append(events, ev)
		}
		GrantXP(s, id, s.Rules.XPAssist)
	}
	return events
}

// AwardTowerKill splits the tower bounty evenly among team's living heroes
// standing in zone when the tower fell.
func AwardTowerKill(s *game.State, zone game.ZoneID, team game.Team) []game.Event {
	present := s.PlayersIn(zone, team)
	if len(present) == 0 {
		return nil
	}
	share := s.Rules.TowerBounty / len(present)
	var events []game.Event
	for _, id := range present {
		if ev, ok := Grant(s, id, share, ReasonTower); ok {
			events = append(events, ev)
		}
		GrantXP(s, id, s.Rules.XPTower)
	}
	return events
}

// AwardRoshanKill pays every member of the killing team.
func AwardRoshanKill(s *game.State, team game.Team) []game.Event {
	var events []game.Event
	for _, id := range s.TeamPlayers(team) {
		if ev, ok := Grant(s, id, s.Rules.RoshanBounty, ReasonRoshan); ok {
			events = append(events, ev)
		}
		GrantXP(s, id, s.Rules.XPRoshan)
	}
	return events
}
