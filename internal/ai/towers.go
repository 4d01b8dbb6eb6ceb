package ai

import (
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// DecideTowers picks a target for every living tower. attackers maps a
// hero to the enemy hero it attacked this tick. Priority: an enemy hero
// attacking an allied hero in the tower's zone, then any enemy hero, then
// any enemy creep.
func DecideTowers(s game.State, attackers map[string]string) []Action {
	var actions []Action
	for _, t := range s.Towers {
		if !t.Alive {
			continue
		}
		if a, ok := decideTower(&s, t, attackers); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

func decideTower(s *game.State, t game.Tower, attackers map[string]string) (Action, bool) {
	actor := string(t.Zone)
	enemies := s.PlayersIn(t.Zone, t.Team.Enemy())
	for _, id := range enemies {
		victim, ok := s.Player(attackers[id])
		if ok && victim.Team == t.Team && victim.Zone == t.Zone {
			return Action{ActorID: actor, Kind: ActionAttack, Target: TargetHero, TargetID: id}, true
		}
	}
	if len(enemies) > 0 {
		return Action{ActorID: actor, Kind: ActionAttack, Target: TargetHero, TargetID: enemies[0]}, true
	}
	for _, c := range s.CreepsIn(t.Zone) {
		if c.Team != t.Team {
			return Action{ActorID: actor, Kind: ActionAttack, Target: TargetCreep, TargetID: c.ID}, true
		}
	}
	return Action{}, false
}

// ApplyTowers deals each tower's fixed damage to its chosen target.
func ApplyTowers(s *game.State, actions []Action) Outcome {
	var out Outcome
	for _, a := range actions {
		zone := game.ZoneID(a.ActorID)
		t, ok := s.Tower(zone)
		if !ok || !t.Alive {
			continue
		}
		switch a.Target {
		case TargetHero:
			p, ok := s.Player(a.TargetID)
			if !ok || !p.Alive || p.Zone != zone {
				continue
			}
			out.Events = append(out.Events, hitHero(s, a.ActorID, zone, a.TargetID, s.Rules.TowerDamage)...)
		case TargetCreep:
			c, ok := s.Creep(a.TargetID)
			if !ok || c.Zone != zone {
				continue
			}
			s.DamageCreep(a.TargetID, s.Rules.TowerDamage)
		}
	}
	return out
}
