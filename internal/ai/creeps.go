package ai

import (
	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

// DecideCreeps picks one action per living lane creep. Priority: an
// enemy creep in the same zone, then an enemy hero, then an attackable
// enemy tower, otherwise one step along the lane route.
func DecideCreeps(s game.State, m *topology.Map) []Action {
	var actions []Action
	for _, c := range s.Creeps {
		if c.HP <= 0 {
			continue
		}
		if a, ok := decideCreep(&s, m, c); ok {
			actions = append(actions, a)
		}
	}
	return actions
}

func decideCreep(s *game.State, m *topology.Map, c game.Creep) (Action, bool) {
	for _, other := range s.CreepsIn(c.Zone) {
		if other.Team != c.Team {
			return Action{ActorID: c.ID, Kind: ActionAttack, Target: TargetCreep, TargetID: other.ID}, true
		}
	}
	if heroes := s.PlayersIn(c.Zone, c.Team.Enemy()); len(heroes) > 0 {
		return Action{ActorID: c.ID, Kind: ActionAttack, Target: TargetHero, TargetID: heroes[0]}, true
	}
	if s.TowerTargetable(c.Zone, c.Team) {
		return Action{ActorID: c.ID, Kind: ActionAttack, Target: TargetTower, TargetID: string(c.Zone)}, true
	}
	if next, ok := m.NextOnRoute(c.Team, c.Lane, c.Zone); ok {
		return Action{ActorID: c.ID, Kind: ActionMove, To: next}, true
	}
	// off its route: walk back toward the lane's final segment
	route := m.Route(c.Team, c.Lane)
	if len(route) == 0 || route[len(route)-1] == c.Zone {
		return Action{}, false
	}
	if path := m.Path(c.Zone, route[len(route)-1]); len(path) > 1 {
		return Action{ActorID: c.ID, Kind: ActionMove, To: path[1]}, true
	}
	return Action{}, false
}

// ApplyCreeps folds creep actions into s in order. A creep killed by an
// earlier action in the same pass does not act, and an action whose
// target is gone does nothing.
func ApplyCreeps(s *game.State, actions []Action) Outcome {
	var out Outcome
	for _, a := range actions {
		c, ok := s.Creep(a.ActorID)
		if !ok || c.HP <= 0 {
			continue
		}
		dmg := s.Rules.Creep(c.Kind).Damage
		switch a.Kind {
		case ActionMove:
			c.Zone = a.To
		case ActionAttack:
			out.merge(creepAttack(s, *c, a, dmg))
		}
	}
	return out
}

func creepAttack(s *game.State, c game.Creep, a Action, dmg int) Outcome {
	var out Outcome
	switch a.Target {
	case TargetCreep:
		target, ok := s.Creep(a.TargetID)
		if !ok || target.Zone != c.Zone {
			return out
		}
		s.DamageCreep(a.TargetID, dmg)
	case TargetHero:
		p, ok := s.Player(a.TargetID)
		if !ok || !p.Alive || p.Zone != c.Zone {
			return out
		}
		out.Events = append(out.Events, hitHero(s, c.ID, c.Zone, a.TargetID, dmg)...)
	case TargetTower:
		zone := game.ZoneID(a.TargetID)
		if zone != c.Zone || !s.TowerTargetable(zone, c.Team) {
			return out
		}
		dealt, destroyed := s.DamageTower(zone, dmg)
		if dealt > 0 {
			out.Events = append(out.Events, game.Event{
				Type:       game.EvtDamage,
				Tick:       s.Tick,
				SourceID:   c.ID,
				TargetID:   a.TargetID,
				Zone:       zone,
				Amount:     dealt,
				DamageType: content.DamagePhysical,
			})
		}
		if destroyed {
			out.TowerKills = append(out.TowerKills, TowerKill{Zone: zone, Team: c.Team, KillerID: c.ID})
		}
	}
	return out
}
