package ai

import (
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// DecideRoshan has a living Roshan strike every hero standing in its pit.
func DecideRoshan(s game.State, pit game.ZoneID) []Action {
	if !s.Roshan.Alive || pit == "" {
		return nil
	}
	var actions []Action
	for _, id := range s.PlayersIn(pit, "") {
		actions = append(actions, Action{ActorID: game.RoshanID, Kind: ActionAttack, Target: TargetHero, TargetID: id})
	}
	return actions
}

func ApplyRoshan(s *game.State, pit game.ZoneID, actions []Action) Outcome {
	var out Outcome
	for _, a := range actions {
		if !s.Roshan.Alive {
			break
		}
		p, ok := s.Player(a.TargetID)
		if !ok || !p.Alive || p.Zone != pit {
			continue
		}
		out.Events = append(out.Events, hitHero(s, game.RoshanID, pit, a.TargetID, s.Rules.RoshanDamage)...)
	}
	return out
}
