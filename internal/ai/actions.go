// Package ai drives the units no player controls. Every driver is split
// into a pure Decide pass that reads a snapshot and an Apply pass that
// folds the chosen actions into state.
package ai

import (
	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

type ActionKind string

const (
	ActionAttack ActionKind = "attack"
	ActionMove   ActionKind = "move"
)

type TargetKind string

const (
	TargetCreep TargetKind = "creep"
	TargetHero  TargetKind = "hero"
	TargetTower TargetKind = "tower"
)

// Action is one unit's decision for the tick. ActorID is a creep id, a
// tower zone or game.RoshanID. TargetID is a creep id, player id or tower
// zone depending on Target.
type Action struct {
	ActorID  string
	Kind     ActionKind
	Target   TargetKind
	TargetID string
	To       game.ZoneID
}

// TowerKill records a tower destroyed during an apply pass so the caller
// can run the tower economy.
type TowerKill struct {
	Zone     game.ZoneID
	Team     game.Team // the side that destroyed it
	KillerID string
}

type Outcome struct {
	Events     []game.Event
	TowerKills []TowerKill
}

func (o *Outcome) merge(other Outcome) {
	o.Events = append(o.Events, other.Events...)
	o.TowerKills = append(o.TowerKills, other.TowerKills...)
}

// hitHero damages a hero on behalf of a non-player unit and reports the
// damage and a kill when the hit is lethal.
func hitHero(s *game.State, sourceID string, zone game.ZoneID, heroID string, amount int) []game.Event {
	res := s.DamagePlayer(heroID, amount, sourceID)
	if res.Dealt == 0 && res.Absorbed == 0 {
		return nil
	}
	events := []game.Event{{
		Type:       game.EvtDamage,
		Tick:       s.Tick,
		SourceID:   sourceID,
		TargetID:   heroID,
		Zone:       zone,
		Amount:     res.Dealt,
		DamageType: content.DamagePhysical,
	}}
	if res.Killed {
		victim := s.Players[heroID]
		events = append(events, game.Event{
			Type:     game.EvtKill,
			Tick:     s.Tick,
			SourceID: sourceID,
			TargetID: heroID,
			Team:     victim.Team.Enemy(),
			Zone:     zone,
		})
	}
	return events
}
