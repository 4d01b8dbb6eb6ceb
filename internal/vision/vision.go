// Package vision turns the authoritative game state into what a single
// player is allowed to see. Nothing here mutates the state it reads.
package vision

import (
	"errors"
	"slices"

	"github.com/DoyleJ11/lane-arena/internal/game"
	"github.com/DoyleJ11/lane-arena/internal/topology"
)

var ErrPlayerNotFound = errors.New("player not found")

// PlayerView is a player as seen by the viewer. Detail is nil when the
// player is fogged; only the identity fields remain.
type PlayerView struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Team   game.Team    `json:"team"`
	HeroID string       `json:"heroId,omitempty"`
	Level  int          `json:"level"`
	Alive  bool         `json:"alive"`
	Fogged bool         `json:"fogged"`
	Detail *game.Player `json:"detail,omitempty"`
}

// View is the per-player projection sent every tick.
type View struct {
	GameID   string                         `json:"gameId"`
	PlayerID string                         `json:"playerId"`
	Team     game.Team                      `json:"team"`
	Tick     int                            `json:"tick"`
	Phase    game.Phase                     `json:"phase"`
	Winner   game.Team                      `json:"winner,omitempty"`
	Teams    map[game.Team]game.TeamStats   `json:"teams"`
	Players  map[string]PlayerView          `json:"players"`
	Zones    map[game.ZoneID]game.ZoneState `json:"zones"`
	Creeps   []game.Creep                   `json:"creeps"`
	Towers   []game.Tower                   `json:"towers"`
	Runes    []game.Rune                    `json:"runes"`
	Roshan   *game.Roshan                   `json:"roshan,omitempty"`
	Events   []game.Event                   `json:"events"`
	Visible  []game.ZoneID                  `json:"visibleZones"`
}

// VisibleZones returns the sorted set of zones playerID's team can see:
// the player's own surroundings while alive, the home base and fountain,
// and the surroundings of every team ward, standing tower and living
// teammate.
func VisibleZones(s *game.State, m *topology.Map, playerID string) ([]game.ZoneID, error) {
	p, ok := s.Player(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	seen := map[game.ZoneID]bool{}
	around := func(z game.ZoneID) {
		for _, id := range m.WithNeighbors(z) {
			seen[id] = true
		}
	}
	if p.Alive {
		around(p.Zone)
	}
	for _, z := range []game.ZoneID{m.Base(p.Team), m.Fountain(p.Team)} {
		if z != "" {
			seen[z] = true
		}
	}
	for id, z := range s.Zones {
		if slices.ContainsFunc(z.Wards, func(w game.Ward) bool { return w.Team == p.Team }) {
			around(id)
		}
	}
	for _, t := range s.Towers {
		if t.Alive && t.Team == p.Team {
			around(t.Zone)
		}
	}
	for _, id := range s.TeamPlayers(p.Team) {
		if mate := s.Players[id]; id != playerID && mate.Alive {
			around(mate.Zone)
		}
	}
	out := make([]game.ZoneID, 0, len(seen))
	for z := range seen {
		out = append(out, z)
	}
	slices.Sort(out)
	return out, nil
}

// Filter builds playerID's view of s. events are the tick's events; only
// the ones relevant to the viewer's team are kept.
func Filter(s *game.State, m *topology.Map, playerID string, events []game.Event) (View, error) {
	zones, err := VisibleZones(s, m, playerID)
	if err != nil {
		return View{}, err
	}
	viewer := s.Players[playerID]
	visible := make(map[game.ZoneID]bool, len(zones))
	for _, z := range zones {
		visible[z] = true
	}

	v := View{
		GameID:   s.ID,
		PlayerID: playerID,
		Team:     viewer.Team,
		Tick:     s.Tick,
		Phase:    s.Phase,
		Winner:   s.Winner,
		Teams:    make(map[game.Team]game.TeamStats, len(s.Teams)),
		Players:  make(map[string]PlayerView, len(s.Players)),
		Zones:    make(map[game.ZoneID]game.ZoneState, len(s.Zones)),
		Creeps:   []game.Creep{},
		Towers:   slices.Clone(s.Towers),
		Runes:    []game.Rune{},
		Events:   []game.Event{},
		Visible:  zones,
	}
	for team, ts := range s.Teams {
		v.Teams[team] = ts
	}
	for id, p := range s.Players {
		v.Players[id] = project(p, viewer.Team, visible)
	}
	for id, z := range s.Zones {
		v.Zones[id] = redactZone(z, viewer.Team, visible[id])
	}
	for _, c := range s.Creeps {
		if visible[c.Zone] {
			v.Creeps = append(v.Creeps, c)
		}
	}
	for _, z := range zones {
		if r, ok := s.Runes[z]; ok {
			v.Runes = append(v.Runes, r)
		}
	}
	if pit := m.RoshanPit(); pit != "" && visible[pit] {
		r := s.Roshan
		v.Roshan = &r
	}
	for _, e := range events {
		if relevant(s, e, viewer.Team, visible) {
			v.Events = append(v.Events, e)
		}
	}
	return v, nil
}

// project shows teammates in full and enemies only while alive in sight.
func project(p *game.Player, viewer game.Team, visible map[game.ZoneID]bool) PlayerView {
	pv := PlayerView{
		ID:     p.ID,
		Name:   p.Name,
		Team:   p.Team,
		HeroID: p.HeroID,
		Level:  p.Level,
		Alive:  p.Alive,
	}
	if p.Team == viewer || (p.Alive && visible[p.Zone]) {
		pv.Detail = p.Clone()
		return pv
	}
	pv.Fogged = true
	return pv
}

func redactZone(z *game.ZoneState, viewer game.Team, visible bool) game.ZoneState {
	if visible {
		return *z.Clone()
	}
	out := game.ZoneState{Zone: z.Zone}
	for _, w := range z.Wards {
		if w.Team == viewer {
			out.Wards = append(out.Wards, w)
		}
	}
	return out
}

// relevant keeps public events, events of the viewer's team, events naming
// a teammate and events in a visible zone.
func relevant(s *game.State, e game.Event, team game.Team, visible map[game.ZoneID]bool) bool {
	switch {
	case e.Type == game.EvtGameOver || e.Type == game.EvtTowerKill:
		return true
	case e.Team == team:
		return true
	case e.Zone != "" && visible[e.Zone]:
		return true
	}
	for _, id := range []string{e.SourceID, e.TargetID, e.PlayerID} {
		if p, ok := s.Player(id); ok && p.Team == team {
			return true
		}
	}
	return false
}
