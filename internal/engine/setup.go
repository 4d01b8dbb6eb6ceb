package engine

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/DoyleJ11/lane-arena/internal/content"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

// Entry is one roster line handed over by matchmaking.
type Entry struct {
	PlayerID string    `json:"playerId"`
	Name     string    `json:"displayName"`
	Team     game.Team `json:"team"`
	HeroID   string    `json:"heroId,omitempty"`
}

// NewGame builds the opening state of a match: every player at their
// fountain with base stats and starting gold, all towers standing and the
// game still in the picking phase.
func (e *Engine) NewGame(id string, roster []Entry) (game.State, error) {
	if id == "" {
		return game.State{}, fmt.Errorf("%w: empty game id", ErrInvalidRoster)
	}
	if len(roster) == 0 {
		return game.State{}, fmt.Errorf("%w: no players", ErrInvalidRoster)
	}
	r := e.rules
	s := game.State{
		ID:      id,
		Phase:   game.PhasePicking,
		Teams:   map[game.Team]game.TeamStats{game.TeamRadiant: {}, game.TeamDire: {}},
		Players: make(map[string]*game.Player, len(roster)),
		Zones:   map[game.ZoneID]*game.ZoneState{},
		Runes:   map[game.ZoneID]game.Rune{},
		Roshan:  game.Roshan{HP: r.RoshanHP, MaxHP: r.RoshanHP, Alive: true},
		Rules:   r,
		Seed:    seedFor(id),
	}
	for _, entry := range roster {
		p, err := e.newPlayer(entry)
		if err != nil {
			return game.State{}, err
		}
		if _, dup := s.Players[p.ID]; dup {
			return game.State{}, fmt.Errorf("%w: player %q listed twice", ErrInvalidRoster, p.ID)
		}
		s.Players[p.ID] = p
	}
	for _, team := range game.Teams {
		for _, z := range e.topo.TowerZones(team) {
			hp := r.TowerHP[min(max(z.Tier, 1), len(r.TowerHP))-1]
			s.Towers = append(s.Towers, game.Tower{
				Team:  team,
				Zone:  z.ID,
				Lane:  z.Lane,
				Tier:  z.Tier,
				HP:    hp,
				MaxHP: hp,
				Alive: true,
			})
		}
	}
	s.RecalculateTeamGold()
	return s, nil
}

func (e *Engine) newPlayer(entry Entry) (*game.Player, error) {
	if entry.PlayerID == "" {
		return nil, fmt.Errorf("%w: empty player id", ErrInvalidRoster)
	}
	if !entry.Team.Valid() {
		return nil, fmt.Errorf("%w: player %q has team %q", ErrInvalidRoster, entry.PlayerID, entry.Team)
	}
	stats := e.catalog.DefaultStats
	if entry.HeroID != "" {
		h, ok := e.catalog.Hero(entry.HeroID)
		if !ok {
			return nil, fmt.Errorf("%w: player %q: %w %q", ErrInvalidRoster, entry.PlayerID, content.ErrUnknownHero, entry.HeroID)
		}
		stats = h.StatsAt(1)
	}
	name := entry.Name
	if name == "" {
		name = entry.PlayerID
	}
	cooldowns := make(map[content.Slot]int, len(content.Slots))
	for _, slot := range content.Slots {
		cooldowns[slot] = 0
	}
	return &game.Player{
		ID:        entry.PlayerID,
		Name:      name,
		Team:      entry.Team,
		HeroID:    entry.HeroID,
		Zone:      e.topo.Fountain(entry.Team),
		HP:        stats.HP,
		MaxHP:     stats.HP,
		MP:        stats.MP,
		MaxMP:     stats.MP,
		Level:     1,
		Gold:      e.rules.StartingGold,
		Cooldowns: cooldowns,
		Alive:     true,
	}, nil
}

// seedFor derives the match RNG seed from the game id so replays of the
// same id draw the same numbers.
func seedFor(id string) uint64 {
	sum := blake2b.Sum256([]byte(id))
	return binary.LittleEndian.Uint64(sum[:8])
}
