package engine

import "github.com/DoyleJ11/lane-arena/internal/game"

// StatLine is one player's end-of-match record.
type StatLine struct {
	PlayerID    string    `json:"playerId"`
	Name        string    `json:"displayName"`
	Team        game.Team `json:"team"`
	HeroID      string    `json:"heroId,omitempty"`
	Level       int       `json:"level"`
	Kills       int       `json:"kills"`
	Deaths      int       `json:"deaths"`
	Assists     int       `json:"assists"`
	Gold        int       `json:"gold"`
	Items       []string  `json:"items"`
	HeroDamage  int       `json:"heroDamage"`
	TowerDamage int       `json:"towerDamage"`
}

// Summary is handed to persistence and matchmaking once a match ends.
type Summary struct {
	GameID string     `json:"gameId"`
	Winner game.Team  `json:"winner"`
	Tick   int        `json:"tick"`
	Lines  []StatLine `json:"players"`
}

func Summarize(s game.State) Summary {
	sum := Summary{GameID: s.ID, Winner: s.Winner, Tick: s.Tick}
	for _, id := range s.PlayerIDs() {
		p := s.Players[id]
		items := p.Items.Items()
		if items == nil {
			items = []string{}
		}
		sum.Lines = append(sum.Lines, StatLine{
			PlayerID:    p.ID,
			Name:        p.Name,
			Team:        p.Team,
			HeroID:      p.HeroID,
			Level:       p.Level,
			Kills:       p.Kills,
			Deaths:      p.Deaths,
			Assists:     p.Assists,
			Gold:        p.Gold,
			Items:       items,
			HeroDamage:  p.HeroDamage,
			TowerDamage: p.TowerDamage,
		})
	}
	return sum
}
