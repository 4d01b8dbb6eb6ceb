// Package results persists the end-of-match summaries. Recording is
// idempotent per game id: a second record of the same game is a no-op.
package results

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

var ErrNotFound = errors.New("result not found")

type Store interface {
	Record(ctx context.Context, sum engine.Summary) error
	Get(ctx context.Context, gameID string) (engine.Summary, error)
	Close() error
}

// MatchRecord is one finished match.
type MatchRecord struct {
	GameID  string `gorm:"primaryKey"`
	Winner  string
	Ticks   int
	EndedAt time.Time
	Players []PlayerLine `gorm:"foreignKey:GameID;references:GameID"`
}

// PlayerLine is one player's stat line in a finished match.
type PlayerLine struct {
	ID          uint   `gorm:"primaryKey"`
	GameID      string `gorm:"index;uniqueIndex:idx_game_player"`
	PlayerID    string `gorm:"uniqueIndex:idx_game_player"`
	Name        string
	Team        string
	HeroID      string
	Level       int
	Kills       int
	Deaths      int
	Assists     int
	Gold        int
	Items       string // comma separated
	HeroDamage  int
	TowerDamage int
}

func toRecord(sum engine.Summary, now time.Time) MatchRecord {
	rec := MatchRecord{GameID: sum.GameID, Winner: string(sum.Winner), Ticks: sum.Tick, EndedAt: now}
	for _, l := range sum.Lines {
		rec.Players = append(rec.Players, PlayerLine{
			GameID:      sum.GameID,
			PlayerID:    l.PlayerID,
			Name:        l.Name,
			Team:        string(l.Team),
			HeroID:      l.HeroID,
			Level:       l.Level,
			Kills:       l.Kills,
			Deaths:      l.Deaths,
			Assists:     l.Assists,
			Gold:        l.Gold,
			Items:       strings.Join(l.Items, ","),
			HeroDamage:  l.HeroDamage,
			TowerDamage: l.TowerDamage,
		})
	}
	return rec
}

func fromRecord(rec MatchRecord) engine.Summary {
	sum := engine.Summary{GameID: rec.GameID, Winner: game.Team(rec.Winner), Tick: rec.Ticks}
	lines := slices.Clone(rec.Players)
	slices.SortFunc(lines, func(a, b PlayerLine) int { return strings.Compare(a.PlayerID, b.PlayerID) })
	for _, p := range lines {
		items := []string{}
		if p.Items != "" {
			items = strings.Split(p.Items, ",")
		}
		sum.Lines = append(sum.Lines, engine.StatLine{
			PlayerID:    p.PlayerID,
			Name:        p.Name,
			Team:        game.Team(p.Team),
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

// MemoryStore keeps results in process. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	recs map[string]MatchRecord
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]MatchRecord), now: time.Now}
}

func (m *MemoryStore) Record(_ context.Context, sum engine.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.recs[sum.GameID]; ok {
		return nil
	}
	m.recs[sum.GameID] = toRecord(sum, m.now())
	return nil
}

func (m *MemoryStore) Get(_ context.Context, gameID string) (engine.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.recs[gameID]
	if !ok {
		return engine.Summary{}, ErrNotFound
	}
	return fromRecord(rec), nil
}

func (m *MemoryStore) Close() error { return nil }
