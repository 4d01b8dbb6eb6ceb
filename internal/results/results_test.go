package results

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DoyleJ11/lane-arena/internal/engine"
	"github.com/DoyleJ11/lane-arena/internal/game"
)

func summary() engine.Summary {
	return engine.Summary{
		GameID: "g1",
		Winner: game.TeamRadiant,
		Tick:   412,
		Lines: []engine.StatLine{
			{PlayerID: "r1", Name: "Alice", Team: game.TeamRadiant, HeroID: "axe", Level: 9, Kills: 4, Deaths: 1, Assists: 2, Gold: 1800, Items: []string{"tango", "broadsword"}, HeroDamage: 2100, TowerDamage: 900},
			{PlayerID: "d1", Name: "Cara", Team: game.TeamDire, HeroID: "sniper", Level: 7, Kills: 1, Deaths: 4, Gold: 700, Items: []string{}},
		},
	}
}

func TestMemoryStore_RecordAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Record(ctx, summary()))
	got, err := s.Get(ctx, "g1")
	require.NoError(t, err)

	assert.Equal(t, game.TeamRadiant, got.Winner)
	assert.Equal(t, 412, got.Tick)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "d1", got.Lines[0].PlayerID, "lines come back sorted by player id")
	assert.Empty(t, got.Lines[0].Items)
	assert.Equal(t, []string{"tango", "broadsword"}, got.Lines[1].Items)
	assert.Equal(t, 2100, got.Lines[1].HeroDamage)

	_, err = s.Get(ctx, "g2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_RecordIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Record(ctx, summary()))
	again := summary()
	again.Winner = game.TeamDire
	require.NoError(t, s.Record(ctx, again))

	got, err := s.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game.TeamRadiant, got.Winner, "the first record stands")
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "wrapped pg error", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23503"}, want: false},
		{name: "translated by gorm", err: gorm.ErrDuplicatedKey, want: true},
		{name: "unrelated", err: errors.New("connection refused"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isUniqueViolation(tc.err))
		})
	}
}
