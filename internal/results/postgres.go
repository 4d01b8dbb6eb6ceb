package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/DoyleJ11/lane-arena/internal/engine"
)

const uniqueViolation = "23505"

// PostgresStore writes results through gorm.
type PostgresStore struct {
	db  *gorm.DB
	log *zap.Logger
}

// Open connects to dsn and migrates the result tables.
func Open(dsn string, log *zap.Logger) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open results db: %w", err)
	}
	return newPostgresStore(db, log)
}

func newPostgresStore(db *gorm.DB, log *zap.Logger) (*PostgresStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := db.AutoMigrate(&MatchRecord{}, &PlayerLine{}); err != nil {
		return nil, fmt.Errorf("migrate results: %w", err)
	}
	return &PostgresStore{db: db, log: log}, nil
}

func (p *PostgresStore) Record(ctx context.Context, sum engine.Summary) error {
	rec := toRecord(sum, time.Now().UTC())
	err := p.db.WithContext(ctx).Create(&rec).Error
	if isUniqueViolation(err) {
		p.log.Debug("result already recorded", zap.String("game", sum.GameID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("record %s: %w", sum.GameID, err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, gameID string) (engine.Summary, error) {
	var rec MatchRecord
	err := p.db.WithContext(ctx).Preload("Players").First(&rec, "game_id = ?", gameID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return engine.Summary{}, ErrNotFound
	}
	if err != nil {
		return engine.Summary{}, err
	}
	return fromRecord(rec), nil
}

func (p *PostgresStore) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
