// Package repository persists match results. The logical game state itself
// is never stored; only outcomes and player records are.
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// DB wraps the pgx connection pool.
type DB struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewDB connects to the database and verifies the connection.
func NewDB(ctx context.Context, url string, maxConns int32, logger *zap.Logger) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DB{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (db *DB) Close() {
	db.pool.Close()
}

// Stats returns pool statistics for startup logging.
func (db *DB) Stats() *pgxpool.Stat {
	return db.pool.Stat()
}

// MatchResult is one finished game's outcome.
type MatchResult struct {
	GameID     string
	Player1    string
	Player2    string
	WinnerName string // empty for a tie
	Turns      int
	Duration   time.Duration
	FinishedAt time.Time
}

// PlayerRecord aggregates one player's results.
type PlayerRecord struct {
	Name   string
	Wins   int
	Losses int
	Ties   int
}

// MatchStore reads and writes match results.
type MatchStore struct {
	db *DB
}

// NewMatchStore creates a store over the database.
func NewMatchStore(db *DB) *MatchStore {
	return &MatchStore{db: db}
}

// Init creates the schema if it does not exist.
func (s *MatchStore) Init(ctx context.Context) error {
	_, err := s.db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS matches (
			game_id     TEXT PRIMARY KEY,
			player1     TEXT NOT NULL,
			player2     TEXT NOT NULL,
			winner      TEXT NOT NULL DEFAULT '',
			turns       INT NOT NULL,
			duration_ms BIGINT NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create matches table: %w", err)
	}
	return nil
}

// RecordMatch inserts a finished game's outcome.
func (s *MatchStore) RecordMatch(ctx context.Context, m MatchResult) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO matches (game_id, player1, player2, winner, turns, duration_ms, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO NOTHING`,
		m.GameID, m.Player1, m.Player2, m.WinnerName, m.Turns, m.Duration.Milliseconds(), m.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record match %s: %w", m.GameID, err)
	}
	s.db.logger.Debug("match recorded",
		zap.String("game_id", m.GameID),
		zap.String("winner", m.WinnerName),
		zap.Int("turns", m.Turns),
	)
	return nil
}

// PlayerRecord returns one player's aggregate record.
func (s *MatchStore) PlayerRecord(ctx context.Context, name string) (PlayerRecord, error) {
	record := PlayerRecord{Name: name}
	row := s.db.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE winner = $1),
			COUNT(*) FILTER (WHERE winner <> $1 AND winner <> ''),
			COUNT(*) FILTER (WHERE winner = '')
		FROM matches
		WHERE player1 = $1 OR player2 = $1`, name)
	if err := row.Scan(&record.Wins, &record.Losses, &record.Ties); err != nil {
		return PlayerRecord{}, fmt.Errorf("player record %s: %w", name, err)
	}
	return record, nil
}
