package repository

import (
	"context"
	"fmt"
	"time"
)

// GameRecord is one archived, finished game.
type GameRecord struct {
	GameID     string
	Name       string
	Winners    string
	Players    int
	Messages   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// GameRepository archives finished games.
type GameRepository struct {
	db *DB
}

// NewGameRepository creates a game repository over the pool.
func NewGameRepository(db *DB) *GameRepository {
	return &GameRepository{db: db}
}

// EnsureSchema creates the archive table when missing.
func (r *GameRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS finished_games (
			game_id     TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			winners     TEXT NOT NULL,
			players     INT NOT NULL,
			messages    INT NOT NULL,
			started_at  TIMESTAMPTZ NOT NULL,
			finished_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure finished_games schema: %w", err)
	}
	return nil
}

// RecordResult inserts one finished game. Replays of the same game id are
// idempotent.
func (r *GameRepository) RecordResult(ctx context.Context, rec GameRecord) error {
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO finished_games (game_id, name, winners, players, messages, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO NOTHING`,
		rec.GameID, rec.Name, rec.Winners, rec.Players, rec.Messages, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("record finished game %s: %w", rec.GameID, err)
	}
	return nil
}

// RecentResults lists the most recently finished games.
func (r *GameRepository) RecentResults(ctx context.Context, limit int) ([]GameRecord, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT game_id, name, winners, players, messages, started_at, finished_at
		FROM finished_games
		ORDER BY finished_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query finished games: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var rec GameRecord
		if err := rows.Scan(&rec.GameID, &rec.Name, &rec.Winners, &rec.Players, &rec.Messages, &rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan finished game: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
