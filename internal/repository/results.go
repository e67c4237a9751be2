package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game"
)

// ErrNoScores is returned when saving a result without any score sheet.
var ErrNoScores = errors.New("no score sheets")

const (
	insertGameSQL = `INSERT INTO games (id, players, winner) VALUES ($1, $2, $3)`

	insertScoreSQL = `INSERT INTO scores (
		game_id, player_id, name, seat, rank,
		military, treasure, wonder, civil, commercial, guild, science, total, coins
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
)

// ResultRepository stores the final score table of each game.
type ResultRepository struct {
	db *DB
}

// NewResultRepository creates a result repository.
func NewResultRepository(db *DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Save stores a finished game. ranking must be ordered best first, as
// returned by Game.Ranking; the game row and every score row are written in
// one transaction.
func (r *ResultRepository) Save(ctx context.Context, gameID string, ranking []game.ScoreSheet) error {
	if len(ranking) == 0 {
		return ErrNoScores
	}

	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, insertGameSQL, gameID, len(ranking), ranking[0].Name); err != nil {
		return fmt.Errorf("failed to insert game %s: %w", gameID, err)
	}

	batch := &pgx.Batch{}
	for _, args := range scoreRows(gameID, ranking) {
		batch.Queue(insertScoreSQL, args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert scores for game %s: %w", gameID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit game %s: %w", gameID, err)
	}

	r.db.logger.Debug("game result saved",
		zap.String("game_id", gameID),
		zap.Int("players", len(ranking)),
	)
	return nil
}

// Count returns how many games have been stored.
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return n, nil
}

// WinsByName returns how many stored games each player name has won.
func (r *ResultRepository) WinsByName(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.pool.Query(ctx, `SELECT winner, COUNT(*) FROM games GROUP BY winner`)
	if err != nil {
		return nil, fmt.Errorf("failed to query wins: %w", err)
	}
	defer rows.Close()

	wins := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("failed to scan wins: %w", err)
		}
		wins[name] = n
	}
	return wins, rows.Err()
}

// scoreRows returns the insert arguments of each sheet. Players sharing a
// total and coin count share a rank.
func scoreRows(gameID string, ranking []game.ScoreSheet) [][]any {
	rows := make([][]any, 0, len(ranking))
	rank := 1
	for i, s := range ranking {
		if i > 0 && (s.Total != ranking[i-1].Total || s.Coins != ranking[i-1].Coins) {
			rank = i + 1
		}
		rows = append(rows, []any{
			gameID, s.PlayerID, s.Name, s.Seat, rank,
			s.Military, s.Treasure, s.Wonder, s.Civil, s.Commercial, s.Guild, s.Science, s.Total, s.Coins,
		})
	}
	return rows
}
