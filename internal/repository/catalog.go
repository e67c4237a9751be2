package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// DefaultBatchSize is the number of rows written per transaction on import.
const DefaultBatchSize = 50

const (
	insertCardSQL = `INSERT INTO cards (
		id, name, category, age, min_players, cost, chain_from, chain_to, strength, points, symbol
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, category = EXCLUDED.category, age = EXCLUDED.age,
		min_players = EXCLUDED.min_players, cost = EXCLUDED.cost,
		chain_from = EXCLUDED.chain_from, chain_to = EXCLUDED.chain_to,
		strength = EXCLUDED.strength, points = EXCLUDED.points, symbol = EXCLUDED.symbol`

	insertWonderSQL = `INSERT INTO wonders (id, name, face, base_resource, steps)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, face = EXCLUDED.face,
		base_resource = EXCLUDED.base_resource, steps = EXCLUDED.steps`
)

// ImportStats summarizes a catalog import.
type ImportStats struct {
	Cards    int
	Wonders  int
	Batches  int
	Duration time.Duration
}

// CatalogRepository mirrors a catalog into the cards and wonders tables.
type CatalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a catalog repository.
func NewCatalogRepository(db *DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Import upserts every card and wonder of cat, batchSize rows per
// transaction. A failed batch aborts the import; batches already committed
// stay.
func (r *CatalogRepository) Import(ctx context.Context, cat *catalog.Catalog, batchSize int) (ImportStats, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	start := time.Now()
	stats := ImportStats{}

	rows := append(cardRows(cat.All()), wonderRows(cat.AllWonders())...)
	for i := 0; i < len(rows); i += batchSize {
		end := min(i+batchSize, len(rows))
		if err := r.writeBatch(ctx, rows[i:end]); err != nil {
			return stats, fmt.Errorf("batch %d: %w", stats.Batches+1, err)
		}
		stats.Batches++
		for _, row := range rows[i:end] {
			if row.sql == insertCardSQL {
				stats.Cards++
			} else {
				stats.Wonders++
			}
		}
		r.db.logger.Debug("catalog batch committed",
			zap.Int("batch", stats.Batches),
			zap.Int("rows", end-i),
		)
	}

	stats.Duration = time.Since(start)
	r.db.logger.Info("catalog imported",
		zap.Int("cards", stats.Cards),
		zap.Int("wonders", stats.Wonders),
		zap.Duration("duration", stats.Duration),
	)
	return stats, nil
}

func (r *CatalogRepository) writeBatch(ctx context.Context, rows []row) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(row.sql, row.args...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	return tx.Commit(ctx)
}

// Counts returns the number of stored cards and wonders.
func (r *CatalogRepository) Counts(ctx context.Context) (cards, wonders int, err error) {
	err = r.db.pool.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM cards), (SELECT COUNT(*) FROM wonders)`).
		Scan(&cards, &wonders)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count catalog rows: %w", err)
	}
	return cards, wonders, nil
}

// Clear removes every stored card and wonder.
func (r *CatalogRepository) Clear(ctx context.Context) error {
	if _, err := r.db.pool.Exec(ctx, `TRUNCATE cards, wonders`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}

type row struct {
	sql  string
	args []any
}

func cardRows(cards []*catalog.Card) []row {
	out := make([]row, 0, len(cards))
	for _, c := range cards {
		out = append(out, row{
			sql: insertCardSQL,
			args: []any{
				c.ID, c.Name, string(c.Category), c.Age, c.MinPlayers,
				formatCost(c.Cost.Resources), nonNil(c.Cost.ChainFrom), nonNil(c.ChainTo),
				c.Strength, c.Points, string(c.Symbol),
			},
		})
	}
	return out
}

func wonderRows(wonders []*catalog.Wonder) []row {
	out := make([]row, 0, len(wonders))
	for _, w := range wonders {
		out = append(out, row{
			sql:  insertWonderSQL,
			args: []any{w.ID, w.Name, string(w.Face), string(w.BaseResource), len(w.Steps)},
		})
	}
	return out
}

// formatCost renders a cost as "2 stone, ore"; an empty cost is "".
func formatCost(qs []resource.Quantity) string {
	merged := resource.Merge(qs)
	parts := make([]string, len(merged))
	for i, q := range merged {
		parts[i] = q.String()
	}
	return strings.Join(parts, ", ")
}

// nonNil keeps TEXT[] columns NOT NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
