package tournament

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/ai"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// ResultSaver persists the ranking of a finished table.
type ResultSaver interface {
	Save(ctx context.Context, gameID string, ranking []game.ScoreSheet) error
}

// PlayOptions controls how Manager.Play runs the tables.
type PlayOptions struct {
	Workers int          // tables played at once; 0 means one
	Face    catalog.Face // empty picks random faces
	Results ResultSaver  // optional
}

// Manager creates tournaments and plays them with policies dealing from
// one catalog.
type Manager struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewManager creates a new tournament manager dealing from cat.
func NewManager(cat *catalog.Catalog, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		catalog: cat,
		logger:  logger,
	}
}

// CreateTournament creates a new tournament
func (m *Manager) CreateTournament(name string, tableSize, numRounds int, seed uint64) *Tournament {
	t := NewTournament(name, tableSize, numRounds, seed)

	m.logger.Info("tournament created",
		zap.String("tournament_id", t.ID),
		zap.String("name", name),
		zap.Int("table_size", tableSize),
		zap.Int("rounds", numRounds),
	)
	return t
}

// Play starts t and plays every round. The tables of a round run
// concurrently; the first failing table cancels the others.
func (m *Manager) Play(ctx context.Context, t *Tournament, opts PlayOptions) error {
	if err := t.Start(); err != nil {
		return err
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	logger := m.logger.With(zap.String("tournament_id", t.ID))
	logger.Info("tournament started",
		zap.Int("entrants", t.EntrantCount()),
		zap.Int("workers", workers),
	)

	for t.State() == StateInProgress {
		round, err := t.CreateRound()
		if err != nil {
			return err
		}
		logger.Info("round started",
			zap.Int("round", round.Number),
			zap.Int("tables", len(round.Tables)),
			zap.Strings("byes", round.Byes),
		)

		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for _, table := range round.Tables {
			table := table
			eg.Go(func() error {
				return m.playTable(egCtx, t, round.Number, table, opts)
			})
		}
		if err := eg.Wait(); err != nil {
			return fmt.Errorf("round %d: %w", round.Number, err)
		}
	}

	standings := t.Standings()
	if len(standings) > 0 {
		logger.Info("tournament finished",
			zap.String("leader", standings[0].Name),
			zap.Int("points", standings[0].Points),
			zap.Int("wins", standings[0].Wins),
		)
	}
	return nil
}

func (m *Manager) playTable(ctx context.Context, t *Tournament, roundNum int, table *Table, opts PlayOptions) error {
	seed := tableSeed(t.Seed, roundNum, table.Number)

	policies := make([]game.Policy, len(table.Seats))
	for i, name := range table.Seats {
		e, ok := t.Entrant(name)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntrant, name)
		}
		policySeed := seed
		if seed != 0 {
			policySeed += uint64(i) + 1
		}
		p, err := ai.New(e.Policy, policySeed, m.logger.Named("ai"))
		if err != nil {
			return fmt.Errorf("entrant %s: %w", name, err)
		}
		policies[i] = p
	}

	g, err := game.NewGame(game.Options{
		Players:   len(table.Seats),
		Names:     table.Seats,
		HumanSeat: -1,
		Seed:      seed,
		Face:      opts.Face,
		Policies:  policies,
	}, m.catalog, m.logger)
	if err != nil {
		return err
	}
	if err := g.Run(ctx); err != nil {
		return fmt.Errorf("table %d: %w", table.Number, err)
	}

	ranking := g.Ranking()
	if opts.Results != nil {
		if err := opts.Results.Save(ctx, g.ID, ranking); err != nil {
			return fmt.Errorf("table %d: %w", table.Number, err)
		}
	}
	if err := t.RecordTable(roundNum, table.Number, g.ID, ranking); err != nil {
		return err
	}

	m.logger.Debug("table finished",
		zap.String("tournament_id", t.ID),
		zap.Int("round", roundNum),
		zap.Int("table", table.Number),
		zap.String("winner", ranking[0].Name),
		zap.Int("total", ranking[0].Total),
	)
	return nil
}

// tableSeed derives a distinct game seed per table; zero stays zero so the
// games seed from the clock.
func tableSeed(seed uint64, round, table int) uint64 {
	if seed == 0 {
		return 0
	}
	return seed*1000003 + uint64(round)*1009 + uint64(table)
}
