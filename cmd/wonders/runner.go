package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/config"
	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/ai"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/tournament"
)

// resultSaver persists the ranking of a finished game.
type resultSaver interface {
	Save(ctx context.Context, gameID string, ranking []game.ScoreSheet) error
}

// runner plays the configured number of games back to back.
type runner struct {
	cfg      config.GameConfig
	catalog  *catalog.Catalog
	logger   *zap.Logger
	recorder *game.ReplayRecorder
	results  resultSaver
}

// summary counts wins per seat name over a run.
type summary struct {
	Games int
	Wins  map[string]int
}

func (r *runner) run(ctx context.Context) (summary, error) {
	s := summary{Wins: make(map[string]int)}
	for i := 0; i < r.cfg.Games; i++ {
		if err := ctx.Err(); err != nil {
			return s, err
		}
		g, err := r.playGame(ctx, i)
		if err != nil {
			return s, fmt.Errorf("game %d: %w", i+1, err)
		}
		s.Games++
		s.Wins[g.Winner().Name]++
	}
	return s, nil
}

// playGame plays one game. The human seat, if any, is played by the
// configured policy through the same calls a front end would make.
func (r *runner) playGame(ctx context.Context, index int) (*game.Game, error) {
	seed := r.cfg.Seed
	if seed != 0 {
		seed += uint64(index)
	}

	policy, err := ai.New(r.cfg.Policy, seed, r.logger.Named("ai"))
	if err != nil {
		return nil, err
	}
	g, err := game.NewGame(game.Options{
		Players:   r.cfg.Players,
		Names:     r.cfg.Names,
		HumanSeat: r.cfg.HumanSeat,
		Seed:      seed,
		Face:      wonderFace(r.cfg.Face),
		Policy:    policy,
	}, r.catalog, r.logger)
	if err != nil {
		return nil, err
	}
	if r.recorder != nil {
		g.SetRecorder(r.recorder)
	}
	if err := g.Start(); err != nil {
		return nil, err
	}

	for g.State() != game.StateFinished {
		err := g.Run(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, game.ErrAwaitingPlayer) {
			return nil, err
		}
		if err := r.autopilot(g, policy); err != nil {
			return nil, err
		}
	}

	logScores(r.logger, g)

	if r.recorder != nil {
		if err := r.recorder.SaveReplay(g.ID); err != nil {
			r.logger.Warn("failed to save replay", zap.String("game_id", g.ID), zap.Error(err))
		}
	}
	if r.results != nil {
		if err := r.results.Save(ctx, g.ID, g.Ranking()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// playTournament plays a tournament between the configured entrants, seating
// game.players entrants per table.
func (r *runner) playTournament(ctx context.Context, tc config.TournamentConfig) (tournament.Snapshot, error) {
	m := tournament.NewManager(r.catalog, r.logger)
	t := m.CreateTournament(tc.Name, r.cfg.Players, tc.Rounds, r.cfg.Seed)

	counts := make(map[string]int)
	for _, policy := range tc.Entrants {
		counts[policy]++
		if err := t.AddEntrant(fmt.Sprintf("%s-%d", policy, counts[policy]), policy); err != nil {
			return t.Snapshot(), err
		}
	}

	err := m.Play(ctx, t, tournament.PlayOptions{
		Workers: tc.Workers,
		Face:    wonderFace(r.cfg.Face),
		Results: r.results,
	})
	snap := t.Snapshot()
	for rank, s := range snap.Standings {
		r.logger.Info("standing",
			zap.Int("rank", rank+1),
			zap.String("entrant", s.Name),
			zap.String("policy", s.Policy),
			zap.Int("points", s.Points),
			zap.Int("wins", s.Wins),
			zap.Int("games", s.Games),
			zap.Int("victory_points", s.TotalVP),
		)
	}
	return snap, err
}

// autopilot plays the human seat's pending move with policy.
func (r *runner) autopilot(g *game.Game, policy game.Policy) error {
	human := g.Players()[r.cfg.HumanSeat]

	move := policy.Choose(g, human)
	code, err := g.Play(human.ID, move)
	if err != nil {
		r.logger.Warn("autopilot move rejected, discarding",
			zap.String("player_id", human.ID),
			zap.Stringer("action", move.Action),
			zap.String("card", move.CardID),
			zap.Error(err),
		)
		hand := human.Hand()
		if len(hand) == 0 {
			return err
		}
		if _, err := g.Play(human.ID, game.Move{Action: game.ActionDiscard, CardID: hand[0].ID}); err != nil {
			return err
		}
		return nil
	}

	if code == game.CodeBuildFromDiscard {
		if choice := policy.ChooseDiscardBuild(g, human, g.DiscardCandidates(human)); choice != nil {
			return g.BuildFromDiscard(human.ID, choice.ID)
		}
	}
	return nil
}

func wonderFace(face string) catalog.Face {
	switch strings.ToUpper(face) {
	case string(catalog.FaceA):
		return catalog.FaceA
	case string(catalog.FaceB):
		return catalog.FaceB
	}
	return ""
}

func logScores(logger *zap.Logger, g *game.Game) {
	for rank, s := range g.Ranking() {
		logger.Info("final score",
			zap.String("game_id", g.ID),
			zap.Int("rank", rank+1),
			zap.String("player", s.Name),
			zap.Int("military", s.Military),
			zap.Int("treasure", s.Treasure),
			zap.Int("wonder", s.Wonder),
			zap.Int("civil", s.Civil),
			zap.Int("commercial", s.Commercial),
			zap.Int("guild", s.Guild),
			zap.Int("science", s.Science),
			zap.Int("total", s.Total),
		)
	}
}
