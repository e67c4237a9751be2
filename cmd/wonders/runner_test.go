package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wondersgame/wonders-server-go/internal/config"
	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

type memorySaver struct {
	saved map[string][]game.ScoreSheet
	err   error
}

func (m *memorySaver) Save(_ context.Context, gameID string, ranking []game.ScoreSheet) error {
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]game.ScoreSheet)
	}
	m.saved[gameID] = ranking
	return nil
}

func newRunner(t *testing.T, cfg config.GameConfig) *runner {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return &runner{cfg: cfg, catalog: cat, logger: zaptest.NewLogger(t)}
}

func TestRunnerPlaysAllGames(t *testing.T) {
	r := newRunner(t, config.GameConfig{
		Players:   4,
		HumanSeat: -1,
		Seed:      3,
		Face:      "A",
		Policy:    "trader",
		Games:     3,
	})
	saver := &memorySaver{}
	r.results = saver

	s, err := r.run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.Games)
	assert.Len(t, saver.saved, 3)

	wins := 0
	for _, n := range s.Wins {
		wins += n
	}
	assert.Equal(t, 3, wins)
	for _, ranking := range saver.saved {
		require.Len(t, ranking, 4)
		assert.GreaterOrEqual(t, ranking[0].Total, ranking[3].Total)
	}
}

func TestRunnerAutopilotsHumanSeat(t *testing.T) {
	r := newRunner(t, config.GameConfig{
		Players:   3,
		Names:     []string{"Ada", "Brin", "Cato"},
		HumanSeat: 0,
		Seed:      5,
		Face:      "RANDOM",
		Policy:    "baseline",
		Games:     1,
	})

	g, err := r.playGame(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, game.StateFinished, g.State())

	human := g.Players()[0]
	assert.True(t, human.Human)
	assert.Equal(t, "Ada", human.Name)
	assert.Empty(t, human.Hand())
	assert.NotEmpty(t, human.City.Built())
}

func TestRunnerSavesReplays(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t, config.GameConfig{
		Players:   3,
		HumanSeat: -1,
		Seed:      8,
		Face:      "B",
		Policy:    "baseline",
		Games:     1,
	})
	r.recorder = game.NewReplayRecorder(zaptest.NewLogger(t), dir)

	g, err := r.playGame(context.Background(), 0)
	require.NoError(t, err)

	replay, err := game.LoadReplayFromFile(dir, g.ID)
	require.NoError(t, err)
	final := replay.Final()
	require.NotNil(t, final)
	assert.Equal(t, game.StateFinished.String(), final.State)
}

func TestShowReplay(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t, config.GameConfig{
		Players:   3,
		HumanSeat: -1,
		Seed:      4,
		Policy:    "trader",
		Games:     1,
	})
	r.recorder = game.NewReplayRecorder(zaptest.NewLogger(t), dir)
	g, err := r.playGame(context.Background(), 0)
	require.NoError(t, err)

	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	require.NoError(t, showReplay(logger, game.NewReplayRecorder(logger, dir), g.ID))

	starts := logs.FilterMessage("age start").All()
	assert.Len(t, starts, game.LastAge*3)
	finals := logs.FilterMessage("final table").All()
	require.Len(t, finals, 3)
	for i, entry := range finals {
		assert.Equal(t, g.Players()[i].Name, entry.ContextMap()["player"])
		assert.Equal(t, int64(g.Players()[i].Coins()), entry.ContextMap()["coins"])
	}

	assert.Error(t, showReplay(logger, game.NewReplayRecorder(logger, dir), "missing"))
}

func TestRunnerStopsOnSaveError(t *testing.T) {
	r := newRunner(t, config.GameConfig{
		Players:   3,
		HumanSeat: -1,
		Seed:      1,
		Policy:    "baseline",
		Games:     2,
	})
	boom := errors.New("database down")
	r.results = &memorySaver{err: boom}

	s, err := r.run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, s.Games)
}

func TestRunnerHonorsContext(t *testing.T) {
	r := newRunner(t, config.GameConfig{Players: 3, HumanSeat: -1, Policy: "baseline", Games: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := r.run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, s.Games)
}

func TestWonderFace(t *testing.T) {
	assert.Equal(t, catalog.FaceA, wonderFace("a"))
	assert.Equal(t, catalog.FaceB, wonderFace("B"))
	assert.Equal(t, catalog.Face(""), wonderFace("RANDOM"))
}

func TestRunnerPlaysTournament(t *testing.T) {
	r := newRunner(t, config.GameConfig{
		Players:   3,
		HumanSeat: -1,
		Seed:      13,
		Face:      "A",
		Policy:    "baseline",
	})
	saver := &memorySaver{}
	r.results = saver

	snap, err := r.playTournament(context.Background(), config.TournamentConfig{
		Name:     "league",
		Entrants: []string{"baseline", "trader", "trader", "baseline"},
		Rounds:   2,
		Workers:  2,
	})
	require.NoError(t, err)
	assert.Equal(t, "league", snap.Name)
	assert.Equal(t, 2, snap.CurrentRound)
	assert.Len(t, saver.saved, 2)

	names := make([]string, 0, len(snap.Standings))
	for _, s := range snap.Standings {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"baseline-1", "trader-1", "trader-2", "baseline-2"}, names)
}
