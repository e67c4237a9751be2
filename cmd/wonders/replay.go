package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game"
)

// showReplay loads a saved game, checks it, and logs the table at the start
// of every age and once the game is over.
func showReplay(logger *zap.Logger, rr *game.ReplayRecorder, gameID string) error {
	replay, err := rr.LoadReplay(gameID)
	if err != nil {
		return err
	}
	final := replay.Final()
	if final == nil {
		return fmt.Errorf("replay %s holds no snapshot", gameID)
	}

	for age := 1; age <= game.LastAge; age++ {
		if s := replay.Seek(age, 1); s != nil {
			logTable(logger, "age start", s)
		}
	}
	logTable(logger, "final table", final)
	return nil
}

func logTable(logger *zap.Logger, msg string, s *game.Snapshot) {
	for _, p := range s.Players {
		logger.Info(msg,
			zap.String("game_id", s.GameID),
			zap.Int("age", s.Age),
			zap.Int("round", s.Round),
			zap.String("state", s.State),
			zap.String("player", p.Name),
			zap.Int("coins", p.Coins),
			zap.Int("military", p.Military),
			zap.Int("defeats", p.DefeatsWest+p.DefeatsEast),
			zap.Int("buildings", len(p.Buildings)),
			zap.String("wonder", p.Wonder),
			zap.Int("wonder_steps", p.WonderSteps),
		)
	}
}
