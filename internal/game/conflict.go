package game

import (
	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// WarDefeatPoints is what a player loses for each lost conflict.
const WarDefeatPoints = -1

// WarVictoryPoints is what a player wins for each won conflict, per age.
var WarVictoryPoints = [LastAge]int{1, 3, 5}

// Outcome is the result of a conflict for one side of it.
type Outcome string

const (
	OutcomeVictory Outcome = "VICTORY"
	OutcomeDefeat  Outcome = "DEFEAT"
	OutcomeDraw    Outcome = "DRAW"
)

// ConflictResult is the outcome of one player's conflict against one
// neighbor at the end of an age.
type ConflictResult struct {
	PlayerID string
	Side     catalog.Side
	Strength int
	Opponent int
	Outcome  Outcome
	Points   int
}

// resolveConflicts compares every player's strength with both neighbors.
// Each player fights west and east separately, so every pair of neighbors
// is scored once from each side.
func (g *Game) resolveConflicts() []ConflictResult {
	victory := WarVictoryPoints[0]
	if g.age >= 1 && g.age <= LastAge {
		victory = WarVictoryPoints[g.age-1]
	}

	strength := make(map[*Player]int, len(g.players))
	for _, p := range g.players {
		strength[p] = p.City.WarPoints()
	}

	var results []ConflictResult
	for _, p := range g.players {
		for _, side := range []catalog.Side{catalog.SideWest, catalog.SideEast} {
			other := g.Neighbor(p, side)
			r := ConflictResult{
				PlayerID: p.ID,
				Side:     side,
				Strength: strength[p],
				Opponent: strength[other],
				Outcome:  OutcomeDraw,
			}
			switch {
			case r.Strength > r.Opponent:
				r.Outcome = OutcomeVictory
				r.Points = victory
			case r.Strength < r.Opponent:
				r.Outcome = OutcomeDefeat
				r.Points = WarDefeatPoints
				p.defeats[side]++
			}
			p.military += r.Points
			results = append(results, r)

			g.emit(Event{Type: EventConflict, PlayerID: p.ID, Detail: string(side) + " " + string(r.Outcome)})
		}
	}

	for _, p := range g.players {
		g.logger.Info("conflicts resolved",
			zap.Int("age", g.age),
			zap.String("player_id", p.ID),
			zap.Int("strength", strength[p]),
			zap.Int("military", p.military),
			zap.Int("defeats", p.Defeats()),
		)
	}
	return results
}
