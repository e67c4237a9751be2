package game

import (
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/trade"
)

// GameView is what one player may see of the table: every city, and only
// their own hand.
type GameView struct {
	GameID      string
	Age         int
	Round       int
	State       string
	DiscardSize int
	Players     []PlayerView
	Hand        []CardView
}

// PlayerView is the public side of a seat.
type PlayerView struct {
	ID          string
	Name        string
	Seat        int
	Human       bool
	Coins       int
	HandSize    int
	Buildings   []string
	Wonder      string
	WonderSteps int
	WonderTotal int
	Shields     int
	Military    int
	DefeatsWest int
	DefeatsEast int
	Prices      trade.Prices
}

// CardView is a held card with how it could be built right now.
type CardView struct {
	ID        string
	Name      string
	Category  catalog.Category
	Buildable bool
	Method    string
	Gold      int
	ChainTo   []string
}

// View returns the table as seen by a player.
func (g *Game) View(playerID string) (*GameView, error) {
	viewer, err := g.Player(playerID)
	if err != nil {
		return nil, err
	}

	v := &GameView{
		GameID:      g.ID,
		Age:         g.age,
		Round:       g.round,
		State:       g.state.String(),
		DiscardSize: len(g.discard),
		Players:     make([]PlayerView, 0, len(g.players)),
		Hand:        make([]CardView, 0, len(viewer.hand)),
	}

	for _, p := range g.players {
		pv := PlayerView{
			ID:          p.ID,
			Name:        p.Name,
			Seat:        p.Seat,
			Human:       p.Human,
			Coins:       p.coins,
			HandSize:    len(p.hand),
			Buildings:   p.City.BuildingNames(),
			Shields:     p.City.WarPoints(),
			Military:    p.military,
			DefeatsWest: p.DefeatTokens(catalog.SideWest),
			DefeatsEast: p.DefeatTokens(catalog.SideEast),
			Prices:      p.City.Prices().Snapshot(),
		}
		if p.Wonder != nil {
			pv.Wonder = p.Wonder.Definition().String()
			pv.WonderSteps = p.Wonder.AchievedSteps()
			pv.WonderTotal = len(p.Wonder.Definition().Steps)
		}
		v.Players = append(v.Players, pv)
	}

	for _, card := range viewer.hand {
		cv := CardView{
			ID:       card.ID,
			Name:     card.Name,
			Category: card.Category,
			ChainTo:  append([]string(nil), card.ChainTo...),
		}
		if plan, err := viewer.City.PlanBuild(card, false); err == nil {
			cv.Buildable = true
			cv.Method = plan.Method.String()
			cv.Gold = plan.Gold
		}
		v.Hand = append(v.Hand, cv)
	}
	return v, nil
}
