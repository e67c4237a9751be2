package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return cat
}

// newTestGame seats players without starting the game: no wonders, no hands.
func newTestGame(t *testing.T, players int, policy Policy) *Game {
	t.Helper()
	g, err := NewGame(Options{
		Players:   players,
		HumanSeat: -1,
		Seed:      42,
		Face:      catalog.FaceA,
		Policy:    policy,
	}, defaultCatalog(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	return g
}

func mustCard(t *testing.T, g *Game, id string) *catalog.Card {
	t.Helper()
	card, err := g.catalog.Card(id)
	require.NoError(t, err)
	return card
}

// giveWonder assigns a wonder face the way Start does.
func giveWonder(t *testing.T, g *Game, p *Player, name string, face catalog.Face) *WonderBoard {
	t.Helper()
	def, err := g.catalog.Wonder(name, face)
	require.NoError(t, err)
	p.Wonder = newWonderBoard(def, p.City, g.logger)
	p.City.tree.AddProduction([]resource.Quantity{{Kind: def.BaseResource, Count: 1}}, false, true)
	return p.Wonder
}

// produce adds untradeable production directly to a city.
func produce(p *Player, qs ...resource.Quantity) {
	p.City.tree.AddProduction(qs, false, false)
}

func qty(k resource.Kind, n int) resource.Quantity {
	return resource.Quantity{Kind: k, Count: n}
}

// discardPolicy always sells its first card.
type discardPolicy struct{}

func (discardPolicy) Choose(_ *Game, p *Player) Move {
	return Move{Action: ActionDiscard, CardID: p.hand[0].ID}
}

func (discardPolicy) ChooseDiscardBuild(*Game, *Player, []*catalog.Card) *catalog.Card { return nil }

func (discardPolicy) ChooseGuild(*Game, *Player, []*catalog.Card) *catalog.Card { return nil }

// greedyPolicy builds the first buildable card, then tries the wonder, and
// otherwise discards. It takes any discard build or guild offered.
type greedyPolicy struct{}

func (greedyPolicy) Choose(_ *Game, p *Player) Move {
	for _, c := range p.hand {
		if p.City.IsBuildable(c, false) {
			return Move{Action: ActionBuild, CardID: c.ID}
		}
	}
	if p.Wonder != nil && p.Wonder.IsNextStepBuildable() {
		return Move{Action: ActionBuildWonder, CardID: p.hand[0].ID}
	}
	return Move{Action: ActionDiscard, CardID: p.hand[0].ID}
}

func (greedyPolicy) ChooseDiscardBuild(_ *Game, _ *Player, candidates []*catalog.Card) *catalog.Card {
	if len(candidates) == 0 {
		return nil
	}
	return candidates[0]
}

func (greedyPolicy) ChooseGuild(_ *Game, p *Player, candidates []*catalog.Card) *catalog.Card {
	return BestGuild(p, candidates)
}
