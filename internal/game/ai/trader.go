package ai

import (
	"sort"

	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
	"github.com/wondersgame/wonders-server-go/internal/game/trade"
)

// Trader puts the wonder first and buys from its neighbors when that
// completes the next step or a card. It falls back to Baseline.
type Trader struct {
	Baseline
}

// NewTrader creates a Trader policy.
func NewTrader(seed uint64, logger *zap.Logger) *Trader {
	return &Trader{Baseline: *NewBaseline(seed, logger)}
}

func (t *Trader) Choose(g *game.Game, p *game.Player) game.Move {
	hand := p.Hand()
	if len(hand) == 0 || p.Wonder == nil {
		return t.Baseline.Choose(g, p)
	}

	if step, ok := p.Wonder.Next(); ok {
		sacrifice := t.sacrifice(p, hand)
		if p.Wonder.IsNextStepBuildable() {
			return game.Move{Action: game.ActionBuildWonder, CardID: sacrifice.ID}
		}
		if plan, ok := PlanTrade(p, step.Cost, 0); ok {
			t.logger.Debug("trading for wonder step",
				zap.String("player_id", p.ID),
				zap.Stringer("west", plan.West),
				zap.Stringer("east", plan.East),
				zap.Int("cost", plan.Cost),
			)
			return game.Move{Action: game.ActionBuildWonder, CardID: sacrifice.ID, Purchases: purchases(plan)}
		}
	}

	for _, c := range hand {
		if p.City.IsBuildable(c, false) {
			return t.Baseline.Choose(g, p)
		}
	}

	var (
		bestCard *catalog.Card
		bestPlan trade.Plan
	)
	for _, c := range hand {
		if p.City.IsBuilt(c.Name) {
			continue
		}
		plan, ok := PlanTrade(p, c.Cost.Resources, c.Cost.Gold())
		if ok && (bestCard == nil || plan.Cost < bestPlan.Cost) {
			bestCard, bestPlan = c, plan
		}
	}
	if bestCard != nil {
		return game.Move{Action: game.ActionBuild, CardID: bestCard.ID, Purchases: purchases(bestPlan)}
	}
	return t.Baseline.Choose(g, p)
}

// sacrifice picks the card to tuck under the wonder: one that could not be
// built anyway when there is one.
func (t *Trader) sacrifice(p *game.Player, hand []*catalog.Card) *catalog.Card {
	var useless []*catalog.Card
	for _, c := range hand {
		if !p.City.IsBuildable(c, false) {
			useless = append(useless, c)
		}
	}
	if len(useless) > 0 {
		return t.pick(useless)
	}
	return t.pick(hand)
}

// PlanTrade looks for purchases that cover cost. Production paths are tried
// from the one needing the fewest units; the first affordable plan wins.
// gold is what the build itself costs on top of the purchase.
func PlanTrade(p *game.Player, cost []resource.Quantity, gold int) (trade.Plan, bool) {
	type option struct {
		missing resource.Bundle
	}
	var options []option
	for _, leaf := range p.City.Tree().Leaves() {
		missing := resource.NewBundle(p.City.MissingResources(leaf, cost)...)
		if missing.Get(resource.Gold) > 0 {
			continue
		}
		options = append(options, option{missing: missing})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].missing.Total() < options[j].missing.Total()
	})

	west := remainingOffers(p.City, catalog.SideWest)
	east := remainingOffers(p.City, catalog.SideEast)
	for _, o := range options {
		if o.missing.Total() == 0 {
			continue
		}
		plan, ok := trade.PlanPurchase(o.missing, west, east, p.City.Prices())
		if ok && plan.Cost+gold <= p.Coins() {
			return plan, true
		}
	}
	return trade.Plan{}, false
}

// remainingOffers returns what a neighbor can still sell to the current
// play once the units already bought for it are taken out.
func remainingOffers(c *game.City, side catalog.Side) []resource.Bundle {
	neighbor := c.Neighbor(side)
	if neighbor == nil {
		return nil
	}
	bought := c.Ledger(side).Unspent()
	offers := neighbor.Offers()
	out := make([]resource.Bundle, len(offers))
	for i, offer := range offers {
		out[i] = bought.Missing(offer)
	}
	return out
}

func purchases(plan trade.Plan) map[catalog.Side]resource.Bundle {
	return map[catalog.Side]resource.Bundle{
		catalog.SideWest: plan.West,
		catalog.SideEast: plan.East,
	}
}
