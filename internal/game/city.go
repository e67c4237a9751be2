package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
	"github.com/wondersgame/wonders-server-go/internal/game/trade"
)

// DiscardedCardValue is what a player receives for discarding a card.
const DiscardedCardValue = 3

// BuildMethod tells how a card can be paid for.
type BuildMethod int

const (
	MethodFree       BuildMethod = iota // free build granted by the caller
	MethodNoCost                        // the card costs nothing
	MethodGold                          // coins only
	MethodChain                         // a chain-from card is built
	MethodResources                     // production, trade and coins
	MethodWonderFree                    // the once-per-age wonder free build
)

var buildMethodNames = map[BuildMethod]string{
	MethodFree:       "FREE",
	MethodNoCost:     "NO_COST",
	MethodGold:       "GOLD",
	MethodChain:      "CHAIN",
	MethodResources:  "RESOURCES",
	MethodWonderFree: "WONDER_FREE",
}

func (m BuildMethod) String() string {
	if name, ok := buildMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("METHOD_%d", int(m))
}

// BuildPlan is the outcome of a successful buildability check. Nothing is
// paid until the plan is committed by Build.
type BuildPlan struct {
	Card   *catalog.Card
	Method BuildMethod
	Gold   int
}

// City is the tableau of one player: built cards, production tree, trade
// prices and the per-round trade ledgers.
type City struct {
	owner  *Player
	logger *zap.Logger

	built  []*catalog.Card
	tree   *resource.Tree
	prices *trade.Schedule

	ledgers map[catalog.Side]*trade.Ledger
	west    *City
	east    *City

	freeBuildUsed     bool
	producedThisRound int
	copiedGuild       *catalog.Card
}

func newCity(owner *Player, logger *zap.Logger) *City {
	return &City{
		owner:  owner,
		logger: logger,
		tree:   resource.NewTree(),
		prices: trade.NewSchedule(),
		ledgers: map[catalog.Side]*trade.Ledger{
			catalog.SideWest: trade.NewLedger(),
			catalog.SideEast: trade.NewLedger(),
		},
	}
}

// Owner returns the player owning the city.
func (c *City) Owner() *Player {
	return c.owner
}

// Neighbor returns the city seated on a side.
func (c *City) Neighbor(side catalog.Side) *City {
	if side == catalog.SideWest {
		return c.west
	}
	return c.east
}

// Tree returns the city's production tree.
func (c *City) Tree() *resource.Tree {
	return c.tree
}

// Prices returns the city's trade price schedule.
func (c *City) Prices() *trade.Schedule {
	return c.prices
}

// Ledger returns what the city bought from a side this round.
func (c *City) Ledger(side catalog.Side) *trade.Ledger {
	return c.ledgers[side]
}

// Built returns the built cards in build order.
func (c *City) Built() []*catalog.Card {
	out := make([]*catalog.Card, len(c.built))
	copy(out, c.built)
	return out
}

// BuiltIn returns the built cards of a category.
func (c *City) BuiltIn(category catalog.Category) []*catalog.Card {
	var out []*catalog.Card
	for _, card := range c.built {
		if card.Category == category {
			out = append(out, card)
		}
	}
	return out
}

// BuildingNames returns the names of the built cards in build order.
func (c *City) BuildingNames() []string {
	names := make([]string, len(c.built))
	for i, card := range c.built {
		names[i] = card.Name
	}
	return names
}

// IsBuilt reports whether a card with that name is built, whatever its category.
func (c *City) IsBuilt(name string) bool {
	for _, card := range c.built {
		if card.Name == name {
			return true
		}
	}
	return false
}

// CopiedGuild returns the neighbor guild copied through the wonder, if any.
func (c *City) CopiedGuild() *catalog.Card {
	return c.copiedGuild
}

// FreeBuildUsed reports whether the wonder free build was spent this age.
func (c *City) FreeBuildUsed() bool {
	return c.freeBuildUsed
}

// PlanBuild checks whether card can be built and how it would be paid for.
// It never mutates the city.
func (c *City) PlanBuild(card *catalog.Card, free bool) (BuildPlan, error) {
	if c.IsBuilt(card.Name) {
		return BuildPlan{}, fmt.Errorf("%w: %s", ErrAlreadyBuilt, card.Name)
	}
	if free {
		return BuildPlan{Card: card, Method: MethodFree}, nil
	}
	if card.Cost.IsEmpty() {
		return BuildPlan{Card: card, Method: MethodNoCost}, nil
	}
	if card.Cost.GoldOnly() && c.owner.coins >= card.Cost.Gold() {
		return BuildPlan{Card: card, Method: MethodGold, Gold: card.Cost.Gold()}, nil
	}
	for _, from := range card.Cost.ChainFrom {
		if c.IsBuilt(from) {
			return BuildPlan{Card: card, Method: MethodChain}, nil
		}
	}
	if _, ok := c.satisfyingLeaf(card.Cost.Resources); ok {
		return BuildPlan{Card: card, Method: MethodResources, Gold: card.Cost.Gold()}, nil
	}
	if c.owner.Wonder != nil && c.owner.Wonder.HasFreeBuildBonus() && !c.freeBuildUsed {
		return BuildPlan{Card: card, Method: MethodWonderFree}, nil
	}
	return BuildPlan{}, fmt.Errorf("%w: %s", ErrNotBuildable, card.Name)
}

// IsBuildable reports whether PlanBuild succeeds.
func (c *City) IsBuildable(card *catalog.Card, free bool) bool {
	_, err := c.PlanBuild(card, free)
	return err == nil
}

// Build plans the build and commits it: coins are paid, the card joins the
// city and its immediate effects apply. On error nothing changes.
func (c *City) Build(card *catalog.Card, free bool) (BuildPlan, error) {
	plan, err := c.PlanBuild(card, free)
	if err != nil {
		return BuildPlan{}, err
	}

	c.owner.coins -= plan.Gold
	if plan.Method == MethodWonderFree {
		c.freeBuildUsed = true
	}
	c.built = append(c.built, card)
	c.applyEffects(card)

	c.logger.Debug("card built",
		zap.String("player_id", c.owner.ID),
		zap.String("card", card.Name),
		zap.Stringer("method", plan.Method),
		zap.Int("gold", plan.Gold),
		zap.Int("coins", c.owner.coins),
	)
	return plan, nil
}

func (c *City) applyEffects(card *catalog.Card) {
	switch card.Category {
	case catalog.CategoryResource:
		c.addProduction(card.Production.Resources, card.Production.Optional, card.Production.Buyable)
	case catalog.CategoryCommercial:
		switch {
		case card.Production != nil:
			c.addProduction(card.Production.Resources, card.Production.Optional, card.Production.Buyable)
		case card.Discount != nil:
			c.prices.Reduce(card.Discount.Class, card.Discount.Sides, card.Discount.Price)
		case card.Bonus != nil:
			c.owner.coins += c.bonusMatches(card.Bonus) * card.Bonus.Reward(catalog.RewardGold)
		}
	}
}

func (c *City) addProduction(qs []resource.Quantity, optional, buyable bool) {
	before := c.tree.Productions()
	c.tree.AddProduction(qs, optional, buyable)
	c.producedThisRound += c.tree.Productions() - before
}

// Discard sells a card for DiscardedCardValue coins.
func (c *City) Discard(card *catalog.Card) {
	c.owner.coins += DiscardedCardValue
	c.logger.Debug("card discarded",
		zap.String("player_id", c.owner.ID),
		zap.String("card", card.Name),
		zap.Int("coins", c.owner.coins),
	)
}

// MissingResources returns the part of needed that a production path,
// together with the unspent part of both trade ledgers and the treasury,
// does not cover. An empty result means the cost is met.
func (c *City) MissingResources(leaf *resource.Node, needed []resource.Quantity) []resource.Quantity {
	var missing []resource.Quantity
	for _, q := range resource.Merge(needed) {
		if q.Kind == resource.Gold {
			if c.owner.coins < q.Count {
				missing = append(missing, resource.Quantity{Kind: resource.Gold, Count: q.Count - c.owner.coins})
			}
			continue
		}
		have := c.ledgers[catalog.SideWest].Available(q.Kind) + c.ledgers[catalog.SideEast].Available(q.Kind)
		if leaf != nil {
			have += leaf.Get(q.Kind)
		}
		if have < q.Count {
			missing = append(missing, resource.Quantity{Kind: q.Kind, Count: q.Count - have})
		}
	}
	return missing
}

func (c *City) satisfyingLeaf(needed []resource.Quantity) (*resource.Node, bool) {
	for _, leaf := range c.tree.Leaves() {
		if len(c.MissingResources(leaf, needed)) == 0 {
			return leaf, true
		}
	}
	return nil, false
}

// consumePurchases marks everything bought so far this round as used up.
// Later plays in the same round may still buy, but pay for every unit again.
func (c *City) consumePurchases() {
	for _, l := range c.ledgers {
		l.SpendAll()
	}
}

// BuyResources buys from the neighbor on side so that this round's total
// purchase from that side reaches wanted. Only the increment over the
// ledger is paid, at the city's price for each resource class. The neighbor
// must be able to supply the units earlier plays have not consumed from one
// production path, ignoring production it added this round. Nothing changes
// on error.
func (c *City) BuyResources(side catalog.Side, wanted resource.Bundle) (int, error) {
	neighbor := c.Neighbor(side)
	if neighbor == nil {
		return 0, fmt.Errorf("%w: no neighbor on side %s", ErrUnknownPlayer, side)
	}
	for k, n := range wanted {
		if n > 0 && !k.IsRaw() && !k.IsManufactured() {
			return 0, fmt.Errorf("%w: %s", ErrNotTradeable, k)
		}
	}
	ledger := c.ledgers[side]
	if !neighbor.canSupply(ledger.Pending(wanted)) {
		return 0, fmt.Errorf("%w: %s from %s", ErrNotAvailableForTrade, wanted, side)
	}

	cost := c.prices.Cost(side, ledger.Increment(wanted))
	if cost > c.owner.coins {
		return 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCoins, cost, c.owner.coins)
	}

	c.owner.coins -= cost
	neighbor.owner.coins += cost
	ledger.Raise(wanted)

	c.logger.Debug("resources bought",
		zap.String("player_id", c.owner.ID),
		zap.String("seller_id", neighbor.owner.ID),
		zap.String("side", string(side)),
		zap.Stringer("resources", wanted),
		zap.Int("cost", cost),
	)
	return cost, nil
}

// Offers returns what neighbors may buy from this city, one bundle per
// production path. Production added this round is not offered.
func (c *City) Offers() []resource.Bundle {
	return c.tree.BuyableResources(c.producedThisRound)
}

func (c *City) canSupply(wanted resource.Bundle) bool {
	for _, offer := range c.Offers() {
		if offer.Covers(wanted) {
			return true
		}
	}
	return false
}

// CopyGuild copies a guild built by a neighbor. The wonder must grant the
// ability and only one guild can be copied.
func (c *City) CopyGuild(card *catalog.Card) error {
	if c.owner.Wonder == nil || !c.owner.Wonder.HasGuildCopy() {
		return fmt.Errorf("%w: wonder does not grant a guild copy", ErrGuildUnavailable)
	}
	if c.copiedGuild != nil {
		return fmt.Errorf("%w: %s already copied", ErrGuildUnavailable, c.copiedGuild.Name)
	}
	for _, candidate := range c.GuildCandidates() {
		if candidate == card {
			c.copiedGuild = card
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrGuildUnavailable, card.Name)
}

// GuildCandidates returns the neighbor guilds this city could copy.
func (c *City) GuildCandidates() []*catalog.Card {
	var out []*catalog.Card
	for _, n := range []*City{c.west, c.east} {
		if n == nil {
			continue
		}
		for _, g := range n.BuiltIn(catalog.CategoryGuild) {
			if !c.IsBuilt(g.Name) {
				out = append(out, g)
			}
		}
	}
	return out
}

func (c *City) resetRound() {
	for _, l := range c.ledgers {
		l.Reset()
	}
	c.producedThisRound = 0
}

func (c *City) resetAge() {
	c.freeBuildUsed = false
}
