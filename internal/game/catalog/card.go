package catalog

import (
	"slices"

	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// Cost is the build condition of a card: either resources (gold included)
// or one of the chain-from cards already built.
type Cost struct {
	Resources []resource.Quantity `mapstructure:"resources"`
	ChainFrom []string            `mapstructure:"chain_from"`
}

// IsEmpty reports whether the card can be built for nothing.
func (c Cost) IsEmpty() bool {
	for _, q := range c.Resources {
		if q.Count > 0 {
			return false
		}
	}
	return true
}

// Gold returns the coin part of the cost.
func (c Cost) Gold() int {
	n := 0
	for _, q := range c.Resources {
		if q.Kind == resource.Gold {
			n += q.Count
		}
	}
	return n
}

// GoldOnly reports whether the cost is paid in coins and nothing else.
func (c Cost) GoldOnly() bool {
	if c.IsEmpty() {
		return false
	}
	for _, q := range c.Resources {
		if q.Kind != resource.Gold && q.Count > 0 {
			return false
		}
	}
	return true
}

// Goods returns the non-gold part of the cost as a bundle.
func (c Cost) Goods() resource.Bundle {
	b := resource.NewBundle(c.Resources...)
	delete(b, resource.Gold)
	return b
}

// Production is what resource cards (and commercial cards acting as
// resource cards) add to a city's production tree.
type Production struct {
	Resources []resource.Quantity `mapstructure:"resources"`
	Optional  bool                `mapstructure:"optional"`
	Buyable   bool                `mapstructure:"buyable"`
}

// Class reports whether the production is raw or manufactured, judged on
// its first resource.
func (p *Production) Class() resource.Class {
	if p == nil || len(p.Resources) == 0 {
		return resource.ClassRaw
	}
	return p.Resources[0].Kind.Class()
}

// Discount lowers the price a city pays its neighbors for a resource class.
type Discount struct {
	Class resource.Class `mapstructure:"class"`
	Sides []Side         `mapstructure:"sides"`
	Price int            `mapstructure:"price"`
}

// Bonus is a scoring rule evaluated over the owner and its neighbors.
type Bonus struct {
	Type       BonusType       `mapstructure:"type"`
	Rewards    []Reward        `mapstructure:"rewards"`
	Targets    []Target        `mapstructure:"targets"`
	Categories []Category      `mapstructure:"categories"`
	Class      *resource.Class `mapstructure:"class"`
}

// Checks reports whether the bonus inspects the given city.
func (b *Bonus) Checks(t Target) bool {
	return slices.Contains(b.Targets, t)
}

// Reward returns the reward quantity of a kind (0 when absent).
func (b *Bonus) Reward(kind RewardKind) int {
	n := 0
	for _, r := range b.Rewards {
		if r.Kind == kind {
			n += r.Quantity
		}
	}
	return n
}

// Weight returns how many reward units a built card earns under this bonus.
// Resource cards score 1 when raw and 2 when manufactured if the bonus
// targets one resource class; every other match scores 1.
func (b *Bonus) Weight(c *Card) int {
	if b.Type != BonusCard || c == nil || !slices.Contains(b.Categories, c.Category) {
		return 0
	}
	if c.Category != CategoryResource || b.Class == nil {
		return 1
	}
	if c.Production.Class() != *b.Class {
		return 0
	}
	if *b.Class == resource.ClassManufactured {
		return 2
	}
	return 1
}

// Card is an immutable playable card. Exactly one payload matches its
// category; commercial cards carry one of Production, Discount or Bonus.
type Card struct {
	ID         string
	Name       string
	Category   Category
	Age        int
	MinPlayers int
	Cost       Cost
	ChainTo    []string

	Production *Production
	Strength   int
	Points     int
	Discount   *Discount
	Bonus      *Bonus
	Symbol     Symbol
}

// IsDisguisedResource reports whether a commercial card produces resources.
func (c *Card) IsDisguisedResource() bool {
	return c.Category == CategoryCommercial && c.Production != nil
}

// ChainsFrom reports whether name is one of the card's chain-from prerequisites.
func (c *Card) ChainsFrom(name string) bool {
	return slices.Contains(c.Cost.ChainFrom, name)
}

func (c *Card) String() string {
	return c.Name
}
