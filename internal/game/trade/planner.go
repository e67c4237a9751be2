package trade

import (
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// Plan is a purchase split between both neighbors.
type Plan struct {
	West resource.Bundle
	East resource.Bundle
	Cost int
}

// Empty reports whether nothing needs to be bought.
func (p Plan) Empty() bool {
	return p.West.Total() == 0 && p.East.Total() == 0
}

// From returns the units bought from a side.
func (p Plan) From(side catalog.Side) resource.Bundle {
	if side == catalog.SideWest {
		return p.West
	}
	return p.East
}

// PlanPurchase finds the cheapest way to cover missing with one buyable
// bundle from each neighbor. Every combination of west and east offers is
// tried; each unit goes to the side with the lower price first, falling
// back to the other side. It reports false when no combination covers the
// shortfall.
func PlanPurchase(missing resource.Bundle, west, east []resource.Bundle, s *Schedule) (Plan, bool) {
	if missing.Total() == 0 {
		return Plan{West: resource.Bundle{}, East: resource.Bundle{}}, true
	}
	if len(west) == 0 {
		west = []resource.Bundle{{}}
	}
	if len(east) == 0 {
		east = []resource.Bundle{{}}
	}

	var best Plan
	found := false
	for _, w := range west {
		for _, e := range east {
			plan, ok := planPair(missing, w, e, s)
			if !ok {
				continue
			}
			if !found || plan.Cost < best.Cost {
				best, found = plan, true
			}
		}
	}
	return best, found
}

func planPair(missing, west, east resource.Bundle, s *Schedule) (Plan, bool) {
	plan := Plan{West: resource.Bundle{}, East: resource.Bundle{}}
	offers := map[catalog.Side]resource.Bundle{catalog.SideWest: west, catalog.SideEast: east}
	bought := map[catalog.Side]resource.Bundle{catalog.SideWest: plan.West, catalog.SideEast: plan.East}

	for _, q := range missing.Quantities() {
		if q.Kind == resource.Gold {
			continue
		}
		first, second := catalog.SideWest, catalog.SideEast
		if s.Price(catalog.SideEast, q.Kind) < s.Price(catalog.SideWest, q.Kind) {
			first, second = second, first
		}
		for n := 0; n < q.Count; n++ {
			switch {
			case bought[first][q.Kind] < offers[first].Get(q.Kind):
				bought[first][q.Kind]++
				plan.Cost += s.Price(first, q.Kind)
			case bought[second][q.Kind] < offers[second].Get(q.Kind):
				bought[second][q.Kind]++
				plan.Cost += s.Price(second, q.Kind)
			default:
				return Plan{}, false
			}
		}
	}
	return plan, true
}
