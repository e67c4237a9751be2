package trade

import (
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// DefaultPrice is what one unit costs from a neighbor before any discount.
const DefaultPrice = 2

// Sides lists both neighbors, west first.
func Sides() []catalog.Side {
	return []catalog.Side{catalog.SideWest, catalog.SideEast}
}

// Schedule holds the prices a city pays each neighbor per resource class.
// Reductions only ever lower a price.
type Schedule struct {
	prices map[catalog.Side]map[resource.Class]int
}

// NewSchedule returns a schedule charging DefaultPrice everywhere.
func NewSchedule() *Schedule {
	s := &Schedule{prices: make(map[catalog.Side]map[resource.Class]int, 2)}
	for _, side := range Sides() {
		s.prices[side] = map[resource.Class]int{
			resource.ClassRaw:          DefaultPrice,
			resource.ClassManufactured: DefaultPrice,
		}
	}
	return s
}

// ClassPrice returns the unit price of a class bought from a side.
func (s *Schedule) ClassPrice(side catalog.Side, class resource.Class) int {
	byClass, ok := s.prices[side]
	if !ok {
		return DefaultPrice
	}
	return byClass[class]
}

// Price returns the unit price of a kind bought from a side.
func (s *Schedule) Price(side catalog.Side, kind resource.Kind) int {
	return s.ClassPrice(side, kind.Class())
}

// Reduce lowers the price of a class on the given sides. Higher prices are
// ignored.
func (s *Schedule) Reduce(class resource.Class, sides []catalog.Side, price int) {
	for _, side := range sides {
		byClass, ok := s.prices[side]
		if !ok {
			continue
		}
		if price < byClass[class] {
			byClass[class] = price
		}
	}
}

// Cost returns the price of buying units from a side.
func (s *Schedule) Cost(side catalog.Side, units resource.Bundle) int {
	total := 0
	for k, n := range units {
		if k == resource.Gold || n <= 0 {
			continue
		}
		total += n * s.Price(side, k)
	}
	return total
}

// Clone returns an independent copy.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{prices: make(map[catalog.Side]map[resource.Class]int, len(s.prices))}
	for side, byClass := range s.prices {
		cp := make(map[resource.Class]int, len(byClass))
		for c, p := range byClass {
			cp[c] = p
		}
		out.prices[side] = cp
	}
	return out
}

// Prices is a flat view of a schedule.
type Prices struct {
	WestRaw          int
	WestManufactured int
	EastRaw          int
	EastManufactured int
}

// Snapshot flattens the schedule for views.
func (s *Schedule) Snapshot() Prices {
	return Prices{
		WestRaw:          s.ClassPrice(catalog.SideWest, resource.ClassRaw),
		WestManufactured: s.ClassPrice(catalog.SideWest, resource.ClassManufactured),
		EastRaw:          s.ClassPrice(catalog.SideEast, resource.ClassRaw),
		EastManufactured: s.ClassPrice(catalog.SideEast, resource.ClassManufactured),
	}
}
