package game

import (
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// ScoreSheet is the end-of-game breakdown of one player.
type ScoreSheet struct {
	PlayerID   string
	Name       string
	Seat       int
	Military   int
	Treasure   int
	Wonder     int
	Civil      int
	Commercial int
	Guild      int
	Science    int
	Total      int
	Coins      int
}

// WarPoints returns the military strength: shields on military cards plus
// wonder steps.
func (c *City) WarPoints() int {
	total := 0
	for _, card := range c.BuiltIn(catalog.CategoryMilitary) {
		total += card.Strength
	}
	if c.owner.Wonder != nil {
		total += c.owner.Wonder.WarPoints()
	}
	return total
}

// CivilPoints returns the victory points printed on civil cards.
func (c *City) CivilPoints() int {
	total := 0
	for _, card := range c.BuiltIn(catalog.CategoryCivil) {
		total += card.Points
	}
	return total
}

// TreasurePoints returns one point per three coins.
func (c *City) TreasurePoints() int {
	return c.owner.coins / 3
}

// ScienceSymbols counts the built science symbols.
func (c *City) ScienceSymbols() map[catalog.Symbol]int {
	counts := make(map[catalog.Symbol]int, 3)
	for _, s := range catalog.Symbols() {
		counts[s] = 0
	}
	for _, card := range c.BuiltIn(catalog.CategoryScience) {
		counts[card.Symbol]++
	}
	return counts
}

// ScienceBonuses counts the wildcard symbols granted by guilds and wonder steps.
func (c *City) ScienceBonuses() int {
	n := 0
	for _, g := range c.guilds() {
		if g.Bonus.Type == catalog.BonusScience {
			n++
		}
	}
	if c.owner.Wonder != nil {
		n += c.owner.Wonder.ScienceBonuses()
	}
	return n
}

// SciencePoints scores the science symbols, spending every wildcard on the
// symbol that raises the score most.
func (c *City) SciencePoints() int {
	counts := c.ScienceSymbols()
	values := make([]int, 0, len(counts))
	for _, s := range catalog.Symbols() {
		values = append(values, counts[s])
	}
	return MaximizeScience(values, c.ScienceBonuses())
}

// ScienceScore is the sum of squared symbol counts plus seven per full set.
func ScienceScore(counts []int) int {
	if len(counts) == 0 {
		return 0
	}
	total, least := 0, counts[0]
	for _, n := range counts {
		total += n * n
		if n < least {
			least = n
		}
	}
	return total + least*7
}

// MaximizeScience applies each wildcard in turn to either the rarest or the
// most common symbol, keeping whichever scores higher.
func MaximizeScience(counts []int, bonuses int) int {
	current := append([]int(nil), counts...)
	if len(current) == 0 {
		return 0
	}
	for i := 0; i < bonuses; i++ {
		minIdx, maxIdx := 0, 0
		for j, n := range current {
			if n < current[minIdx] {
				minIdx = j
			}
			if n > current[maxIdx] {
				maxIdx = j
			}
		}
		withMin := append([]int(nil), current...)
		withMin[minIdx]++
		withMax := append([]int(nil), current...)
		withMax[maxIdx]++
		if ScienceScore(withMax) > ScienceScore(withMin) {
			current = withMax
		} else {
			current = withMin
		}
	}
	return ScienceScore(current)
}

// CommercialPoints returns the victory points of commercial bonus cards.
func (c *City) CommercialPoints() int {
	total := 0
	for _, card := range c.BuiltIn(catalog.CategoryCommercial) {
		if card.Bonus != nil {
			total += c.bonusMatches(card.Bonus) * card.Bonus.Reward(catalog.RewardVP)
		}
	}
	return total
}

// GuildPoints returns the victory points of built and copied guilds.
func (c *City) GuildPoints() int {
	total := 0
	for _, g := range c.guilds() {
		total += c.GuildValue(g)
	}
	return total
}

// GuildValue returns what a guild would score in this city.
func (c *City) GuildValue(g *catalog.Card) int {
	if g.Bonus == nil {
		return 0
	}
	return c.bonusMatches(g.Bonus) * g.Bonus.Reward(catalog.RewardVP)
}

func (c *City) guilds() []*catalog.Card {
	out := c.BuiltIn(catalog.CategoryGuild)
	if c.copiedGuild != nil {
		out = append(out, c.copiedGuild)
	}
	return out
}

// bonusMatches counts the reward units a bonus earns over the cities it
// inspects.
func (c *City) bonusMatches(b *catalog.Bonus) int {
	if b.Type == catalog.BonusFree {
		return 1
	}

	targets := map[catalog.Target]*City{
		catalog.TargetSelf:  c,
		catalog.TargetLeft:  c.west,
		catalog.TargetRight: c.east,
	}
	total := 0
	for _, t := range []catalog.Target{catalog.TargetSelf, catalog.TargetLeft, catalog.TargetRight} {
		city := targets[t]
		if city == nil || !b.Checks(t) {
			continue
		}
		switch b.Type {
		case catalog.BonusCard:
			for _, card := range city.built {
				total += b.Weight(card)
			}
		case catalog.BonusWonder:
			if city.owner.Wonder != nil {
				total += city.owner.Wonder.AchievedSteps()
			}
		case catalog.BonusDefeat:
			total += city.owner.Defeats()
		}
	}
	return total
}

// Score computes the player's end-of-game sheet.
func (p *Player) Score() ScoreSheet {
	s := ScoreSheet{
		PlayerID:   p.ID,
		Name:       p.Name,
		Seat:       p.Seat,
		Military:   p.military,
		Treasure:   p.City.TreasurePoints(),
		Civil:      p.City.CivilPoints(),
		Commercial: p.City.CommercialPoints(),
		Guild:      p.City.GuildPoints(),
		Science:    p.City.SciencePoints(),
		Coins:      p.coins,
	}
	if p.Wonder != nil {
		s.Wonder = p.Wonder.Points()
	}
	s.Total = s.Military + s.Treasure + s.Wonder + s.Civil + s.Commercial + s.Guild + s.Science
	return s
}
