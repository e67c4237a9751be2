package catalog

import (
	"errors"
	"fmt"
	"slices"

	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

const (
	MinPlayers = 3
	MaxPlayers = 7
	Ages       = 3
)

var (
	ErrUnknownCard   = errors.New("unknown card")
	ErrUnknownWonder = errors.New("unknown wonder")
	ErrInvalid       = errors.New("invalid catalog")
)

// Catalog is the read-only set of card and wonder definitions a game is
// played with.
type Catalog struct {
	cards   []*Card
	byID    map[string]*Card
	wonders []*Wonder
}

// New validates the definitions and builds a catalog. ChainTo lists are
// derived from the chain-from prerequisites of every card.
func New(cards []*Card, wonders []*Wonder) (*Catalog, error) {
	c := &Catalog{
		cards:   make([]*Card, 0, len(cards)),
		byID:    make(map[string]*Card, len(cards)),
		wonders: make([]*Wonder, 0, len(wonders)),
	}

	names := make(map[string]int)
	for _, card := range cards {
		if err := validateCard(card); err != nil {
			return nil, err
		}
		if _, dup := c.byID[card.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate card id %q", ErrInvalid, card.ID)
		}
		c.byID[card.ID] = card
		c.cards = append(c.cards, card)
		if age, ok := names[card.Name]; !ok || card.Age < age {
			names[card.Name] = card.Age
		}
	}

	for _, card := range c.cards {
		card.ChainTo = nil
	}
	for _, card := range c.cards {
		for _, from := range card.Cost.ChainFrom {
			age, ok := names[from]
			if !ok {
				return nil, fmt.Errorf("%w: card %q chains from unknown card %q", ErrInvalid, card.ID, from)
			}
			if age >= card.Age {
				return nil, fmt.Errorf("%w: card %q chains from %q of a later age", ErrInvalid, card.ID, from)
			}
			for _, prereq := range c.cards {
				if prereq.Name == from && !slices.Contains(prereq.ChainTo, card.Name) {
					prereq.ChainTo = append(prereq.ChainTo, card.Name)
				}
			}
		}
	}

	seen := make(map[string]bool)
	for _, w := range wonders {
		if err := validateWonder(w); err != nil {
			return nil, err
		}
		if seen[w.ID] {
			return nil, fmt.Errorf("%w: duplicate wonder id %q", ErrInvalid, w.ID)
		}
		seen[w.ID] = true
		c.wonders = append(c.wonders, w)
	}

	return c, nil
}

func validateCard(card *Card) error {
	if card == nil {
		return fmt.Errorf("%w: nil card", ErrInvalid)
	}
	if card.ID == "" || card.Name == "" {
		return fmt.Errorf("%w: card without id or name", ErrInvalid)
	}
	if card.Age < 1 || card.Age > Ages {
		return fmt.Errorf("%w: card %q has age %d", ErrInvalid, card.ID, card.Age)
	}
	if card.MinPlayers < MinPlayers || card.MinPlayers > MaxPlayers {
		return fmt.Errorf("%w: card %q needs %d players", ErrInvalid, card.ID, card.MinPlayers)
	}
	for _, q := range card.Cost.Resources {
		if q.Count < 0 {
			return fmt.Errorf("%w: card %q has a negative cost", ErrInvalid, card.ID)
		}
	}

	payloadErr := func(what string) error {
		return fmt.Errorf("%w: %s card %q has no %s", ErrInvalid, card.Category, card.ID, what)
	}
	switch card.Category {
	case CategoryResource:
		if card.Production == nil || len(card.Production.Resources) == 0 {
			return payloadErr("production")
		}
	case CategoryMilitary:
		if card.Strength <= 0 {
			return payloadErr("strength")
		}
	case CategoryCivil:
		if card.Points <= 0 {
			return payloadErr("points")
		}
	case CategoryCommercial:
		n := 0
		if card.Production != nil {
			n++
		}
		if card.Discount != nil {
			n++
		}
		if card.Bonus != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("%w: commercial card %q must carry exactly one effect", ErrInvalid, card.ID)
		}
	case CategoryScience:
		switch card.Symbol {
		case SymbolCompass, SymbolGear, SymbolTablet:
		default:
			return payloadErr("symbol")
		}
	case CategoryGuild:
		if card.Bonus == nil {
			return payloadErr("bonus")
		}
	default:
		return fmt.Errorf("%w: card %q has unknown category %q", ErrInvalid, card.ID, card.Category)
	}

	if d := card.Discount; d != nil && (d.Price < 0 || len(d.Sides) == 0) {
		return fmt.Errorf("%w: card %q has an invalid discount", ErrInvalid, card.ID)
	}
	return nil
}

func validateWonder(w *Wonder) error {
	if w == nil {
		return fmt.Errorf("%w: nil wonder", ErrInvalid)
	}
	if w.ID == "" || w.Name == "" {
		return fmt.Errorf("%w: wonder without id or name", ErrInvalid)
	}
	if w.Face != FaceA && w.Face != FaceB {
		return fmt.Errorf("%w: wonder %q has face %q", ErrInvalid, w.ID, w.Face)
	}
	if !w.BaseResource.IsRaw() && !w.BaseResource.IsManufactured() {
		return fmt.Errorf("%w: wonder %q has base resource %q", ErrInvalid, w.ID, w.BaseResource)
	}
	if len(w.Steps) < 2 || len(w.Steps) > 4 {
		return fmt.Errorf("%w: wonder %q has %d steps", ErrInvalid, w.ID, len(w.Steps))
	}
	for i, s := range w.Steps {
		if s == nil || len(s.Effects) == 0 {
			return fmt.Errorf("%w: wonder %q step %d has no effect", ErrInvalid, w.ID, i+1)
		}
		if s.Has(EffectCommercial) && s.Commercial == nil {
			return fmt.Errorf("%w: wonder %q step %d lacks its commercial settings", ErrInvalid, w.ID, i+1)
		}
		for _, q := range s.Cost {
			if q.Count < 0 || q.Kind == resource.Gold {
				return fmt.Errorf("%w: wonder %q step %d has an invalid cost", ErrInvalid, w.ID, i+1)
			}
		}
	}
	return nil
}

// Cards returns the cards in play for an age at a player count, in catalog order.
func (c *Catalog) Cards(players, age int) []*Card {
	out := make([]*Card, 0, 7*players)
	for _, card := range c.cards {
		if card.Age == age && card.MinPlayers <= players {
			out = append(out, card)
		}
	}
	return out
}

// All returns every card definition.
func (c *Catalog) All() []*Card {
	out := make([]*Card, len(c.cards))
	copy(out, c.cards)
	return out
}

// Card looks a card up by ID.
func (c *Catalog) Card(id string) (*Card, error) {
	card, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	return card, nil
}

// Wonders returns the boards printed on a face.
func (c *Catalog) Wonders(face Face) []*Wonder {
	var out []*Wonder
	for _, w := range c.wonders {
		if w.Face == face {
			out = append(out, w)
		}
	}
	return out
}

// AllWonders returns every wonder face.
func (c *Catalog) AllWonders() []*Wonder {
	out := make([]*Wonder, len(c.wonders))
	copy(out, c.wonders)
	return out
}

// Wonder returns one face of a named wonder.
func (c *Catalog) Wonder(name string, face Face) (*Wonder, error) {
	for _, w := range c.wonders {
		if w.Name == name && w.Face == face {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownWonder, name, face)
}

// WonderNames returns the distinct wonder names in catalog order.
func (c *Catalog) WonderNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, w := range c.wonders {
		if !seen[w.Name] {
			seen[w.Name] = true
			names = append(names, w.Name)
		}
	}
	return names
}
