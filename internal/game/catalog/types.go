package catalog

import (
	"fmt"
	"strings"
)

// Category is the colour family of a card.
type Category string

const (
	CategoryResource   Category = "RESOURCE"
	CategoryMilitary   Category = "MILITARY"
	CategoryCivil      Category = "CIVIL"
	CategoryCommercial Category = "COMMERCIAL"
	CategoryScience    Category = "SCIENCE"
	CategoryGuild      Category = "GUILD"
)

// Categories lists every card category in display order.
func Categories() []Category {
	return []Category{
		CategoryResource,
		CategoryMilitary,
		CategoryCivil,
		CategoryCommercial,
		CategoryScience,
		CategoryGuild,
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v := Category(strings.ToUpper(strings.TrimSpace(string(text))))
	for _, known := range Categories() {
		if v == known {
			*c = v
			return nil
		}
	}
	return fmt.Errorf("unknown card category: %q", text)
}

// Symbol is one of the three science symbols.
type Symbol string

const (
	SymbolCompass Symbol = "COMPASS"
	SymbolGear    Symbol = "GEAR"
	SymbolTablet  Symbol = "TABLET"
)

// Symbols lists the science symbols.
func Symbols() []Symbol {
	return []Symbol{SymbolCompass, SymbolGear, SymbolTablet}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(text []byte) error {
	v := Symbol(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case SymbolCompass, SymbolGear, SymbolTablet:
		*s = v
		return nil
	}
	return fmt.Errorf("unknown science symbol: %q", text)
}

// RewardKind is what a bonus pays out.
type RewardKind string

const (
	RewardVP   RewardKind = "VP"
	RewardGold RewardKind = "GOLD"
)

// Reward is a quantity of victory points or coins.
type Reward struct {
	Kind     RewardKind
	Quantity int
}

func (r Reward) String() string {
	return fmt.Sprintf("%d %s", r.Quantity, strings.ToLower(string(r.Kind)))
}

// UnmarshalText parses rewards written as "3 vp" or "5 gold".
func (r *Reward) UnmarshalText(text []byte) error {
	fields := strings.Fields(string(text))
	if len(fields) != 2 {
		return fmt.Errorf("invalid reward: %q", text)
	}
	var qty int
	if _, err := fmt.Sscanf(fields[0], "%d", &qty); err != nil {
		return fmt.Errorf("invalid reward quantity in %q: %w", text, err)
	}
	switch strings.ToUpper(fields[1]) {
	case "VP", "POINTS":
		r.Kind = RewardVP
	case "GOLD", "COIN", "COINS":
		r.Kind = RewardGold
	default:
		return fmt.Errorf("unknown reward kind in %q", text)
	}
	r.Quantity = qty
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (r Reward) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// BonusType selects how a bonus card counts matches.
type BonusType string

const (
	BonusCard    BonusType = "CARD"    // cards of the target categories
	BonusWonder  BonusType = "WONDER"  // achieved wonder steps
	BonusDefeat  BonusType = "DEFEAT"  // military defeat tokens
	BonusScience BonusType = "SCIENCE" // one wildcard science symbol
	BonusFree    BonusType = "FREE"    // flat reward
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BonusType) UnmarshalText(text []byte) error {
	v := BonusType(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case BonusCard, BonusWonder, BonusDefeat, BonusScience, BonusFree:
		*b = v
		return nil
	}
	return fmt.Errorf("unknown bonus type: %q", text)
}

// Target is a city inspected by a bonus relative to its owner.
type Target string

const (
	TargetSelf  Target = "SELF"
	TargetLeft  Target = "LEFT"
	TargetRight Target = "RIGHT"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(text []byte) error {
	v := Target(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case TargetSelf, TargetLeft, TargetRight:
		*t = v
		return nil
	}
	return fmt.Errorf("unknown bonus target: %q", text)
}

// Side identifies a neighbor for trading purposes. West is the left seat.
type Side string

const (
	SideWest Side = "WEST"
	SideEast Side = "EAST"
)

// UnmarshalText implements encoding.TextUnmarshaler. "left" and "right"
// are accepted as aliases.
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToUpper(strings.TrimSpace(string(text))) {
	case "WEST", "LEFT":
		*s = SideWest
	case "EAST", "RIGHT":
		*s = SideEast
	default:
		return fmt.Errorf("unknown side: %q", text)
	}
	return nil
}

// Face is the printed side of a wonder board.
type Face string

const (
	FaceA Face = "A"
	FaceB Face = "B"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Face) UnmarshalText(text []byte) error {
	v := Face(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case FaceA, FaceB:
		*f = v
		return nil
	}
	return fmt.Errorf("unknown wonder face: %q", text)
}

// StepEffect tags the kinds of effect a wonder step carries.
type StepEffect string

const (
	EffectBonus      StepEffect = "BONUS"
	EffectWar        StepEffect = "WAR"
	EffectScience    StepEffect = "SCIENCE"
	EffectCommercial StepEffect = "COMMERCIAL"
	EffectGuild      StepEffect = "GUILD"
	EffectBuilder    StepEffect = "BUILDER"
)

// Builder is a build-related wonder ability.
type Builder string

const (
	BuilderNone    Builder = ""
	BuilderFree    Builder = "FREE_BUILD"    // one free build per age
	BuilderExtra   Builder = "EXTRA_BUILD"   // play the last card of each age
	BuilderDiscard Builder = "DISCARD_BUILD" // build a card from the discard pile
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Builder) UnmarshalText(text []byte) error {
	v := Builder(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case BuilderNone, BuilderFree, BuilderExtra, BuilderDiscard:
		*b = v
		return nil
	case "GARBAGE_BUILD":
		*b = BuilderDiscard
		return nil
	}
	return fmt.Errorf("unknown builder ability: %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) { return []byte(c), nil }

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) { return []byte(s), nil }

// MarshalText implements encoding.TextMarshaler.
func (b BonusType) MarshalText() ([]byte, error) { return []byte(b), nil }

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) { return []byte(t), nil }

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) { return []byte(s), nil }

// MarshalText implements encoding.TextMarshaler.
func (f Face) MarshalText() ([]byte, error) { return []byte(f), nil }

// MarshalText implements encoding.TextMarshaler.
func (b Builder) MarshalText() ([]byte, error) { return []byte(b), nil }
