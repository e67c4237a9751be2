package resource

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind represents a type of resource produced or required by a card.
type Kind string

const (
	Clay    Kind = "CLAY"
	Ore     Kind = "ORE"
	Stone   Kind = "STONE"
	Wood    Kind = "WOOD"
	Glass   Kind = "GLASS"
	Loom    Kind = "LOOM"
	Papyrus Kind = "PAPYRUS"
	Gold    Kind = "GOLD" // Currency, never produced by the tree nor traded
)

// Class groups tradeable resources for pricing purposes.
type Class int

const (
	ClassRaw Class = iota
	ClassManufactured
)

func (c Class) String() string {
	switch c {
	case ClassRaw:
		return "RAW"
	case ClassManufactured:
		return "MANUFACTURED"
	default:
		return fmt.Sprintf("CLASS_%d", int(c))
	}
}

// ParseClass parses "raw" or "manufactured" (case-insensitive).
func ParseClass(s string) (Class, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RAW":
		return ClassRaw, nil
	case "MANUFACTURED":
		return ClassManufactured, nil
	default:
		return 0, fmt.Errorf("unknown resource class: %q", s)
	}
}

// RawKinds lists the raw resources in canonical order.
func RawKinds() []Kind {
	return []Kind{Clay, Ore, Stone, Wood}
}

// ManufacturedKinds lists the manufactured resources in canonical order.
func ManufacturedKinds() []Kind {
	return []Kind{Glass, Loom, Papyrus}
}

// TradeableKinds lists every resource that can be produced and traded.
func TradeableKinds() []Kind {
	return append(RawKinds(), ManufacturedKinds()...)
}

// KindsOf returns the resources belonging to a class.
func KindsOf(c Class) []Kind {
	if c == ClassManufactured {
		return ManufacturedKinds()
	}
	return RawKinds()
}

// IsRaw reports whether the kind is a raw resource.
func (k Kind) IsRaw() bool {
	switch k {
	case Clay, Ore, Stone, Wood:
		return true
	}
	return false
}

// IsManufactured reports whether the kind is a manufactured resource.
func (k Kind) IsManufactured() bool {
	switch k {
	case Glass, Loom, Papyrus:
		return true
	}
	return false
}

// Class returns the pricing class of a tradeable kind. Gold reports raw.
func (k Kind) Class() Class {
	if k.IsManufactured() {
		return ClassManufactured
	}
	return ClassRaw
}

// ParseKind parses a resource name such as "wood" or "PAPYRUS".
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case Clay, Ore, Stone, Wood, Glass, Loom, Papyrus, Gold:
		return k, nil
	}
	switch k {
	case "COIN", "COINS":
		return Gold, nil
	}
	return "", fmt.Errorf("unknown resource: %q", s)
}

// Quantity associates a resource kind with an amount.
type Quantity struct {
	Kind  Kind
	Count int
}

func (q Quantity) String() string {
	if q.Count == 1 {
		return strings.ToLower(string(q.Kind))
	}
	return fmt.Sprintf("%d %s", q.Count, strings.ToLower(string(q.Kind)))
}

// ParseQuantity parses quantities written as "wood", "2 stone" or "stone:2".
func ParseQuantity(s string) (Quantity, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quantity{}, fmt.Errorf("empty resource quantity")
	}

	count := 1
	name := s
	if before, after, ok := strings.Cut(s, ":"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return Quantity{}, fmt.Errorf("invalid count in %q: %w", s, err)
		}
		count, name = n, before
	} else if fields := strings.Fields(s); len(fields) == 2 {
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return Quantity{}, fmt.Errorf("invalid count in %q: %w", s, err)
		}
		count, name = n, fields[1]
	}

	if count < 0 {
		return Quantity{}, fmt.Errorf("negative count in %q", s)
	}
	kind, err := ParseKind(name)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Kind: kind, Count: count}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler so catalog files can
// write quantities as "2 stone".
func (q *Quantity) UnmarshalText(text []byte) error {
	parsed, err := ParseQuantity(string(text))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k), nil
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MarshalText implements encoding.TextMarshaler.
func (q Quantity) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}
