package resource

import "strings"

// Bundle maps resource kinds to amounts. Bundles are treated as values:
// every operation returning a Bundle returns a fresh map.
type Bundle map[Kind]int

// NewBundle sums a list of quantities into a bundle.
func NewBundle(qs ...Quantity) Bundle {
	b := make(Bundle, len(qs))
	for _, q := range qs {
		if q.Count > 0 {
			b[q.Kind] += q.Count
		}
	}
	return b
}

// Clone returns a copy of the bundle.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Get returns the amount of a kind (0 when absent or nil bundle).
func (b Bundle) Get(k Kind) int {
	if b == nil {
		return 0
	}
	return b[k]
}

// Plus returns a new bundle holding b + other.
func (b Bundle) Plus(other Bundle) Bundle {
	out := b.Clone()
	for k, v := range other {
		out[k] += v
	}
	return out
}

// With returns a new bundle with the given quantities added.
func (b Bundle) With(qs ...Quantity) Bundle {
	out := b.Clone()
	for _, q := range qs {
		if q.Count > 0 {
			out[q.Kind] += q.Count
		}
	}
	return out
}

// Total returns the number of units across all kinds.
func (b Bundle) Total() int {
	n := 0
	for _, v := range b {
		n += v
	}
	return n
}

// Covers reports whether b holds at least the amounts in want.
func (b Bundle) Covers(want Bundle) bool {
	for k, v := range want {
		if v > 0 && b.Get(k) < v {
			return false
		}
	}
	return true
}

// Quantities returns the non-zero entries in canonical kind order.
func (b Bundle) Quantities() []Quantity {
	out := make([]Quantity, 0, len(b))
	for _, k := range append(TradeableKinds(), Gold) {
		if v := b.Get(k); v > 0 {
			out = append(out, Quantity{Kind: k, Count: v})
		}
	}
	return out
}

func (b Bundle) String() string {
	qs := b.Quantities()
	parts := make([]string, len(qs))
	for i, q := range qs {
		parts[i] = q.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Merge sums quantities of the same kind and drops zero entries.
func Merge(qs []Quantity) []Quantity {
	return NewBundle(qs...).Quantities()
}

// Missing returns what want asks for beyond b, as a bundle of deltas.
func (b Bundle) Missing(want Bundle) Bundle {
	out := Bundle{}
	for k, v := range want {
		if d := v - b.Get(k); d > 0 {
			out[k] = d
		}
	}
	return out
}
