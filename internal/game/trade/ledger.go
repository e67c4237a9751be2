package trade

import "github.com/wondersgame/wonders-server-go/internal/game/resource"

// Ledger records what a city bought from one neighbor this round, and how
// much of it earlier plays already consumed. Totals only grow until Reset.
type Ledger struct {
	bought resource.Bundle
	spent  resource.Bundle
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{bought: resource.Bundle{}, spent: resource.Bundle{}}
}

// Bought returns a copy of the totals.
func (l *Ledger) Bought() resource.Bundle {
	return l.bought.Clone()
}

// Get returns the bought amount of a kind.
func (l *Ledger) Get(k resource.Kind) int {
	return l.bought.Get(k)
}

// Available returns the bought amount of a kind not yet consumed by a play.
func (l *Ledger) Available(k resource.Kind) int {
	return l.bought.Get(k) - l.spent.Get(k)
}

// Unspent returns the bought units not yet consumed by a play.
func (l *Ledger) Unspent() resource.Bundle {
	return l.spent.Missing(l.bought)
}

// Pending returns the part of a round total that earlier plays have not
// consumed, which is what the current play draws from the neighbor.
func (l *Ledger) Pending(wanted resource.Bundle) resource.Bundle {
	return l.spent.Missing(wanted)
}

// Increment returns the units of wanted not yet covered by the ledger.
func (l *Ledger) Increment(wanted resource.Bundle) resource.Bundle {
	return l.bought.Missing(wanted)
}

// Raise lifts every total to at least the wanted amount.
func (l *Ledger) Raise(wanted resource.Bundle) {
	for k, n := range wanted {
		if n > l.bought[k] {
			l.bought[k] = n
		}
	}
}

// SpendAll marks every bought unit as consumed. Bought totals are kept, so
// buying the same total again is free but grants nothing new.
func (l *Ledger) SpendAll() {
	l.spent = l.bought.Clone()
}

// Clone returns an independent copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{bought: l.bought.Clone(), spent: l.spent.Clone()}
}

// Reset empties the ledger.
func (l *Ledger) Reset() {
	l.bought = resource.Bundle{}
	l.spent = resource.Bundle{}
}
