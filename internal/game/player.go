package game

import (
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// StartingCoins is the treasury of every player at game start.
const StartingCoins = 3

// Player is one seat at the table. Coins live here and are mutated through
// the player's City and WonderBoard.
type Player struct {
	ID     string
	Name   string
	Seat   int
	Human  bool
	Policy Policy

	City   *City
	Wonder *WonderBoard

	coins    int
	military int
	defeats  map[catalog.Side]int
	hand     []*catalog.Card

	playedThisRound int
	handAtRound     int
	pendingDiscard  bool
}

func newPlayer(id, name string, seat int) *Player {
	return &Player{
		ID:      id,
		Name:    name,
		Seat:    seat,
		coins:   StartingCoins,
		defeats: map[catalog.Side]int{catalog.SideWest: 0, catalog.SideEast: 0},
	}
}

// Coins returns the player's treasury.
func (p *Player) Coins() int {
	return p.coins
}

// MilitaryPoints returns the victory and defeat points won in conflicts.
func (p *Player) MilitaryPoints() int {
	return p.military
}

// DefeatTokens returns the defeats suffered against the neighbor on a side.
func (p *Player) DefeatTokens(side catalog.Side) int {
	return p.defeats[side]
}

// Defeats returns the total number of defeat tokens.
func (p *Player) Defeats() int {
	return p.defeats[catalog.SideWest] + p.defeats[catalog.SideEast]
}

// Hand returns a copy of the cards the player holds.
func (p *Player) Hand() []*catalog.Card {
	out := make([]*catalog.Card, len(p.hand))
	copy(out, p.hand)
	return out
}

// HandSize returns the number of cards held.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// Card returns a held card by ID.
func (p *Player) Card(id string) (*catalog.Card, bool) {
	for _, c := range p.hand {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// HasPendingDiscardBuild reports whether the player may build from the
// discard pile.
func (p *Player) HasPendingDiscardBuild() bool {
	return p.pendingDiscard
}

func (p *Player) removeFromHand(id string) {
	for i, c := range p.hand {
		if c.ID == id {
			p.hand = append(p.hand[:i:i], p.hand[i+1:]...)
			return
		}
	}
}

// canPlay reports whether the player may take an action this round. A
// second action is allowed for the last card of a hand when the wonder
// grants the extra build.
func (p *Player) canPlay() bool {
	switch p.playedThisRound {
	case 0:
		return len(p.hand) > 0
	case 1:
		return len(p.hand) == 1 && p.handAtRound == 2 && p.Wonder != nil && p.Wonder.HasExtraBuildBonus()
	default:
		return false
	}
}
