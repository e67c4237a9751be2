package game

import (
	"fmt"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// Action is the kind of move a player makes with a card.
type Action int

const (
	ActionBuild Action = iota
	ActionBuildWonder
	ActionDiscard
)

var actionNames = map[Action]string{
	ActionBuild:       "BUILD",
	ActionBuildWonder: "BUILD_WONDER",
	ActionDiscard:     "DISCARD",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(a))
}

// Move is a card and what to do with it. Purchases, when present, are
// bought from the neighbors before the card is played.
type Move struct {
	Action    Action
	CardID    string
	Purchases map[catalog.Side]resource.Bundle
}

// Policy decides for a seat without a human player.
type Policy interface {
	// Choose returns the move for the current round.
	Choose(g *Game, p *Player) Move
	// ChooseDiscardBuild picks a card to build for free from the discard
	// pile, or nil to pass.
	ChooseDiscardBuild(g *Game, p *Player, candidates []*catalog.Card) *catalog.Card
	// ChooseGuild picks the neighbor guild to copy, or nil to pass.
	ChooseGuild(g *Game, p *Player, candidates []*catalog.Card) *catalog.Card
}
