// Package ai holds the decision policies of the seats without a human
// player.
package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/wondersgame/wonders-server-go/internal/game"
	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

const (
	PolicyBaseline = "baseline"
	PolicyTrader   = "trader"
)

// ErrUnknownPolicy is returned by New for a name it does not know.
var ErrUnknownPolicy = errors.New("unknown policy")

var (
	_ game.Policy = (*Baseline)(nil)
	_ game.Policy = (*Trader)(nil)
)

// Names lists the policies New accepts.
func Names() []string {
	return []string{PolicyBaseline, PolicyTrader}
}

// New returns the policy registered under name. A zero seed is replaced by
// the clock.
func New(name string, seed uint64, logger *zap.Logger) (game.Policy, error) {
	switch strings.ToLower(name) {
	case PolicyBaseline, "":
		return NewBaseline(seed, logger), nil
	case PolicyTrader:
		return NewTrader(seed, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Baseline builds a random buildable card, else builds the wonder with a
// random card, else discards a random card.
type Baseline struct {
	rng    *rand.Rand
	logger *zap.Logger
}

// NewBaseline creates a Baseline policy.
func NewBaseline(seed uint64, logger *zap.Logger) *Baseline {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Baseline{
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
}

func (b *Baseline) Choose(_ *game.Game, p *game.Player) game.Move {
	hand := p.Hand()
	if len(hand) == 0 {
		return game.Move{Action: game.ActionDiscard}
	}

	var buildable []*catalog.Card
	for _, c := range hand {
		if p.City.IsBuildable(c, false) {
			buildable = append(buildable, c)
		}
	}
	if len(buildable) > 0 {
		return game.Move{Action: game.ActionBuild, CardID: b.pick(buildable).ID}
	}
	if p.Wonder != nil && p.Wonder.IsNextStepBuildable() {
		return game.Move{Action: game.ActionBuildWonder, CardID: b.pick(hand).ID}
	}
	return game.Move{Action: game.ActionDiscard, CardID: b.pick(hand).ID}
}

func (b *Baseline) ChooseDiscardBuild(_ *game.Game, _ *game.Player, candidates []*catalog.Card) *catalog.Card {
	if len(candidates) == 0 {
		return nil
	}
	return b.pick(candidates)
}

func (b *Baseline) ChooseGuild(_ *game.Game, p *game.Player, candidates []*catalog.Card) *catalog.Card {
	return game.BestGuild(p, candidates)
}

func (b *Baseline) pick(cards []*catalog.Card) *catalog.Card {
	return cards[b.rng.Intn(len(cards))]
}
