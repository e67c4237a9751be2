package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// ActionCode tells the caller what to do after a wonder step is built.
type ActionCode int

const (
	CodeNone             ActionCode = 0
	CodeRefreshCoins     ActionCode = 1
	CodeChooseGuild      ActionCode = 2
	CodeBuildFromDiscard ActionCode = 3
)

var actionCodeNames = map[ActionCode]string{
	CodeNone:             "NONE",
	CodeRefreshCoins:     "REFRESH_COINS",
	CodeChooseGuild:      "CHOOSE_GUILD",
	CodeBuildFromDiscard: "BUILD_FROM_DISCARD",
}

func (a ActionCode) String() string {
	if name, ok := actionCodeNames[a]; ok {
		return name
	}
	return fmt.Sprintf("CODE_%d", int(a))
}

// WonderBoard tracks the progression of a player's wonder. Steps are built
// in order; the board is complete once every step is achieved.
type WonderBoard struct {
	def    *catalog.Wonder
	city   *City
	logger *zap.Logger

	achieved   int
	sacrificed []*catalog.Card
}

func newWonderBoard(def *catalog.Wonder, city *City, logger *zap.Logger) *WonderBoard {
	return &WonderBoard{def: def, city: city, logger: logger}
}

// Definition returns the wonder face being built.
func (w *WonderBoard) Definition() *catalog.Wonder {
	return w.def
}

// AchievedSteps returns the number of steps built.
func (w *WonderBoard) AchievedSteps() int {
	return w.achieved
}

// IsComplete reports whether every step is built.
func (w *WonderBoard) IsComplete() bool {
	return w.achieved >= len(w.def.Steps)
}

// Next returns the next step to build.
func (w *WonderBoard) Next() (*catalog.Step, bool) {
	if w.IsComplete() {
		return nil, false
	}
	return w.def.Steps[w.achieved], true
}

// PreviousStep returns the last achieved step.
func (w *WonderBoard) PreviousStep() (*catalog.Step, bool) {
	if w.achieved == 0 {
		return nil, false
	}
	return w.def.Steps[w.achieved-1], true
}

// IsNextStepBuildable reports whether some production path, with the trade
// ledgers, covers the next step.
func (w *WonderBoard) IsNextStepBuildable() bool {
	step, ok := w.Next()
	if !ok {
		return false
	}
	_, ok = w.city.satisfyingLeaf(step.Cost)
	return ok
}

// MissingForNextStep returns the shortfall of the production path closest
// to covering the next step.
func (w *WonderBoard) MissingForNextStep() []resource.Quantity {
	step, ok := w.Next()
	if !ok {
		return nil
	}
	var best []resource.Quantity
	for i, leaf := range w.city.tree.Leaves() {
		missing := w.city.MissingResources(leaf, step.Cost)
		if i == 0 || resource.NewBundle(missing...).Total() < resource.NewBundle(best...).Total() {
			best = missing
		}
	}
	return best
}

// Build sacrifices card to build the next step and applies the step's
// effects. It fails without any change when the step cannot be built.
func (w *WonderBoard) Build(card *catalog.Card) (ActionCode, error) {
	step, ok := w.Next()
	if !ok {
		return CodeNone, ErrWonderComplete
	}
	if !w.IsNextStepBuildable() {
		return CodeNone, fmt.Errorf("%w: step %d of %s", ErrStepNotBuildable, w.achieved+1, w.def)
	}

	w.achieved++
	w.sacrificed = append(w.sacrificed, card)
	code := w.apply(step)

	w.logger.Debug("wonder step built",
		zap.String("player_id", w.city.owner.ID),
		zap.String("wonder", w.def.Name),
		zap.Int("step", w.achieved),
		zap.String("card", card.Name),
		zap.Stringer("code", code),
	)
	return code, nil
}

func (w *WonderBoard) apply(step *catalog.Step) ActionCode {
	code := CodeNone
	raise := func(c ActionCode) {
		if c > code {
			code = c
		}
	}

	if gold := step.Reward(catalog.RewardGold); gold > 0 {
		w.city.owner.coins += gold
		raise(CodeRefreshCoins)
	}
	if step.Commercial != nil {
		switch step.Commercial.Acquisition {
		case catalog.AcquisitionProduction:
			w.city.addProduction(step.Production(), true, false)
		case catalog.AcquisitionTrade:
			w.city.prices.Reduce(step.Commercial.Class, step.Commercial.Sides, step.Commercial.Price)
		}
	}
	if step.Has(catalog.EffectGuild) {
		raise(CodeChooseGuild)
	}
	if step.Builder == catalog.BuilderDiscard {
		raise(CodeBuildFromDiscard)
	}
	return code
}

func (w *WonderBoard) achievedSteps() []*catalog.Step {
	return w.def.Steps[:w.achieved]
}

// Points returns the victory points of the achieved steps.
func (w *WonderBoard) Points() int {
	total := 0
	for _, s := range w.achievedSteps() {
		total += s.Reward(catalog.RewardVP)
	}
	return total
}

// WarPoints returns the shields of the achieved steps.
func (w *WonderBoard) WarPoints() int {
	total := 0
	for _, s := range w.achievedSteps() {
		total += s.Strength
	}
	return total
}

// ScienceBonuses returns the wildcard science symbols granted so far.
func (w *WonderBoard) ScienceBonuses() int {
	n := 0
	for _, s := range w.achievedSteps() {
		if s.Has(catalog.EffectScience) {
			n++
		}
	}
	return n
}

// HasScienceBonus reports whether a science step is achieved.
func (w *WonderBoard) HasScienceBonus() bool {
	return w.ScienceBonuses() > 0
}

func (w *WonderBoard) hasBuilder(b catalog.Builder) bool {
	for _, s := range w.achievedSteps() {
		if s.Builder == b {
			return true
		}
	}
	return false
}

// HasExtraBuildBonus reports whether the player may play the last card of a hand.
func (w *WonderBoard) HasExtraBuildBonus() bool {
	return w.hasBuilder(catalog.BuilderExtra)
}

// HasFreeBuildBonus reports whether the player has one free build per age.
func (w *WonderBoard) HasFreeBuildBonus() bool {
	return w.hasBuilder(catalog.BuilderFree)
}

// HasDiscardBuildBonus reports whether a build-from-discard step is achieved.
func (w *WonderBoard) HasDiscardBuildBonus() bool {
	return w.hasBuilder(catalog.BuilderDiscard)
}

// HasGuildCopy reports whether the guild copy step is achieved.
func (w *WonderBoard) HasGuildCopy() bool {
	for _, s := range w.achievedSteps() {
		if s.Has(catalog.EffectGuild) {
			return true
		}
	}
	return false
}
