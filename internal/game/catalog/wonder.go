package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

// Acquisition is how a commercial wonder step helps the city get resources.
type Acquisition string

const (
	AcquisitionProduction Acquisition = "PRODUCTION" // a free optional resource
	AcquisitionTrade      Acquisition = "TRADE"      // cheaper neighbor prices
)

// StepCommercial configures a commercial wonder step.
type StepCommercial struct {
	Acquisition Acquisition
	Class       resource.Class
	Sides       []Side
	Price       int
}

// Step is one stage of a wonder board.
type Step struct {
	Cost       []resource.Quantity
	Effects    []StepEffect
	Rewards    []Reward
	Strength   int
	Commercial *StepCommercial
	Builder    Builder
}

// Has reports whether the step carries an effect.
func (s *Step) Has(e StepEffect) bool {
	return slices.Contains(s.Effects, e)
}

// Reward returns the reward quantity of a kind granted by the step.
func (s *Step) Reward(kind RewardKind) int {
	n := 0
	for _, r := range s.Rewards {
		if r.Kind == kind {
			n += r.Quantity
		}
	}
	return n
}

// Production returns the optional bundle granted by a production step.
func (s *Step) Production() []resource.Quantity {
	if s.Commercial == nil || s.Commercial.Acquisition != AcquisitionProduction {
		return nil
	}
	kinds := resource.KindsOf(s.Commercial.Class)
	out := make([]resource.Quantity, len(kinds))
	for i, k := range kinds {
		out[i] = resource.Quantity{Kind: k, Count: 1}
	}
	return out
}

// Wonder is one face of a wonder board.
type Wonder struct {
	ID           string
	Name         string
	Face         Face
	BaseResource resource.Kind
	Steps        []*Step
}

func (w *Wonder) String() string {
	return w.Name + " (" + string(w.Face) + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Acquisition) UnmarshalText(text []byte) error {
	v := Acquisition(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case AcquisitionProduction, AcquisitionTrade:
		*a = v
		return nil
	}
	return fmt.Errorf("unknown acquisition: %q", text)
}

// MarshalText implements encoding.TextMarshaler.
func (a Acquisition) MarshalText() ([]byte, error) { return []byte(a), nil }
