package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

//go:embed data/cards.yaml
var defaultCards []byte

//go:embed data/wonders.yaml
var defaultWonders []byte

// cardRecord is one entry of a cards file. A record lists every player
// count at which a copy of the card enters the deck.
type cardRecord struct {
	Name       string              `mapstructure:"name"`
	Category   Category            `mapstructure:"category"`
	Age        int                 `mapstructure:"age"`
	Players    []int               `mapstructure:"players"`
	Cost       []resource.Quantity `mapstructure:"cost"`
	ChainFrom  []string            `mapstructure:"chain_from"`
	Production *Production         `mapstructure:"production"`
	Strength   int                 `mapstructure:"strength"`
	Points     int                 `mapstructure:"points"`
	Discount   *Discount           `mapstructure:"discount"`
	Bonus      *Bonus              `mapstructure:"bonus"`
	Symbol     Symbol              `mapstructure:"symbol"`
}

type wonderRecord struct {
	Name  string                `mapstructure:"name"`
	Base  resource.Kind         `mapstructure:"base"`
	Sides map[Face][]stepRecord `mapstructure:"sides"`
}

type stepRecord struct {
	Cost       []resource.Quantity `mapstructure:"cost"`
	Rewards    []Reward            `mapstructure:"rewards"`
	Strength   int                 `mapstructure:"strength"`
	Science    bool                `mapstructure:"science"`
	Production *resource.Class     `mapstructure:"production"`
	Trade      *Discount           `mapstructure:"trade"`
	GuildCopy  bool                `mapstructure:"guild_copy"`
	Builder    Builder             `mapstructure:"builder"`
}

// Default returns the catalog embedded in the binary: the base game for
// three to seven players.
func Default() (*Catalog, error) {
	return Load(bytes.NewReader(defaultCards), bytes.NewReader(defaultWonders))
}

// LoadFiles reads the catalog from disk. An empty path selects the
// embedded definitions for that half.
func LoadFiles(cardsPath, wondersPath string) (*Catalog, error) {
	cards, err := openOrDefault(cardsPath, defaultCards)
	if err != nil {
		return nil, err
	}
	wonders, err := openOrDefault(wondersPath, defaultWonders)
	if err != nil {
		return nil, err
	}
	return Load(cards, wonders)
}

func openOrDefault(path string, fallback []byte) (io.Reader, error) {
	if path == "" {
		return bytes.NewReader(fallback), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Load decodes card and wonder definitions. Both YAML and JSON documents
// are accepted.
func Load(cards, wonders io.Reader) (*Catalog, error) {
	var cf struct {
		Cards []cardRecord `mapstructure:"cards"`
	}
	if err := decode(cards, &cf); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}
	var wf struct {
		Wonders []wonderRecord `mapstructure:"wonders"`
	}
	if err := decode(wonders, &wf); err != nil {
		return nil, fmt.Errorf("failed to decode wonders: %w", err)
	}

	var all []*Card
	for _, rec := range cf.Cards {
		if len(rec.Players) == 0 {
			return nil, fmt.Errorf("%w: card %q lists no player counts", ErrInvalid, rec.Name)
		}
		for _, n := range rec.Players {
			all = append(all, rec.card(n))
		}
	}

	var boards []*Wonder
	for _, rec := range wf.Wonders {
		for _, face := range []Face{FaceA, FaceB} {
			steps, ok := rec.Sides[face]
			if !ok {
				continue
			}
			w := &Wonder{
				ID:           slug(rec.Name) + "-" + strings.ToLower(string(face)),
				Name:         rec.Name,
				Face:         face,
				BaseResource: rec.Base,
			}
			for _, s := range steps {
				w.Steps = append(w.Steps, s.step())
			}
			boards = append(boards, w)
		}
	}

	return New(all, boards)
}

func (r cardRecord) card(players int) *Card {
	return &Card{
		ID:         fmt.Sprintf("%s-%d-%d", slug(r.Name), r.Age, players),
		Name:       r.Name,
		Category:   r.Category,
		Age:        r.Age,
		MinPlayers: players,
		Cost: Cost{
			Resources: r.Cost,
			ChainFrom: r.ChainFrom,
		},
		Production: r.Production,
		Strength:   r.Strength,
		Points:     r.Points,
		Discount:   r.Discount,
		Bonus:      r.Bonus,
		Symbol:     r.Symbol,
	}
}

func (r stepRecord) step() *Step {
	s := &Step{
		Cost:     r.Cost,
		Rewards:  r.Rewards,
		Strength: r.Strength,
		Builder:  r.Builder,
	}
	if len(r.Rewards) > 0 {
		s.Effects = append(s.Effects, EffectBonus)
	}
	if r.Strength > 0 {
		s.Effects = append(s.Effects, EffectWar)
	}
	if r.Science {
		s.Effects = append(s.Effects, EffectScience)
	}
	switch {
	case r.Production != nil:
		s.Commercial = &StepCommercial{Acquisition: AcquisitionProduction, Class: *r.Production}
		s.Effects = append(s.Effects, EffectCommercial)
	case r.Trade != nil:
		s.Commercial = &StepCommercial{
			Acquisition: AcquisitionTrade,
			Class:       r.Trade.Class,
			Sides:       r.Trade.Sides,
			Price:       r.Trade.Price,
		}
		s.Effects = append(s.Effects, EffectCommercial)
	}
	if r.GuildCopy {
		s.Effects = append(s.Effects, EffectGuild)
	}
	if r.Builder != BuilderNone {
		s.Effects = append(s.Effects, EffectBuilder)
	}
	return s
}

func decode(r io.Reader, out any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			scalarToSliceHook,
			mapstructure.TextUnmarshallerHookFunc(),
		),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(doc)
}

// scalarToSliceHook lets single values stand for one-element lists, so a
// file may write `cost: wood` or `players: 3`.
func scalarToSliceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() != reflect.Slice {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return data, nil
	}
	return []any{data}, nil
}

func slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}
