package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

func loadDefault(t *testing.T) *Catalog {
	t.Helper()
	c, err := Default()
	require.NoError(t, err)
	return c
}

func TestDefault_DealsSevenCardsPerPlayer(t *testing.T) {
	c := loadDefault(t)

	for players := MinPlayers; players <= MaxPlayers; players++ {
		assert.Len(t, c.Cards(players, 1), 7*players, "age 1, %d players", players)
		assert.Len(t, c.Cards(players, 2), 7*players, "age 2, %d players", players)

		guilds := 0
		for _, card := range c.Cards(players, 3) {
			if card.Category == CategoryGuild {
				guilds++
			}
		}
		assert.Equal(t, 10, guilds)
		assert.Len(t, c.Cards(players, 3), 7*players-(players+2)+guilds, "age 3, %d players", players)
	}
	assert.Len(t, c.All(), 148)
}

func TestDefault_Wonders(t *testing.T) {
	c := loadDefault(t)

	assert.Len(t, c.WonderNames(), 7)
	assert.Len(t, c.Wonders(FaceA), 7)
	assert.Len(t, c.Wonders(FaceB), 7)

	giza, err := c.Wonder("Pyramids of Giza", FaceB)
	require.NoError(t, err)
	assert.Equal(t, resource.Stone, giza.BaseResource)
	require.Len(t, giza.Steps, 4)
	assert.Equal(t, 7, giza.Steps[3].Reward(RewardVP))

	olympia, err := c.Wonder("Statue of Zeus in Olympia", FaceB)
	require.NoError(t, err)
	trade := olympia.Steps[0]
	require.True(t, trade.Has(EffectCommercial))
	assert.Equal(t, AcquisitionTrade, trade.Commercial.Acquisition)
	assert.Equal(t, []Side{SideWest, SideEast}, trade.Commercial.Sides)
	assert.True(t, olympia.Steps[2].Has(EffectGuild))

	alexandria, err := c.Wonder("Lighthouse of Alexandria", FaceB)
	require.NoError(t, err)
	assert.Len(t, alexandria.Steps[0].Production(), 4)
	assert.Len(t, alexandria.Steps[1].Production(), 3)

	_, err = c.Wonder("Atlantis", FaceA)
	assert.ErrorIs(t, err, ErrUnknownWonder)
}

func TestDefault_DecodesPayloads(t *testing.T) {
	c := loadDefault(t)

	sawmill, err := c.Card("sawmill-2-3")
	require.NoError(t, err)
	assert.Equal(t, 1, sawmill.Cost.Gold())
	assert.True(t, sawmill.Cost.GoldOnly())
	assert.Equal(t, []resource.Quantity{{Kind: resource.Wood, Count: 2}}, sawmill.Production.Resources)

	forum, err := c.Card("forum-2-6")
	require.NoError(t, err)
	assert.True(t, forum.IsDisguisedResource())
	assert.True(t, forum.Production.Optional)
	assert.False(t, forum.Production.Buyable)
	assert.True(t, forum.ChainsFrom("East Trading Post"))

	baths, err := c.Card("baths-1-3")
	require.NoError(t, err)
	assert.Contains(t, baths.ChainTo, "Aqueduct")

	workers, err := c.Card("workers-guild-3-3")
	require.NoError(t, err)
	require.NotNil(t, workers.Bonus)
	assert.True(t, workers.Bonus.Checks(TargetLeft))
	assert.False(t, workers.Bonus.Checks(TargetSelf))

	_, err = c.Card("missing")
	assert.ErrorIs(t, err, ErrUnknownCard)
}

func TestBonusWeight(t *testing.T) {
	raw := resource.ClassRaw
	manufactured := resource.ClassManufactured
	lumber := &Card{Category: CategoryResource, Production: &Production{Resources: []resource.Quantity{{Kind: resource.Wood, Count: 1}}}}
	loom := &Card{Category: CategoryResource, Production: &Production{Resources: []resource.Quantity{{Kind: resource.Loom, Count: 1}}}}
	barracks := &Card{Category: CategoryMilitary, Strength: 1}

	rawBonus := &Bonus{Type: BonusCard, Categories: []Category{CategoryResource}, Class: &raw}
	assert.Equal(t, 1, rawBonus.Weight(lumber))
	assert.Equal(t, 0, rawBonus.Weight(loom))

	manufacturedBonus := &Bonus{Type: BonusCard, Categories: []Category{CategoryResource}, Class: &manufactured}
	assert.Equal(t, 2, manufacturedBonus.Weight(loom))
	assert.Equal(t, 0, manufacturedBonus.Weight(lumber))

	anyResource := &Bonus{Type: BonusCard, Categories: []Category{CategoryResource, CategoryGuild}}
	assert.Equal(t, 1, anyResource.Weight(lumber))
	assert.Equal(t, 1, anyResource.Weight(loom))
	assert.Equal(t, 0, anyResource.Weight(barracks))

	military := &Bonus{Type: BonusCard, Categories: []Category{CategoryMilitary}}
	assert.Equal(t, 1, military.Weight(barracks))
}

func TestLoad_JSONDocument(t *testing.T) {
	cards := `{"cards": [` +
		`{"name": "Altar", "category": "civil", "age": 1, "players": [3], "points": 2},` +
		`{"name": "Temple", "category": "civil", "age": 2, "players": 3, "cost": ["wood", "clay", "glass"], "chain_from": "Altar", "points": 3}` +
		`]}`
	wonders := `{"wonders": [{"name": "Giza", "base": "stone", "sides": {"A": [` +
		`{"cost": ["2 stone"], "rewards": ["3 vp"]},` +
		`{"cost": ["3 wood"], "rewards": ["5 vp"]}` +
		`]}}]}`

	c, err := Load(strings.NewReader(cards), strings.NewReader(wonders))
	require.NoError(t, err)

	temple, err := c.Card("temple-2-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Altar"}, temple.Cost.ChainFrom)
	assert.Len(t, c.Wonders(FaceA), 1)
	assert.Empty(t, c.Wonders(FaceB))
}

func TestLoad_RejectsInvalidDefinitions(t *testing.T) {
	wonders := `wonders: []`
	tests := map[string]string{
		"unknown category":  `cards: [{name: X, category: bogus, age: 1, players: [3]}]`,
		"unknown field":     `cards: [{name: X, category: civil, age: 1, players: [3], points: 1, colour: blue}]`,
		"bad quantity":      `cards: [{name: X, category: civil, age: 1, players: [3], points: 1, cost: [3 marble]}]`,
		"missing payload":   `cards: [{name: X, category: military, age: 1, players: [3]}]`,
		"unknown chain":     `cards: [{name: X, category: civil, age: 2, players: [3], points: 1, chain_from: [Nope]}]`,
		"no player counts":  `cards: [{name: X, category: civil, age: 1, points: 1}]`,
		"player count high": `cards: [{name: X, category: civil, age: 1, players: [8], points: 1}]`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc), strings.NewReader(wonders))
			assert.Error(t, err)
		})
	}
}

func TestNew_RejectsShortWonder(t *testing.T) {
	w := &Wonder{
		ID: "w-a", Name: "W", Face: FaceA, BaseResource: resource.Wood,
		Steps: []*Step{{Effects: []StepEffect{EffectBonus}, Rewards: []Reward{{Kind: RewardVP, Quantity: 3}}}},
	}

	_, err := New(nil, []*Wonder{w})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestReward_UnmarshalText(t *testing.T) {
	var r Reward
	require.NoError(t, r.UnmarshalText([]byte("9 gold")))
	assert.Equal(t, Reward{Kind: RewardGold, Quantity: 9}, r)

	assert.Error(t, r.UnmarshalText([]byte("nine gold")))
	assert.Error(t, r.UnmarshalText([]byte("3 gems")))
}
