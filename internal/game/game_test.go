package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
)

func TestNewGameRejectsPlayerCount(t *testing.T) {
	cat := defaultCatalog(t)
	for _, n := range []int{0, 2, 8} {
		_, err := NewGame(Options{Players: n}, cat, zaptest.NewLogger(t))
		assert.ErrorIs(t, err, ErrInvalidPlayerCount, "players=%d", n)
	}
}

func TestNewGameSeatsNeighbors(t *testing.T) {
	g := newTestGame(t, 4, discardPolicy{})
	players := g.Players()
	require.Len(t, players, 4)

	for i, p := range players {
		assert.Equal(t, i, p.Seat)
		assert.Equal(t, StartingCoins, p.Coins())
		assert.Same(t, players[(i+3)%4].City, p.City.Neighbor(catalog.SideWest))
		assert.Same(t, players[(i+1)%4].City, p.City.Neighbor(catalog.SideEast))
	}
	assert.Equal(t, "Player 1", players[0].Name)
}

func TestNewGamePerSeatPolicies(t *testing.T) {
	g, err := NewGame(Options{
		Players:   3,
		HumanSeat: 0,
		Policy:    discardPolicy{},
		Policies:  []Policy{greedyPolicy{}, nil, greedyPolicy{}},
	}, defaultCatalog(t), zaptest.NewLogger(t))
	require.NoError(t, err)

	players := g.Players()
	assert.Nil(t, players[0].Policy)
	assert.Equal(t, discardPolicy{}, players[1].Policy)
	assert.Equal(t, greedyPolicy{}, players[2].Policy)
}

func TestStartDealsHandsAndWonders(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		g := newTestGame(t, n, discardPolicy{})
		require.NoError(t, g.Start())

		assert.Equal(t, StateInProgress, g.State())
		assert.Equal(t, 1, g.Age())
		assert.Equal(t, 1, g.Round())

		seen := make(map[string]bool)
		for _, p := range g.players {
			assert.Equal(t, StartingCardsNumber, p.HandSize())
			require.NotNil(t, p.Wonder)
			assert.False(t, seen[p.Wonder.Definition().Name])
			seen[p.Wonder.Definition().Name] = true
			assert.Equal(t, 1, p.City.Tree().Productions())
			assert.Equal(t, 1, p.City.Tree().Leaves()[0].Get(p.Wonder.Definition().BaseResource))
		}
		assert.ErrorIs(t, g.Start(), ErrGameStarted)
	}
}

func TestLastAgeKeepsPlayersPlusTwoGuilds(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	require.NoError(t, g.Start())
	g.startAge(LastAge)

	guilds := 0
	for _, p := range g.players {
		assert.Equal(t, StartingCardsNumber, p.HandSize())
		for _, c := range p.hand {
			assert.Equal(t, LastAge, c.Age)
			if c.Category == catalog.CategoryGuild {
				guilds++
			}
		}
	}
	assert.Equal(t, 5, guilds)
}

func TestSeedMakesDealsReproducible(t *testing.T) {
	deal := func() [][]string {
		g := newTestGame(t, 5, discardPolicy{})
		require.NoError(t, g.Start())
		var out [][]string
		for _, p := range g.players {
			out = append(out, append(cardIDs(p.hand), p.Wonder.Definition().ID))
		}
		return out
	}
	assert.Equal(t, deal(), deal())
}

func TestPlayBeforeStart(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	_, err := g.Play(g.players[0].ID, Move{Action: ActionDiscard})
	assert.ErrorIs(t, err, ErrGameNotStarted)
	assert.ErrorIs(t, g.EndTurn(), ErrGameNotStarted)
}

func humanGame(t *testing.T, policy Policy) (*Game, *Player) {
	t.Helper()
	g, err := NewGame(Options{
		Players:   3,
		HumanSeat: 0,
		Seed:      7,
		Face:      catalog.FaceA,
		Policy:    policy,
	}, defaultCatalog(t), zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, g.Start())
	return g, g.players[0]
}

func TestPlayDiscard(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})
	card := p.hand[0]

	code, err := g.Play(p.ID, Move{Action: ActionDiscard, CardID: card.ID})
	require.NoError(t, err)
	assert.Equal(t, CodeNone, code)
	assert.Equal(t, StartingCoins+DiscardedCardValue, p.Coins())
	assert.Equal(t, 6, p.HandSize())
	assert.Equal(t, []*catalog.Card{card}, g.DiscardPile())

	_, err = g.Play(p.ID, Move{Action: ActionDiscard, CardID: p.hand[0].ID})
	assert.ErrorIs(t, err, ErrAlreadyPlayed)
}

func TestPlayRejectsUnknownCardAndPlayer(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})

	_, err := g.Play(p.ID, Move{Action: ActionDiscard, CardID: "nope"})
	assert.ErrorIs(t, err, ErrCardNotInHand)
	_, err = g.Play("nobody", Move{Action: ActionDiscard, CardID: p.hand[0].ID})
	assert.ErrorIs(t, err, ErrUnknownPlayer)
	assert.Equal(t, StartingCardsNumber, p.HandSize())
}

func TestAllAIDiscardRound(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	require.NoError(t, g.Start())

	require.NoError(t, g.EndTurn())
	assert.Len(t, g.DiscardPile(), 3)
	for _, p := range g.players {
		assert.Equal(t, StartingCoins+DiscardedCardValue, p.Coins())
		assert.Equal(t, StartingCardsNumber-1, p.HandSize())
	}
	assert.Equal(t, 2, g.Round())
}

func TestEndTurnWaitsForHuman(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})

	err := g.EndTurn()
	assert.ErrorIs(t, err, ErrAwaitingPlayer)
	for _, q := range g.players {
		assert.Equal(t, StartingCardsNumber, q.HandSize())
	}

	_, err = g.Play(p.ID, Move{Action: ActionDiscard, CardID: p.hand[0].ID})
	require.NoError(t, err)
	require.NoError(t, g.EndTurn())
	assert.Len(t, g.DiscardPile(), 3)
}

func TestHandRotationDirection(t *testing.T) {
	for _, age := range []int{1, 2, 3} {
		g := newTestGame(t, 4, discardPolicy{})
		require.NoError(t, g.Start())
		g.age = age

		before := make([][]string, 4)
		for i, p := range g.players {
			before[i] = cardIDs(p.hand[1:])
		}
		require.NoError(t, g.EndTurn())

		for i, p := range g.players {
			from := (i + 3) % 4
			if age == 2 {
				from = (i + 1) % 4
			}
			assert.Equal(t, before[from], cardIDs(p.hand), "age %d seat %d", age, i)
		}
	}
}

func TestLastCardIsLost(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	require.NoError(t, g.Start())
	for _, p := range g.players {
		p.hand = p.hand[:2]
	}
	g.beginRound()

	require.NoError(t, g.EndTurn())
	assert.Len(t, g.DiscardPile(), 6)
	for _, p := range g.players {
		assert.Equal(t, StartingCoins+DiscardedCardValue, p.Coins())
	}

	lost := 0
	for _, e := range g.Events() {
		if e.Type == EventCardLost {
			lost++
		}
	}
	assert.Equal(t, 3, lost)
	assert.Equal(t, 2, g.Age())
}

func TestExtraBuildPlaysLastCard(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	require.NoError(t, g.Start())
	p := g.players[0]
	giveWonder(t, g, p, "Hanging Gardens of Babylon", catalog.FaceB).achieved = 2

	for _, q := range g.players {
		q.hand = q.hand[:2]
	}
	g.beginRound()

	require.NoError(t, g.EndTurn())
	assert.Equal(t, StartingCoins+2*DiscardedCardValue, p.Coins())
	assert.Equal(t, StartingCoins+DiscardedCardValue, g.players[1].Coins())
	assert.Len(t, g.DiscardPile(), 6)
}

func TestExtraBuildCannotReuseBoughtResources(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})
	west := g.Neighbor(p, catalog.SideWest)
	west.City.tree = resource.NewTree()
	west.City.tree.AddProduction([]resource.Quantity{qty(resource.Clay, 1)}, false, true)

	p.City.tree = resource.NewTree()
	giveWonder(t, g, p, "Hanging Gardens of Babylon", catalog.FaceB).achieved = 2
	produce(p, qty(resource.Clay, 1), qty(resource.Papyrus, 1))
	p.hand = []*catalog.Card{mustCard(t, g, "guard-tower-1-3"), mustCard(t, g, "altar-1-3")}
	p.coins = 6
	g.beginRound()
	clay := map[catalog.Side]resource.Bundle{catalog.SideWest: resource.NewBundle(qty(resource.Clay, 1))}

	_, err := g.Play(p.ID, Move{Action: ActionBuild, CardID: "guard-tower-1-3", Purchases: clay})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Coins())
	assert.Equal(t, 1, p.City.Ledger(catalog.SideWest).Get(resource.Clay))

	// own production renews, the bought clay does not
	assert.False(t, p.Wonder.IsNextStepBuildable())
	assert.Equal(t, []resource.Quantity{qty(resource.Clay, 1)}, p.Wonder.MissingForNextStep())

	_, err = g.Play(p.ID, Move{Action: ActionBuildWonder, CardID: "altar-1-3"})
	assert.ErrorIs(t, err, ErrStepNotBuildable)
	assert.Equal(t, 4, p.Coins())

	code, err := g.Play(p.ID, Move{Action: ActionBuildWonder, CardID: "altar-1-3", Purchases: clay})
	require.NoError(t, err)
	assert.Equal(t, CodeNone, code)
	assert.Equal(t, 2, p.Coins())
	assert.Equal(t, 3, p.Wonder.AchievedSteps())
	assert.Empty(t, p.Hand())
}

func TestConflicts(t *testing.T) {
	g := newTestGame(t, 3, nil)
	p0, p1, p2 := g.players[0], g.players[1], g.players[2]
	for _, id := range []string{"barracks-1-3", "stockade-1-3"} {
		_, err := p0.City.Build(mustCard(t, g, id), true)
		require.NoError(t, err)
	}
	_, err := p1.City.Build(mustCard(t, g, "guard-tower-1-3"), true)
	require.NoError(t, err)

	g.age = 1
	results := g.resolveConflicts()
	assert.Len(t, results, 6)
	assert.Equal(t, 2, p0.MilitaryPoints())
	assert.Equal(t, 0, p1.MilitaryPoints())
	assert.Equal(t, -2, p2.MilitaryPoints())
	assert.Equal(t, 1, p1.DefeatTokens(catalog.SideWest))
	assert.Equal(t, 2, p2.Defeats())

	g.age = 3
	g.resolveConflicts()
	assert.Equal(t, 12, p0.MilitaryPoints())
	assert.Equal(t, 4, p1.MilitaryPoints())
	assert.Equal(t, -4, p2.MilitaryPoints())
}

func TestConflictDraw(t *testing.T) {
	g := newTestGame(t, 3, nil)
	g.age = 2
	for _, r := range g.resolveConflicts() {
		assert.Equal(t, OutcomeDraw, r.Outcome)
		assert.Zero(t, r.Points)
	}
	for _, p := range g.players {
		assert.Zero(t, p.MilitaryPoints())
		assert.Zero(t, p.Defeats())
	}
}

func TestPlayWithPurchases(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})
	west := g.Neighbor(p, catalog.SideWest)
	west.City.tree.AddProduction([]resource.Quantity{qty(resource.Stone, 1)}, false, true)

	baths := mustCard(t, g, "baths-1-3")
	p.hand = append(p.hand[:0], baths, mustCard(t, g, "aqueduct-2-3"))
	p.City.tree = resource.NewTree()
	g.beginRound()
	westCoins := west.Coins()

	t.Run("build fails after a purchase", func(t *testing.T) {
		_, err := g.Play(p.ID, Move{
			Action:    ActionBuild,
			CardID:    "aqueduct-2-3",
			Purchases: map[catalog.Side]resource.Bundle{catalog.SideWest: resource.NewBundle(qty(resource.Stone, 1))},
		})
		assert.ErrorIs(t, err, ErrNotBuildable)
		assert.Equal(t, StartingCoins, p.Coins())
		assert.Equal(t, westCoins, west.Coins())
		assert.Zero(t, p.City.Ledger(catalog.SideWest).Bought().Total())
	})

	t.Run("purchase not available", func(t *testing.T) {
		_, err := g.Play(p.ID, Move{
			Action:    ActionBuild,
			CardID:    baths.ID,
			Purchases: map[catalog.Side]resource.Bundle{catalog.SideEast: resource.NewBundle(qty(resource.Ore, 3))},
		})
		assert.Error(t, err)
		assert.Equal(t, StartingCoins, p.Coins())
	})

	t.Run("purchase then build", func(t *testing.T) {
		_, err := g.Play(p.ID, Move{
			Action:    ActionBuild,
			CardID:    baths.ID,
			Purchases: map[catalog.Side]resource.Bundle{catalog.SideWest: resource.NewBundle(qty(resource.Stone, 1))},
		})
		require.NoError(t, err)
		assert.Equal(t, StartingCoins-2, p.Coins())
		assert.Equal(t, westCoins+2, west.Coins())
		assert.True(t, p.City.IsBuilt("Baths"))
	})
}

func TestBuildFromDiscard(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})
	altar := mustCard(t, g, "altar-1-3")

	assert.ErrorIs(t, g.BuildFromDiscard(p.ID, altar.ID), ErrNoPendingChoice)

	g.discard = append(g.discard, altar)
	p.pendingDiscard = true
	assert.ErrorIs(t, g.BuildFromDiscard(p.ID, "baths-1-3"), ErrNotInDiscard)
	assert.Equal(t, []*catalog.Card{altar}, g.DiscardCandidates(p))

	require.NoError(t, g.BuildFromDiscard(p.ID, altar.ID))
	assert.True(t, p.City.IsBuilt("Altar"))
	assert.Empty(t, g.DiscardPile())
	assert.False(t, p.HasPendingDiscardBuild())
}

func TestPolicyResolvesDiscardBuild(t *testing.T) {
	g := newTestGame(t, 3, greedyPolicy{})
	require.NoError(t, g.Start())
	p := g.players[0]
	g.discard = append(g.discard, mustCard(t, g, "aqueduct-2-3"))
	p.pendingDiscard = true

	require.NoError(t, g.EndTurn())
	assert.True(t, p.City.IsBuilt("Aqueduct"))
	assert.False(t, p.HasPendingDiscardBuild())
}

func TestChooseGuildToCopy(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})
	giveWonder(t, g, p, "Statue of Zeus in Olympia", catalog.FaceB).achieved = 3
	spies := mustCard(t, g, "spies-guild-3-3")

	assert.ErrorIs(t, g.ChooseGuildToCopy(p.ID, spies.ID), ErrGuildUnavailable)

	_, err := g.Neighbor(p, catalog.SideEast).City.Build(spies, true)
	require.NoError(t, err)
	require.NoError(t, g.ChooseGuildToCopy(p.ID, spies.ID))
	assert.Equal(t, spies, p.City.CopiedGuild())
}

func TestRunFullGame(t *testing.T) {
	for n := MinPlayers; n <= MaxPlayers; n++ {
		g := newTestGame(t, n, greedyPolicy{})
		rr := NewReplayRecorder(zaptest.NewLogger(t), t.TempDir())
		g.SetRecorder(rr)

		require.NoError(t, g.Run(context.Background()))
		assert.Equal(t, StateFinished, g.State())
		assert.Equal(t, LastAge, g.Age())

		built := 0
		for _, p := range g.players {
			assert.Zero(t, p.HandSize())
			built += len(p.City.Built()) + p.Wonder.AchievedSteps()
		}
		// every card is built, sacrificed or in the discard pile
		assert.Equal(t, 3*StartingCardsNumber*n, built+len(g.DiscardPile()))

		scores := g.Scores()
		require.Len(t, scores, n)
		for _, s := range scores {
			assert.Equal(t, s.Military+s.Treasure+s.Wonder+s.Civil+s.Commercial+s.Guild+s.Science, s.Total)
		}

		ranking := g.Ranking()
		for i := 1; i < len(ranking); i++ {
			assert.GreaterOrEqual(t, ranking[i-1].Total, ranking[i].Total)
		}
		assert.Equal(t, ranking[0], g.Winner())

		replay := rr.replays[g.ID]
		require.NotNil(t, replay)
		assert.Equal(t, 3*(StartingCardsNumber-1)+1, replay.Len())
		assert.Equal(t, StateFinished.String(), replay.Final().State)

		assert.ErrorIs(t, g.EndTurn(), ErrGameFinished)
	}
}

func TestRunStopsOnHumanSeat(t *testing.T) {
	g, _ := humanGame(t, greedyPolicy{})
	assert.ErrorIs(t, g.Run(context.Background()), ErrAwaitingPlayer)
}

func TestRunHonorsContext(t *testing.T) {
	g := newTestGame(t, 3, greedyPolicy{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

func TestWinnerTieBreak(t *testing.T) {
	g := newTestGame(t, 3, nil)
	assert.Equal(t, g.players[0].ID, g.Winner().PlayerID)

	g.players[2].coins = 5
	assert.Equal(t, g.players[2].ID, g.Winner().PlayerID)

	g.players[1].military = 1
	assert.Equal(t, g.players[1].ID, g.Winner().PlayerID)
}

func TestEventsAreLogged(t *testing.T) {
	g := newTestGame(t, 3, discardPolicy{})
	var seen []EventType
	g.SetEventHandler(func(e Event) { seen = append(seen, e.Type) })

	require.NoError(t, g.Start())
	require.NoError(t, g.EndTurn())

	assert.Equal(t, EventGameStarted, seen[0])
	assert.Contains(t, seen, EventAgeStarted)
	assert.Contains(t, seen, EventCardDiscarded)
	assert.Contains(t, seen, EventHandsRotated)
	assert.Len(t, g.Events(), len(seen))
}

func TestView(t *testing.T) {
	g, p := humanGame(t, discardPolicy{})

	v, err := g.View(p.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, v.GameID)
	assert.Len(t, v.Players, 3)
	assert.Len(t, v.Hand, StartingCardsNumber)
	assert.Equal(t, StateInProgress.String(), v.State)
	for _, pv := range v.Players {
		assert.Equal(t, StartingCardsNumber, pv.HandSize)
		assert.Equal(t, 2, pv.Prices.WestRaw)
		assert.NotEmpty(t, pv.Wonder)
	}
	for _, cv := range v.Hand {
		if cv.Buildable {
			assert.NotEmpty(t, cv.Method)
		}
	}

	_, err = g.View("nobody")
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}
