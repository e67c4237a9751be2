package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
	"github.com/wondersgame/wonders-server-go/internal/game/resource"
	"github.com/wondersgame/wonders-server-go/internal/game/trade"
)

const (
	MinPlayers          = catalog.MinPlayers
	MaxPlayers          = catalog.MaxPlayers
	StartingCardsNumber = 7
	LastAge             = catalog.Ages
)

// State is the lifecycle stage of a game.
type State int

const (
	StateSetup State = iota
	StateInProgress
	StateFinished
)

var stateNames = map[State]string{
	StateSetup:      "SETUP",
	StateInProgress: "IN_PROGRESS",
	StateFinished:   "FINISHED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STATE_%d", int(s))
}

// Options configures a new game.
type Options struct {
	Players   int
	Names     []string
	HumanSeat int          // seat played through Play; -1 when every seat has a policy
	Seed      uint64       // 0 seeds from the clock
	Face      catalog.Face // empty picks a random face for each player
	Policy    Policy       // decides for every seat but the human one
	Policies  []Policy     // per-seat override of Policy; nil entries keep Policy
}

// Game is the aggregate root of one play-through: seats, hands, discard
// pile, age and round. A Game is not safe for concurrent use.
type Game struct {
	ID string

	logger  *zap.Logger
	catalog *catalog.Catalog
	opts    Options
	rng     *rand.Rand

	players []*Player
	state   State
	age     int
	round   int
	discard []*catalog.Card

	events   []Event
	handler  EventHandler
	recorder *ReplayRecorder
}

// NewGame seats the players. The player count must be between MinPlayers
// and MaxPlayers.
func NewGame(opts Options, cat *catalog.Catalog, logger *zap.Logger) (*Game, error) {
	if opts.Players < MinPlayers || opts.Players > MaxPlayers {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPlayerCount, opts.Players)
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	g := &Game{
		ID:      uuid.NewString(),
		catalog: cat,
		opts:    opts,
		rng:     rand.New(rand.NewSource(seed)),
		state:   StateSetup,
		discard: make([]*catalog.Card, 0),
		events:  make([]Event, 0),
	}
	g.logger = logger.With(zap.String("game_id", g.ID))

	for i := 0; i < opts.Players; i++ {
		name := fmt.Sprintf("Player %d", i+1)
		if i < len(opts.Names) && opts.Names[i] != "" {
			name = opts.Names[i]
		}
		p := newPlayer(uuid.NewString(), name, i)
		p.Human = i == opts.HumanSeat
		if !p.Human {
			p.Policy = opts.Policy
			if i < len(opts.Policies) && opts.Policies[i] != nil {
				p.Policy = opts.Policies[i]
			}
		}
		p.City = newCity(p, g.logger)
		g.players = append(g.players, p)
	}
	n := len(g.players)
	for i, p := range g.players {
		p.City.west = g.players[(i-1+n)%n].City
		p.City.east = g.players[(i+1)%n].City
	}

	return g, nil
}

// Players returns the players in seat order.
func (g *Game) Players() []*Player {
	out := make([]*Player, len(g.players))
	copy(out, g.players)
	return out
}

// Player looks a player up by ID.
func (g *Game) Player(id string) (*Player, error) {
	for _, p := range g.players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, id)
}

// Neighbor returns the player seated on a side of p. West is seat-1.
func (g *Game) Neighbor(p *Player, side catalog.Side) *Player {
	n := len(g.players)
	if side == catalog.SideWest {
		return g.players[(p.Seat-1+n)%n]
	}
	return g.players[(p.Seat+1)%n]
}

// Age returns the current age (1..3).
func (g *Game) Age() int { return g.age }

// Round returns the current round within the age, starting at 1.
func (g *Game) Round() int { return g.round }

// State returns the lifecycle stage.
func (g *Game) State() State { return g.state }

// Catalog returns the definitions the game is played with.
func (g *Game) Catalog() *catalog.Catalog { return g.catalog }

// DiscardPile returns the discarded cards, oldest first.
func (g *Game) DiscardPile() []*catalog.Card {
	out := make([]*catalog.Card, len(g.discard))
	copy(out, g.discard)
	return out
}

// SetRecorder records a replay snapshot after every round.
func (g *Game) SetRecorder(rr *ReplayRecorder) {
	g.recorder = rr
}

// Start assigns the wonders and deals the first age.
func (g *Game) Start() error {
	if g.state != StateSetup {
		return ErrGameStarted
	}
	if err := g.assignWonders(); err != nil {
		return err
	}

	g.state = StateInProgress
	if g.recorder != nil {
		g.recorder.StartRecording(g.ID)
	}

	g.logger.Info("game started",
		zap.Int("players", len(g.players)),
	)
	g.emit(Event{Type: EventGameStarted, Detail: fmt.Sprintf("%d players", len(g.players))})

	g.startAge(1)
	g.record()
	return nil
}

// assignWonders gives each player a different wonder and seeds its city
// with the wonder's base resource.
func (g *Game) assignWonders() error {
	names := g.catalog.WonderNames()
	if len(names) < len(g.players) {
		return fmt.Errorf("%w: %d wonders for %d players", ErrNotEnoughWonders, len(names), len(g.players))
	}
	g.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	for i, p := range g.players {
		face := g.opts.Face
		if face == "" {
			face = catalog.FaceA
			if g.rng.Intn(2) == 1 {
				face = catalog.FaceB
			}
		}
		def, err := g.catalog.Wonder(names[i], face)
		if err != nil {
			other := catalog.FaceA
			if face == catalog.FaceA {
				other = catalog.FaceB
			}
			if def, err = g.catalog.Wonder(names[i], other); err != nil {
				return err
			}
		}

		p.Wonder = newWonderBoard(def, p.City, g.logger)
		p.City.tree.AddProduction([]resource.Quantity{{Kind: def.BaseResource, Count: 1}}, false, true)

		g.logger.Debug("wonder assigned",
			zap.String("player_id", p.ID),
			zap.String("wonder", def.String()),
		)
	}
	return nil
}

func (g *Game) startAge(age int) {
	g.age = age
	g.round = 1
	for _, p := range g.players {
		p.City.resetAge()
	}
	g.deal()

	g.logger.Info("age started",
		zap.Int("age", age),
		zap.Int("hand_size", g.players[0].HandSize()),
	)
	g.emit(Event{Type: EventAgeStarted})
	g.beginRound()
}

// deal shuffles the age deck and hands out StartingCardsNumber cards per
// player. In the last age the guilds are trimmed to players+2 first.
func (g *Game) deal() {
	n := len(g.players)
	cards := g.catalog.Cards(n, g.age)

	if g.age == LastAge {
		var guilds, rest []*catalog.Card
		for _, c := range cards {
			if c.Category == catalog.CategoryGuild {
				guilds = append(guilds, c)
			} else {
				rest = append(rest, c)
			}
		}
		g.rng.Shuffle(len(guilds), func(i, j int) { guilds[i], guilds[j] = guilds[j], guilds[i] })
		if keep := n + 2; len(guilds) > keep {
			guilds = guilds[:keep]
		}
		cards = append(rest, guilds...)
	}

	g.rng.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	size := StartingCardsNumber
	if len(cards)/n < size {
		size = len(cards) / n
	}
	for i, p := range g.players {
		p.hand = append([]*catalog.Card(nil), cards[i*size:(i+1)*size]...)
	}
}

func (g *Game) beginRound() {
	for _, p := range g.players {
		p.playedThisRound = 0
		p.handAtRound = len(p.hand)
	}
}

// Play applies a move for a player in the current round.
func (g *Game) Play(playerID string, move Move) (ActionCode, error) {
	if err := g.checkInProgress(); err != nil {
		return CodeNone, err
	}
	p, err := g.Player(playerID)
	if err != nil {
		return CodeNone, err
	}
	return g.play(p, move)
}

func (g *Game) checkInProgress() error {
	switch g.state {
	case StateSetup:
		return ErrGameNotStarted
	case StateFinished:
		return ErrGameFinished
	}
	return nil
}

func (g *Game) play(p *Player, move Move) (ActionCode, error) {
	if !p.canPlay() {
		return CodeNone, fmt.Errorf("%w: %s", ErrAlreadyPlayed, p.Name)
	}
	card, ok := p.Card(move.CardID)
	if !ok {
		return CodeNone, fmt.Errorf("%w: %s", ErrCardNotInHand, move.CardID)
	}

	restore := g.checkpoint(p)
	if err := g.buyPurchases(p, move.Purchases); err != nil {
		restore()
		return CodeNone, err
	}

	code := CodeNone
	switch move.Action {
	case ActionBuild:
		plan, err := p.City.Build(card, false)
		if err != nil {
			restore()
			return CodeNone, err
		}
		g.emit(Event{Type: EventCardBuilt, PlayerID: p.ID, Card: card.Name, Coins: -plan.Gold, Detail: plan.Method.String()})

	case ActionBuildWonder:
		c, err := p.Wonder.Build(card)
		if err != nil {
			restore()
			return CodeNone, err
		}
		code = c
		if code == CodeBuildFromDiscard {
			p.pendingDiscard = true
		}
		g.emit(Event{Type: EventWonderStepBuilt, PlayerID: p.ID, Card: card.Name, Detail: code.String()})

	case ActionDiscard:
		p.City.Discard(card)
		g.discard = append(g.discard, card)
		g.emit(Event{Type: EventCardDiscarded, PlayerID: p.ID, Card: card.Name, Coins: DiscardedCardValue})

	default:
		restore()
		return CodeNone, fmt.Errorf("unknown action: %s", move.Action)
	}

	p.City.consumePurchases()
	p.removeFromHand(card.ID)
	p.playedThisRound++
	return code, nil
}

// checkpoint captures what a purchase can change so a rejected move leaves
// no trace.
func (g *Game) checkpoint(p *Player) func() {
	coins := make(map[*Player]int, 3)
	for _, q := range []*Player{p, g.Neighbor(p, catalog.SideWest), g.Neighbor(p, catalog.SideEast)} {
		coins[q] = q.coins
	}
	ledgers := make(map[catalog.Side]*trade.Ledger, 2)
	for _, side := range trade.Sides() {
		ledgers[side] = p.City.ledgers[side].Clone()
	}
	return func() {
		for q, c := range coins {
			q.coins = c
		}
		for side, ledger := range ledgers {
			p.City.ledgers[side] = ledger
		}
	}
}

func (g *Game) buyPurchases(p *Player, purchases map[catalog.Side]resource.Bundle) error {
	for _, side := range trade.Sides() {
		units := purchases[side]
		if units.Total() == 0 {
			continue
		}
		if _, err := g.buy(p, side, p.City.Ledger(side).Bought().Plus(units)); err != nil {
			return err
		}
	}
	return nil
}

// Buy purchases resources for a player from a neighbor. wanted is the total
// bought from that side this round.
func (g *Game) Buy(playerID string, side catalog.Side, wanted resource.Bundle) (int, error) {
	if err := g.checkInProgress(); err != nil {
		return 0, err
	}
	p, err := g.Player(playerID)
	if err != nil {
		return 0, err
	}
	return g.buy(p, side, wanted)
}

func (g *Game) buy(p *Player, side catalog.Side, wanted resource.Bundle) (int, error) {
	cost, err := p.City.BuyResources(side, wanted)
	if err != nil {
		return 0, err
	}
	g.emit(Event{
		Type:     EventResourcesBought,
		PlayerID: p.ID,
		Coins:    -cost,
		Detail:   fmt.Sprintf("%s from %s", wanted, g.Neighbor(p, side).Name),
	})
	return cost, nil
}

// BuildFromDiscard builds a discarded card for free for a player whose
// wonder granted it.
func (g *Game) BuildFromDiscard(playerID, cardID string) error {
	if err := g.checkInProgress(); err != nil {
		return err
	}
	p, err := g.Player(playerID)
	if err != nil {
		return err
	}
	if !p.pendingDiscard {
		return ErrNoPendingChoice
	}
	for _, card := range g.discard {
		if card.ID == cardID {
			return g.buildFromDiscard(p, card)
		}
	}
	return fmt.Errorf("%w: %s", ErrNotInDiscard, cardID)
}

func (g *Game) buildFromDiscard(p *Player, card *catalog.Card) error {
	if _, err := p.City.Build(card, true); err != nil {
		return err
	}
	for i, c := range g.discard {
		if c == card {
			g.discard = append(g.discard[:i:i], g.discard[i+1:]...)
			break
		}
	}
	p.pendingDiscard = false
	g.emit(Event{Type: EventDiscardBuild, PlayerID: p.ID, Card: card.Name})
	return nil
}

// DiscardCandidates returns the discarded cards a player could build.
func (g *Game) DiscardCandidates(p *Player) []*catalog.Card {
	var out []*catalog.Card
	for _, card := range g.discard {
		if p.City.IsBuildable(card, true) {
			out = append(out, card)
		}
	}
	return out
}

// ChooseGuildToCopy copies a neighbor's guild for a player whose wonder
// granted it.
func (g *Game) ChooseGuildToCopy(playerID, cardID string) error {
	if g.state == StateSetup {
		return ErrGameNotStarted
	}
	p, err := g.Player(playerID)
	if err != nil {
		return err
	}
	for _, card := range p.City.GuildCandidates() {
		if card.ID == cardID {
			if err := p.City.CopyGuild(card); err != nil {
				return err
			}
			g.emit(Event{Type: EventGuildCopied, PlayerID: p.ID, Card: card.Name})
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrGuildUnavailable, cardID)
}

// EndTurn closes the round: seats with a policy play, unplayed last cards
// are lost, trade ledgers reset and hands rotate. When every hand is empty
// the conflicts are resolved and the next age starts, or the game ends.
func (g *Game) EndTurn() error {
	if err := g.checkInProgress(); err != nil {
		return err
	}
	for _, p := range g.players {
		if p.Policy == nil && p.playedThisRound == 0 && p.canPlay() {
			return fmt.Errorf("%w: %s", ErrAwaitingPlayer, p.Name)
		}
	}

	for _, p := range g.players {
		if p.Policy == nil {
			continue
		}
		for p.canPlay() {
			g.playPolicy(p)
		}
	}

	for _, p := range g.players {
		if len(p.hand) == 1 {
			card := p.hand[0]
			p.hand = nil
			g.discard = append(g.discard, card)
			g.emit(Event{Type: EventCardLost, PlayerID: p.ID, Card: card.Name})
		}
	}

	for _, p := range g.players {
		if p.Policy == nil || !p.pendingDiscard {
			continue
		}
		if choice := p.Policy.ChooseDiscardBuild(g, p, g.DiscardCandidates(p)); choice != nil {
			if err := g.buildFromDiscard(p, choice); err != nil {
				g.logger.Warn("discard build rejected",
					zap.String("player_id", p.ID),
					zap.String("card", choice.Name),
					zap.Error(err),
				)
			}
		}
		p.pendingDiscard = false
	}

	for _, p := range g.players {
		p.City.resetRound()
	}

	if g.handsEmpty() {
		g.endAge()
	} else {
		g.rotateHands()
		g.round++
		g.beginRound()
	}
	g.record()
	if g.state == StateFinished && g.recorder != nil {
		g.recorder.StopRecording(g.ID)
	}
	return nil
}

func (g *Game) playPolicy(p *Player) {
	move := p.Policy.Choose(g, p)
	_, err := g.play(p, move)
	if err == nil {
		return
	}
	g.logger.Warn("policy move rejected, discarding",
		zap.String("player_id", p.ID),
		zap.Stringer("action", move.Action),
		zap.String("card", move.CardID),
		zap.Error(err),
	)

	cardID := move.CardID
	if _, ok := p.Card(cardID); !ok {
		cardID = p.hand[0].ID
	}
	if _, err := g.play(p, Move{Action: ActionDiscard, CardID: cardID}); err != nil {
		g.logger.Error("fallback discard failed", zap.String("player_id", p.ID), zap.Error(err))
		p.playedThisRound++
	}
}

func (g *Game) handsEmpty() bool {
	for _, p := range g.players {
		if len(p.hand) > 0 {
			return false
		}
	}
	return true
}

// rotateHands passes hands to the next seat: player i receives the hand of
// player i-1 in odd ages and of player i+1 in even ages.
func (g *Game) rotateHands() {
	n := len(g.players)
	hands := make([][]*catalog.Card, n)
	for i, p := range g.players {
		hands[i] = p.hand
	}
	for i, p := range g.players {
		if g.age%2 == 0 {
			p.hand = hands[(i+1)%n]
		} else {
			p.hand = hands[(i-1+n)%n]
		}
	}
	g.emit(Event{Type: EventHandsRotated})
}

func (g *Game) endAge() {
	g.resolveConflicts()
	if g.age >= LastAge {
		g.finish()
		return
	}
	g.startAge(g.age + 1)
}

func (g *Game) finish() {
	for _, p := range g.players {
		p.pendingDiscard = false
		if p.Wonder == nil || !p.Wonder.HasGuildCopy() || p.City.copiedGuild != nil {
			continue
		}
		candidates := p.City.GuildCandidates()
		if len(candidates) == 0 {
			continue
		}
		var choice *catalog.Card
		if p.Policy != nil {
			choice = p.Policy.ChooseGuild(g, p, candidates)
		} else {
			choice = BestGuild(p, candidates)
		}
		if choice == nil {
			continue
		}
		if err := p.City.CopyGuild(choice); err == nil {
			g.emit(Event{Type: EventGuildCopied, PlayerID: p.ID, Card: choice.Name})
		}
	}

	g.state = StateFinished
	ranking := g.Ranking()
	fields := []zap.Field{zap.Int("players", len(ranking))}
	if len(ranking) > 0 {
		fields = append(fields,
			zap.String("winner", ranking[0].Name),
			zap.Int("winner_total", ranking[0].Total),
		)
	}
	g.logger.Info("game finished", fields...)
	g.emit(Event{Type: EventGameFinished, PlayerID: ranking[0].PlayerID, Detail: fmt.Sprintf("%d points", ranking[0].Total)})
}

// BestGuild returns the candidate worth the most points in p's city.
func BestGuild(p *Player, candidates []*catalog.Card) *catalog.Card {
	var best *catalog.Card
	bestValue := -1
	for _, c := range candidates {
		if v := p.City.GuildValue(c); v > bestValue {
			best, bestValue = c, v
		}
	}
	return best
}

// Scores returns the current score sheet of every player in seat order.
func (g *Game) Scores() []ScoreSheet {
	out := make([]ScoreSheet, len(g.players))
	for i, p := range g.players {
		out[i] = p.Score()
	}
	return out
}

// Ranking returns the score sheets best first. Ties go to the richer
// player, then to the lower seat.
func (g *Game) Ranking() []ScoreSheet {
	out := g.Scores()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Coins > out[j].Coins
	})
	return out
}

// Winner returns the best score sheet.
func (g *Game) Winner() ScoreSheet {
	return g.Ranking()[0]
}

// Run plays the game to the end. Every seat needs a policy.
func (g *Game) Run(ctx context.Context) error {
	if g.state == StateSetup {
		if err := g.Start(); err != nil {
			return err
		}
	}
	for g.state != StateFinished {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := g.EndTurn(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) record() {
	if g.recorder != nil {
		g.recorder.RecordState(g.ID, g.Snapshot())
	}
}
