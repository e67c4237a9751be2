// Package tournament seats AI entrants at tables over several rounds and
// keeps standings across the games they play.
package tournament

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/wondersgame/wonders-server-go/internal/game"
)

var (
	ErrAlreadyStarted    = errors.New("tournament already started")
	ErrNotInProgress     = errors.New("tournament not in progress")
	ErrDuplicateEntrant  = errors.New("entrant already joined")
	ErrUnknownEntrant    = errors.New("entrant not found")
	ErrNotEnoughEntrants = errors.New("not enough entrants")
	ErrRoundsExhausted   = errors.New("all rounds created")
	ErrUnknownTable      = errors.New("table not found")
)

// State represents the state of a tournament
type State int

const (
	StateWaiting State = iota
	StateInProgress
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "WAITING"
	case StateInProgress:
		return "IN_PROGRESS"
	case StateFinished:
		return "FINISHED"
	default:
		return "UNKNOWN"
	}
}

// Entrant is a named seat driven by an AI policy.
type Entrant struct {
	Name    string
	Policy  string
	Points  int
	Wins    int
	Games   int
	Byes    int
	TotalVP int
}

// Table is one game of a round.
type Table struct {
	Number   int
	Seats    []string
	GameID   string
	Winner   string
	Ranking  []game.ScoreSheet
	Finished bool
}

// Round represents a tournament round
type Round struct {
	Number   int
	Tables   []*Table
	Byes     []string
	Finished bool
}

// EntrantSnapshot captures entrant standings for external use.
type EntrantSnapshot struct {
	Name    string
	Policy  string
	Points  int
	Wins    int
	Games   int
	Byes    int
	TotalVP int
}

// TableSnapshot captures a table for external use.
type TableSnapshot struct {
	Number   int
	Seats    []string
	GameID   string
	Winner   string
	Finished bool
}

// RoundSnapshot captures round data for external use.
type RoundSnapshot struct {
	Number   int
	Finished bool
	Byes     []string
	Tables   []TableSnapshot
}

// Snapshot captures a consistent view of a tournament.
type Snapshot struct {
	ID           string
	Name         string
	State        State
	TableSize    int
	NumRounds    int
	CurrentRound int
	Standings    []EntrantSnapshot
	Rounds       []RoundSnapshot
	CreateTime   time.Time
	StartTime    *time.Time
	EndTime      *time.Time
}

// Tournament holds the entrants, rounds and standings.
type Tournament struct {
	ID        string
	Name      string
	TableSize int
	NumRounds int
	Seed      uint64

	state        State
	entrants     map[string]*Entrant
	order        []string // insertion order
	rounds       []*Round
	currentRound int
	rng          *rand.Rand
	createTime   time.Time
	startTime    *time.Time
	endTime      *time.Time
	mu           sync.RWMutex
}

// NewTournament creates a tournament seating tableSize entrants per game.
// A zero seed seeds the seating from the clock.
func NewTournament(name string, tableSize, numRounds int, seed uint64) *Tournament {
	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	return &Tournament{
		ID:         uuid.New().String(),
		Name:       name,
		TableSize:  tableSize,
		NumRounds:  numRounds,
		Seed:       seed,
		state:      StateWaiting,
		entrants:   make(map[string]*Entrant),
		order:      make([]string, 0),
		rounds:     make([]*Round, 0),
		rng:        rand.New(rand.NewSource(rngSeed)),
		createTime: time.Now(),
	}
}

// AddEntrant adds an entrant playing with the named policy.
func (t *Tournament) AddEntrant(name, policy string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := t.entrants[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntrant, name)
	}

	t.entrants[name] = &Entrant{Name: name, Policy: policy}
	t.order = append(t.order, name)
	return nil
}

// RemoveEntrant removes an entrant before the tournament starts.
func (t *Tournament) RemoveEntrant(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateWaiting {
		return ErrAlreadyStarted
	}
	if _, exists := t.entrants[name]; !exists {
		return fmt.Errorf("%w: %s", ErrUnknownEntrant, name)
	}

	delete(t.entrants, name)
	for i, n := range t.order {
		if n == name {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entrant returns a copy of the named entrant.
func (t *Tournament) Entrant(name string) (Entrant, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entrants[name]
	if !ok {
		return Entrant{}, false
	}
	return *e, true
}

// EntrantCount returns the number of entrants.
func (t *Tournament) EntrantCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entrants)
}

// State returns the current tournament state
func (t *Tournament) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// CurrentRound returns the number of the last round created.
func (t *Tournament) CurrentRound() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.currentRound
}

// Start closes the entry list. At least one full table is required.
func (t *Tournament) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateWaiting {
		return ErrAlreadyStarted
	}
	if t.TableSize < game.MinPlayers || t.TableSize > game.MaxPlayers {
		return fmt.Errorf("%w: table of %d", game.ErrInvalidPlayerCount, t.TableSize)
	}
	if len(t.entrants) < t.TableSize {
		return fmt.Errorf("%w: %d for tables of %d", ErrNotEnoughEntrants, len(t.entrants), t.TableSize)
	}
	if t.NumRounds < 1 {
		return fmt.Errorf("tournament needs at least one round, got %d", t.NumRounds)
	}

	now := time.Now()
	t.startTime = &now
	t.state = StateInProgress
	return nil
}

// CreateRound seats the entrants for the next round. Entrants are shuffled,
// then split into full tables; entrants left over get a bye.
func (t *Tournament) CreateRound() (*Round, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateInProgress {
		return nil, ErrNotInProgress
	}
	if t.currentRound >= t.NumRounds {
		return nil, ErrRoundsExhausted
	}

	t.currentRound++
	round := &Round{Number: t.currentRound}

	names := append([]string(nil), t.order...)
	t.rng.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })

	full := len(names) / t.TableSize * t.TableSize
	for i := 0; i < full; i += t.TableSize {
		round.Tables = append(round.Tables, &Table{
			Number: len(round.Tables) + 1,
			Seats:  append([]string(nil), names[i:i+t.TableSize]...),
		})
	}
	for _, name := range names[full:] {
		round.Byes = append(round.Byes, name)
		t.entrants[name].Byes++
	}

	t.rounds = append(t.rounds, round)
	return round, nil
}

// RecordTable stores the ranking of a finished table. Each seat scores one
// point per opponent it finished ahead of; the first seat also counts a win.
func (t *Tournament) RecordTable(roundNum, tableNum int, gameID string, ranking []game.ScoreSheet) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if roundNum <= 0 || roundNum > len(t.rounds) {
		return fmt.Errorf("invalid round number %d", roundNum)
	}
	round := t.rounds[roundNum-1]
	if tableNum <= 0 || tableNum > len(round.Tables) {
		return fmt.Errorf("%w: round %d table %d", ErrUnknownTable, roundNum, tableNum)
	}
	table := round.Tables[tableNum-1]
	if table.Finished {
		return fmt.Errorf("round %d table %d already recorded", roundNum, tableNum)
	}
	if len(ranking) != len(table.Seats) {
		return fmt.Errorf("ranking has %d sheets for %d seats", len(ranking), len(table.Seats))
	}
	for _, s := range ranking {
		if _, ok := t.entrants[s.Name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntrant, s.Name)
		}
	}

	for place, s := range ranking {
		e := t.entrants[s.Name]
		e.Games++
		e.TotalVP += s.Total
		e.Points += len(ranking) - 1 - place
		if place == 0 {
			e.Wins++
		}
	}
	table.GameID = gameID
	table.Winner = ranking[0].Name
	table.Ranking = ranking
	table.Finished = true

	round.Finished = true
	for _, tb := range round.Tables {
		round.Finished = round.Finished && tb.Finished
	}
	if round.Finished && round.Number == t.NumRounds {
		now := time.Now()
		t.endTime = &now
		t.state = StateFinished
	}
	return nil
}

// Standings returns the entrants best first: points, then wins, then
// victory points.
func (t *Tournament) Standings() []EntrantSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.standings()
}

func (t *Tournament) standings() []EntrantSnapshot {
	out := make([]EntrantSnapshot, 0, len(t.order))
	for _, name := range t.order {
		e := t.entrants[name]
		out = append(out, EntrantSnapshot{
			Name:    e.Name,
			Policy:  e.Policy,
			Points:  e.Points,
			Wins:    e.Wins,
			Games:   e.Games,
			Byes:    e.Byes,
			TotalVP: e.TotalVP,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].TotalVP > out[j].TotalVP
	})
	return out
}

// Snapshot returns a consistent copy of the tournament state.
func (t *Tournament) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rounds := make([]RoundSnapshot, 0, len(t.rounds))
	for _, r := range t.rounds {
		tables := make([]TableSnapshot, 0, len(r.Tables))
		for _, tb := range r.Tables {
			tables = append(tables, TableSnapshot{
				Number:   tb.Number,
				Seats:    append([]string(nil), tb.Seats...),
				GameID:   tb.GameID,
				Winner:   tb.Winner,
				Finished: tb.Finished,
			})
		}
		rounds = append(rounds, RoundSnapshot{
			Number:   r.Number,
			Finished: r.Finished,
			Byes:     append([]string(nil), r.Byes...),
			Tables:   tables,
		})
	}

	return Snapshot{
		ID:           t.ID,
		Name:         t.Name,
		State:        t.state,
		TableSize:    t.TableSize,
		NumRounds:    t.NumRounds,
		CurrentRound: t.currentRound,
		Standings:    t.standings(),
		Rounds:       rounds,
		CreateTime:   t.createTime,
		StartTime:    cloneTime(t.startTime),
		EndTime:      cloneTime(t.endTime),
	}
}

func cloneTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	cp := *src
	return &cp
}
