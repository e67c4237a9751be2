package game

import (
	"time"

	"github.com/wondersgame/wonders-server-go/internal/game/catalog"
)

// Snapshot is a copy of the table at the end of a round, suitable for
// replays and checksums. It holds names and IDs only.
type Snapshot struct {
	GameID    string
	Age       int
	Round     int
	State     string
	Discard   []string
	Players   []PlayerSnapshot
	Timestamp time.Time
}

// PlayerSnapshot is the public and private state of one seat.
type PlayerSnapshot struct {
	ID          string
	Name        string
	Seat        int
	Coins       int
	Military    int
	DefeatsWest int
	DefeatsEast int
	Hand        []string
	Buildings   []string
	Wonder      string
	WonderSteps int
	CopiedGuild string
}

// Snapshot captures the current table.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		GameID:    g.ID,
		Age:       g.age,
		Round:     g.round,
		State:     g.state.String(),
		Discard:   cardIDs(g.discard),
		Players:   make([]PlayerSnapshot, 0, len(g.players)),
		Timestamp: time.Now(),
	}
	for _, p := range g.players {
		ps := PlayerSnapshot{
			ID:          p.ID,
			Name:        p.Name,
			Seat:        p.Seat,
			Coins:       p.coins,
			Military:    p.military,
			DefeatsWest: p.DefeatTokens(catalog.SideWest),
			DefeatsEast: p.DefeatTokens(catalog.SideEast),
			Hand:        cardIDs(p.hand),
			Buildings:   p.City.BuildingNames(),
		}
		if p.Wonder != nil {
			ps.Wonder = p.Wonder.Definition().String()
			ps.WonderSteps = p.Wonder.AchievedSteps()
		}
		if guild := p.City.CopiedGuild(); guild != nil {
			ps.CopiedGuild = guild.Name
		}
		s.Players = append(s.Players, ps)
	}
	return s
}

func cardIDs(cards []*catalog.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
