package game

import (
	"time"
)

// EventType names what happened in a game.
type EventType string

const (
	EventGameStarted     EventType = "GAME_STARTED"
	EventAgeStarted      EventType = "AGE_STARTED"
	EventCardBuilt       EventType = "CARD_BUILT"
	EventWonderStepBuilt EventType = "WONDER_STEP_BUILT"
	EventCardDiscarded   EventType = "CARD_DISCARDED"
	EventCardLost        EventType = "CARD_LOST"
	EventResourcesBought EventType = "RESOURCES_BOUGHT"
	EventDiscardBuild    EventType = "DISCARD_BUILD"
	EventGuildCopied     EventType = "GUILD_COPIED"
	EventConflict        EventType = "CONFLICT"
	EventHandsRotated    EventType = "HANDS_ROTATED"
	EventGameFinished    EventType = "GAME_FINISHED"
)

// maxEvents bounds the in-memory game log.
const maxEvents = 1000

// Event is one entry of the game log.
type Event struct {
	Type      EventType
	Age       int
	Round     int
	PlayerID  string
	Card      string
	Coins     int
	Detail    string
	Timestamp time.Time
}

// EventHandler receives every event as it is logged.
type EventHandler func(Event)

// SetEventHandler registers a handler called for every event.
func (g *Game) SetEventHandler(handler EventHandler) {
	g.handler = handler
}

// Events returns the game log, oldest first.
func (g *Game) Events() []Event {
	out := make([]Event, len(g.events))
	copy(out, g.events)
	return out
}

func (g *Game) emit(e Event) {
	e.Age = g.age
	e.Round = g.round
	e.Timestamp = time.Now()

	g.events = append(g.events, e)
	if len(g.events) > maxEvents {
		g.events = g.events[len(g.events)-maxEvents:]
	}
	if g.handler != nil {
		g.handler(e)
	}
}
