package game

import (
	"time"

	"github.com/freeski070605/tonk-server/internal/rules"
)

// EventType identifies a game domain event
type EventType string

const (
	EventTypePlayerAction  EventType = "player_action"
	EventTypeHit           EventType = "hit"
	EventTypePlayerDropped EventType = "player_dropped"
	EventTypeGameEnded     EventType = "game_ended"
)

// Event is a domain event emitted while applying an action. The boundary
// layer turns events into client notifications and collaborator calls.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

// PlayerActionEvent is emitted for every applied action, human or AI
type PlayerActionEvent struct {
	PlayerID string
	Action   rules.Action
	ts       time.Time
}

func (e PlayerActionEvent) EventType() EventType { return EventTypePlayerAction }
func (e PlayerActionEvent) Timestamp() time.Time { return e.ts }

// HitEvent is emitted when a deck draw penalises an opponent's spread
type HitEvent struct {
	DrawerID string
	VictimID string
	Turns    int
	ts       time.Time
}

func (e HitEvent) EventType() EventType { return EventTypeHit }
func (e HitEvent) Timestamp() time.Time { return e.ts }

// PlayerDroppedEvent is emitted when a player locks in their score
type PlayerDroppedEvent struct {
	PlayerID   string
	Score      int
	Multiplier int
	Forced     bool
	ts         time.Time
}

func (e PlayerDroppedEvent) EventType() EventType { return EventTypePlayerDropped }
func (e PlayerDroppedEvent) Timestamp() time.Time { return e.ts }

// GameEndedEvent is emitted exactly once, when the game reaches its
// terminal state
type GameEndedEvent struct {
	WinnerID   string
	Multiplier int
	Winnings   int
	ts         time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.ts }
