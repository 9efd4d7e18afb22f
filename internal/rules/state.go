// Package rules implements the Tonk rules engine: scoring thresholds, spread
// detection, hit penalties and action legality. Every function is pure; the
// orchestrator owns all state mutation.
package rules

import "github.com/freeski070605/tonk-server/internal/deck"

// PlayerState is the read-only view of a player used for rule evaluation.
// Hands are always the true cards, never masked presentation copies.
type PlayerState struct {
	ID           string
	Hand         []deck.Card
	IsDropped    bool
	PenaltyTurns int
	HitCount     int
	HasDrawn     bool
}

// Score returns the player's current hand score
func (p PlayerState) Score() int {
	return deck.Score(p.Hand)
}

// TableState is the read-only view of a game used for rule evaluation and AI
// decisions.
type TableState struct {
	Players    []PlayerState
	Current    int
	DeckLen    int
	DiscardLen int
	DiscardTop *deck.Card

	// FirstTurn is true while no player has dropped yet; the wider
	// drop-eligibility window applies during this phase.
	FirstTurn bool

	// TotalDiscards counts discards over the whole game, as a progress
	// signal for the AI.
	TotalDiscards int
}

// PlayerByID returns the player with the given id, if present
func (ts TableState) PlayerByID(id string) (PlayerState, bool) {
	for _, p := range ts.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

// ActiveCount returns the number of players still in the game
func (ts TableState) ActiveCount() int {
	n := 0
	for _, p := range ts.Players {
		if !p.IsDropped {
			n++
		}
	}
	return n
}
