// Package game holds the Tonk game state and the turn orchestrator that
// advances it. State transitions are pure with respect to storage: Apply
// transforms a deep copy and the caller decides when the result is
// committed.
package game

import (
	rand "math/rand/v2"
	"time"

	"github.com/freeski070605/tonk-server/internal/ai"
	"github.com/freeski070605/tonk-server/internal/deck"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// Status is the game lifecycle phase. Transitions are monotonic:
// waiting → playing → ended.
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusPlaying Status = "playing"
	StatusEnded   Status = "ended"
)

// Seats is the fixed seat count of a Tonk table
const Seats = 4

// HandSize is the number of cards dealt to each seat
const HandSize = 5

// Player is one seat in a game. Score is derived from the hand and
// recomputed after every hand mutation, never set independently. Once
// IsDropped is true the hand, score and penalties are frozen for
// settlement.
type Player struct {
	ID               string        `json:"id"`
	DisplayName      string        `json:"displayName"`
	IsAI             bool          `json:"isAI"`
	Difficulty       ai.Difficulty `json:"difficulty,omitempty"`
	Hand             []deck.Card   `json:"hand"`
	IsDropped        bool          `json:"isDropped"`
	CanDrop          bool          `json:"canDrop"`
	Score            int           `json:"score"`
	PenaltyTurns     int           `json:"penaltyTurnsRemaining"`
	HitCount         int           `json:"hitCount"`
	HasDrawnThisTurn bool          `json:"hasDrawnThisTurn"`
	DropTimestamp    *time.Time    `json:"dropTimestamp,omitempty"`
}

// LastAction records the most recently applied action for auditing
type LastAction struct {
	PlayerID string       `json:"playerId"`
	Action   rules.Action `json:"action"`
	At       time.Time    `json:"at"`
}

// Game is the full state of one table. DiscardPile index 0 is the top
// (most recently discarded) card.
type Game struct {
	ID                 string      `json:"id"`
	Players            []*Player   `json:"players"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	Deck               []deck.Card `json:"deck"`
	DiscardPile        []deck.Card `json:"discardPile"`
	Status             Status      `json:"status"`
	Stake              int         `json:"stake"`
	Pot                int         `json:"pot"`
	WinnerID           string      `json:"winnerId,omitempty"`
	WinningMultiplier  int         `json:"winningMultiplier"`
	TurnStartedAt      time.Time   `json:"turnStartedAt"`
	LastActionAt       time.Time   `json:"lastActionAt"`
	LastAction         *LastAction `json:"lastAction,omitempty"`
	EndedAt            *time.Time  `json:"endedAt,omitempty"`

	// TotalDiscards counts discards over the whole game, as a progress
	// signal for AI risk assessment.
	TotalDiscards int `json:"totalDiscards"`
}

// Seat describes one seat at game creation
type Seat struct {
	PlayerID    string
	DisplayName string
	IsAI        bool
	Difficulty  ai.Difficulty
}

// New creates a game in the playing state: shuffled 40-card deck, five cards
// dealt to each of the four seats, pot funded at stake per seat.
func New(id string, stake int, seats [Seats]Seat, rng *rand.Rand) *Game {
	d := deck.New(rng)
	hands := d.Deal(Seats, HandSize)

	now := time.Now()
	g := &Game{
		ID:                 id,
		Players:            make([]*Player, Seats),
		CurrentPlayerIndex: 0,
		Deck:               d.Cards(),
		DiscardPile:        []deck.Card{},
		Status:             StatusPlaying,
		Stake:              stake,
		Pot:                stake * Seats,
		WinningMultiplier:  1,
		TurnStartedAt:      now,
		LastActionAt:       now,
	}

	for i, seat := range seats {
		p := &Player{
			ID:          seat.PlayerID,
			DisplayName: seat.DisplayName,
			IsAI:        seat.IsAI,
			Difficulty:  seat.Difficulty,
			Hand:        hands[i],
		}
		p.refresh(true)
		g.Players[i] = p
	}

	return g
}

// refresh recomputes the derived score and drop eligibility after a hand or
// penalty mutation. Dropped players are frozen and never refreshed.
func (p *Player) refresh(firstTurn bool) {
	if p.IsDropped {
		return
	}
	p.Score = deck.Score(p.Hand)
	p.CanDrop = rules.CanDrop(p.Score, p.PenaltyTurns, firstTurn)
}

// FirstTurn reports whether the wider first-turn drop window still applies:
// true until any player has dropped.
func (g *Game) FirstTurn() bool {
	for _, p := range g.Players {
		if p.IsDropped {
			return false
		}
	}
	return true
}

// PlayerByID returns the player with the given id
func (g *Game) PlayerByID(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CurrentPlayer returns the player whose turn it is
func (g *Game) CurrentPlayer() *Player {
	return g.Players[g.CurrentPlayerIndex]
}

// ActiveCount returns the number of players still in the game
func (g *Game) ActiveCount() int {
	n := 0
	for _, p := range g.Players {
		if !p.IsDropped {
			n++
		}
	}
	return n
}

// NextActiveIndex returns the next non-dropped seat after from, in
// ascending wraparound order. If every other seat is dropped it returns
// from unchanged.
func (g *Game) NextActiveIndex(from int) int {
	for i := 1; i <= len(g.Players); i++ {
		idx := (from + i) % len(g.Players)
		if idx == from {
			break
		}
		if !g.Players[idx].IsDropped {
			return idx
		}
	}
	return from
}

// CardCount sums cards across every hand, the deck and the discard pile.
// Dropped hands are frozen but still hold their cards, so the total is
// always exactly deck.Size.
func (g *Game) CardCount() int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.Hand)
	}
	return n
}

// Snapshot produces the read-only rules-engine view of the game
func (g *Game) Snapshot() rules.TableState {
	players := make([]rules.PlayerState, len(g.Players))
	for i, p := range g.Players {
		players[i] = rules.PlayerState{
			ID:           p.ID,
			Hand:         p.Hand,
			IsDropped:    p.IsDropped,
			PenaltyTurns: p.PenaltyTurns,
			HitCount:     p.HitCount,
			HasDrawn:     p.HasDrawnThisTurn,
		}
	}

	ts := rules.TableState{
		Players:       players,
		Current:       g.CurrentPlayerIndex,
		DeckLen:       len(g.Deck),
		DiscardLen:    len(g.DiscardPile),
		FirstTurn:     g.FirstTurn(),
		TotalDiscards: g.TotalDiscards,
	}
	if len(g.DiscardPile) > 0 {
		top := g.DiscardPile[0]
		ts.DiscardTop = &top
	}
	return ts
}

// Clone deep-copies the game so a transform can fail without corrupting the
// committed state.
func (g *Game) Clone() *Game {
	clone := *g
	clone.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		cp.Hand = append([]deck.Card(nil), p.Hand...)
		if p.DropTimestamp != nil {
			t := *p.DropTimestamp
			cp.DropTimestamp = &t
		}
		clone.Players[i] = &cp
	}
	clone.Deck = append([]deck.Card(nil), g.Deck...)
	clone.DiscardPile = append([]deck.Card(nil), g.DiscardPile...)
	if g.LastAction != nil {
		la := *g.LastAction
		clone.LastAction = &la
	}
	if g.EndedAt != nil {
		t := *g.EndedAt
		clone.EndedAt = &t
	}
	return &clone
}
