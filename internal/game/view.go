package game

import (
	"time"

	"github.com/freeski070605/tonk-server/internal/deck"
)

// PlayerView is the presentation form of a player. Another viewer sees hand
// cards with suit, rank and value masked; ids survive so clients can track
// card movement.
type PlayerView struct {
	ID               string      `json:"id"`
	DisplayName      string      `json:"displayName"`
	IsAI             bool        `json:"isAI"`
	Hand             []deck.Card `json:"hand"`
	IsDropped        bool        `json:"isDropped"`
	CanDrop          bool        `json:"canDrop"`
	Score            int         `json:"score"`
	PenaltyTurns     int         `json:"penaltyTurnsRemaining"`
	HitCount         int         `json:"hitCount"`
	HasDrawnThisTurn bool        `json:"hasDrawnThisTurn"`
}

// View is the sanitized per-viewer snapshot published after each committed
// action. The deck is surfaced as a count only; the discard pile is public.
type View struct {
	ID                 string       `json:"id"`
	Players            []PlayerView `json:"players"`
	CurrentPlayerIndex int          `json:"currentPlayerIndex"`
	DeckCount          int          `json:"deckCount"`
	DiscardPile        []deck.Card  `json:"discardPile"`
	Status             Status       `json:"status"`
	Stake              int          `json:"stake"`
	Pot                int          `json:"pot"`
	WinnerID           string       `json:"winnerId,omitempty"`
	WinningMultiplier  int          `json:"winningMultiplier"`
	TurnStartedAt      time.Time    `json:"turnStartedAt"`
	LastActionAt       time.Time    `json:"lastActionAt"`
	LastAction         *LastAction  `json:"lastAction,omitempty"`
	EndedAt            *time.Time   `json:"endedAt,omitempty"`
}

// ViewFor produces the snapshot as seen by viewerID. Masking happens only
// here, at the presentation boundary: engine state always holds true cards.
// Hands are revealed to everyone once the game has ended, for settlement
// display.
func ViewFor(g *Game, viewerID string) View {
	v := View{
		ID:                 g.ID,
		Players:            make([]PlayerView, len(g.Players)),
		CurrentPlayerIndex: g.CurrentPlayerIndex,
		DeckCount:          len(g.Deck),
		DiscardPile:        append([]deck.Card(nil), g.DiscardPile...),
		Status:             g.Status,
		Stake:              g.Stake,
		Pot:                g.Pot,
		WinnerID:           g.WinnerID,
		WinningMultiplier:  g.WinningMultiplier,
		TurnStartedAt:      g.TurnStartedAt,
		LastActionAt:       g.LastActionAt,
		LastAction:         g.LastAction,
		EndedAt:            g.EndedAt,
	}

	for i, p := range g.Players {
		pv := PlayerView{
			ID:               p.ID,
			DisplayName:      p.DisplayName,
			IsAI:             p.IsAI,
			IsDropped:        p.IsDropped,
			CanDrop:          p.CanDrop,
			Score:            p.Score,
			PenaltyTurns:     p.PenaltyTurns,
			HitCount:         p.HitCount,
			HasDrawnThisTurn: p.HasDrawnThisTurn,
		}

		reveal := p.ID == viewerID || g.Status == StatusEnded
		pv.Hand = make([]deck.Card, len(p.Hand))
		for j, c := range p.Hand {
			if reveal {
				pv.Hand[j] = c
			} else {
				pv.Hand[j] = deck.Mask(c)
			}
		}
		if !reveal {
			// Masked hands also hide the derived score.
			pv.Score = 0
		}
		v.Players[i] = pv
	}

	return v
}
