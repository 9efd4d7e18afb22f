package deck

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	UnknownSuit Suit = iota
	Hearts
	Diamonds
	Clubs
	Spades
)

var suitNames = map[Suit]string{
	Hearts:   "hearts",
	Diamonds: "diamonds",
	Clubs:    "clubs",
	Spades:   "spades",
}

// String returns the lowercase name of the suit, or "?" for a masked suit
func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return "?"
}

// Symbol returns the one-character glyph for the suit
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// MarshalJSON encodes the suit as its lowercase name
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a suit from its lowercase name
func (s *Suit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for suit, n := range suitNames {
		if n == name {
			*s = suit
			return nil
		}
	}
	*s = UnknownSuit
	return nil
}

// Rank represents a card rank. Tonk uses a 40-card deck: ranks 8, 9 and 10
// do not exist.
type Rank int

const (
	UnknownRank Rank = 0
	Ace         Rank = 1
	Two         Rank = 2
	Three       Rank = 3
	Four        Rank = 4
	Five        Rank = 5
	Six         Rank = 6
	Seven       Rank = 7
	Jack        Rank = 11
	Queen       Rank = 12
	King        Rank = 13
)

// Ranks lists every rank in the deck in ascending value order
var Ranks = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Jack, Queen, King}

// String returns the display name of the rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Two, Three, Four, Five, Six, Seven:
		return fmt.Sprintf("%d", int(r))
	default:
		return "?"
	}
}

// Value returns the point value of the rank: A=1, 2-7 face value, J/Q/K=10
func (r Rank) Value() int {
	switch {
	case r == Ace:
		return 1
	case r >= Two && r <= Seven:
		return int(r)
	case r == Jack || r == Queen || r == King:
		return 10
	default:
		return 0
	}
}

// MarshalJSON encodes the rank as its display name
func (r Rank) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a rank from its display name
func (r *Rank) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, rank := range Ranks {
		if rank.String() == name {
			*r = rank
			return nil
		}
	}
	*r = UnknownRank
	return nil
}

// Card represents a playing card. Value is derived from Rank at construction
// and carried so that boundary views serialise it directly. Hidden is a
// presentation flag only: engine code always operates on the true card.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	Value  int    `json:"value"`
	Hidden bool   `json:"hidden,omitempty"`
}

// NewCard creates a new card with a stable id derived from rank and suit
func NewCard(suit Suit, rank Rank) Card {
	return Card{
		ID:    fmt.Sprintf("%s-%s", rank, suit),
		Suit:  suit,
		Rank:  rank,
		Value: rank.Value(),
	}
}

// String returns the short form of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.Symbol()
}

// Mask returns a copy with suit, rank and value obscured for presentation to
// other players. Identity is preserved for client reconciliation.
func Mask(c Card) Card {
	return Card{
		ID:     c.ID,
		Suit:   UnknownSuit,
		Rank:   UnknownRank,
		Value:  0,
		Hidden: true,
	}
}

// Score sums the point values of a hand. An empty or nil hand scores 0.
func Score(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += c.Value
	}
	return total
}
