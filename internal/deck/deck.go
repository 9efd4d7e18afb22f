package deck

import (
	rand "math/rand/v2"

	"github.com/freeski070605/tonk-server/internal/randutil"
)

// Size is the number of cards in a Tonk deck (4 suits × 10 ranks)
const Size = 40

// ReshuffleThreshold is the deck size at or below which the discard pile is
// folded back into the deck before a draw.
const ReshuffleThreshold = 5

// Deck represents a stack of cards. The top of the deck is index 0; draws
// and deals both consume from the top.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a shuffled 40-card Tonk deck. A nil rng falls back to a
// time-seeded source.
func New(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.NewTimeSeeded()
	}

	d := &Deck{
		cards: make([]Card, 0, Size),
		rng:   rng,
	}
	for suit := Hearts; suit <= Spades; suit++ {
		for _, rank := range Ranks {
			d.cards = append(d.cards, NewCard(suit, rank))
		}
	}
	d.Shuffle()
	return d
}

// Shuffle randomises the deck order with a Fisher-Yates shuffle
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the top card
func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	card := d.cards[0]
	d.cards = d.cards[1:]
	return card, true
}

// Deal deals cardsEach cards to numPlayers hands, round-robin one card per
// player per round, consuming from the top so dealt order matches draw order.
func (d *Deck) Deal(numPlayers, cardsEach int) [][]Card {
	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, cardsEach)
	}
	for round := 0; round < cardsEach; round++ {
		for p := 0; p < numPlayers; p++ {
			card, ok := d.Draw()
			if !ok {
				return hands
			}
			hands[p] = append(hands[p], card)
		}
	}
	return hands
}

// Len returns the number of cards remaining in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns the deck contents, top first. Callers must not mutate.
func (d *Deck) Cards() []Card {
	return d.cards
}

// NeedsReshuffle reports whether the discard pile should be folded back in:
// the deck is at or below threshold and the pile has more than one card.
func (d *Deck) NeedsReshuffle(discard []Card, threshold int) bool {
	return len(d.cards) <= threshold && len(discard) > 1
}

// Reshuffle retains the most recent discard as the new single-card pile and
// shuffles the rest back into the deck. Returns the new discard pile; a pile
// of one or fewer cards is returned unchanged.
func (d *Deck) Reshuffle(discard []Card) []Card {
	if len(discard) <= 1 {
		return discard
	}

	top := discard[0]
	d.cards = append(d.cards, discard[1:]...)
	d.Shuffle()
	return []Card{top}
}

// Restore rebuilds a deck around an existing card stack, for loading a
// persisted game. The rng seeds any later reshuffles.
func Restore(cards []Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = randutil.NewTimeSeeded()
	}
	return &Deck{cards: cards, rng: rng}
}
