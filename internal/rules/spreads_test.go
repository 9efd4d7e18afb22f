package rules

import (
	"testing"

	"github.com/freeski070605/tonk-server/internal/deck"
)

func card(suit deck.Suit, rank deck.Rank) deck.Card {
	return deck.NewCard(suit, rank)
}

func TestIsValidSpread(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []deck.Card
		want  bool
	}{
		{
			"set of sevens",
			[]deck.Card{card(deck.Spades, deck.Seven), card(deck.Hearts, deck.Seven), card(deck.Diamonds, deck.Seven)},
			true,
		},
		{
			"run of spades",
			[]deck.Card{card(deck.Spades, deck.Three), card(deck.Spades, deck.Four), card(deck.Spades, deck.Five)},
			true,
		},
		{
			"run sorted from any order",
			[]deck.Card{card(deck.Hearts, deck.Five), card(deck.Hearts, deck.Three), card(deck.Hearts, deck.Four)},
			true,
		},
		{
			"gap breaks a run",
			[]deck.Card{card(deck.Spades, deck.Three), card(deck.Spades, deck.Four), card(deck.Spades, deck.Six)},
			false,
		},
		{
			"duplicate value breaks a run",
			[]deck.Card{card(deck.Spades, deck.Three), card(deck.Spades, deck.Three), card(deck.Spades, deck.Four)},
			false,
		},
		{
			"mixed suits break a run",
			[]deck.Card{card(deck.Spades, deck.Three), card(deck.Hearts, deck.Four), card(deck.Spades, deck.Five)},
			false,
		},
		{
			"two cards are never a spread",
			[]deck.Card{card(deck.Spades, deck.Seven), card(deck.Hearts, deck.Seven)},
			false,
		},
		{
			"face cards share value ten but not rank",
			[]deck.Card{card(deck.Spades, deck.Jack), card(deck.Spades, deck.Queen), card(deck.Spades, deck.King)},
			false,
		},
		{
			"masked cards are filtered out",
			[]deck.Card{deck.Mask(card(deck.Spades, deck.Three)), card(deck.Spades, deck.Four), card(deck.Spades, deck.Five)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsValidSpread(tt.cards); got != tt.want {
				t.Errorf("IsValidSpread(%v) = %v, want %v", tt.cards, got, tt.want)
			}
		})
	}
}

func TestFindExistingSpreads(t *testing.T) {
	t.Parallel()

	hand := []deck.Card{
		card(deck.Spades, deck.Seven),
		card(deck.Hearts, deck.Seven),
		card(deck.Diamonds, deck.Seven),
		card(deck.Clubs, deck.Two),
		card(deck.Clubs, deck.Three),
		card(deck.Clubs, deck.Four),
	}

	spreads := FindExistingSpreads(hand)
	if len(spreads) != 2 {
		t.Fatalf("expected 2 spreads, got %d: %v", len(spreads), spreads)
	}

	var set, run *Spread
	for i := range spreads {
		switch spreads[i].Type {
		case SpreadSet:
			set = &spreads[i]
		case SpreadRun:
			run = &spreads[i]
		}
	}
	if set == nil || len(set.Cards) != 3 {
		t.Errorf("expected a 3-card set of sevens, got %v", spreads)
	}
	if run == nil || len(run.Cards) != 3 {
		t.Errorf("expected a 3-card club run, got %v", spreads)
	}
}

func TestFindExistingSpreadsDoesNotReuseSetCards(t *testing.T) {
	t.Parallel()

	// The club four belongs to the set of fours; the remaining clubs 2,3
	// cannot form a run without it.
	hand := []deck.Card{
		card(deck.Clubs, deck.Four),
		card(deck.Hearts, deck.Four),
		card(deck.Spades, deck.Four),
		card(deck.Clubs, deck.Two),
		card(deck.Clubs, deck.Three),
	}

	spreads := FindExistingSpreads(hand)
	if len(spreads) != 1 {
		t.Fatalf("expected only the set, got %v", spreads)
	}
	if spreads[0].Type != SpreadSet {
		t.Errorf("expected a set, got %v", spreads[0])
	}
}

func TestFindExistingSpreadsEmptyHand(t *testing.T) {
	t.Parallel()

	if got := FindExistingSpreads(nil); len(got) != 0 {
		t.Errorf("empty hand should have no spreads, got %v", got)
	}
}

func TestFindPlayableSpreads(t *testing.T) {
	t.Parallel()

	// 2♣ 3♣ 4♣ 5♣ yields runs 234, 345, 2345
	hand := []deck.Card{
		card(deck.Clubs, deck.Two),
		card(deck.Clubs, deck.Three),
		card(deck.Clubs, deck.Four),
		card(deck.Clubs, deck.Five),
	}

	spreads := FindPlayableSpreads(hand)
	if len(spreads) != 3 {
		t.Fatalf("expected 3 playable spreads, got %d: %v", len(spreads), spreads)
	}
	for _, s := range spreads {
		if s.Type != SpreadRun {
			t.Errorf("expected only runs, got %v", s)
		}
	}
}

func TestSpreadBounds(t *testing.T) {
	t.Parallel()

	run := Spread{Type: SpreadRun, Cards: []deck.Card{
		card(deck.Hearts, deck.Three),
		card(deck.Hearts, deck.Four),
		card(deck.Hearts, deck.Five),
	}}
	if run.MinValue() != 3 || run.MaxValue() != 5 {
		t.Errorf("run bounds = [%d, %d], want [3, 5]", run.MinValue(), run.MaxValue())
	}
}
