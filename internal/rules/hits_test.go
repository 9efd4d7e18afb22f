package rules

import (
	"testing"

	"github.com/freeski070605/tonk-server/internal/deck"
)

func opponentWithRun(id string) PlayerState {
	return PlayerState{
		ID: id,
		Hand: []deck.Card{
			card(deck.Hearts, deck.Four),
			card(deck.Hearts, deck.Five),
			card(deck.Hearts, deck.Six),
		},
	}
}

func opponentWithSet(id string) PlayerState {
	return PlayerState{
		ID: id,
		Hand: []deck.Card{
			card(deck.Hearts, deck.Seven),
			card(deck.Diamonds, deck.Seven),
			card(deck.Clubs, deck.Seven),
		},
	}
}

func TestWouldHitSpread(t *testing.T) {
	t.Parallel()

	players := []PlayerState{
		{ID: "drawer"},
		opponentWithRun("runner"),
		opponentWithSet("setter"),
	}

	tests := []struct {
		name   string
		drawn  deck.Card
		anyHit bool
	}{
		{"extends run below", card(deck.Hearts, deck.Three), true},
		{"extends run above", card(deck.Hearts, deck.Seven), true},
		{"matches set rank", card(deck.Spades, deck.Seven), true},
		{"wrong suit misses run", card(deck.Clubs, deck.Three), false},
		{"gap filling is not a hit", card(deck.Hearts, deck.Ace), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ok := WouldHitSpread(tt.drawn, players, "drawer")
			if ok != tt.anyHit {
				t.Fatalf("WouldHitSpread(%s) hit = %v, want %v", tt.drawn, ok, tt.anyHit)
			}
		})
	}

	// First-match order follows player order: 7♥ extends the runner's run
	// before it reaches the setter's set of sevens.
	hit, ok := WouldHitSpread(card(deck.Hearts, deck.Seven), players, "drawer")
	if !ok || hit.PlayerID != "runner" {
		t.Errorf("expected first hit against runner, got %+v", hit)
	}

	// A set-rank card with a suit outside the run hits the setter.
	hit, ok = WouldHitSpread(card(deck.Spades, deck.Seven), players, "drawer")
	if !ok || hit.PlayerID != "setter" {
		t.Errorf("expected hit against setter, got %+v", hit)
	}
}

func TestWouldHitSpreadSkipsDrawerAndDropped(t *testing.T) {
	t.Parallel()

	dropped := opponentWithRun("gone")
	dropped.IsDropped = true
	players := []PlayerState{opponentWithRun("drawer"), dropped}

	if _, ok := WouldHitSpread(card(deck.Hearts, deck.Three), players, "drawer"); ok {
		t.Error("hit detection should ignore the drawer's own hand and dropped players")
	}
}

func TestAssessHitPenaltiesEscalation(t *testing.T) {
	t.Parallel()

	fresh := opponentWithRun("victim")
	penalties := AssessHitPenalties(card(deck.Hearts, deck.Three), []PlayerState{{ID: "drawer"}, fresh}, "drawer")
	if len(penalties) != 1 {
		t.Fatalf("expected 1 penalty, got %v", penalties)
	}
	if penalties[0].PlayerID != "victim" || penalties[0].Turns != 2 {
		t.Errorf("first hit should cost 2 turns, got %+v", penalties[0])
	}

	// A player already hit once pays one extra turn.
	repeat := opponentWithRun("victim")
	repeat.HitCount = 1
	penalties = AssessHitPenalties(card(deck.Hearts, deck.Three), []PlayerState{{ID: "drawer"}, repeat}, "drawer")
	if penalties[0].Turns != 3 {
		t.Errorf("second hit should cost 3 turns, got %+v", penalties[0])
	}
}

func TestAssessHitPenaltiesMultipleVictims(t *testing.T) {
	t.Parallel()

	players := []PlayerState{
		{ID: "drawer"},
		opponentWithSet("a"),
		opponentWithSet("b"),
	}

	penalties := AssessHitPenalties(card(deck.Spades, deck.Seven), players, "drawer")
	if len(penalties) != 2 {
		t.Fatalf("expected penalties against both set holders, got %v", penalties)
	}
}

func TestAssessHitPenaltiesOnePerPlayer(t *testing.T) {
	t.Parallel()

	// A hand holding both a hittable set and a hittable run is penalised
	// once per draw, not once per spread.
	both := PlayerState{
		ID: "victim",
		Hand: []deck.Card{
			card(deck.Hearts, deck.Seven),
			card(deck.Diamonds, deck.Seven),
			card(deck.Clubs, deck.Seven),
			card(deck.Spades, deck.Four),
			card(deck.Spades, deck.Five),
			card(deck.Spades, deck.Six),
		},
	}

	penalties := AssessHitPenalties(card(deck.Spades, deck.Seven), []PlayerState{{ID: "drawer"}, both}, "drawer")
	if len(penalties) != 1 {
		t.Errorf("expected a single penalty, got %v", penalties)
	}
}
