package rules

import (
	"errors"
	"testing"

	"github.com/freeski070605/tonk-server/internal/deck"
)

func tableWith(players ...PlayerState) TableState {
	return TableState{
		Players:    players,
		Current:    0,
		DeckLen:    20,
		DiscardLen: 3,
		FirstTurn:  true,
	}
}

func TestValidateActionTurnChecks(t *testing.T) {
	t.Parallel()

	ts := tableWith(
		PlayerState{ID: "a", Hand: []deck.Card{card(deck.Hearts, deck.Two)}},
		PlayerState{ID: "b"},
		PlayerState{ID: "dropped", IsDropped: true},
	)

	if err := ValidateAction(ts, "stranger", Action{Kind: ActionDraw, Source: SourceDeck}); !errors.Is(err, ErrForbidden) {
		t.Errorf("unknown player: got %v, want ErrForbidden", err)
	}
	if err := ValidateAction(ts, "dropped", Action{Kind: ActionDraw, Source: SourceDeck}); !errors.Is(err, ErrAlreadyDropped) {
		t.Errorf("dropped player: got %v, want ErrAlreadyDropped", err)
	}
	if err := ValidateAction(ts, "b", Action{Kind: ActionDraw, Source: SourceDeck}); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn: got %v, want ErrNotYourTurn", err)
	}
	if err := ValidateAction(ts, "a", Action{Kind: ActionDraw, Source: SourceDeck}); err != nil {
		t.Errorf("legal draw rejected: %v", err)
	}
}

func TestValidateDraw(t *testing.T) {
	t.Parallel()

	ts := tableWith(PlayerState{ID: "a"})
	ts.DiscardLen = 0
	if err := ValidateAction(ts, "a", Action{Kind: ActionDraw, Source: SourceDiscard}); !IsValidation(err) {
		t.Errorf("draw from empty discard: got %v, want validation error", err)
	}

	ts.DeckLen = 0
	ts.DiscardLen = 1
	if err := ValidateAction(ts, "a", Action{Kind: ActionDraw, Source: SourceDeck}); !errors.Is(err, ErrNoCardsAvailable) {
		t.Errorf("unreshufflable deck: got %v, want ErrNoCardsAvailable", err)
	}

	ts.DeckLen = 0
	ts.DiscardLen = 5
	if err := ValidateAction(ts, "a", Action{Kind: ActionDraw, Source: SourceDeck}); err != nil {
		t.Errorf("deck draw with reshufflable pile rejected: %v", err)
	}

	already := tableWith(PlayerState{ID: "a", HasDrawn: true})
	if err := ValidateAction(already, "a", Action{Kind: ActionDraw, Source: SourceDeck}); !IsValidation(err) {
		t.Errorf("second draw in one turn: got %v, want validation error", err)
	}
}

func TestValidateDiscard(t *testing.T) {
	t.Parallel()

	held := card(deck.Spades, deck.Five)
	ts := tableWith(PlayerState{ID: "a", Hand: []deck.Card{held}, HasDrawn: true})

	if err := ValidateAction(ts, "a", Action{Kind: ActionDiscard, CardID: held.ID}); err != nil {
		t.Errorf("legal discard rejected: %v", err)
	}
	if err := ValidateAction(ts, "a", Action{Kind: ActionDiscard, CardID: "nope"}); !IsValidation(err) {
		t.Errorf("discard of unheld card: got %v, want validation error", err)
	}

	notDrawn := tableWith(PlayerState{ID: "a", Hand: []deck.Card{held}})
	if err := ValidateAction(notDrawn, "a", Action{Kind: ActionDiscard, CardID: held.ID}); !IsValidation(err) {
		t.Errorf("discard before drawing: got %v, want validation error", err)
	}
}

func TestValidateDrop(t *testing.T) {
	t.Parallel()

	low := tableWith(PlayerState{ID: "a", Hand: []deck.Card{card(deck.Hearts, deck.Ace), card(deck.Clubs, deck.Two)}})
	if err := ValidateAction(low, "a", Action{Kind: ActionDrop}); err != nil {
		t.Errorf("droppable score rejected: %v", err)
	}

	penalised := tableWith(PlayerState{ID: "a", PenaltyTurns: 2, Hand: []deck.Card{card(deck.Hearts, deck.Ace)}})
	if err := ValidateAction(penalised, "a", Action{Kind: ActionDrop}); !IsValidation(err) {
		t.Errorf("penalised drop: got %v, want validation error", err)
	}

	high := tableWith(PlayerState{ID: "a", Hand: []deck.Card{
		card(deck.Hearts, deck.King), card(deck.Clubs, deck.King),
		card(deck.Spades, deck.King), card(deck.Diamonds, deck.King),
		card(deck.Hearts, deck.Seven),
	}})
	high.FirstTurn = false
	if err := ValidateAction(high, "a", Action{Kind: ActionDrop}); !IsValidation(err) {
		t.Errorf("undroppable score: got %v, want validation error", err)
	}
}

func TestValidateSpread(t *testing.T) {
	t.Parallel()

	hand := []deck.Card{
		card(deck.Clubs, deck.Two),
		card(deck.Clubs, deck.Three),
		card(deck.Clubs, deck.Four),
		card(deck.Hearts, deck.King),
	}
	ts := tableWith(PlayerState{ID: "a", Hand: hand})

	ids := []string{hand[0].ID, hand[1].ID, hand[2].ID}
	if err := ValidateAction(ts, "a", Action{Kind: ActionSpread, CardIDs: ids}); err != nil {
		t.Errorf("well-formed spread rejected by validation: %v", err)
	}

	if err := ValidateAction(ts, "a", Action{Kind: ActionSpread, CardIDs: ids[:2]}); !IsValidation(err) {
		t.Errorf("two-card spread: got %v, want validation error", err)
	}

	bad := []string{hand[0].ID, hand[1].ID, hand[3].ID}
	if err := ValidateAction(ts, "a", Action{Kind: ActionSpread, CardIDs: bad}); !IsValidation(err) {
		t.Errorf("invalid spread shape: got %v, want validation error", err)
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	t.Parallel()

	ts := tableWith(PlayerState{ID: "a", Hand: []deck.Card{card(deck.Hearts, deck.Ace)}})
	action := Action{Kind: ActionDraw, Source: SourceDeck}

	first := ValidateAction(ts, "a", action)
	second := ValidateAction(ts, "a", action)
	if (first == nil) != (second == nil) {
		t.Errorf("validation not idempotent: %v vs %v", first, second)
	}
}
