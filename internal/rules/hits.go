package rules

import "github.com/freeski070605/tonk-server/internal/deck"

// HitResult identifies the first opponent spread a drawn card could extend
type HitResult struct {
	PlayerID string
	Spread   Spread
}

// Penalty is a drop penalty assessed against a player whose spread was hit
type Penalty struct {
	PlayerID string
	Turns    int
}

// hitsSpread reports whether a card extends a spread: matching rank for a
// set, or same suit and value exactly one beyond either end for a run.
// Runs extend at the ends only; gap-filling is not a hit.
func hitsSpread(card deck.Card, s Spread) bool {
	if len(s.Cards) == 0 {
		return false
	}
	switch s.Type {
	case SpreadSet:
		return card.Rank == s.Cards[0].Rank
	case SpreadRun:
		if card.Suit != s.Cards[0].Suit {
			return false
		}
		return card.Value == s.MinValue()-1 || card.Value == s.MaxValue()+1
	default:
		return false
	}
}

// WouldHitSpread scans every other player's current spreads in player order
// and returns the first one the card would extend.
func WouldHitSpread(card deck.Card, players []PlayerState, drawerID string) (HitResult, bool) {
	for _, p := range players {
		if p.ID == drawerID || p.IsDropped {
			continue
		}
		for _, s := range FindExistingSpreads(p.Hand) {
			if hitsSpread(card, s) {
				return HitResult{PlayerID: p.ID, Spread: s}, true
			}
		}
	}
	return HitResult{}, false
}

// AssessHitPenalties computes the penalties a deck draw inflicts: every
// other active player holding a spread the drawn card would extend is
// penalised 2 turns plus one per hit already suffered this game. Penalties
// land on the players being hit, never the drawer. The caller applies the
// returned penalties and increments hit counts; discard-pile draws never
// trigger this check.
func AssessHitPenalties(drawn deck.Card, players []PlayerState, drawerID string) []Penalty {
	var penalties []Penalty
	for _, p := range players {
		if p.ID == drawerID || p.IsDropped {
			continue
		}
		for _, s := range FindExistingSpreads(p.Hand) {
			if hitsSpread(drawn, s) {
				penalties = append(penalties, Penalty{
					PlayerID: p.ID,
					Turns:    BaseHitPenalty + p.HitCount,
				})
				break
			}
		}
	}
	return penalties
}
