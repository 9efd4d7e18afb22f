package rules

// Drop-eligibility and payout thresholds. A score of 11 or less is
// droppable on any turn; exactly 41 during the first-turn phase and exactly
// 50 on any later turn are the special drops; the first-turn phase widens
// the window to 41.
const (
	LowDropMax     = 11
	FirstTurnMax   = 41
	SpecialDrop    = 50
	BaseHitPenalty = 2
)

// CanDrop reports whether a player with the given score may drop. Penalised
// players may never drop while penalty turns remain.
func CanDrop(score, penaltyTurns int, firstTurn bool) bool {
	if penaltyTurns > 0 {
		return false
	}
	switch {
	case score <= LowDropMax:
		return true
	case firstTurn && score <= FirstTurnMax:
		return true
	case score == SpecialDrop:
		return true
	default:
		return false
	}
}

// WinningMultiplier returns the payout multiplier for a drop at the given
// score. Evaluated independently of eligibility, at the moment of dropping.
func WinningMultiplier(score int, firstTurn bool) int {
	switch {
	case score <= LowDropMax:
		return 3
	case firstTurn && score == FirstTurnMax:
		return 3
	case score == SpecialDrop:
		return 2
	default:
		return 1
	}
}
