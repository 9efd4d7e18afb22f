// Package ai implements the computer opponent. Agents are stateless: every
// decision is a pure function of the table snapshot, the acting player and a
// difficulty profile, with randomness confined to thinking-time pacing. An
// agent never mutates game state; the orchestrator applies its decisions
// through the same validated pipeline human actions use.
package ai

import (
	rand "math/rand/v2"
	"time"

	"github.com/freeski070605/tonk-server/internal/deck"
	"github.com/freeski070605/tonk-server/internal/randutil"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// Difficulty selects an AI personality tier
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known tier
func (d Difficulty) Valid() bool {
	return d == Easy || d == Medium || d == Hard
}

// drawThreshold is the minimum attractiveness score of the discard top
// before the agent takes it instead of a blind deck draw
func (d Difficulty) drawThreshold() float64 {
	switch d {
	case Easy:
		return 0.3
	case Hard:
		return 0.7
	default:
		return 0.5
	}
}

// riskTolerance bounds how much end-of-game risk the agent accepts before
// dropping. Harder tiers are more cautious about early drops and more
// reactive once risk runs high.
func (d Difficulty) riskTolerance() float64 {
	switch d {
	case Easy:
		return 0.7
	case Hard:
		return 0.3
	default:
		return 0.5
	}
}

// Profile binds a display identity to a difficulty tier for one AI seat
type Profile struct {
	Name       string
	Difficulty Difficulty
}

// Agent makes decisions for AI seats
type Agent struct {
	rng *rand.Rand
}

// New creates an agent. A nil rng falls back to a time-seeded source.
func New(rng *rand.Rand) *Agent {
	if rng == nil {
		rng = randutil.NewTimeSeeded()
	}
	return &Agent{rng: rng}
}

// DecideDrawSource chooses between the deck and the discard pile. An empty
// pile always means the deck; otherwise the top discard is scored for how
// much it improves the hand and compared against the difficulty threshold.
func (a *Agent) DecideDrawSource(ts rules.TableState, player rules.PlayerState, diff Difficulty) rules.DrawSource {
	if ts.DiscardLen == 0 || ts.DiscardTop == nil {
		return rules.SourceDeck
	}

	top := *ts.DiscardTop
	score := 0.0

	if completesSpread(top, player.Hand) {
		score += 0.8
	}
	if improvesSpreads(top, player.Hand) {
		score += 0.4
	}
	if top.Value <= 3 {
		score += 0.3
	} else if top.Value >= 10 {
		score -= 0.2
	}
	if diff == Hard && helpsOpponent(top, ts, player.ID) {
		score -= 0.3
	}

	score = clamp01(score)
	if score > diff.drawThreshold() {
		return rules.SourceDiscard
	}
	return rules.SourceDeck
}

// completesSpread reports whether the card forms a valid spread with any two
// cards already in hand
func completesSpread(card deck.Card, hand []deck.Card) bool {
	for i := 0; i < len(hand); i++ {
		for j := i + 1; j < len(hand); j++ {
			if rules.IsValidSpread([]deck.Card{card, hand[i], hand[j]}) {
				return true
			}
		}
	}
	return false
}

// improvesSpreads reports whether adding the card increases the number or
// the maximum size of playable spreads
func improvesSpreads(card deck.Card, hand []deck.Card) bool {
	before := rules.FindPlayableSpreads(hand)
	after := rules.FindPlayableSpreads(append(append([]deck.Card{}, hand...), card))
	return len(after) > len(before) || maxSpreadSize(after) > maxSpreadSize(before)
}

func maxSpreadSize(spreads []rules.Spread) int {
	max := 0
	for _, s := range spreads {
		if len(s.Cards) > max {
			max = len(s.Cards)
		}
	}
	return max
}

// helpsOpponent is the hook for opponent modelling on hard difficulty.
// Current policy never judges a discard as helping an opponent.
func helpsOpponent(deck.Card, rules.TableState, string) bool {
	return false
}

// DecideDiscard ranks every hand card by how safely it can be let go and
// returns the id of the least useful one. Ties keep the earliest card.
func (a *Agent) DecideDiscard(hand []deck.Card, ts rules.TableState, diff Difficulty) string {
	if len(hand) == 0 {
		return ""
	}
	if len(hand) == 1 {
		return hand[0].ID
	}

	baseline := len(rules.FindPlayableSpreads(hand))

	bestIdx := 0
	bestPriority := -1.0
	for i, c := range hand {
		priority := 0.1 * float64(c.Value)
		if partOfGrouping(c, hand) {
			priority -= 0.5
		}
		if spreadCritical(i, hand, baseline) {
			priority -= 0.7
		}
		if diff == Hard && c.Value <= 5 {
			priority -= 0.3
		}
		if priority > bestPriority {
			bestPriority = priority
			bestIdx = i
		}
	}
	return hand[bestIdx].ID
}

// partOfGrouping reports whether the card pairs by rank or sits within two
// values of a same-suit card elsewhere in the hand
func partOfGrouping(card deck.Card, hand []deck.Card) bool {
	for _, other := range hand {
		if other.ID == card.ID {
			continue
		}
		if other.Rank == card.Rank {
			return true
		}
		if other.Suit == card.Suit {
			diff := other.Value - card.Value
			if diff >= -2 && diff <= 2 {
				return true
			}
		}
	}
	return false
}

// spreadCritical reports whether removing the card at idx reduces the number
// of playable spreads below the baseline
func spreadCritical(idx int, hand []deck.Card, baseline int) bool {
	if baseline == 0 {
		return false
	}
	rest := make([]deck.Card, 0, len(hand)-1)
	rest = append(rest, hand[:idx]...)
	rest = append(rest, hand[idx+1:]...)
	return len(rules.FindPlayableSpreads(rest)) < baseline
}

// ShouldDrop decides whether the agent ends its participation. Mandatory
// favourable drops (triple and double payouts) are always taken; otherwise
// the decision weighs hand score against a risk signal and the tier's
// tolerance.
func (a *Agent) ShouldDrop(ts rules.TableState, player rules.PlayerState, diff Difficulty) bool {
	score := player.Score()
	if !rules.CanDrop(score, player.PenaltyTurns, ts.FirstTurn) {
		return false
	}

	if score <= rules.LowDropMax {
		return true
	}
	if ts.FirstTurn && score == rules.FirstTurnMax {
		return true
	}
	if score == rules.SpecialDrop {
		return true
	}

	risk := a.assessRisk(ts, player.ID)
	tolerance := diff.riskTolerance()

	switch {
	case score <= 20:
		return true
	case score <= 30 && risk < tolerance:
		return true
	case score <= 40 && risk < tolerance/2:
		return true
	case risk > tolerance*1.5:
		// Panic drop: cut losses before an opponent goes out.
		return true
	default:
		return false
	}
}

// assessRisk estimates in [0,1] how close the game is to ending against the
// agent: more opponents still in, opponents with short hands, and overall
// game progress all raise it.
func (a *Agent) assessRisk(ts rules.TableState, selfID string) float64 {
	risk := 0.0
	for _, p := range ts.Players {
		if p.ID == selfID || p.IsDropped {
			continue
		}
		risk += 0.1
		switch {
		case len(p.Hand) <= 2:
			risk += 0.25
		case len(p.Hand) <= 3:
			risk += 0.15
		}
	}

	progress := float64(ts.TotalDiscards) * 0.01
	if progress > 0.3 {
		progress = 0.3
	}
	risk += progress

	return clamp01(risk)
}

// Thinking-time ceilings enforced regardless of difficulty
const (
	maxDrawThink    = time.Second
	maxDropThink    = 500 * time.Millisecond
	maxDiscardThink = time.Second
)

// ThinkingTime returns a randomised pause before the agent acts, purely for
// perceived realism. Always bounded so the cascade stays responsive.
func (a *Agent) ThinkingTime(diff Difficulty, kind rules.ActionKind) time.Duration {
	var lo, hi time.Duration
	switch diff {
	case Easy:
		lo, hi = 200*time.Millisecond, 600*time.Millisecond
	case Hard:
		lo, hi = 400*time.Millisecond, time.Second
	default:
		lo, hi = 300*time.Millisecond, 800*time.Millisecond
	}

	var ceiling time.Duration
	switch kind {
	case rules.ActionDrop:
		ceiling = maxDropThink
	case rules.ActionDraw:
		ceiling = maxDrawThink
	default:
		ceiling = maxDiscardThink
	}

	d := lo + time.Duration(a.rng.Int64N(int64(hi-lo)))
	if d > ceiling {
		d = ceiling
	}
	return d
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
