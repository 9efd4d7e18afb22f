package rules

import (
	"sort"

	"github.com/freeski070605/tonk-server/internal/deck"
)

// SpreadType distinguishes sets from runs
type SpreadType string

const (
	SpreadSet SpreadType = "set"
	SpreadRun SpreadType = "run"
)

// Spread is a set (3+ cards of one rank) or run (3+ consecutive values of
// one suit) usable for scoring and hit-penalty purposes.
type Spread struct {
	Type  SpreadType
	Cards []deck.Card
}

// MinValue returns the lowest card value in the spread
func (s Spread) MinValue() int {
	if len(s.Cards) == 0 {
		return 0
	}
	min := s.Cards[0].Value
	for _, c := range s.Cards[1:] {
		if c.Value < min {
			min = c.Value
		}
	}
	return min
}

// MaxValue returns the highest card value in the spread
func (s Spread) MaxValue() int {
	max := 0
	for _, c := range s.Cards {
		if c.Value > max {
			max = c.Value
		}
	}
	return max
}

// validCards filters out malformed entries (masked or zero-rank cards)
func validCards(cards []deck.Card) []deck.Card {
	out := make([]deck.Card, 0, len(cards))
	for _, c := range cards {
		if c.Rank != deck.UnknownRank && c.Suit != deck.UnknownSuit && !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// IsValidSpread reports whether the cards form a set or a run. A set shares
// one rank; a run shares one suit and its values are strictly consecutive
// with no duplicates. Fewer than three well-formed cards is never valid.
func IsValidSpread(cards []deck.Card) bool {
	cs := validCards(cards)
	if len(cs) < 3 {
		return false
	}
	return isSet(cs) || isRun(cs)
}

func isSet(cards []deck.Card) bool {
	for _, c := range cards[1:] {
		if c.Rank != cards[0].Rank {
			return false
		}
	}
	return true
}

func isRun(cards []deck.Card) bool {
	suit := cards[0].Suit
	values := make([]int, len(cards))
	for i, c := range cards {
		if c.Suit != suit {
			return false
		}
		values[i] = c.Value
	}
	sort.Ints(values)
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]+1 {
			return false
		}
	}
	return true
}

// FindExistingSpreads detects the spreads currently held in a hand: maximal
// rank groups of three or more as sets, then maximal consecutive-value runs
// among the remaining cards of each suit. Cards claimed by a set are not
// reused by a run.
func FindExistingSpreads(hand []deck.Card) []Spread {
	cards := validCards(hand)

	var spreads []Spread
	used := make(map[string]bool)

	byRank := make(map[deck.Rank][]deck.Card)
	for _, c := range cards {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}
	for _, rank := range deck.Ranks {
		group := byRank[rank]
		if len(group) >= 3 {
			spreads = append(spreads, Spread{Type: SpreadSet, Cards: group})
			for _, c := range group {
				used[c.ID] = true
			}
		}
	}

	bySuit := make(map[deck.Suit][]deck.Card)
	for _, c := range cards {
		if !used[c.ID] {
			bySuit[c.Suit] = append(bySuit[c.Suit], c)
		}
	}
	for suit := deck.Hearts; suit <= deck.Spades; suit++ {
		group := bySuit[suit]
		sort.Slice(group, func(i, j int) bool { return group[i].Value < group[j].Value })
		spreads = append(spreads, maximalRuns(group)...)
	}

	return spreads
}

// maximalRuns extracts runs of three or more consecutive values from a
// single-suit group already sorted by value
func maximalRuns(group []deck.Card) []Spread {
	var runs []Spread
	start := 0
	for i := 1; i <= len(group); i++ {
		if i < len(group) && group[i].Value == group[i-1].Value+1 {
			continue
		}
		if i-start >= 3 {
			run := make([]deck.Card, i-start)
			copy(run, group[start:i])
			runs = append(runs, Spread{Type: SpreadRun, Cards: run})
		}
		start = i
	}
	return runs
}

// FindPlayableSpreads enumerates every subset of three or more hand cards
// that forms a valid spread. Informational and AI use only; spreads are
// never played to the table mid-game.
func FindPlayableSpreads(hand []deck.Card) []Spread {
	cards := validCards(hand)
	if len(cards) < 3 {
		return nil
	}

	var spreads []Spread
	n := len(cards)
	for mask := 1; mask < 1<<n; mask++ {
		if bitsSet(mask) < 3 {
			continue
		}
		subset := make([]deck.Card, 0, n)
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				subset = append(subset, cards[i])
			}
		}
		if IsValidSpread(subset) {
			typ := SpreadRun
			if isSet(subset) {
				typ = SpreadSet
			}
			spreads = append(spreads, Spread{Type: typ, Cards: subset})
		}
	}
	return spreads
}

func bitsSet(mask int) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}
