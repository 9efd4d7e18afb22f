package deck

import (
	"encoding/json"
	"testing"
)

func TestRankValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rank  Rank
		value int
	}{
		{Ace, 1},
		{Two, 2},
		{Seven, 7},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}

	for _, tt := range tests {
		if got := tt.rank.Value(); got != tt.value {
			t.Errorf("%s.Value() = %d, want %d", tt.rank, got, tt.value)
		}
	}
}

func TestScore(t *testing.T) {
	t.Parallel()

	hand := []Card{
		NewCard(Spades, Ace),
		NewCard(Hearts, Seven),
		NewCard(Diamonds, King),
	}
	if got := Score(hand); got != 18 {
		t.Errorf("Score(A♠ 7♥ K♦) = %d, want 18", got)
	}

	if got := Score(nil); got != 0 {
		t.Errorf("Score(nil) = %d, want 0", got)
	}
	if got := Score([]Card{}); got != 0 {
		t.Errorf("Score(empty) = %d, want 0", got)
	}
}

func TestMaskPreservesIdentityOnly(t *testing.T) {
	t.Parallel()

	card := NewCard(Clubs, Queen)
	masked := Mask(card)

	if masked.ID != card.ID {
		t.Errorf("masked ID = %q, want %q", masked.ID, card.ID)
	}
	if masked.Suit != UnknownSuit || masked.Rank != UnknownRank {
		t.Errorf("masked card leaks suit/rank: %v", masked)
	}
	if masked.Value != 0 {
		t.Errorf("masked value = %d, want 0", masked.Value)
	}
	if !masked.Hidden {
		t.Error("masked card should be hidden")
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	t.Parallel()

	card := NewCard(Hearts, Seven)
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Card
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != card {
		t.Errorf("round trip changed card: got %+v, want %+v", decoded, card)
	}
}

func TestMaskedCardJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Mask(NewCard(Spades, King)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["suit"] != "?" || raw["rank"] != "?" {
		t.Errorf("masked card should serialise suit/rank as \"?\": %s", data)
	}
	if raw["value"].(float64) != 0 {
		t.Errorf("masked card should serialise value 0: %s", data)
	}
}
