package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/freeski070605/tonk-server/internal/randutil"
)

func TestViewMasksOtherHands(t *testing.T) {
	t.Parallel()

	g := New("g1", 5, testSeats(), randutil.New(1))
	v := ViewFor(g, "human")

	for _, pv := range v.Players {
		if pv.ID == "human" {
			for _, c := range pv.Hand {
				if c.Hidden || c.Value == 0 {
					t.Errorf("viewer's own card masked: %+v", c)
				}
			}
			continue
		}
		if pv.Score != 0 {
			t.Errorf("opponent %s score leaked: %d", pv.ID, pv.Score)
		}
		for _, c := range pv.Hand {
			if !c.Hidden || c.Value != 0 {
				t.Errorf("opponent card leaked: %+v", c)
			}
			if c.ID == "" {
				t.Error("masked card lost its id")
			}
		}
	}

	if v.DeckCount != len(g.Deck) {
		t.Errorf("deck surfaced as %d cards, want count %d", v.DeckCount, len(g.Deck))
	}
}

func TestViewSerialisationLeaksNothing(t *testing.T) {
	t.Parallel()

	g := New("g1", 5, testSeats(), randutil.New(1))
	v := ViewFor(g, "human")

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// Every opponent card must appear only in masked form.
	for _, p := range g.Players[1:] {
		for _, c := range p.Hand {
			needle := `"id":"` + c.ID + `","suit":"?"`
			if !strings.Contains(string(data), needle) {
				t.Errorf("card %s not serialised masked", c.ID)
			}
		}
	}
}

func TestViewRevealsHandsWhenEnded(t *testing.T) {
	t.Parallel()

	g := New("g1", 5, testSeats(), randutil.New(1))
	g.Status = StatusEnded

	v := ViewFor(g, "human")
	for _, pv := range v.Players {
		for _, c := range pv.Hand {
			if c.Hidden {
				t.Errorf("ended game should reveal hands, %s still masked", pv.ID)
			}
		}
	}
}
