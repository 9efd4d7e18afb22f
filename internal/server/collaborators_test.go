package server

import (
	"errors"
	"testing"

	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/randutil"
)

func TestMemoryLedgerDebitCredit(t *testing.T) {
	t.Parallel()
	l := NewMemoryLedger(100)

	if got := l.Balance("alice"); got != 100 {
		t.Fatalf("expected opening balance 100, got %d", got)
	}
	if err := l.Debit("alice", 30); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if err := l.Credit("alice", 5); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if got := l.Balance("alice"); got != 75 {
		t.Errorf("expected balance 75, got %d", got)
	}

	err := l.Debit("alice", 1000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := l.Balance("alice"); got != 75 {
		t.Errorf("failed debit must not change balance, got %d", got)
	}
}

func TestMemoryLedgerStats(t *testing.T) {
	t.Parallel()
	l := NewMemoryLedger(100)

	if err := l.RecordGameStats("bob", true, 5, 60); err != nil {
		t.Fatal(err)
	}
	if err := l.RecordGameStats("bob", false, 5, 0); err != nil {
		t.Fatal(err)
	}

	s := l.Stats("bob")
	if s.GamesPlayed != 2 || s.GamesWon != 1 || s.TotalWagered != 10 || s.TotalWon != 60 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestMemorySeatRegistryCapacity(t *testing.T) {
	t.Parallel()
	r := NewMemorySeatRegistry(map[string]int{"penny": 2})

	if err := r.Reserve("penny", "g1"); err != nil {
		t.Fatal(err)
	}
	if err := r.Reserve("penny", "g2"); err != nil {
		t.Fatal(err)
	}
	if err := r.Reserve("penny", "g3"); !errors.Is(err, ErrTableFull) {
		t.Errorf("expected ErrTableFull, got %v", err)
	}
	if got := r.ActiveGames("penny"); got != 2 {
		t.Errorf("expected 2 active games, got %d", got)
	}

	r.Release("penny", "g1")
	if err := r.Reserve("penny", "g3"); err != nil {
		t.Errorf("expected slot after release, got %v", err)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	g := newStoredGame(t)
	if err := s.Save(g); err != nil {
		t.Fatal(err)
	}

	// Mutating the saved-from value must not leak into the store.
	g.Pot = 9999
	loaded, err := s.Load(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Pot == 9999 {
		t.Error("store aliased the saved game")
	}

	// Mutating a loaded copy must not leak either.
	loaded.Players[0].Hand = nil
	again, err := s.Load(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Players[0].Hand) == 0 {
		t.Error("store aliased a loaded game")
	}

	s.Delete(g.ID)
	if _, err := s.Load(g.ID); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound after delete, got %v", err)
	}
}

func newStoredGame(t *testing.T) *game.Game {
	t.Helper()
	seats := [game.Seats]game.Seat{
		{PlayerID: "alice", DisplayName: "Alice"},
		{PlayerID: "b1", DisplayName: "B1", IsAI: true, Difficulty: "easy"},
		{PlayerID: "b2", DisplayName: "B2", IsAI: true, Difficulty: "medium"},
		{PlayerID: "b3", DisplayName: "B3", IsAI: true, Difficulty: "hard"},
	}
	return game.New("test-game", 5, seats, randutil.New(7))
}
