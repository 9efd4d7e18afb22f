package server

import (
	"errors"
	"sync"
	"time"

	"github.com/freeski070605/tonk-server/internal/game"
)

// ErrInsufficientFunds is returned by a ledger when a debit would take a
// balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AccountLedger is the money side of the house. Debit collects a stake when
// a player sits down, Credit pays out winnings at settlement.
type AccountLedger interface {
	Debit(playerID string, amount int) error
	Credit(playerID string, amount int) error
	RecordGameStats(playerID string, won bool, wagered, winnings int) error
}

// SeatRegistry tracks how many games are running per stake table so the
// server can refuse joins past a table's capacity.
type SeatRegistry interface {
	Reserve(table string, gameID string) error
	Release(table string, gameID string)
	ActiveGames(table string) int
}

// SnapshotStore persists committed game state. Save replaces the stored
// snapshot wholesale; a game is only ever read back through Load.
type SnapshotStore interface {
	Load(gameID string) (*game.Game, error)
	Save(g *game.Game) error
	Delete(gameID string)
}

// ErrGameNotFound is returned by a store when no snapshot exists for the id
var ErrGameNotFound = errors.New("game not found")

// ErrTableFull is returned by a registry when a table is at capacity
var ErrTableFull = errors.New("table is full")

// MemoryLedger is the in-process AccountLedger. Accounts are created on
// first reference with a configurable starting balance.
type MemoryLedger struct {
	mu              sync.Mutex
	startingBalance int
	balances        map[string]int
	stats           map[string]*PlayerStats
}

// PlayerStats accumulates per-player lifetime results
type PlayerStats struct {
	GamesPlayed  int `json:"gamesPlayed"`
	GamesWon     int `json:"gamesWon"`
	TotalWagered int `json:"totalWagered"`
	TotalWon     int `json:"totalWon"`
}

// NewMemoryLedger creates a ledger that opens every account at startingBalance
func NewMemoryLedger(startingBalance int) *MemoryLedger {
	return &MemoryLedger{
		startingBalance: startingBalance,
		balances:        make(map[string]int),
		stats:           make(map[string]*PlayerStats),
	}
}

func (l *MemoryLedger) balance(playerID string) int {
	if _, ok := l.balances[playerID]; !ok {
		l.balances[playerID] = l.startingBalance
	}
	return l.balances[playerID]
}

// Balance returns the current balance, opening the account if needed
func (l *MemoryLedger) Balance(playerID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balance(playerID)
}

// Debit removes amount from the account, failing without effect if the
// balance cannot cover it.
func (l *MemoryLedger) Debit(playerID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.balance(playerID) < amount {
		return ErrInsufficientFunds
	}
	l.balances[playerID] -= amount
	return nil
}

// Credit adds amount to the account
func (l *MemoryLedger) Credit(playerID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] = l.balance(playerID) + amount
	return nil
}

// RecordGameStats folds one finished game into the player's lifetime stats
func (l *MemoryLedger) RecordGameStats(playerID string, won bool, wagered, winnings int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.stats[playerID]
	if !ok {
		s = &PlayerStats{}
		l.stats[playerID] = s
	}
	s.GamesPlayed++
	if won {
		s.GamesWon++
	}
	s.TotalWagered += wagered
	s.TotalWon += winnings
	return nil
}

// Stats returns a copy of the player's lifetime stats
func (l *MemoryLedger) Stats(playerID string) PlayerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.stats[playerID]; ok {
		return *s
	}
	return PlayerStats{}
}

// MemorySeatRegistry is the in-process SeatRegistry
type MemorySeatRegistry struct {
	mu     sync.Mutex
	limits map[string]int
	games  map[string]map[string]struct{}
}

// NewMemorySeatRegistry creates a registry with per-table game limits
func NewMemorySeatRegistry(limits map[string]int) *MemorySeatRegistry {
	return &MemorySeatRegistry{
		limits: limits,
		games:  make(map[string]map[string]struct{}),
	}
}

// Reserve claims a game slot on the table
func (r *MemorySeatRegistry) Reserve(table string, gameID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	active := r.games[table]
	if active == nil {
		active = make(map[string]struct{})
		r.games[table] = active
	}
	if limit, ok := r.limits[table]; ok && len(active) >= limit {
		return ErrTableFull
	}
	active[gameID] = struct{}{}
	return nil
}

// Release frees the game's slot on the table
func (r *MemorySeatRegistry) Release(table string, gameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.games[table], gameID)
}

// ActiveGames returns the number of reserved slots on the table
func (r *MemorySeatRegistry) ActiveGames(table string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.games[table])
}

// MemoryStore is the in-process SnapshotStore. Snapshots are deep-copied on
// both Save and Load so callers can never alias the stored state.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*game.Game
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*game.Game)}
}

// Load returns a copy of the stored snapshot
func (s *MemoryStore) Load(gameID string) (*game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.Clone(), nil
}

// Save replaces the stored snapshot with a copy of g
func (s *MemoryStore) Save(g *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.ID] = g.Clone()
	return nil
}

// Delete removes the snapshot. Missing ids are a no-op.
func (s *MemoryStore) Delete(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
}

// Ended returns the ids of ended games older than cutoff, for sweeping
func (s *MemoryStore) Ended(cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, g := range s.games {
		if g.Status == game.StatusEnded && g.EndedAt != nil && g.EndedAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids
}
