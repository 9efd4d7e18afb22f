package server

import (
	"fmt"
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/freeski070605/tonk-server/internal/ai"
	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/gameid"
	"github.com/freeski070605/tonk-server/internal/randutil"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// Broadcaster delivers a message to one connected player. Players without a
// live connection are silently skipped.
type Broadcaster interface {
	Send(playerID string, msg *Message)
}

// GameManager owns the boundary around the orchestrator: it serialises
// actions per game, persists committed state, settles money when games end
// and publishes per-viewer snapshots. The commit order is fixed: mutate a
// copy, persist, then notify. A failure before persist leaves the committed
// state untouched.
type GameManager struct {
	config      *ServerConfig
	orch        *game.Orchestrator
	store       SnapshotStore
	ledger      AccountLedger
	seats       SeatRegistry
	broadcaster Broadcaster
	rng         *rand.Rand
	logger      *log.Logger

	mu     sync.Mutex
	locks  map[string]*sync.Mutex
	tables map[string]string
}

// NewGameManager creates a game manager. The broadcaster is attached
// separately because the transport that implements it is constructed around
// the manager.
func NewGameManager(config *ServerConfig, orch *game.Orchestrator, store SnapshotStore,
	ledger AccountLedger, seats SeatRegistry, logger *log.Logger) *GameManager {
	return &GameManager{
		config: config,
		orch:   orch,
		store:  store,
		ledger: ledger,
		seats:  seats,
		rng:    randutil.NewTimeSeeded(),
		logger: logger.WithPrefix("games"),
		locks:  make(map[string]*sync.Mutex),
		tables: make(map[string]string),
	}
}

// SetBroadcaster attaches the notification transport. Must be called before
// the manager starts handling games.
func (m *GameManager) SetBroadcaster(b Broadcaster) {
	m.broadcaster = b
}

// SetRNG overrides the randomness source used for dealing, for
// reproducible games.
func (m *GameManager) SetRNG(rng *rand.Rand) {
	m.rng = rng
}

// gameLock returns the per-game mutex, creating it on first use. All reads
// and writes of a game's committed state happen under its lock.
func (m *GameManager) gameLock(gameID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[gameID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[gameID] = l
	}
	return l
}

// CreateGame starts a game on the named table. The given humans take the
// first seats and AI opponents from the server configuration fill the rest.
// Each human's stake is debited up front; any debit failure refunds the
// others and aborts.
func (m *GameManager) CreateGame(table string, humans []game.Seat) (*game.Game, error) {
	tc := m.config.GetTableByName(table)
	if tc == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	if len(humans) == 0 || len(humans) > game.Seats {
		return nil, fmt.Errorf("need between 1 and %d human seats, got %d", game.Seats, len(humans))
	}

	id := gameid.New()
	if err := m.seats.Reserve(table, id); err != nil {
		return nil, fmt.Errorf("table %s: %w", table, err)
	}

	var debited []string
	for _, h := range humans {
		if err := m.ledger.Debit(h.PlayerID, tc.Stake); err != nil {
			for _, refund := range debited {
				m.ledger.Credit(refund, tc.Stake)
			}
			m.seats.Release(table, id)
			return nil, fmt.Errorf("player %s: %w", h.PlayerID, err)
		}
		debited = append(debited, h.PlayerID)
	}

	var seats [game.Seats]game.Seat
	copy(seats[:], humans)
	profiles := m.config.Seats
	for i := len(humans); i < game.Seats; i++ {
		p := profiles[(i-len(humans))%len(profiles)]
		seats[i] = game.Seat{
			PlayerID:    fmt.Sprintf("%s-ai-%d", id, i),
			DisplayName: p.Name,
			IsAI:        true,
			Difficulty:  ai.Difficulty(p.Difficulty),
		}
	}

	lock := m.gameLock(id)
	lock.Lock()
	defer lock.Unlock()

	g := game.New(id, tc.Stake, seats, m.rng)
	if err := m.store.Save(g); err != nil {
		for _, refund := range debited {
			m.ledger.Credit(refund, tc.Stake)
		}
		m.seats.Release(table, id)
		return nil, fmt.Errorf("persist game %s: %w", id, err)
	}

	m.mu.Lock()
	m.tables[id] = table
	m.mu.Unlock()

	m.logger.Info("game created",
		"game", id, "table", table, "stake", tc.Stake, "humans", len(humans))

	// Seat zero is always human here, so no cascade is due yet.
	return g, nil
}

// HandleAction applies one human action plus the AI cascade it triggers,
// commits the result and notifies. It returns the committed post-action
// state.
func (m *GameManager) HandleAction(gameID, playerID string, action rules.Action) (*game.Game, error) {
	lock := m.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()

	g, err := m.store.Load(gameID)
	if err != nil {
		return nil, err
	}

	next, events, err := m.orch.Apply(g, playerID, action)
	if err != nil {
		return nil, err
	}

	next, events, err = m.drainAITurns(next, events)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(next); err != nil {
		return nil, fmt.Errorf("persist game %s: %w", gameID, err)
	}
	m.notify(next, events)
	return next, nil
}

// drainAITurns keeps triggering the cascade after drops hand control back,
// until a human must act or the game ends. Each round either ends the game
// or removes a player, so the loop is bounded by the seat count.
func (m *GameManager) drainAITurns(g *game.Game, events []game.Event) (*game.Game, []game.Event, error) {
	for i := 0; i < game.Seats; i++ {
		if g.Status != game.StatusPlaying {
			break
		}
		if actor := g.CurrentPlayer(); !actor.IsAI || actor.IsDropped {
			break
		}
		next, more, err := m.orch.Advance(g)
		if err != nil {
			return nil, nil, err
		}
		g = next
		events = append(events, more...)
	}
	return g, events, nil
}

// Game returns the committed snapshot of a game
func (m *GameManager) Game(gameID string) (*game.Game, error) {
	lock := m.gameLock(gameID)
	lock.Lock()
	defer lock.Unlock()
	return m.store.Load(gameID)
}

// TableOf returns the table a game was created on
func (m *GameManager) TableOf(gameID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tables[gameID]
}

// notify runs the post-commit side effects: settlement on game end, then
// per-viewer snapshots to every connected human. Notification failures are
// logged, never propagated; the state is already committed.
func (m *GameManager) notify(g *game.Game, events []game.Event) {
	for _, ev := range events {
		ended, ok := ev.(game.GameEndedEvent)
		if !ok {
			continue
		}
		m.settle(g, ended)
	}

	if m.broadcaster == nil {
		return
	}
	for _, p := range g.Players {
		if p.IsAI {
			continue
		}
		view := game.ViewFor(g, p.ID)
		msg, err := NewMessage(MessageTypeGameState, GameStateData{GameID: g.ID, View: view})
		if err != nil {
			m.logger.Error("marshal game state", "game", g.ID, "error", err)
			continue
		}
		m.broadcaster.Send(p.ID, msg)

		if g.Status == game.StatusEnded {
			endMsg, err := NewMessage(MessageTypeGameEnded, GameEndedData{
				GameID:     g.ID,
				WinnerID:   g.WinnerID,
				Multiplier: g.WinningMultiplier,
				Winnings:   g.Pot * g.WinningMultiplier,
				View:       view,
			})
			if err != nil {
				m.logger.Error("marshal game end", "game", g.ID, "error", err)
				continue
			}
			m.broadcaster.Send(p.ID, endMsg)
		}
	}
}

// settle pays the winner and records results for every human seat, then
// frees the table slot.
func (m *GameManager) settle(g *game.Game, ended game.GameEndedEvent) {
	winner, _ := g.PlayerByID(ended.WinnerID)
	if winner != nil && !winner.IsAI {
		if err := m.ledger.Credit(winner.ID, ended.Winnings); err != nil {
			m.logger.Error("credit winnings",
				"game", g.ID, "player", winner.ID, "amount", ended.Winnings, "error", err)
		}
	}

	for _, p := range g.Players {
		if p.IsAI {
			continue
		}
		won := p.ID == ended.WinnerID
		winnings := 0
		if won {
			winnings = ended.Winnings
		}
		if err := m.ledger.RecordGameStats(p.ID, won, g.Stake, winnings); err != nil {
			m.logger.Error("record stats", "game", g.ID, "player", p.ID, "error", err)
		}
	}

	table := m.TableOf(g.ID)
	if table != "" {
		m.seats.Release(table, g.ID)
	}
	m.logger.Info("game settled",
		"game", g.ID, "winner", ended.WinnerID,
		"multiplier", ended.Multiplier, "winnings", ended.Winnings)
}
