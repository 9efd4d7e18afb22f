package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Server is the WebSocket boundary. It owns client connections and
// implements Broadcaster for the game manager, routing per-viewer snapshots
// back to the players they belong to.
type Server struct {
	config      *ServerConfig
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	manager     *GameManager
	ledger      *MemoryLedger
	seats       SeatRegistry
	httpServer  *http.Server
}

// NewServer creates a new WebSocket server wired to the given manager. The
// manager's broadcaster is pointed back at the server.
func NewServer(config *ServerConfig, manager *GameManager, ledger *MemoryLedger,
	seats SeatRegistry, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
		manager:     manager,
		ledger:      ledger,
		seats:       seats,
	}
	manager.SetBroadcaster(s)
	return s
}

// Start starts the WebSocket server. Blocks until the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	addr := s.config.GetServerAddress()
	s.logger.Info("Starting WebSocket server", "addr", addr)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}
	return s.httpServer.ListenAndServe()
}

// Stop closes every client connection without waiting
func (s *Server) Stop() error {
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// Shutdown stops the listener and drains connections within ctx's deadline
func (s *Server) Shutdown(ctx context.Context) error {
	_ = s.Stop()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// register adds a connection to the active set
func (s *Server) register(c *Connection) {
	s.mu.Lock()
	s.connections[c] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

// unregister removes a connection from the active set
func (s *Server) unregister(c *Connection) {
	s.mu.Lock()
	_, ok := s.connections[c]
	delete(s.connections, c)
	total := len(s.connections)
	s.mu.Unlock()
	if ok {
		s.logger.Info("Client disconnected",
			"player", c.GetPlayer(), "total", total)
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.register(client)
	client.Start()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Send delivers a message to the player's connection, if one exists. This is
// the Broadcaster implementation used by the game manager; players who have
// disconnected simply miss the snapshot and catch up from the next one.
func (s *Server) Send(playerID string, msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			if err := conn.SendMessage(msg); err != nil {
				s.logger.Error("Failed to send message to client",
					"error", err, "player", playerID)
			}
			return
		}
	}
}

// Balance reports a player's ledger balance, for the auth response
func (s *Server) Balance(playerID string) int {
	return s.ledger.Balance(playerID)
}

// ListTables describes the configured stake tables and their load
func (s *Server) ListTables() []TableInfo {
	tables := make([]TableInfo, len(s.config.Tables))
	for i, t := range s.config.Tables {
		tables[i] = TableInfo{
			Name:        t.Name,
			Stake:       t.Stake,
			ActiveGames: s.seats.ActiveGames(t.Name),
			MaxGames:    t.MaxGames,
		}
	}
	return tables
}

// GetConnectedPlayers returns a list of connected player IDs
func (s *Server) GetConnectedPlayers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if playerID := conn.GetPlayer(); playerID != "" {
			players = append(players, playerID)
		}
	}

	return players
}
