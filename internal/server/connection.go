package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/gameid"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  string
	gameID    string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetGame associates this connection with a game
func (c *Connection) SetGame(gameID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gameID = gameID
}

// GetGame returns the associated game ID
func (c *Connection) GetGame() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gameID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() {
		c.server.unregister(c)
		_ = c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeJoinTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join table data")
			return
		}
		c.handleJoinTable(data)

	case MessageTypeLeaveTable:
		var data LeaveTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse leave table data")
			return
		}
		c.handleLeaveTable(data)

	case MessageTypeListTables:
		c.handleListTables()

	case MessageTypeGameAction:
		var data GameActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse game action data")
			return
		}
		c.handleGameAction(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) handleAuth(data AuthData) {
	c.logger.Info("Auth request", "playerName", data.PlayerName)

	// Simple authentication, any non-empty player name is accepted
	if data.PlayerName == "" {
		c.sendError("invalid_auth", "Player name required")
		return
	}

	c.SetPlayer(data.PlayerName)

	response, _ := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: data.PlayerName,
		Balance:  c.server.Balance(data.PlayerName),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	c.logger.Info("Join table request", "table", data.Table, "player", c.GetPlayer())

	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if c.GetGame() != "" {
		c.sendError("already_seated", "Leave the current game first")
		return
	}

	g, err := c.server.manager.CreateGame(data.Table, []game.Seat{{
		PlayerID:    playerID,
		DisplayName: playerID,
	}})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			c.sendError("insufficient_funds", err.Error())
		} else {
			c.sendError("join_failed", err.Error())
		}
		return
	}

	c.SetGame(g.ID)

	response, _ := NewMessage(MessageTypeTableJoined, TableJoinedData{
		GameID: g.ID,
		Table:  data.Table,
		Stake:  g.Stake,
		View:   game.ViewFor(g, playerID),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleLeaveTable(data LeaveTableData) {
	c.logger.Info("Leave table request", "game", data.GameID, "player", c.GetPlayer())

	if c.GetPlayer() == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if data.GameID != c.GetGame() {
		c.sendError("not_in_game", "Not seated in that game")
		return
	}

	c.SetGame("")
	response, _ := NewMessage(MessageTypeTableLeft, TableLeftData{GameID: data.GameID})
	_ = c.SendMessage(response)
}

func (c *Connection) handleListTables() {
	c.logger.Debug("List tables request", "player", c.GetPlayer())

	response, _ := NewMessage(MessageTypeTableList, TableListData{
		Tables: c.server.ListTables(),
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleGameAction(data GameActionData) {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("not_authenticated", "Must authenticate first")
		return
	}
	if err := gameid.Validate(data.GameID); err != nil {
		c.sendError("invalid_game_id", err.Error())
		return
	}

	c.logger.Debug("Game action",
		"game", data.GameID, "player", playerID, "action", data.Action.Kind)

	_, err := c.server.manager.HandleAction(data.GameID, playerID, data.Action)
	if err != nil {
		switch {
		case rules.IsValidation(err):
			c.sendError("invalid_action", err.Error())
		case errors.Is(err, rules.ErrNotYourTurn):
			c.sendError("not_your_turn", err.Error())
		case errors.Is(err, rules.ErrAlreadyDropped):
			c.sendError("already_dropped", err.Error())
		case errors.Is(err, rules.ErrSpreadNotPlayable):
			c.sendError("spread_not_playable", err.Error())
		case errors.Is(err, ErrGameNotFound):
			c.sendError("game_not_found", err.Error())
		default:
			c.sendError("action_failed", err.Error())
		}
		return
	}

	// No direct response: the manager broadcasts the committed state to
	// every seated player, this one included.
}
