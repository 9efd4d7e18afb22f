package server

import (
	"encoding/json"
	"time"

	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

type JoinTableData struct {
	Table string `json:"table"`
}

type LeaveTableData struct {
	GameID string `json:"gameId"`
}

type GameActionData struct {
	GameID string       `json:"gameId"`
	Action rules.Action `json:"action"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Balance  int    `json:"balance,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableInfo struct {
	Name        string `json:"name"`
	Stake       int    `json:"stake"`
	ActiveGames int    `json:"activeGames"`
	MaxGames    int    `json:"maxGames"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type TableJoinedData struct {
	GameID string    `json:"gameId"`
	Table  string    `json:"table"`
	Stake  int       `json:"stake"`
	View   game.View `json:"view"`
}

type TableLeftData struct {
	GameID string `json:"gameId"`
}

type GameStateData struct {
	GameID string    `json:"gameId"`
	View   game.View `json:"view"`
}

type GameEndedData struct {
	GameID     string    `json:"gameId"`
	WinnerID   string    `json:"winnerId"`
	Multiplier int       `json:"multiplier"`
	Winnings   int       `json:"winnings"`
	View       game.View `json:"view"`
}
