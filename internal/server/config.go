package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/freeski070605/tonk-server/internal/ai"
)

// ServerConfig represents the complete server configuration
type ServerConfig struct {
	Server ServerSettings `hcl:"server,block"`
	Tables []TableConfig  `hcl:"table,block"`
	Seats  []AISeatConfig `hcl:"ai_seat,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// TableConfig defines a stake level players can join
type TableConfig struct {
	Name     string `hcl:"name,label"`
	Stake    int    `hcl:"stake"`
	MaxGames int    `hcl:"max_games,optional"`
}

// AISeatConfig defines one of the house opponents used to fill
// empty seats when a game starts.
type AISeatConfig struct {
	Name       string `hcl:"name,label"`
	Difficulty string `hcl:"difficulty,optional"`
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
			LogFile:  "tonk-server.log",
		},
		Tables: []TableConfig{
			{Name: "casual", Stake: 1, MaxGames: 50},
			{Name: "standard", Stake: 5, MaxGames: 50},
			{Name: "high", Stake: 25, MaxGames: 20},
		},
		Seats: []AISeatConfig{
			{Name: "Smooth Sam", Difficulty: "easy"},
			{Name: "Steady Rae", Difficulty: "medium"},
			{Name: "Cutthroat Cal", Difficulty: "hard"},
		},
	}
}

// LoadServerConfig loads server configuration from HCL file
func LoadServerConfig(filename string) (*ServerConfig, error) {
	// Check if file exists
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultServerConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config ServerConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.LogFile == "" {
		config.Server.LogFile = "tonk-server.log"
	}

	// Apply defaults to tables
	for i := range config.Tables {
		if config.Tables[i].MaxGames == 0 {
			config.Tables[i].MaxGames = 50
		}
	}

	// Apply defaults to AI seats
	for i := range config.Seats {
		if config.Seats[i].Difficulty == "" {
			config.Seats[i].Difficulty = string(ai.Medium)
		}
	}

	if len(config.Seats) == 0 {
		config.Seats = DefaultServerConfig().Seats
	}

	return &config, nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	for _, table := range c.Tables {
		if table.Stake <= 0 {
			return fmt.Errorf("table %s: stake must be positive", table.Name)
		}
		if table.MaxGames < 1 {
			return fmt.Errorf("table %s: max games must be at least 1", table.Name)
		}
	}

	for _, seat := range c.Seats {
		if !ai.Difficulty(seat.Difficulty).Valid() {
			return fmt.Errorf("ai seat %s: invalid difficulty %s", seat.Name, seat.Difficulty)
		}
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *ServerConfig) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// GetTableByName returns a table configuration by name
func (c *ServerConfig) GetTableByName(name string) *TableConfig {
	for _, table := range c.Tables {
		if table.Name == name {
			return &table
		}
	}
	return nil
}
