package server

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "absent.hcl"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if len(cfg.Tables) == 0 {
		t.Error("expected default tables")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadServerConfigParsesHCL(t *testing.T) {
	t.Parallel()
	content := `
server {
  address   = "0.0.0.0"
  port      = 9000
  log_level = "debug"
}

table "penny" {
  stake = 1
}

table "high" {
  stake     = 25
  max_games = 10
}

ai_seat "Rocket" {
  difficulty = "hard"
}

ai_seat "Dozer" {}
`
	path := filepath.Join(t.TempDir(), "tonkd.hcl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Address != "0.0.0.0" || cfg.Server.Port != 9000 {
		t.Errorf("server settings not decoded: %+v", cfg.Server)
	}
	if cfg.GetServerAddress() != "0.0.0.0:9000" {
		t.Errorf("unexpected address %q", cfg.GetServerAddress())
	}
	if len(cfg.Tables) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(cfg.Tables))
	}
	if cfg.Tables[0].MaxGames != 50 {
		t.Errorf("expected default max_games 50, got %d", cfg.Tables[0].MaxGames)
	}
	if tc := cfg.GetTableByName("high"); tc == nil || tc.Stake != 25 || tc.MaxGames != 10 {
		t.Errorf("table lookup failed: %+v", tc)
	}
	if len(cfg.Seats) != 2 {
		t.Fatalf("expected 2 ai seats, got %d", len(cfg.Seats))
	}
	if cfg.Seats[1].Difficulty != "medium" {
		t.Errorf("expected default difficulty medium, got %q", cfg.Seats[1].Difficulty)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("config should validate: %v", err)
	}
}

func TestServerConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*ServerConfig)
	}{
		{"bad port", func(c *ServerConfig) { c.Server.Port = 0 }},
		{"no tables", func(c *ServerConfig) { c.Tables = nil }},
		{"zero stake", func(c *ServerConfig) { c.Tables[0].Stake = 0 }},
		{"bad difficulty", func(c *ServerConfig) { c.Seats[0].Difficulty = "brutal" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServerConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
