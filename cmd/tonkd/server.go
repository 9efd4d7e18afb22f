package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/freeski070605/tonk-server/cmd/tonkd/shared"
	"github.com/freeski070605/tonk-server/internal/ai"
	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/randutil"
	"github.com/freeski070605/tonk-server/internal/server"
)

// ServerCmd runs the websocket game server
type ServerCmd struct {
	Config          string `kong:"default='tonkd.hcl',help='Path to HCL configuration file'"`
	Debug           bool   `kong:"help='Enable debug logging'"`
	Seed            *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	StartingBalance int    `kong:"default='500',help='Opening chip balance for new players'"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := cfg.Server.LogLevel
	if c.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(level)

	rng := randutil.NewTimeSeeded()
	if c.Seed != nil {
		logger.Info("Using deterministic seed", "seed", *c.Seed)
		rng = randutil.New(*c.Seed)
	}

	ledger := server.NewMemoryLedger(c.StartingBalance)
	limits := make(map[string]int)
	for _, tc := range cfg.Tables {
		limits[tc.Name] = tc.MaxGames
	}
	seats := server.NewMemorySeatRegistry(limits)
	store := server.NewMemoryStore()

	orch := game.NewOrchestrator(ai.New(rng), logger,
		game.WithRNG(rng),
		game.WithThinkingDelays(quartz.NewReal()),
	)
	manager := server.NewGameManager(cfg, orch, store, ledger, seats, logger)
	manager.SetRNG(rng)

	srv := server.NewServer(cfg, manager, ledger, seats, logger)

	logger.Info("Starting Tonk server",
		"addr", cfg.GetServerAddress(),
		"tables", len(cfg.Tables),
		"ai_seats", len(cfg.Seats),
		"starting_balance", c.StartingBalance,
	)

	ctx := shared.SetupSignalHandler(logger)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
