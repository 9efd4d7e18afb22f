package main

import (
	"fmt"
	"time"

	"github.com/freeski070605/tonk-server/cmd/tonkd/shared"
	"github.com/freeski070605/tonk-server/internal/ai"
	"github.com/freeski070605/tonk-server/internal/game"
	"github.com/freeski070605/tonk-server/internal/gameid"
	"github.com/freeski070605/tonk-server/internal/randutil"
)

// SimulateCmd plays AI-only games to completion and reports outcome
// distributions, for tuning the decision weights.
type SimulateCmd struct {
	Games int    `kong:"default='100',help='Number of games to simulate'"`
	Stake int    `kong:"default='5',help='Stake per seat'"`
	Seed  *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	Debug bool   `kong:"help='Enable debug logging'"`
}

// advanceCap bounds Advance calls per game. Every call either ends the game
// or drops at least one player, so hitting this means a liveness bug.
const advanceCap = 32

func (c *SimulateCmd) Run() error {
	level := "info"
	if c.Debug {
		level = "debug"
	}
	logger := shared.SetupLogger(level)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)
	orch := game.NewOrchestrator(ai.New(rng), logger, game.WithRNG(rng))

	difficulties := []ai.Difficulty{ai.Easy, ai.Medium, ai.Hard, ai.Medium}
	winsBySeat := make([]int, game.Seats)
	multipliers := make(map[int]int)
	forcedEnds := 0

	logger.Info("Starting simulation", "games", c.Games, "stake", c.Stake, "seed", seed)

	for n := 0; n < c.Games; n++ {
		var seats [game.Seats]game.Seat
		for i := range seats {
			seats[i] = game.Seat{
				PlayerID:    fmt.Sprintf("sim-%d-seat-%d", n, i),
				DisplayName: fmt.Sprintf("Seat %d (%s)", i, difficulties[i]),
				IsAI:        true,
				Difficulty:  difficulties[i],
			}
		}

		g := game.New(gameid.New(), c.Stake, seats, rng)
		ended := false
		for i := 0; i < advanceCap; i++ {
			next, events, err := orch.Advance(g)
			if err != nil {
				return fmt.Errorf("game %d: %w", n, err)
			}
			g = next
			for _, ev := range events {
				if dropped, ok := ev.(game.PlayerDroppedEvent); ok && dropped.Forced {
					forcedEnds++
				}
			}
			if g.Status == game.StatusEnded {
				ended = true
				break
			}
		}
		if !ended {
			return fmt.Errorf("game %d did not finish within %d rounds", n, advanceCap)
		}

		for i, p := range g.Players {
			if p.ID == g.WinnerID {
				winsBySeat[i]++
			}
		}
		multipliers[g.WinningMultiplier]++
	}

	logger.Info("Simulation complete", "games", c.Games, "forced_drops", forcedEnds)
	for i, wins := range winsBySeat {
		logger.Info("Seat results",
			"seat", i, "difficulty", difficulties[i],
			"wins", wins, "win_rate", fmt.Sprintf("%.1f%%", 100*float64(wins)/float64(c.Games)))
	}
	for _, m := range []int{1, 2, 3} {
		logger.Info("Multiplier distribution",
			"multiplier", m, "games", multipliers[m])
	}
	return nil
}
