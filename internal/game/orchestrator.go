package game

import (
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/freeski070605/tonk-server/internal/ai"
	"github.com/freeski070605/tonk-server/internal/deck"
	"github.com/freeski070605/tonk-server/internal/randutil"
	"github.com/freeski070605/tonk-server/internal/rules"
)

// aiCascadeLimit bounds consecutive AI turns applied within one action.
// Hitting the limit force-drops the acting AI rather than truncating
// silently.
const aiCascadeLimit = 10

// Orchestrator applies validated actions to games and drives AI turns
// through the same pipeline. It holds no per-game state; callers serialise
// actions per game id.
type Orchestrator struct {
	agent  *ai.Agent
	rng    *rand.Rand
	logger *log.Logger
	clock  quartz.Clock
	pace   bool
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithThinkingDelays makes AI turns pause for their simulated thinking time
// on the given clock. Without it the cascade runs at full speed.
func WithThinkingDelays(clock quartz.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
		o.pace = true
	}
}

// WithRNG sets the deck/AI randomness source, for reproducible games
func WithRNG(rng *rand.Rand) Option {
	return func(o *Orchestrator) {
		o.rng = rng
	}
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(agent *ai.Agent, logger *log.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agent:  agent,
		rng:    randutil.NewTimeSeeded(),
		logger: logger.WithPrefix("orchestrator"),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Apply validates and applies one action to a deep copy of the game, then
// drives any consecutive AI turns to completion. The input game is never
// mutated: on success the returned game is the new state for the caller to
// persist, on failure the committed state is untouched.
func (o *Orchestrator) Apply(g *Game, playerID string, action rules.Action) (*Game, []Event, error) {
	if g.Status != StatusPlaying {
		return nil, nil, rules.Invalid("game is not in progress")
	}

	next := g.Clone()
	var events []Event

	if err := o.applyOne(next, playerID, action, &events); err != nil {
		return nil, nil, err
	}
	if err := o.runAICascade(next, &events); err != nil {
		return nil, nil, err
	}
	return next, events, nil
}

// Advance runs the AI cascade without a triggering human action, for games
// whose current actor is already an AI (fresh AI-led games and self-play
// simulation). Like Apply it works on a deep copy.
func (o *Orchestrator) Advance(g *Game) (*Game, []Event, error) {
	if g.Status != StatusPlaying {
		return nil, nil, rules.Invalid("game is not in progress")
	}

	next := g.Clone()
	var events []Event
	if err := o.runAICascade(next, &events); err != nil {
		return nil, nil, err
	}
	return next, events, nil
}

// applyOne validates and applies a single action in place
func (o *Orchestrator) applyOne(g *Game, playerID string, action rules.Action, events *[]Event) error {
	if err := rules.ValidateAction(g.Snapshot(), playerID, action); err != nil {
		return err
	}
	player, _ := g.PlayerByID(playerID)

	var err error
	switch action.Kind {
	case rules.ActionDraw:
		err = o.applyDraw(g, player, action.Source, events)
	case rules.ActionDiscard:
		err = o.applyDiscard(g, player, action.CardID)
	case rules.ActionDrop:
		err = o.applyDrop(g, player, false, events)
	case rules.ActionSpread:
		// Spreads are validated but never played mid-game; they count only
		// toward hit detection and drop-time scoring.
		return rules.ErrSpreadNotPlayable
	default:
		return rules.Invalid("unknown action %q", action.Kind)
	}
	if err != nil {
		return err
	}

	now := time.Now()
	g.LastAction = &LastAction{PlayerID: playerID, Action: action, At: now}
	g.LastActionAt = now
	*events = append(*events, PlayerActionEvent{PlayerID: playerID, Action: action, ts: now})
	return nil
}

func (o *Orchestrator) applyDraw(g *Game, player *Player, source rules.DrawSource, events *[]Event) error {
	var drawn deck.Card

	switch source {
	case rules.SourceDiscard:
		drawn = g.DiscardPile[0]
		g.DiscardPile = g.DiscardPile[1:]

	case rules.SourceDeck:
		d := deck.Restore(g.Deck, o.rng)
		if d.NeedsReshuffle(g.DiscardPile, deck.ReshuffleThreshold) {
			g.DiscardPile = d.Reshuffle(g.DiscardPile)
			o.logger.Debug("reshuffled discard pile into deck",
				"game", g.ID, "deck", d.Len())
		}
		card, ok := d.Draw()
		if !ok {
			g.Deck = d.Cards()
			return rules.ErrNoCardsAvailable
		}
		drawn = card
		g.Deck = d.Cards()

		// Deck draws are unknown cards: hitting an opponent's spread
		// penalises them. Discard draws are already public and never hit.
		penalties := rules.AssessHitPenalties(drawn, g.Snapshot().Players, player.ID)
		firstTurn := g.FirstTurn()
		for _, pen := range penalties {
			victim, ok := g.PlayerByID(pen.PlayerID)
			if !ok {
				return fmt.Errorf("%w: hit victim %s not in game %s", rules.ErrNotFound, pen.PlayerID, g.ID)
			}
			victim.PenaltyTurns = pen.Turns
			victim.HitCount++
			victim.refresh(firstTurn)
			o.logger.Debug("spread hit",
				"game", g.ID, "drawer", player.ID, "victim", pen.PlayerID, "turns", pen.Turns)
			*events = append(*events, HitEvent{
				DrawerID: player.ID,
				VictimID: pen.PlayerID,
				Turns:    pen.Turns,
				ts:       time.Now(),
			})
		}

	default:
		return rules.Invalid("unknown draw source %q", source)
	}

	player.Hand = append(player.Hand, drawn)
	player.HasDrawnThisTurn = true
	player.refresh(g.FirstTurn())
	return nil
}

func (o *Orchestrator) applyDiscard(g *Game, player *Player, cardID string) error {
	idx := -1
	for i, c := range player.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx < 0 {
		// Validation passed but the card is gone: logic bug, fail this
		// action without touching committed state.
		return fmt.Errorf("internal: card %s missing from hand at apply time (game %s, player %s)",
			cardID, g.ID, player.ID)
	}

	card := player.Hand[idx]
	player.Hand = append(player.Hand[:idx], player.Hand[idx+1:]...)
	g.DiscardPile = append([]deck.Card{card}, g.DiscardPile...)
	g.TotalDiscards++
	player.HasDrawnThisTurn = false

	// Every discard ticks penalties down by one for every still-active
	// player, the discarder included — even a penalty imposed moments ago
	// by this turn's deck draw.
	firstTurn := g.FirstTurn()
	for _, p := range g.Players {
		if p.IsDropped {
			continue
		}
		if p.PenaltyTurns > 0 {
			p.PenaltyTurns--
		}
		p.refresh(firstTurn)
	}

	g.CurrentPlayerIndex = g.NextActiveIndex(g.CurrentPlayerIndex)
	g.TurnStartedAt = time.Now()
	return nil
}

// applyDrop freezes the dropper and ends the game if at most one active
// player remains. forced drops bypass eligibility (cascade termination).
func (o *Orchestrator) applyDrop(g *Game, player *Player, forced bool, events *[]Event) error {
	// First-turn status is judged before the drop: no player other than
	// the dropper has dropped yet.
	firstTurn := g.FirstTurn()

	player.Score = deck.Score(player.Hand)
	multiplier := rules.WinningMultiplier(player.Score, firstTurn)

	now := time.Now()
	player.IsDropped = true
	player.DropTimestamp = &now

	*events = append(*events, PlayerDroppedEvent{
		PlayerID:   player.ID,
		Score:      player.Score,
		Multiplier: multiplier,
		Forced:     forced,
		ts:         now,
	})
	o.logger.Debug("player dropped",
		"game", g.ID, "player", player.ID, "score", player.Score,
		"multiplier", multiplier, "forced", forced)

	if g.ActiveCount() <= 1 {
		winner := player
		for _, p := range g.Players {
			if !p.IsDropped {
				winner = p
				break
			}
		}
		o.endGame(g, winner, multiplier, events)
		return nil
	}

	g.CurrentPlayerIndex = g.NextActiveIndex(g.CurrentPlayerIndex)
	g.TurnStartedAt = time.Now()
	return nil
}

// endGame transitions the game to its terminal state. Settlement with the
// account ledger and seat registry is the caller's job, driven by the
// GameEndedEvent.
func (o *Orchestrator) endGame(g *Game, winner *Player, multiplier int, events *[]Event) {
	now := time.Now()
	g.Status = StatusEnded
	g.WinnerID = winner.ID
	g.WinningMultiplier = multiplier
	g.EndedAt = &now

	winnings := g.Pot * multiplier
	*events = append(*events, GameEndedEvent{
		WinnerID:   winner.ID,
		Multiplier: multiplier,
		Winnings:   winnings,
		ts:         now,
	})
	o.logger.Info("game ended",
		"game", g.ID, "winner", winner.ID, "multiplier", multiplier, "winnings", winnings)
}

// runAICascade plays consecutive AI turns until a human must act, the game
// ends, or the iteration cap forces termination. It is synchronous: the
// triggering action's result includes the whole cascade.
func (o *Orchestrator) runAICascade(g *Game, events *[]Event) error {
	for i := 0; i < aiCascadeLimit; i++ {
		if g.Status != StatusPlaying {
			return nil
		}
		actor := g.CurrentPlayer()
		if !actor.IsAI || actor.IsDropped {
			return nil
		}

		// Sole remaining player is an AI: force the drop that ends the
		// game instead of letting it play against nobody.
		if g.ActiveCount() == 1 {
			return o.applyDrop(g, actor, true, events)
		}

		done, err := o.playAITurn(g, actor, events)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}

	// Cap reached with an AI still to move.
	if actor := g.CurrentPlayer(); g.Status == StatusPlaying && actor.IsAI && !actor.IsDropped {
		o.logger.Warn("AI cascade limit reached, forcing drop", "game", g.ID, "player", actor.ID)
		return o.applyDrop(g, actor, true, events)
	}
	return nil
}

// playAITurn runs one full AI turn. Returns done=true when the turn ended
// in a drop, which halts the cascade: control may have passed to a human or
// the game may be over.
func (o *Orchestrator) playAITurn(g *Game, actor *Player, events *[]Event) (bool, error) {
	ts := g.Snapshot()
	self, _ := ts.PlayerByID(actor.ID)

	// A drop replaces the whole turn: the score locked in is the hand as
	// it stands, so the decision comes before drawing.
	if actor.CanDrop && o.agent.ShouldDrop(ts, self, actor.Difficulty) {
		o.pause(actor.Difficulty, rules.ActionDrop)
		if err := o.applyOne(g, actor.ID, rules.Action{Kind: rules.ActionDrop}, events); err != nil {
			if rules.IsValidation(err) {
				o.logger.Debug("AI drop rejected, playing on", "game", g.ID, "player", actor.ID, "err", err)
			} else {
				return false, err
			}
		} else {
			return true, nil
		}
	}

	source := o.agent.DecideDrawSource(ts, self, actor.Difficulty)
	o.pause(actor.Difficulty, rules.ActionDraw)
	if err := o.applyOne(g, actor.ID, rules.Action{Kind: rules.ActionDraw, Source: source}, events); err != nil {
		return false, err
	}

	ts = g.Snapshot()
	cardID := o.agent.DecideDiscard(actor.Hand, ts, actor.Difficulty)
	if cardID == "" {
		cardID = highestValueCard(actor.Hand)
	}
	o.pause(actor.Difficulty, rules.ActionDiscard)
	if err := o.applyOne(g, actor.ID, rules.Action{Kind: rules.ActionDiscard, CardID: cardID}, events); err != nil {
		return false, err
	}
	return false, nil
}

// highestValueCard is the fallback discard when the agent abstains
func highestValueCard(hand []deck.Card) string {
	if len(hand) == 0 {
		return ""
	}
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Value > best.Value {
			best = c
		}
	}
	return best.ID
}

// pause simulates AI thinking time on the injected clock. Durations are
// capped by the agent so the cascade never blocks past its ceiling.
func (o *Orchestrator) pause(diff ai.Difficulty, kind rules.ActionKind) {
	if !o.pace {
		return
	}
	d := o.agent.ThinkingTime(diff, kind)
	done := make(chan struct{})
	o.clock.AfterFunc(d, func() { close(done) })
	<-done
}
