package rules

// ValidateAction checks whether the named player may legally perform the
// action against the given table state. It never mutates anything; calling
// it twice with the same inputs yields the same result.
func ValidateAction(ts TableState, playerID string, action Action) error {
	player, ok := ts.PlayerByID(playerID)
	if !ok {
		return ErrForbidden
	}
	if player.IsDropped {
		return ErrAlreadyDropped
	}
	if ts.Current < 0 || ts.Current >= len(ts.Players) || ts.Players[ts.Current].ID != playerID {
		return ErrNotYourTurn
	}

	switch action.Kind {
	case ActionDraw:
		return validateDraw(ts, player, action)
	case ActionDiscard:
		return validateDiscard(player, action)
	case ActionDrop:
		return validateDrop(ts, player)
	case ActionSpread:
		return validateSpread(player, action)
	default:
		return Invalid("unknown action %q", action.Kind)
	}
}

func validateDraw(ts TableState, player PlayerState, action Action) error {
	if player.HasDrawn {
		return Invalid("already drew this turn")
	}
	switch action.Source {
	case SourceDiscard:
		if ts.DiscardLen == 0 {
			return Invalid("discard pile is empty")
		}
	case SourceDeck:
		if ts.DeckLen == 0 && ts.DiscardLen <= 1 {
			return ErrNoCardsAvailable
		}
	default:
		return Invalid("draw requires a source of deck or discard")
	}
	return nil
}

func validateDiscard(player PlayerState, action Action) error {
	if !player.HasDrawn {
		return Invalid("must draw before discarding")
	}
	if action.CardID == "" {
		return Invalid("discard requires a card id")
	}
	for _, c := range player.Hand {
		if c.ID == action.CardID {
			return nil
		}
	}
	return Invalid("card %s is not in hand", action.CardID)
}

func validateDrop(ts TableState, player PlayerState) error {
	if player.PenaltyTurns > 0 {
		return Invalid("cannot drop while penalised (%d turns remaining)", player.PenaltyTurns)
	}
	if !CanDrop(player.Score(), player.PenaltyTurns, ts.FirstTurn) {
		return Invalid("score %d is not droppable", player.Score())
	}
	return nil
}

func validateSpread(player PlayerState, action Action) error {
	if len(action.CardIDs) < 3 {
		return Invalid("a spread requires at least 3 cards")
	}
	byID := make(map[string]int, len(player.Hand))
	for i, c := range player.Hand {
		byID[c.ID] = i
	}
	selected := player.Hand[:0:0]
	for _, id := range action.CardIDs {
		i, ok := byID[id]
		if !ok {
			return Invalid("card %s is not in hand", id)
		}
		selected = append(selected, player.Hand[i])
	}
	if !IsValidSpread(selected) {
		return Invalid("cards do not form a valid spread")
	}
	return nil
}
