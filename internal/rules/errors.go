package rules

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates an unknown game or player
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the actor is not part of the game
	ErrForbidden = errors.New("forbidden")

	// ErrNotYourTurn indicates the actor is not the current turn-holder
	ErrNotYourTurn = errors.New("not your turn")

	// ErrAlreadyDropped indicates the actor has dropped out of the game
	ErrAlreadyDropped = errors.New("player has already dropped")

	// ErrNoCardsAvailable indicates the deck is exhausted and the discard
	// pile cannot be reshuffled. Should be unreachable given the reshuffle
	// policy, but drawing must fail safely rather than crash.
	ErrNoCardsAvailable = errors.New("no cards available to draw")

	// ErrSpreadNotPlayable indicates a well-formed spread action that the
	// ruleset does not allow as an in-turn play. Spreads only matter for
	// hit detection and drop-time scoring.
	ErrSpreadNotPlayable = errors.New("spreads cannot be played mid-game")
)

// ValidationError reports an illegal action with a user-correctable reason.
// The game state is guaranteed unchanged.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Invalid builds a ValidationError with a formatted reason
func Invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
