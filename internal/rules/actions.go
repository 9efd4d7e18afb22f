package rules

// ActionKind identifies a player action
type ActionKind string

const (
	ActionDraw    ActionKind = "draw"
	ActionDiscard ActionKind = "discard"
	ActionDrop    ActionKind = "drop"
	ActionSpread  ActionKind = "spread"
)

// DrawSource identifies where a draw takes its card from
type DrawSource string

const (
	SourceDeck    DrawSource = "deck"
	SourceDiscard DrawSource = "discard"
)

// Action is the tagged action envelope. Kind selects which of the optional
// fields are required: draw needs Source, discard needs CardID, spread needs
// CardIDs, drop carries nothing.
type Action struct {
	Kind    ActionKind `json:"action"`
	Source  DrawSource `json:"source,omitempty"`
	CardID  string     `json:"cardId,omitempty"`
	CardIDs []string   `json:"cardIds,omitempty"`
}
