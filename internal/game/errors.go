package game

import "fmt"

// The intent-rejection errors below are recoverable: the intent is refused,
// no state mutates, and the error goes back to the calling player only.

// BadPlayerError reports a permission or identity mismatch.
type BadPlayerError struct {
	Reason string
}

func (e *BadPlayerError) Error() string {
	return fmt.Sprintf("bad player: %s", e.Reason)
}

// BadGameStateError reports an intent that is illegal in the current game
// state or gameplay phase.
type BadGameStateError struct {
	Reason string
}

func (e *BadGameStateError) Error() string {
	return fmt.Sprintf("bad game state: %s", e.Reason)
}

// BadCardError reports a referenced card that is not in the expected pocket.
type BadCardError struct {
	CardID string
	Reason string
}

func (e *BadCardError) Error() string {
	return fmt.Sprintf("bad card %s: %s", e.CardID, e.Reason)
}

// BadGameError reports an unknown game id.
type BadGameError struct {
	GameID string
}

func (e *BadGameError) Error() string {
	return fmt.Sprintf("unknown game %s", e.GameID)
}

// TooManyCardsInHandError reports that the player must discard down to the
// hand limit before finishing the turn.
type TooManyCardsInHandError struct {
	HandSize int
	Limit    int
}

func (e *TooManyCardsInHandError) Error() string {
	return fmt.Sprintf("too many cards in hand: %d, limit %d", e.HandSize, e.Limit)
}

// CardAccountingError is fatal: it means card-count invariants broke inside
// the pocket manager, which is a bug rather than a user error. The session is
// aborted instead of continuing with inconsistent state.
type CardAccountingError struct {
	Detail string
}

func (e *CardAccountingError) Error() string {
	return fmt.Sprintf("card accounting violation: %s", e.Detail)
}

func badPlayer(format string, args ...interface{}) error {
	return &BadPlayerError{Reason: fmt.Sprintf(format, args...)}
}

func badGameState(format string, args ...interface{}) error {
	return &BadGameStateError{Reason: fmt.Sprintf(format, args...)}
}

func badCard(cardID, format string, args ...interface{}) error {
	return &BadCardError{CardID: cardID, Reason: fmt.Sprintf(format, args...)}
}
