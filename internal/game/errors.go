package game

import (
	"errors"
	"fmt"
)

// ErrorKind names the precondition an action violated.
type ErrorKind string

const (
	KindNotYourTurn   ErrorKind = "not_your_turn"
	KindInvalidMeld   ErrorKind = "invalid_meld"
	KindCardNotInHand ErrorKind = "card_not_in_hand"
	KindEmptyDeck     ErrorKind = "empty_deck"
	KindInvalidPhase  ErrorKind = "invalid_phase"
	KindUnknownPlayer ErrorKind = "unknown_player"
	KindHandMismatch  ErrorKind = "hand_mismatch"
)

// Sentinels for errors.Is. Every *ActionError unwraps to the one matching its kind.
var (
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidMeld   = errors.New("invalid meld")
	ErrCardNotInHand = errors.New("card not in hand")
	ErrEmptyDeck     = errors.New("deck is empty")
	ErrInvalidPhase  = errors.New("action not allowed in this phase")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrHandMismatch  = errors.New("hand does not match")

	// ErrInvalidDeck is returned by Start when the deck is not one full deck.
	ErrInvalidDeck = errors.New("deck must hold each of the 52 cards once")
)

var sentinels = map[ErrorKind]error{
	KindNotYourTurn:   ErrNotYourTurn,
	KindInvalidMeld:   ErrInvalidMeld,
	KindCardNotInHand: ErrCardNotInHand,
	KindEmptyDeck:     ErrEmptyDeck,
	KindInvalidPhase:  ErrInvalidPhase,
	KindUnknownPlayer: ErrUnknownPlayer,
	KindHandMismatch:  ErrHandMismatch,
}

// Err returns the sentinel for k, or nil for an unknown kind.
func (k ErrorKind) Err() error {
	return sentinels[k]
}

// ActionError reports an illegal action. The state is always left unchanged.
type ActionError struct {
	Kind     ErrorKind
	PlayerID string
	Detail   string
}

func (e *ActionError) Error() string {
	msg := sentinels[e.Kind].Error()
	if e.PlayerID != "" {
		msg = fmt.Sprintf("%s: %s", e.PlayerID, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ActionError) Unwrap() error {
	return sentinels[e.Kind]
}

func actionErr(kind ErrorKind, playerID string, format string, args ...any) *ActionError {
	return &ActionError{Kind: kind, PlayerID: playerID, Detail: fmt.Sprintf(format, args...)}
}

// SpectatorError is returned when someone without a seat tries to act.
func SpectatorError() *ActionError {
	return &ActionError{Kind: KindUnknownPlayer, Detail: "spectators cannot act"}
}

// KindOf extracts the ErrorKind from err, if it is an ActionError.
func KindOf(err error) (ErrorKind, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}
