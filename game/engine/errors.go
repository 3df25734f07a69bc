package engine

import "errors"

var (
	ErrNotAvailable      = errors.New("property is not available to buy")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPosition   = errors.New("position must be between 0 and 27")
	ErrNoPlayers         = errors.New("game has no players")
	ErrTooManyPlayers    = errors.New("too many players")
	ErrUnknownPlayer     = errors.New("player is not part of this game")
	ErrWrongPhase        = errors.New("action not allowed in current phase")
	ErrUnknownAction     = errors.New("unknown action")
)
