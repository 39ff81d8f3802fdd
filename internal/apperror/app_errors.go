package apperror

import "errors"

var (
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrIllegalMove       = errors.New("cell is already occupied")
	ErrMalformedMove     = errors.New("malformed move")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrOutOfBounds       = errors.New("coordinates out of bounds")
	ErrInvalidSize       = errors.New("invalid board size")
	ErrNoAvailableMoves  = errors.New("no available moves")
	ErrSessionClosed     = errors.New("session is closed")
)
