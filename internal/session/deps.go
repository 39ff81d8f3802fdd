package session

import (
	"context"

	"github.com/rocketscienceinc/hexclient/internal/entity"
)

// Sender delivers one text frame to the server.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// MoveSelector picks a move for color on board when the session plays on
// its own. The board is a copy.
type MoveSelector interface {
	SelectMove(board *entity.Board, color entity.Color) (entity.Move, error)
}

// TreeSink receives ABJSON payloads untouched.
type TreeSink interface {
	SearchTree(payload string)
}

// GameObserver is told about every game the server ends. GameFinished runs
// on its own goroutine, after the session has moved on.
type GameObserver interface {
	GameFinished(ctx context.Context, record entity.GameRecord)
}

// Snapshot is a read-only view of the session for renderers.
type Snapshot struct {
	Phase     Phase
	MyColor   entity.Color
	IsPassive bool
	Board     *entity.Board // nil before the first INIT
}
