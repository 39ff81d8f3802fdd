package service

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
	"github.com/rocketscienceinc/hexclient/internal/entity"
)

const (
	AutoPlayOff        = ""
	AutoPlayFirstEmpty = "first-empty"
	AutoPlayRandom     = "random"
)

type MoveSelector interface {
	SelectMove(board *entity.Board, color entity.Color) (entity.Move, error)
}

// NewMoveSelector maps the auto-play setting to a selector. AutoPlayOff
// returns nil: the session then waits for local moves.
func NewMoveSelector(name string) (MoveSelector, error) {
	switch name {
	case AutoPlayOff:
		return nil, nil //nolint: nilnil // no selector is a valid choice
	case AutoPlayFirstEmpty:
		return NewFirstEmptySelector(), nil
	case AutoPlayRandom:
		return NewRandomSelector(time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unknown auto-play mode %q", name)
	}
}

// FirstEmptySelector scans rows top to bottom, columns left to right.
type FirstEmptySelector struct{}

func NewFirstEmptySelector() *FirstEmptySelector {
	return &FirstEmptySelector{}
}

func (that *FirstEmptySelector) SelectMove(board *entity.Board, color entity.Color) (entity.Move, error) {
	column, row, ok := board.FindFirstEmpty()
	if !ok {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	return entity.NewMove(column, row, color), nil
}

// RandomSelector picks uniformly among empty cells.
type RandomSelector struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomSelector(seed int64) *RandomSelector {
	return &RandomSelector{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}
}

func (that *RandomSelector) SelectMove(board *entity.Board, color entity.Color) (entity.Move, error) {
	availableCells := board.EmptyCells()
	if len(availableCells) == 0 {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	that.mu.Lock()
	chosen := availableCells[that.rnd.Intn(len(availableCells))]
	that.mu.Unlock()

	chosen.Color = color

	return chosen, nil
}
