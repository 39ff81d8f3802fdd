package entity

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
)

// Board is a local mirror of the authoritative game grid. It performs no
// legality checks: the server decides which moves happen.
type Board struct {
	size  int
	cells [][]CellState // cells[row][column]
}

// NewBoard allocates a size×size board with every cell empty.
func NewBoard(size int) (*Board, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", apperror.ErrInvalidSize, size)
	}

	cells := make([][]CellState, size)
	for row := range cells {
		cells[row] = make([]CellState, size)
	}

	return &Board{size: size, cells: cells}, nil
}

func (that *Board) Size() int {
	return that.size
}

// InBounds reports whether (column, row) addresses a cell of the board.
func (that *Board) InBounds(column, row int) bool {
	return column >= 0 && column < that.size && row >= 0 && row < that.size
}

// Set overwrites one cell.
func (that *Board) Set(column, row int, state CellState) error {
	if !that.InBounds(column, row) {
		return fmt.Errorf("%w: (%d, %d) on board of size %d", apperror.ErrOutOfBounds, column, row, that.size)
	}

	that.cells[row][column] = state

	return nil
}

// Get returns the current state of one cell.
func (that *Board) Get(column, row int) (CellState, error) {
	if !that.InBounds(column, row) {
		return CellEmpty, fmt.Errorf("%w: (%d, %d) on board of size %d", apperror.ErrOutOfBounds, column, row, that.size)
	}

	return that.cells[row][column], nil
}

// Apply places the stone of the move.
func (that *Board) Apply(move Move) error {
	return that.Set(move.Column, move.Row, move.Color.Cell())
}

// FindFirstEmpty scans row by row, columns ascending, and returns the first
// empty cell.
func (that *Board) FindFirstEmpty() (int, int, bool) {
	for row := 0; row < that.size; row++ {
		for column := 0; column < that.size; column++ {
			if that.cells[row][column] == CellEmpty {
				return column, row, true
			}
		}
	}

	return 0, 0, false
}

// EmptyCells lists the empty cells in the same order FindFirstEmpty scans them.
func (that *Board) EmptyCells() []Move {
	empty := make([]Move, 0, that.size*that.size)
	for row := 0; row < that.size; row++ {
		for column := 0; column < that.size; column++ {
			if that.cells[row][column] == CellEmpty {
				empty = append(empty, Move{Column: column, Row: row})
			}
		}
	}

	return empty
}

// Clone returns an independent copy, safe to hand to readers.
func (that *Board) Clone() *Board {
	cells := make([][]CellState, that.size)
	for row := range that.cells {
		cells[row] = append([]CellState(nil), that.cells[row]...)
	}

	return &Board{size: that.size, cells: cells}
}

// String draws the board as a rhombus, each row shifted by one more space.
func (that *Board) String() string {
	var sb strings.Builder
	for row := 0; row < that.size; row++ {
		sb.WriteString(strings.Repeat(" ", row))
		for column := 0; column < that.size; column++ {
			sb.WriteString(that.cells[row][column].String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
