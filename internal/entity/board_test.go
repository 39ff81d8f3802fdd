package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
)

func TestNewBoard(t *testing.T) {
	t.Run("Every cell of a new board is empty", func(t *testing.T) {
		for _, size := range []int{1, 2, 7, 11} {
			// When: a board is created
			board, err := NewBoard(size)
			require.NoError(t, err)

			// Then: it has the requested size and only empty cells
			assert.Equal(t, size, board.Size())
			for row := 0; row < size; row++ {
				for column := 0; column < size; column++ {
					cell, err := board.Get(column, row)
					require.NoError(t, err)
					assert.Equal(t, CellEmpty, cell)
				}
			}
		}
	})

	t.Run("Non-positive size is rejected", func(t *testing.T) {
		for _, size := range []int{0, -1, -42} {
			// When: a board with an invalid size is created
			board, err := NewBoard(size)

			// Then: ErrInvalidSize is returned
			require.ErrorIs(t, err, apperror.ErrInvalidSize)
			assert.Nil(t, board)
		}
	})
}

func TestBoard_SetGet(t *testing.T) {
	t.Run("Get returns what Set wrote", func(t *testing.T) {
		// Given: a 5x5 board
		board, err := NewBoard(5)
		require.NoError(t, err)

		// When: two cells are set
		require.NoError(t, board.Set(2, 3, CellRed))
		require.NoError(t, board.Set(4, 0, CellBlue))

		// Then: both are read back and the transposed cell is untouched
		cell, err := board.Get(2, 3)
		require.NoError(t, err)
		assert.Equal(t, CellRed, cell)

		cell, err = board.Get(4, 0)
		require.NoError(t, err)
		assert.Equal(t, CellBlue, cell)

		cell, err = board.Get(3, 2)
		require.NoError(t, err)
		assert.Equal(t, CellEmpty, cell)
	})

	t.Run("Out of range coordinates fail regardless of state", func(t *testing.T) {
		// Given: a 3x3 board with a stone on it
		board, err := NewBoard(3)
		require.NoError(t, err)
		require.NoError(t, board.Set(0, 0, CellRed))

		for _, c := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}} {
			// When: an out of range cell is accessed
			setErr := board.Set(c[0], c[1], CellBlue)
			_, getErr := board.Get(c[0], c[1])

			// Then: both fail with ErrOutOfBounds
			assert.ErrorIs(t, setErr, apperror.ErrOutOfBounds)
			assert.ErrorIs(t, getErr, apperror.ErrOutOfBounds)
		}
	})

	t.Run("Apply writes the stone color", func(t *testing.T) {
		// Given: a 3x3 board
		board, err := NewBoard(3)
		require.NoError(t, err)

		// When: a blue move is applied
		require.NoError(t, board.Apply(NewMove(1, 2, Blue)))

		// Then: the cell is blue
		cell, err := board.Get(1, 2)
		require.NoError(t, err)
		assert.Equal(t, CellBlue, cell)
	})
}

func TestBoard_FindFirstEmpty(t *testing.T) {
	t.Run("Scans row by row", func(t *testing.T) {
		// Given: a 3x3 board with the first row full and one stone on the second
		board, err := NewBoard(3)
		require.NoError(t, err)
		for column := 0; column < 3; column++ {
			require.NoError(t, board.Set(column, 0, CellRed))
		}
		require.NoError(t, board.Set(0, 1, CellBlue))

		// When: looking for the first empty cell
		column, row, ok := board.FindFirstEmpty()

		// Then: it is the second cell of the second row
		require.True(t, ok)
		assert.Equal(t, 1, column)
		assert.Equal(t, 1, row)
	})

	t.Run("Full board has no empty cell", func(t *testing.T) {
		// Given: a full 2x2 board
		board, err := NewBoard(2)
		require.NoError(t, err)
		for _, m := range []Move{NewMove(0, 0, Red), NewMove(1, 0, Blue), NewMove(0, 1, Red), NewMove(1, 1, Blue)} {
			require.NoError(t, board.Apply(m))
		}

		// When: looking for the first empty cell
		_, _, ok := board.FindFirstEmpty()

		// Then: none is found
		assert.False(t, ok)
		assert.Empty(t, board.EmptyCells())
	})
}

func TestBoard_CloneAndString(t *testing.T) {
	// Given: a 3x3 board with two stones
	board, err := NewBoard(3)
	require.NoError(t, err)
	require.NoError(t, board.Set(0, 0, CellRed))
	require.NoError(t, board.Set(2, 1, CellBlue))

	// When: the board is cloned and the original changes afterwards
	clone := board.Clone()
	require.NoError(t, board.Set(1, 1, CellRed))

	// Then: the clone keeps the old state
	cell, err := clone.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, CellEmpty, cell)

	// And: the text form shifts each row
	assert.Equal(t, "r . . \n . . b \n  . . . \n", clone.String())
}

func TestColor(t *testing.T) {
	assert.Equal(t, CellRed, Red.Cell())
	assert.Equal(t, CellBlue, Blue.Cell())
	assert.Equal(t, CellEmpty, None.Cell())
	assert.Equal(t, Blue, Red.Opponent())
	assert.Equal(t, None, None.Opponent())
	assert.True(t, Red.IsPlayer())
	assert.False(t, None.IsPlayer())
	assert.Equal(t, Red, CellRed.Color())
	assert.Equal(t, "r: (2, 3)", NewMove(2, 3, Red).String())
}

func TestColor_Text(t *testing.T) {
	for _, color := range []Color{None, Red, Blue} {
		text, err := color.MarshalText()
		require.NoError(t, err)

		var decoded Color
		require.NoError(t, decoded.UnmarshalText(text))
		assert.Equal(t, color, decoded)
	}

	var c Color
	assert.Error(t, c.UnmarshalText([]byte("x")))
}
