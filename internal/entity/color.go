package entity

import "fmt"

// Color is a player of the game. None means "no player": the color of a
// spectator, or of a session that has not been assigned one yet.
type Color byte

const (
	None Color = iota
	Red
	Blue
)

func (c Color) String() string {
	switch c {
	case Red:
		return "r"
	case Blue:
		return "b"
	default:
		return "."
	}
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	switch string(text) {
	case "r":
		*c = Red
	case "b":
		*c = Blue
	case ".":
		*c = None
	default:
		return fmt.Errorf("unknown color %q", text)
	}

	return nil
}

// IsPlayer reports whether c is one of the two playing colors.
func (c Color) IsPlayer() bool {
	return c == Red || c == Blue
}

// Opponent returns the other playing color, None for None.
func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	default:
		return None
	}
}

// Cell returns the cell state a stone of color c leaves on the board.
func (c Color) Cell() CellState {
	switch c {
	case Red:
		return CellRed
	case Blue:
		return CellBlue
	default:
		return CellEmpty
	}
}

// CellState is the content of one board cell.
type CellState byte

const (
	CellEmpty CellState = iota
	CellRed
	CellBlue
)

func (s CellState) String() string {
	switch s {
	case CellRed:
		return "r"
	case CellBlue:
		return "b"
	default:
		return "."
	}
}

// Color returns the player owning the stone in the cell, None when empty.
func (s CellState) Color() Color {
	switch s {
	case CellRed:
		return Red
	case CellBlue:
		return Blue
	default:
		return None
	}
}
