package entity

import "fmt"

// Move is one stone placed at (Column, Row).
type Move struct {
	Column int   `json:"column"`
	Row    int   `json:"row"`
	Color  Color `json:"color"`
}

func NewMove(column, row int, color Color) Move {
	return Move{Column: column, Row: row, Color: color}
}

func (m Move) String() string {
	return fmt.Sprintf("%s: (%d, %d)", m.Color, m.Column, m.Row)
}
