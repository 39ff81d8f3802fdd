package entity

import "time"

// GameRecord is what remains of a game once the server has ended it.
type GameRecord struct {
	ID         string    `json:"id"`
	Size       int       `json:"size"`
	Color      Color     `json:"color"`
	Passive    bool      `json:"passive"`
	Won        *bool     `json:"won,omitempty"`
	FinalMove  *Move     `json:"final_move,omitempty"`
	Board      string    `json:"board"`
	FinishedAt time.Time `json:"finished_at"`
}
