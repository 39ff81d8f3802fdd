package protocol

import "github.com/rocketscienceinc/hexclient/internal/entity"

// Inbound tags.
const (
	TagInit   = "INIT"
	TagMove   = "MOVE"
	TagEnd    = "END"
	TagABJSON = "ABJSON"
)

// Outbound literals.
const (
	ReplyReady        = "READY"
	ReplyReadyPassive = "READY PASSIVE"
	ReplyError        = "ERROR"
	ReplyDone         = "DONE"
)

// NilMove is sent by the server in place of a move token when there is no
// move to report, e.g. before the first move of a game.
const NilMove = "<nil>"

// Event is a decoded server message. The set of implementations is closed.
type Event interface {
	isEvent()
}

// Init starts a new game of the given size. Color None makes the client a
// spectator.
type Init struct {
	Size  int
	Color entity.Color
}

// OpponentMoved reports the last move of the opponent; Move is nil when
// there was none.
type OpponentMoved struct {
	Move     *entity.Move
	Warnings []string
}

// GameEnded carries the last move of the game. Won is set when the server
// sent a result flag.
type GameEnded struct {
	FinalMove *entity.Move
	Won       *bool
	Warnings  []string
}

// SearchTree is an ABJSON payload, kept verbatim.
type SearchTree struct {
	Payload string
}

// Unknown is any message with an unrecognized tag.
type Unknown struct {
	Raw string
}

func (Init) isEvent()          {}
func (OpponentMoved) isEvent() {}
func (GameEnded) isEvent()     {}
func (SearchTree) isEvent()    {}
func (Unknown) isEvent()       {}
