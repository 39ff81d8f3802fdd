package session

// Phase is the node of the turn-taking state machine the session is in.
type Phase byte

const (
	PhaseAwaitingInit Phase = iota
	// PhaseReady is passed through while answering INIT; it is never
	// observable from outside the session.
	PhaseReady
	PhaseWaitingForOpponent
	PhaseMyTurn
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingInit:
		return "awaiting_init"
	case PhaseReady:
		return "ready"
	case PhaseWaitingForOpponent:
		return "waiting_for_opponent"
	case PhaseMyTurn:
		return "my_turn"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
