package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
	"github.com/rocketscienceinc/hexclient/internal/entity"
	"github.com/rocketscienceinc/hexclient/internal/protocol"
)

type Options struct {
	// DoneDelay postpones the DONE reply after END so the final position
	// can be looked at. Zero sends it right away.
	DoneDelay time.Duration

	// Selector, when set, plays every turn of a non-passive session.
	Selector MoveSelector

	TreeSink TreeSink
	Observer GameObserver
}

// Session is one client's view of a game connection. Every entry point
// takes the same lock, so inbound messages, local moves and the DONE timer
// never interleave.
type Session struct {
	logger *slog.Logger
	sender Sender
	opts   Options

	mu        sync.Mutex
	phase     Phase
	myColor   entity.Color
	isPassive bool
	board     *entity.Board
	closed    bool

	doneTimer *time.Timer
	doneGen   uint64
}

func New(logger *slog.Logger, sender Sender, opts Options) *Session {
	return &Session{
		logger: logger.With("component", "session"),
		sender: sender,
		opts:   opts,
		phase:  PhaseAwaitingInit,
	}
}

// Respond decodes one server message, applies it and sends at most one
// reply. Bad messages are logged and dropped; only a failed send is
// returned.
func (that *Session) Respond(ctx context.Context, raw string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrSessionClosed
	}

	log := that.logger.With("method", "Respond", "phase", that.phase)

	event, err := protocol.Decode(raw)
	switch {
	case errors.Is(err, apperror.ErrProtocolViolation):
		log.Warn("protocol violation", "message", raw, "error", err)
		return that.send(ctx, protocol.ReplyError)
	case err != nil:
		log.Warn("ignoring message", "message", raw, "error", err)
		return nil
	}

	switch ev := event.(type) {
	case protocol.Init:
		return that.handleInit(ctx, ev)
	case protocol.OpponentMoved:
		return that.handleOpponentMoved(ctx, ev)
	case protocol.GameEnded:
		return that.handleGameEnded(ctx, ev)
	case protocol.SearchTree:
		if that.opts.TreeSink != nil {
			that.opts.TreeSink.SearchTree(ev.Payload)
		}
		return nil
	case protocol.Unknown:
		log.Warn("unknown message", "message", ev.Raw)
		return nil
	default:
		log.Error("unhandled event", "event", fmt.Sprintf("%T", ev))
		return nil
	}
}

func (that *Session) handleInit(ctx context.Context, ev protocol.Init) error {
	log := that.logger.With("method", "handleInit")

	board, err := entity.NewBoard(ev.Size)
	if err != nil {
		log.Warn("protocol violation", "error", err)
		return that.send(ctx, protocol.ReplyError)
	}

	if that.phase != PhaseAwaitingInit && that.phase != PhaseGameOver {
		log.Warn("new game started before the previous one ended", "phase", that.phase)
	}

	that.cancelDone()

	that.board = board
	that.myColor = ev.Color
	that.isPassive = !ev.Color.IsPlayer()
	that.phase = PhaseReady

	reply := protocol.ReplyReady
	if that.isPassive {
		reply = protocol.ReplyReadyPassive
	}

	that.phase = PhaseWaitingForOpponent
	log.Info("game initialized", "size", ev.Size, "color", ev.Color, "passive", that.isPassive)

	return that.send(ctx, reply)
}

func (that *Session) handleOpponentMoved(ctx context.Context, ev protocol.OpponentMoved) error {
	log := that.logger.With("method", "handleOpponentMoved")

	switch that.phase {
	case PhaseAwaitingInit:
		log.Warn("protocol violation: move before INIT")
		return that.send(ctx, protocol.ReplyError)
	case PhaseGameOver:
		log.Warn("ignoring move after the game ended")
		return nil
	}

	if ev.Move != nil {
		for _, w := range ev.Warnings {
			log.Warn("move decoded with warning", "move", ev.Move, "warning", w)
		}

		if !that.board.InBounds(ev.Move.Column, ev.Move.Row) {
			log.Warn("ignoring move outside the board", "move", ev.Move, "size", that.board.Size())
			return nil
		}

		that.applyServerMove(*ev.Move)
	}

	if that.isPassive {
		that.phase = PhaseWaitingForOpponent
		return nil
	}

	that.phase = PhaseMyTurn

	if that.opts.Selector != nil {
		return that.playSelected(ctx, that.opts.Selector)
	}

	return nil
}

func (that *Session) handleGameEnded(ctx context.Context, ev protocol.GameEnded) error {
	log := that.logger.With("method", "handleGameEnded")

	if that.phase == PhaseGameOver {
		log.Warn("ignoring END, game already over")
		return nil
	}

	if ev.FinalMove != nil && that.board != nil {
		for _, w := range ev.Warnings {
			log.Warn("move decoded with warning", "move", ev.FinalMove, "warning", w)
		}

		if that.board.InBounds(ev.FinalMove.Column, ev.FinalMove.Row) {
			that.applyServerMove(*ev.FinalMove)
		} else {
			log.Warn("final move outside the board", "move", ev.FinalMove, "size", that.board.Size())
		}
	}

	if that.opts.Observer != nil && that.board != nil {
		record := entity.GameRecord{
			Size:       that.board.Size(),
			Color:      that.myColor,
			Passive:    that.isPassive,
			Won:        ev.Won,
			FinalMove:  ev.FinalMove,
			Board:      that.board.String(),
			FinishedAt: time.Now().UTC(),
		}

		// runs outside the session lock
		go that.opts.Observer.GameFinished(context.WithoutCancel(ctx), record)
	}

	log.Info("game ended", "color", that.myColor, "won", ev.Won)

	that.myColor = entity.None
	that.phase = PhaseGameOver

	return that.scheduleDone(ctx)
}

// applyServerMove writes a move the server asserted. Stones are never
// erased, so a move without a player color is skipped.
func (that *Session) applyServerMove(move entity.Move) {
	if !move.Color.IsPlayer() {
		that.logger.Warn("move without a player color not applied", "move", move)
		return
	}

	if err := that.board.Apply(move); err != nil {
		that.logger.Warn("failed to apply move", "move", move, "error", err)
		return
	}

	that.logger.Debug("board updated", "move", move, "board", "\n"+that.board.String())
}

// AttemptLocalMove places a stone of the session's color and sends it.
func (that *Session) AttemptLocalMove(ctx context.Context, column, row int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return apperror.ErrSessionClosed
	}

	return that.place(ctx, column, row)
}

// PlayFallbackMove lets the configured selector, or the first empty cell,
// choose the move. Only allowed on the session's turn.
func (that *Session) PlayFallbackMove(ctx context.Context) (entity.Move, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed {
		return entity.Move{}, apperror.ErrSessionClosed
	}

	if that.phase != PhaseMyTurn {
		return entity.Move{}, apperror.ErrNotYourTurn
	}

	if that.opts.Selector != nil {
		move, err := that.selectMove(that.opts.Selector)
		if err != nil {
			return entity.Move{}, err
		}

		return move, that.place(ctx, move.Column, move.Row)
	}

	column, row, ok := that.board.FindFirstEmpty()
	if !ok {
		return entity.Move{}, apperror.ErrNoAvailableMoves
	}

	return entity.NewMove(column, row, that.myColor), that.place(ctx, column, row)
}

// playSelected plays the selector's move. A failing selector or a move the
// board rejects falls back to the first empty cell; only a failed send is
// returned.
func (that *Session) playSelected(ctx context.Context, selector MoveSelector) error {
	log := that.logger.With("method", "playSelected")

	move, err := that.selectMove(selector)
	if err == nil {
		err = that.place(ctx, move.Column, move.Row)
		if !errors.Is(err, apperror.ErrIllegalMove) && !errors.Is(err, apperror.ErrOutOfBounds) {
			return err
		}
	}

	log.Warn("selected move not played, using first empty cell", "move", move, "error", err)

	column, row, ok := that.board.FindFirstEmpty()
	if !ok {
		log.Warn("no empty cell left")
		return nil
	}

	return that.place(ctx, column, row)
}

func (that *Session) selectMove(selector MoveSelector) (entity.Move, error) {
	move, err := selector.SelectMove(that.board.Clone(), that.myColor)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to select move: %w", err)
	}

	return move, nil
}

func (that *Session) place(ctx context.Context, column, row int) error {
	if that.phase != PhaseMyTurn {
		return apperror.ErrNotYourTurn
	}

	cell, err := that.board.Get(column, row)
	if err != nil {
		return err
	}

	if cell != entity.CellEmpty {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrIllegalMove, column, row)
	}

	if err = that.board.Set(column, row, that.myColor.Cell()); err != nil {
		return err
	}

	that.phase = PhaseWaitingForOpponent

	return that.send(ctx, protocol.EncodeMoveReply(column, row))
}

func (that *Session) scheduleDone(ctx context.Context) error {
	that.cancelDone()

	if that.opts.DoneDelay <= 0 {
		return that.send(ctx, protocol.ReplyDone)
	}

	gen := that.doneGen
	that.doneTimer = time.AfterFunc(that.opts.DoneDelay, func() {
		that.sendDone(gen)
	})

	return nil
}

func (that *Session) sendDone(gen uint64) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.closed || gen != that.doneGen {
		return
	}

	that.doneTimer = nil

	if err := that.send(context.Background(), protocol.ReplyDone); err != nil {
		that.logger.Error("failed to send DONE", "error", err)
	}
}

// cancelDone drops a pending DONE; a timer that already fired sees the new
// generation and does nothing.
func (that *Session) cancelDone() {
	if that.doneTimer != nil {
		that.doneTimer.Stop()
		that.doneTimer = nil
	}
	that.doneGen++
}

func (that *Session) send(ctx context.Context, text string) error {
	that.logger.Debug("sending message", "message", text)

	if err := that.sender.Send(ctx, text); err != nil {
		return fmt.Errorf("failed to send %q: %w", text, err)
	}

	return nil
}

// Close discards the session. Pending replies are dropped.
func (that *Session) Close() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.closed = true
	that.cancelDone()
}

func (that *Session) Phase() Phase {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.phase
}

func (that *Session) MyColor() entity.Color {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.myColor
}

func (that *Session) IsPassive() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.isPassive
}

// Cell reads one cell of the board mirror.
func (that *Session) Cell(column, row int) (entity.CellState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.board == nil {
		return entity.CellEmpty, fmt.Errorf("%w: no board before INIT", apperror.ErrOutOfBounds)
	}

	return that.board.Get(column, row)
}

func (that *Session) Snapshot() Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	snap := Snapshot{
		Phase:     that.phase,
		MyColor:   that.myColor,
		IsPassive: that.isPassive,
	}
	if that.board != nil {
		snap.Board = that.board.Clone()
	}

	return snap
}
