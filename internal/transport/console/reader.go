package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
	"github.com/rocketscienceinc/hexclient/internal/entity"
	"github.com/rocketscienceinc/hexclient/internal/protocol"
	"github.com/rocketscienceinc/hexclient/internal/session"
)

const (
	commandAuto  = "auto"
	commandBoard = "board"
	commandHelp  = "help"
)

const helpText = `commands:
  <col>,<row>  place a stone
  auto         let the client pick a move
  board        show the board
`

type gameSession interface {
	AttemptLocalMove(ctx context.Context, column, row int) error
	PlayFallbackMove(ctx context.Context) (entity.Move, error)
	Snapshot() session.Snapshot
}

// Reader turns lines typed by a human into local moves.
type Reader struct {
	logger  *slog.Logger
	session gameSession
	in      io.Reader
	out     io.Writer
}

func NewReader(logger *slog.Logger, session gameSession, in io.Reader, out io.Writer) *Reader {
	return &Reader{
		logger:  logger.With("component", "console"),
		session: session,
		in:      in,
		out:     out,
	}
}

// Run reads until EOF or ctx is done. Rejected input is reported and the
// loop goes on.
func (that *Reader) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)

	// Scan cannot be interrupted: on stdin this goroutine stays blocked
	// until the process exits.
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(that.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}

			err := that.handleLine(ctx, strings.TrimSpace(line))
			if errors.Is(err, apperror.ErrSessionClosed) {
				return nil
			}
			if err != nil {
				return err
			}
		}
	}
}

func (that *Reader) handleLine(ctx context.Context, line string) error {
	log := that.logger.With("method", "handleLine")

	switch strings.ToLower(line) {
	case "":
		return nil
	case commandHelp:
		that.print(helpText)
		return nil
	case commandBoard:
		that.printBoard()
		return nil
	case commandAuto:
		move, err := that.session.PlayFallbackMove(ctx)
		if err != nil {
			return that.reject(log, line, err)
		}
		that.print("played %d,%d\n", move.Column, move.Row)
		return nil
	}

	column, row, err := protocol.DecodeMoveReply(line)
	if err != nil {
		that.print("unrecognized input %q, type help\n", line)
		log.Warn("unrecognized input", "line", line, "error", err)
		return nil
	}

	if err = that.session.AttemptLocalMove(ctx, column, row); err != nil {
		return that.reject(log, line, err)
	}

	return nil
}

// reject reports a refused move. Only a closed session ends the loop.
func (that *Reader) reject(log *slog.Logger, line string, err error) error {
	if errors.Is(err, apperror.ErrSessionClosed) {
		return err
	}

	log.Warn("move rejected", "line", line, "error", err)
	that.print("rejected: %v\n", err)

	return nil
}

func (that *Reader) printBoard() {
	snap := that.session.Snapshot()
	if snap.Board == nil {
		that.print("no game yet\n")
		return
	}

	that.print("phase %s, color %s\n%s", snap.Phase, snap.MyColor, snap.Board.String())
}

func (that *Reader) print(format string, args ...any) {
	if _, err := fmt.Fprintf(that.out, format, args...); err != nil {
		that.logger.Error("failed to write output", "error", err)
	}
}
