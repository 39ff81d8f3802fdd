package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rocketscienceinc/hexclient/internal/apperror"
	"github.com/rocketscienceinc/hexclient/internal/entity"
)

var errMissingComma = errors.New("expected two comma separated numbers")

// Decode turns one server frame into an Event.
//
// Errors wrap apperror.ErrMalformedMove for unreadable move tokens and
// apperror.ErrProtocolViolation for an unusable INIT. Unrecognized tags are
// not errors: they decode to Unknown.
func Decode(raw string) (Event, error) {
	tag, rest := cutField(raw)

	switch tag {
	case TagInit:
		return decodeInit(rest)
	case TagMove:
		return decodeMove(rest)
	case TagEnd:
		return decodeEnd(rest)
	case TagABJSON:
		return SearchTree{Payload: rest}, nil
	default:
		return Unknown{Raw: raw}, nil
	}
}

// decodeInit reads "size:<int> color:<r|b|.>". Keys are case-insensitive
// because the server writes them in upper case.
func decodeInit(payload string) (Event, error) {
	var (
		init              Init
		hasSize, hasColor bool
	)

	for _, field := range strings.Fields(payload) {
		key, value, found := strings.Cut(field, ":")
		if !found {
			continue
		}

		switch strings.ToLower(key) {
		case "size":
			size, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("%w: bad size %q", apperror.ErrProtocolViolation, value)
			}
			if size <= 0 {
				return nil, fmt.Errorf("%w: %w: %d", apperror.ErrProtocolViolation, apperror.ErrInvalidSize, size)
			}
			init.Size = size
			hasSize = true
		case "color":
			color, ok := parseInitColor(value)
			if !ok {
				return nil, fmt.Errorf("%w: bad color %q", apperror.ErrProtocolViolation, value)
			}
			init.Color = color
			hasColor = true
		}
	}

	if !hasSize || !hasColor {
		return nil, fmt.Errorf("%w: incomplete INIT %q", apperror.ErrProtocolViolation, payload)
	}

	return init, nil
}

func parseInitColor(value string) (entity.Color, bool) {
	switch value {
	case "r":
		return entity.Red, true
	case "b":
		return entity.Blue, true
	case ".":
		return entity.None, true
	default:
		return entity.None, false
	}
}

func decodeMove(payload string) (Event, error) {
	if payload == NilMove {
		return OpponentMoved{}, nil
	}

	move, warnings, err := DecodeMoveToken(payload)
	if err != nil {
		return nil, err
	}

	return OpponentMoved{Move: &move, Warnings: warnings}, nil
}

// decodeEnd reads "[0|1] [<move-token|<nil>>]". A missing token means no
// final move.
func decodeEnd(payload string) (Event, error) {
	var ended GameEnded

	if flag, rest := cutField(payload); flag == "0" || flag == "1" {
		won := flag == "1"
		ended.Won = &won
		payload = rest
	}

	if payload == "" || payload == NilMove {
		return ended, nil
	}

	move, warnings, err := DecodeMoveToken(payload)
	if err != nil {
		return nil, err
	}

	ended.FinalMove = &move
	ended.Warnings = warnings

	return ended, nil
}

// cutField splits text at the first run of whitespace, trimming both parts.
func cutField(text string) (string, string) {
	text = strings.TrimSpace(text)

	i := strings.IndexFunc(text, unicode.IsSpace)
	if i < 0 {
		return text, ""
	}

	return text[:i], strings.TrimSpace(text[i:])
}

// DecodeMoveToken reads "<c>: (<col>, <row>)". An unknown color letter is
// not an error: the move gets Color None and a warning is returned.
func DecodeMoveToken(token string) (entity.Move, []string, error) {
	token = strings.TrimSpace(token)

	colorPart, coords, found := strings.Cut(token, ":")
	if !found || len(colorPart) != 1 {
		return entity.Move{}, nil, fmt.Errorf("%w: %q", apperror.ErrMalformedMove, token)
	}

	coords = strings.TrimSpace(coords)
	if !strings.HasPrefix(coords, "(") || !strings.HasSuffix(coords, ")") {
		return entity.Move{}, nil, fmt.Errorf("%w: %q", apperror.ErrMalformedMove, token)
	}

	column, row, err := parsePair(coords[1 : len(coords)-1])
	if err != nil {
		return entity.Move{}, nil, fmt.Errorf("%w: %q: %w", apperror.ErrMalformedMove, token, err)
	}

	var warnings []string

	var color entity.Color
	switch colorPart {
	case "r":
		color = entity.Red
	case "b":
		color = entity.Blue
	default:
		color = entity.None
		warnings = append(warnings, fmt.Sprintf("invalid color %q", colorPart))
	}

	return entity.NewMove(column, row, color), warnings, nil
}

// EncodeMoveToken is the inverse of DecodeMoveToken.
func EncodeMoveToken(move entity.Move) string {
	return move.String()
}

// EncodeMoveReply is the client's move message: "<col>,<row>".
func EncodeMoveReply(column, row int) string {
	return strconv.Itoa(column) + "," + strconv.Itoa(row)
}

// DecodeMoveReply reads "<col>,<row>", tolerating spaces around the numbers.
func DecodeMoveReply(text string) (int, int, error) {
	column, row, err := parsePair(text)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %w", apperror.ErrMalformedMove, text, err)
	}

	return column, row, nil
}

func parsePair(text string) (int, int, error) {
	first, second, found := strings.Cut(text, ",")
	if !found {
		return 0, 0, errMissingComma
	}

	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, err
	}

	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}
