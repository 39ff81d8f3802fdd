package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
	defaultInitialBackoff   = 500 * time.Millisecond
	closeGracePeriod        = time.Second
)

var ErrConnectionClosed = errors.New("connection closed")

type Options struct {
	URL   string
	Query url.Values

	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration

	// MaxRetries is how many times a failed dial is repeated. Handshakes the
	// server rejects with a 4xx status are not retried.
	MaxRetries     uint64
	InitialBackoff time.Duration
}

// Handler receives every text frame in arrival order. A returned error
// stops Listen.
type Handler func(ctx context.Context, text string) error

// Conn is a client connection to the game server. Send is safe for
// concurrent use; Listen must run in a single goroutine.
type Conn struct {
	logger       *slog.Logger
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// BuildURL merges query into the query string of base.
func BuildURL(base string, query url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse server url: %w", err)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return "", fmt.Errorf("unsupported scheme %q in server url", u.Scheme)
	}

	values := u.Query()
	for key, vals := range query {
		values.Del(key)
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	u.RawQuery = values.Encode()

	return u.String(), nil
}

func Dial(ctx context.Context, logger *slog.Logger, opts Options) (*Conn, error) {
	log := logger.With("component", "websocket", "method", "Dial")

	target, err := BuildURL(opts.URL, opts.Query)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: withDefault(opts.HandshakeTimeout, defaultHandshakeTimeout),
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = withDefault(opts.InitialBackoff, defaultInitialBackoff)

	var ws *websocket.Conn
	operation := func() error {
		conn, resp, err := dialer.DialContext(ctx, target, nil)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}

		if err != nil {
			if resp != nil && resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
				return backoff.Permanent(fmt.Errorf("server rejected handshake with %s: %w", resp.Status, err))
			}
			return err
		}

		ws = conn
		return nil
	}

	notify := func(err error, wait time.Duration) {
		log.Warn("dial failed, retrying", "url", target, "error", err, "wait", wait)
	}

	retryPolicy := backoff.WithContext(backoff.WithMaxRetries(policy, opts.MaxRetries), ctx)
	if err = backoff.RetryNotify(operation, retryPolicy, notify); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}

	log.Info("connected", "url", target)

	return &Conn{
		logger:       logger.With("component", "websocket"),
		ws:           ws,
		writeTimeout: withDefault(opts.WriteTimeout, defaultWriteTimeout),
	}, nil
}

// Send writes one text frame. The write deadline is the earlier of the
// context deadline and the configured write timeout.
func (that *Conn) Send(ctx context.Context, text string) error {
	if that.closed.Load() {
		return ErrConnectionClosed
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	deadline := time.Now().Add(that.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := that.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.ws.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	that.logger.Debug("message sent", "message", text)

	return nil
}

// Listen reads frames until the connection ends and hands each one to
// handler before reading the next. A normal close, a local Close or a
// cancelled ctx return nil.
func (that *Conn) Listen(ctx context.Context, handler Handler) error {
	log := that.logger.With("method", "Listen")

	stop := context.AfterFunc(ctx, func() {
		_ = that.Close()
	})
	defer stop()

	for {
		messageType, data, err := that.ws.ReadMessage()
		if err != nil {
			if that.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Info("connection closed")
				return nil
			}
			return fmt.Errorf("failed to read message: %w", err)
		}

		if messageType != websocket.TextMessage {
			log.Warn("ignoring non-text frame", "type", messageType)
			continue
		}

		log.Debug("message received", "message", string(data))

		if err = handler(ctx, string(data)); err != nil {
			return fmt.Errorf("failed to handle message: %w", err)
		}
	}
}

// Close sends a close frame and releases the connection. Safe to call more
// than once.
func (that *Conn) Close() error {
	var err error

	that.closeOnce.Do(func() {
		that.closed.Store(true)

		that.writeMu.Lock()
		_ = that.ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod),
		)
		that.writeMu.Unlock()

		err = that.ws.Close()
	})

	return err
}

func withDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}

	return value
}
