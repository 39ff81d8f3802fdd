package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/hexclient/internal/config"
	"github.com/rocketscienceinc/hexclient/internal/repository"
	"github.com/rocketscienceinc/hexclient/internal/repository/storage"
	"github.com/rocketscienceinc/hexclient/internal/service"
	"github.com/rocketscienceinc/hexclient/internal/session"
	"github.com/rocketscienceinc/hexclient/internal/transport/console"
	"github.com/rocketscienceinc/hexclient/internal/transport/websocket"
)

// RunApp - connects to the game server and plays until the server closes
// the connection or the process is signalled.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		select {
		case sig := <-sigs:
			log.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	selector, err := service.NewMoveSelector(conf.Session.AutoPlay)
	if err != nil {
		return fmt.Errorf("invalid session config: %w", err)
	}

	opts := session.Options{
		DoneDelay: conf.Session.DoneDelay,
		Selector:  selector,
		TreeSink:  service.NewSearchTreeLogger(logger),
	}

	if conf.Redis.Enabled {
		redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.Host, conf.Redis.Port, conf.Redis.DB)
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		gameRepo := repository.NewGameRepository(redisStorage.Connection, conf.Redis.TTL)
		opts.Observer = service.NewGameRecorder(logger, gameRepo)
	}

	conn, err := websocket.Dial(ctx, logger, websocket.Options{
		URL:              conf.Server.URL,
		Query:            conf.Match.Query(),
		HandshakeTimeout: conf.Server.HandshakeTimeout,
		WriteTimeout:     conf.Server.WriteTimeout,
		MaxRetries:       conf.Server.DialRetries,
	})
	if err != nil {
		return fmt.Errorf("could not connect to game server: %w", err)
	}

	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug("connection close", "error", err)
		}
	}()

	hexSession := session.New(logger, conn, opts)
	defer hexSession.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// the server closing the connection ends the console too
		defer cancel()
		return conn.Listen(gctx, hexSession.Respond)
	})

	if !conf.Session.Headless {
		reader := console.NewReader(logger, hexSession, os.Stdin, os.Stdout)
		g.Go(func() error {
			return reader.Run(gctx)
		})
	}

	if err = g.Wait(); err != nil {
		return fmt.Errorf("game connection failed: %w", err)
	}

	log.Info("Game connection closed, shutting down")

	return nil
}
