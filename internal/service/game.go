package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/hexclient/internal/entity"
)

const defaultSaveTimeout = 5 * time.Second

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, record *entity.GameRecord) error
}

// GameRecorder archives finished games. It never fails the caller: a game
// that could not be stored is only logged.
type GameRecorder struct {
	logger      *slog.Logger
	gameRepo    gameRepo
	saveTimeout time.Duration
}

func NewGameRecorder(logger *slog.Logger, gameRepo gameRepo) *GameRecorder {
	return &GameRecorder{
		logger:      logger.With("component", "recorder"),
		gameRepo:    gameRepo,
		saveTimeout: defaultSaveTimeout,
	}
}

func (that *GameRecorder) GameFinished(ctx context.Context, record entity.GameRecord) {
	log := that.logger.With("method", "GameFinished")

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), that.saveTimeout)
	defer cancel()

	if err := that.gameRepo.CreateOrUpdate(ctx, &record); err != nil {
		log.Error("failed to archive game", "id", record.ID, "error", err)
		return
	}

	log.Info("game archived", "id", record.ID, "size", record.Size, "won", record.Won)
}
