package service

import (
	"encoding/json"
	"log/slog"
)

// SearchTreeLogger records the search trees the server publishes for
// spectators. The payload is opaque; only its shape is checked.
type SearchTreeLogger struct {
	logger *slog.Logger
}

func NewSearchTreeLogger(logger *slog.Logger) *SearchTreeLogger {
	return &SearchTreeLogger{logger: logger.With("component", "search-tree")}
}

func (that *SearchTreeLogger) SearchTree(payload string) {
	if !json.Valid([]byte(payload)) {
		that.logger.Warn("search tree is not valid JSON", "bytes", len(payload))
		return
	}

	that.logger.Debug("search tree received", "bytes", len(payload), "tree", json.RawMessage(payload))
}
