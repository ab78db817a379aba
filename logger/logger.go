package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Init builds the process logger. Call once in main before anything logs;
// components started earlier see a no-op logger.
func Init(debug bool) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	built, err := cfg.Build()
	if err != nil {
		return
	}

	mu.Lock()
	global = built
	mu.Unlock()
}

// Get returns the process logger.
func Get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// WithGame returns a logger scoped to one game.
func WithGame(gameID string) *zap.Logger {
	return Get().With(zap.String("game_id", gameID))
}

// WithGamePlayer returns a logger scoped to one player in one game.
func WithGamePlayer(gameID, playerID string) *zap.Logger {
	return Get().With(
		zap.String("game_id", gameID),
		zap.String("player_id", playerID),
	)
}

// Sync flushes buffered entries. Call on shutdown.
func Sync() {
	_ = Get().Sync()
}
