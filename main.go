package main

import (
	"context"
	"net/http"
	"os"

	"giftExchangeServer/api"
	"giftExchangeServer/config"
	"giftExchangeServer/db"
	"giftExchangeServer/logger"
	"giftExchangeServer/ws"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env before anything reads the environment
	envErr := godotenv.Load()

	logger.Init(config.DebugEnabled())
	defer logger.Sync()
	log := logger.Get()

	if envErr != nil {
		log.Warn("⚠️  .env file not found, using environment variables")
	} else {
		log.Info("✅ Loaded environment variables from .env")
	}

	// Pick the snapshot backend: file path wins, then PostgreSQL, else none.
	var store db.SnapshotStore
	switch {
	case config.PersistPath() != "":
		store = db.NewFileStore(config.PersistPath())
		log.Info("💾 Snapshot persistence: file", zap.String("path", config.PersistPath()))
	case os.Getenv(config.EnvDatabaseURL) != "":
		if err := db.InitPostgres(); err != nil {
			log.Warn("⚠️  PostgreSQL initialization failed", zap.Error(err))
			log.Warn("   Game snapshots will not survive restarts")
		} else {
			store = db.NewPostgresStore()
			log.Info("💾 Snapshot persistence: PostgreSQL")
		}
	default:
		log.Warn("⚠️  No PERSIST_PATH or DATABASE_URL set, games are in-memory only")
	}
	defer db.ClosePostgres()

	var persister *db.Persister
	var persistFn func()
	if store != nil {
		persister = db.NewPersister(store)
		persistFn = persister.Request
	}

	reg := ws.NewRegistry(persistFn)

	if persister != nil {
		persister.SetSource(reg.Snapshot)
		go persister.Run()
		defer persister.Close()

		games, err := store.Load(context.Background())
		if err != nil {
			log.Warn("⚠️  Failed to load saved games, starting empty", zap.Error(err))
		} else if len(games) > 0 {
			reg.Restore(games)
			log.Info("📦 Restored saved games", zap.Int("count", len(games)))
		}
	}

	if err := db.InitRedis(); err != nil {
		log.Warn("⚠️  Redis initialization failed", zap.Error(err))
		log.Warn("   Presence tracking will be disabled")
	}
	defer db.CloseRedis()

	handler := api.NewHandler(reg, config.AdminPassword())

	addr := config.ServerAddr()
	log.Info("🚀 Server starting", zap.String("addr", addr))
	log.Info("📡 WebSocket Endpoints:")
	log.Info("   ws://" + addr + "/ws/{game_id}/{player_id} - live game stream")
	log.Info("🔌 API Endpoints:")
	log.Info("   POST /game - Create game (x-admin-password)")
	log.Info("   GET  /games - List games")
	log.Info("   POST /game/{id}/join - Join lobby")
	log.Info("   POST /game/{id}/gift - Submit or edit a gift")
	log.Info("   POST /game/{id}/start - Start game (x-host-token)")
	log.Info("   GET  /game/{id} - Public game view")
	log.Info("   GET  /game/{id}/presence - Online players")
	log.Info("   GET  /api/health - Health check (Redis + PostgreSQL)")

	if err := http.ListenAndServe(addr, corsMiddleware(handler.Routes())); err != nil {
		log.Fatal("❌ Server error", zap.Error(err))
	}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-admin-password, x-host-token")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight OPTIONS request
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler.ServeHTTP(w, r)
	})
}
