package config

import (
	"os"
	"time"
)

/* =========================
   SERVER CONFIGURATION
========================= */

const (
	// Server settings
	DefaultPort = "3000"
	ServerHost  = "0.0.0.0"
)

/* =========================
   ENVIRONMENT KEYS
========================= */

const (
	EnvPort          = "PORT"
	EnvAdminPassword = "ADMIN_PASSWORD"
	EnvPersistPath   = "PERSIST_PATH"
	EnvDatabaseURL   = "DATABASE_URL"
	EnvRedisURL      = "REDIS_URL"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvDebug         = "DEBUG"

	// Dev-only fallback; set ADMIN_PASSWORD in any real deployment.
	DefaultAdminPassword = "changeme"
)

/* =========================
   BROADCAST CONFIGURATION
========================= */

const (
	// Per-subscriber frame queue. A subscriber that falls this far behind
	// starts losing frames instead of stalling the room.
	BroadcastBuffer = 32
)

/* =========================
   WEBSOCKET CONFIGURATION
========================= */

const (
	// Buffer sizes
	WSReadBufferSize  = 1024
	WSWriteBufferSize = 1024
)

/* =========================
   REDIS CONFIGURATION
========================= */

const (
	RedisDialTimeout  = 5 * time.Second
	RedisReadTimeout  = 3 * time.Second
	RedisWriteTimeout = 3 * time.Second
	RedisPoolSize     = 10
	RedisMinIdleConns = 5
)

/* =========================
   REDIS KEY PATTERNS
========================= */

const (
	// Online players set per game (SET)
	RedisOnlinePlayersKey = "giftexchange:%s:online" // giftexchange:{gameId}:online

	// Presence set TTL, refreshed whenever a session connects
	OnlinePlayersTTL = 1 * time.Hour
)

/* =========================
   POSTGRESQL CONFIGURATION
========================= */

const (
	// Connection pool settings
	MaxOpenConns    = 25
	MinIdleConns    = 5
	ConnMaxLifetime = 5 * time.Minute
)

/* =========================
   SNAPSHOT CONFIGURATION
========================= */

const (
	// Upper bound for one snapshot write
	SnapshotTimeout = 10 * time.Second
)

/* =========================
   HELPER FUNCTIONS
========================= */

// AdminPassword returns the shared admin secret for game creation.
func AdminPassword() string {
	if v := os.Getenv(EnvAdminPassword); v != "" {
		return v
	}
	return DefaultAdminPassword
}

// ServerAddr returns the host:port the server listens on.
func ServerAddr() string {
	port := os.Getenv(EnvPort)
	if port == "" {
		port = DefaultPort
	}
	return ServerHost + ":" + port
}

// PersistPath returns the snapshot file path, empty when file persistence is
// disabled.
func PersistPath() string {
	return os.Getenv(EnvPersistPath)
}

// DebugEnabled reports whether verbose logging was requested.
func DebugEnabled() bool {
	return os.Getenv(EnvDebug) != ""
}
