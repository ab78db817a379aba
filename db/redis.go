package db

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"giftExchangeServer/config"
	"giftExchangeServer/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient is the global Redis client instance. Nil when presence tracking
// is disabled.
var RedisClient *redis.Client

// InitRedis initializes the Redis client connection.
func InitRedis() error {
	logger.Get().Info("🔌 Connecting to Redis...")

	redisURL := os.Getenv(config.EnvRedisURL)
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	var opts *redis.Options
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		redisDB := 0
		if dbStr := os.Getenv(config.EnvRedisDB); dbStr != "" {
			if n, err := strconv.Atoi(dbStr); err == nil {
				redisDB = n
			}
		}
		opts = &redis.Options{
			Addr:     redisURL,
			Password: os.Getenv(config.EnvRedisPassword),
			DB:       redisDB,
		}
	}

	opts.DialTimeout = config.RedisDialTimeout
	opts.ReadTimeout = config.RedisReadTimeout
	opts.WriteTimeout = config.RedisWriteTimeout
	opts.PoolSize = config.RedisPoolSize
	opts.MinIdleConns = config.RedisMinIdleConns

	RedisClient = redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), config.RedisDialTimeout)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient = nil
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Get().Info("✅ Redis connected", zap.String("addr", opts.Addr))
	return nil
}

// CloseRedis closes the Redis connection.
func CloseRedis() error {
	if RedisClient != nil {
		logger.Get().Info("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   PRESENCE FUNCTIONS
   Redis Key: giftexchange:{gameId}:online -> SET{playerId}
========================= */

// AddOnlinePlayer marks a player online for a game and refreshes the set TTL.
// No-op when Redis is disabled.
func AddOnlinePlayer(ctx context.Context, gameID, playerID string) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf(config.RedisOnlinePlayersKey, gameID)

	if err := RedisClient.SAdd(ctx, key, playerID).Err(); err != nil {
		return fmt.Errorf("failed to add online player: %w", err)
	}
	RedisClient.Expire(ctx, key, config.OnlinePlayersTTL)

	return nil
}

// RemoveOnlinePlayer clears a player's online flag for a game.
func RemoveOnlinePlayer(ctx context.Context, gameID, playerID string) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf(config.RedisOnlinePlayersKey, gameID)

	if err := RedisClient.SRem(ctx, key, playerID).Err(); err != nil {
		return fmt.Errorf("failed to remove online player: %w", err)
	}
	return nil
}

// GetOnlinePlayers returns the ids of players currently connected to a game.
func GetOnlinePlayers(ctx context.Context, gameID string) ([]string, error) {
	if RedisClient == nil {
		return []string{}, nil
	}
	key := fmt.Sprintf(config.RedisOnlinePlayersKey, gameID)

	players, err := RedisClient.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get online players: %w", err)
	}
	return players, nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check.
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
