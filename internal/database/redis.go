package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/vinilopesc/vortex-board/internal/config"
)

var redisClient *redis.Client

// InitRedis initializes the Redis connection used for cross-instance event
// fan-out and login throttling. Redis is optional: when unconfigured or
// unreachable the service runs single-instance with local fan-out only.
func InitRedis(cfg config.RedisConfig, log *zap.Logger) error {
	var client *redis.Client

	if cfg.URL != "" {
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return err
		}
		client = redis.NewClient(opts)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     "localhost:6379",
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return err
	}

	redisClient = client
	log.Info("Redis connection established successfully", zap.Int("db", cfg.DB))
	return nil
}

// GetRedis returns the Redis client, nil when Redis is not configured
func GetRedis() *redis.Client {
	return redisClient
}

func boardChannel(boardID string) string {
	return fmt.Sprintf("board:%s", boardID)
}

func userChannel(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

// PublishBoardEvent publishes a serialized event to the board's channel
func PublishBoardEvent(ctx context.Context, boardID string, payload []byte) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return redisClient.Publish(ctx, boardChannel(boardID), payload).Err()
}

// SubscribeBoardEvents subscribes to a board's event channel, nil without Redis
func SubscribeBoardEvents(ctx context.Context, boardID string) *redis.PubSub {
	if redisClient == nil {
		return nil
	}
	return redisClient.Subscribe(ctx, boardChannel(boardID))
}

// PublishUserEvent publishes a serialized event to the user's personal channel
func PublishUserEvent(ctx context.Context, userID string, payload []byte) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return redisClient.Publish(ctx, userChannel(userID), payload).Err()
}

// SubscribeUserEvents subscribes to a user's personal channel, nil without Redis
func SubscribeUserEvents(ctx context.Context, userID string) *redis.PubSub {
	if redisClient == nil {
		return nil
	}
	return redisClient.Subscribe(ctx, userChannel(userID))
}

// RecordLoginFailure increments the failed-login counter for the key and
// returns the new count. The counter expires after window, so the lock
// releases itself.
func RecordLoginFailure(ctx context.Context, key string, window time.Duration) (int64, error) {
	if redisClient == nil {
		return 0, fmt.Errorf("redis client not initialized")
	}
	counterKey := fmt.Sprintf("login_failures:%s", key)
	count, err := redisClient.Incr(ctx, counterKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		redisClient.Expire(ctx, counterKey, window)
	}
	return count, nil
}

// LoginFailureCount returns the current failed-login counter for the key
func LoginFailureCount(ctx context.Context, key string) (int64, error) {
	if redisClient == nil {
		return 0, fmt.Errorf("redis client not initialized")
	}
	count, err := redisClient.Get(ctx, fmt.Sprintf("login_failures:%s", key)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

// ResetLoginFailures clears the failed-login counter after a successful login
func ResetLoginFailures(ctx context.Context, key string) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return redisClient.Del(ctx, fmt.Sprintf("login_failures:%s", key)).Err()
}
