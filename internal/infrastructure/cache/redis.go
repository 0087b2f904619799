package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// releaseScript deletes the key only while it still holds our token
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisClient is the subset of go-redis used by the locker
type RedisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.GetRedisAddr(), err)
	}
	return client, nil
}

// RedisLocker is a per-meeting lease shared by every process using the same
// Redis.
type RedisLocker struct {
	client RedisClient
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

func NewRedisLocker(client RedisClient, ttl, wait time.Duration, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

// Lock implements repositories.MeetingLocker
func (l *RedisLocker) Lock(ctx context.Context, meetingID string) (func(), error) {
	key := lockKey(meetingID)
	token := uuid.NewString()

	err := acquire(ctx, meetingID, l.wait, func() (bool, error) {
		return l.client.SetNX(ctx, key, token, l.ttl).Result()
	})
	if err != nil {
		return nil, err
	}

	unlock := func() {
		// The caller's context may already be cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.client.Eval(rctx, releaseScript, []string{key}, token).Err(); err != nil {
			l.logger.Warn("⚠️ Failed to release meeting lock",
				zap.String("meeting_id", meetingID),
				zap.Error(err),
			)
		}
	}
	return unlock, nil
}
