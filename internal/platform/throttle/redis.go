package throttle

import (
	"context"
	"fmt"
	"log"
	"time"

	"judgeback/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	_, err := RDB.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Could not connect to Redis: %v", err)
	}
	fmt.Println("Successfully connected to Redis!")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		fmt.Println("Redis connection closed.")
	}
}

// LoginThrottle counts failed login attempts per handle in Redis so the limit
// holds across server instances. Keys expire on their own; a successful login
// clears the counter early.
type LoginThrottle struct {
	rdb         *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(rdb *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, maxAttempts: maxAttempts, window: window}
}

func key(handle string) string {
	return "login_failures:" + handle
}

// Blocked reports whether the handle has exhausted its attempts.
func (t *LoginThrottle) Blocked(ctx context.Context, handle string) (bool, error) {
	count, err := t.rdb.Get(ctx, key(handle)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("LoginThrottle.Blocked: %w", err)
	}
	return count >= t.maxAttempts, nil
}

// RecordFailure bumps the failure counter, starting the expiry window on the
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, handle string) error {
	pipe := t.rdb.TxPipeline()
	pipe.Incr(ctx, key(handle))
	pipe.Expire(ctx, key(handle), t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("LoginThrottle.RecordFailure: %w", err)
	}
	return nil
}

// Clear resets the counter after a successful login.
func (t *LoginThrottle) Clear(ctx context.Context, handle string) error {
	if err := t.rdb.Del(ctx, key(handle)).Err(); err != nil {
		return fmt.Errorf("LoginThrottle.Clear: %w", err)
	}
	return nil
}
