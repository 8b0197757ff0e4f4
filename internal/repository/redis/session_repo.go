package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	sessionKeyPrefix = "session:user:token"
	sessionTTL       = 30 * time.Minute
)

// SessionRepository stores the current access token per user so a login
// elsewhere invalidates the previous session.
type SessionRepository struct{}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionKeyPrefix, userID)
}

func (r *SessionRepository) Put(ctx context.Context, userID uint64, token string) error {
	if err := Client.Set(ctx, sessionKey(userID), token, sessionTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := Client.Get(ctx, sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend renews the session TTL after a successful request.
func (r *SessionRepository) Extend(ctx context.Context, userID uint64) error {
	if _, err := Client.Expire(ctx, sessionKey(userID), sessionTTL).Result(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	if err := Client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
