package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// TTL is how long a session stays valid without re-login.
	TTL = 24 * time.Hour
	// CookieName is the name of the session cookie.
	CookieName = "session_id"

	keyPrefix = "session:"
)

// Store maps opaque session tokens to usernames. The token is the sole
// credential carried between requests; nothing about the user is encoded
// in it.
type Store interface {
	Create(ctx context.Context, username string) (string, error)
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// RedisStore keeps sessions in Redis under "session:<token>" with a TTL.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Create stores a new session mapping token -> username.
func (s *RedisStore) Create(ctx context.Context, username string) (string, error) {
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, keyPrefix+token, username, TTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Get returns the username for a session, or "" if not found / expired.
func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}

// NewRedisClient creates and pings a Redis client.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
