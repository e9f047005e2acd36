package tokenstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const blacklistPrefix = "shiftwatch:token:blacklist:"

type redisStore struct {
	rdb *goredis.Client
}

// NewRedisStore connects to Redis and checks the connection with a ping.
func NewRedisStore(ctx context.Context, addr, password string, db int) (Store, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis token store connected", "addr", addr)
	return &redisStore{rdb: rdb}, nil
}

func (r *redisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, blacklistPrefix+key(token), "1", ttl).Err()
}

func (r *redisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, blacklistPrefix+key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisStore) Close() error {
	return r.rdb.Close()
}
