package cache

import (
	"context"
	"time"

	"agrolend-backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// Open connects using the REDIS_* settings.
func Open(cfg *config.Config) (*redis.Client, error) {
	return OpenRedis(cfg.RedisAddr, cfg.RedisDB)
}

func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, err
	}
	return r, nil
}
