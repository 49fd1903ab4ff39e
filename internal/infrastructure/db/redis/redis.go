package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultDialTimeout = 5 * time.Second
	defaultOpTimeout   = 2 * time.Second
)

// Options describes the cache server used for role lookups.
type Options struct {
	Addr     string
	Password string
	DB       int
	// DialTimeout bounds both the initial dial and the startup ping.
	DialTimeout time.Duration
}

// Connect opens a client and refuses to return it until the server answers
// PING, so a misconfigured cache fails startup instead of the first request.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	if opts.Addr == "" {
		return nil, fmt.Errorf("redis: empty address")
	}
	dial := opts.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  dial,
		ReadTimeout:  defaultOpTimeout,
		WriteTimeout: defaultOpTimeout,
	})

	if err := Ping(ctx, client, dial); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Ping checks the server within timeout.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}
