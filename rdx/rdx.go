package rdx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sayanchanda7290/roomradar/config"
)

// Client wraps the shared redis connection used for caching and pub/sub.
type Client struct {
	Conn *redis.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{Conn: redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})}
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.Conn.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.Conn.Close()
}

// RdxGet returns "" with a nil error on a cache miss.
func (c *Client) RdxGet(ctx context.Context, key string) (string, error) {
	val, err := c.Conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (c *Client) RdxSet(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Conn.Set(ctx, key, value, ttl).Err()
}

func (c *Client) RdxDel(ctx context.Context, keys ...string) (int64, error) {
	return c.Conn.Del(ctx, keys...).Result()
}

func (c *Client) Publish(ctx context.Context, channel string, payload []byte) error {
	return c.Conn.Publish(ctx, channel, payload).Err()
}
