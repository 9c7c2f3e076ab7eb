package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	catalogCacheKey = "catalog:public"
	adminSessionKey = "admin:session"
	ratesKeyPrefix  = "rates:"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// SetCatalogCache stores the serialized public catalog
func (c *Client) SetCatalogCache(ctx context.Context, payload []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, catalogCacheKey, payload, ttl).Err()
}

// GetCatalogCache returns the cached catalog payload, or nil on a miss
func (c *Client) GetCatalogCache(ctx context.Context) ([]byte, error) {
	payload, err := c.rdb.Get(ctx, catalogCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// DropCatalogCache invalidates the cached catalog
func (c *Client) DropCatalogCache(ctx context.Context) error {
	return c.rdb.Del(ctx, catalogCacheKey).Err()
}

// SetAdminSession replaces the admin session record wholesale. The last login
// wins across every instance sharing this Redis.
func (c *Client) SetAdminSession(ctx context.Context, token string, ttl time.Duration) error {
	return c.rdb.Set(ctx, adminSessionKey, token, ttl).Err()
}

// GetAdminSession returns the current admin bearer token, or "" when no login
// has occurred
func (c *Client) GetAdminSession(ctx context.Context) (string, error) {
	token, err := c.rdb.Get(ctx, adminSessionKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// SetRate caches a conversion rate for a currency code
func (c *Client) SetRate(ctx context.Context, code string, rate string, ttl time.Duration) error {
	return c.rdb.Set(ctx, ratesKeyPrefix+code, rate, ttl).Err()
}

// GetRate returns the cached rate for a currency code, or "" on a miss
func (c *Client) GetRate(ctx context.Context, code string) (string, error) {
	rate, err := c.rdb.Get(ctx, ratesKeyPrefix+code).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rate, nil
}
