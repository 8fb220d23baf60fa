// Package cache connects to the Dragonfly/Redis server that backs the dive
// log when the redis backend is selected.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/p-n-ai/deepblue/internal/platform/config"
)

const (
	defaultClientName = "deepblue"
	pingTimeout       = 3 * time.Second
)

// Cache wraps a Redis/Dragonfly client.
type Cache struct {
	Client *redis.Client
}

// Options parses url and fills in the service defaults. A client_name in the
// URL is kept.
func Options(url string) (*redis.Options, error) {
	if url == "" {
		return nil, errors.New("cache URL is empty")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}
	if opts.ClientName == "" {
		opts.ClientName = defaultClientName
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return opts, nil
}

// Open connects and waits for the server to answer a PING.
func Open(ctx context.Context, cfg config.CacheConfig) (*Cache, error) {
	opts, err := Options(cfg.URL)
	if err != nil {
		return nil, err
	}

	c := &Cache{Client: redis.NewClient(opts)}
	if err := c.HealthCheck(ctx); err != nil {
		c.Client.Close()
		return nil, err
	}

	slog.Info("cache connected", "addr", opts.Addr, "db", opts.DB, "client_name", opts.ClientName)
	return c, nil
}

// Close shuts down the cache client.
func (c *Cache) Close() error {
	return c.Client.Close()
}

// HealthCheck pings the server, giving up after a few seconds.
func (c *Cache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging cache: %w", err)
	}
	return nil
}
