// Package redis provides a collection backend backed by a Redis hash per key.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	itemsField     = "items"
	updatedAtField = "updated_at"
)

// Options configures a Backend.
type Options struct {
	// Addr is either host:port or a redis:// URL.
	Addr string
	// Prefix namespaces collection keys, e.g. "pos:" stores "cart" at "pos:cart".
	Prefix string
	// MaxAttempts bounds Initialize's ping loop. Zero means 10.
	MaxAttempts int
	Logger      *zap.Logger
}

// Backend keeps each collection in the "items" field of a Redis hash.
type Backend struct {
	client      *goredis.Client
	prefix      string
	maxAttempts int
	log         *zap.Logger
}

// New creates a Backend. It does not contact the server; call Initialize.
func New(opts Options) (*Backend, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	clientOpts, err := goredis.ParseURL(addr)
	if err != nil {
		// Not a redis:// URL; treat it as a plain address.
		if !strings.Contains(addr, ":") {
			addr += ":6379"
		}
		clientOpts = &goredis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     4,
		}
	}
	return NewWithClient(goredis.NewClient(clientOpts), opts), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, opts Options) *Backend {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 10
	}
	return &Backend{
		client:      client,
		prefix:      opts.Prefix,
		maxAttempts: attempts,
		log:         log.With(zap.String("backend", "redis")),
	}
}

// Initialize pings the server with exponential backoff until it answers, the
// attempts run out, or ctx is done.
func (b *Backend) Initialize(ctx context.Context) error {
	var lastErr error
	for i := 0; i < b.maxAttempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = b.client.Ping(pingCtx).Err()
		cancel()
		if lastErr == nil {
			b.log.Info("redis ready", zap.Int("attempt", i+1))
			return nil
		}

		backoff := time.Duration(100*(1<<uint(i))) * time.Millisecond
		if backoff > 5*time.Second {
			backoff = 5 * time.Second
		}
		b.log.Warn("redis ping failed",
			zap.Int("attempt", i+1),
			zap.Duration("backoff", backoff),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("redis not reachable after %d attempts: %w", b.maxAttempts, lastErr)
}

// Get loads the encoded collection stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := b.client.HGet(ctx, b.prefix+key, itemsField).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}
	return val, true, nil
}

// Set overwrites the encoded collection stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	err := b.client.HSet(ctx, b.prefix+key,
		itemsField, value,
		updatedAtField, time.Now().UTC().UnixMilli(),
	).Err()
	if err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (b *Backend) Close() error {
	return b.client.Close()
}
