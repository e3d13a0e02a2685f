// Package statusredis persists daily task status in Redis hashes, one hash
// per calendar date.
package statusredis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lisanmuaddib/quest-runner/pkg/status"
)

const (
	// DefaultPrefix namespaces the status hashes
	DefaultPrefix = "quest-runner:status"
	// DefaultTTL keeps a day's hash a little past the next rollover
	DefaultTTL = 48 * time.Hour
)

// HashClient is the subset of the Redis client the persister uses.
type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Config describes the Redis connection.
type Config struct {
	Address  string
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewConfig reads STATUS_REDIS_ADDR, STATUS_REDIS_PASSWORD and STATUS_REDIS_DB.
func NewConfig() (*Config, error) {
	config := &Config{
		Address:  strings.TrimSpace(os.Getenv("STATUS_REDIS_ADDR")),
		Password: os.Getenv("STATUS_REDIS_PASSWORD"),
		Prefix:   DefaultPrefix,
		TTL:      DefaultTTL,
	}
	if db := os.Getenv("STATUS_REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid STATUS_REDIS_DB: %w", err)
		}
		config.DB = n
	}
	return config, nil
}

// Enabled reports whether a Redis address is configured.
func (c *Config) Enabled() bool {
	return c.Address != ""
}

// Persister implements status.Persister.
type Persister struct {
	client HashClient
	prefix string
	ttl    time.Duration
	close  func() error
}

// New connects to Redis and checks the connection.
func New(ctx context.Context, config *Config) (*Persister, error) {
	if config.Address == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     config.Address,
		Password: config.Password,
		DB:       config.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	p := NewWithClient(client, config.Prefix, config.TTL)
	p.close = client.Close
	return p, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client HashClient, prefix string, ttl time.Duration) *Persister {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Persister{client: client, prefix: prefix, ttl: ttl}
}

// Load returns every flag stored for date.
func (p *Persister) Load(ctx context.Context, date string) (map[string]map[status.Task]bool, error) {
	values, err := p.client.HGetAll(ctx, p.key(date)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read status hash: %w", err)
	}

	flags := make(map[string]map[status.Task]bool)
	for field, value := range values {
		account, task, ok := parseField(field)
		if !ok || value != "1" {
			continue
		}
		if flags[account] == nil {
			flags[account] = make(map[status.Task]bool)
		}
		flags[account][task] = true
	}
	return flags, nil
}

// Save records one completed task for date.
func (p *Persister) Save(ctx context.Context, date, account string, task status.Task) error {
	key := p.key(date)
	if err := p.client.HSet(ctx, key, field(account, task), "1").Err(); err != nil {
		return fmt.Errorf("failed to write status hash: %w", err)
	}
	if err := p.client.Expire(ctx, key, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set status expiry: %w", err)
	}
	return nil
}

// Clear drops every flag stored for date.
func (p *Persister) Clear(ctx context.Context, date string) error {
	if err := p.client.Del(ctx, p.key(date)).Err(); err != nil {
		return fmt.Errorf("failed to clear status hash: %w", err)
	}
	return nil
}

// Close closes the connection opened by New.
func (p *Persister) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

func (p *Persister) key(date string) string {
	return p.prefix + ":" + date
}

func field(account string, task status.Task) string {
	return account + ":" + string(task)
}

// parseField splits at the last colon; task names never contain one.
func parseField(f string) (string, status.Task, bool) {
	i := strings.LastIndex(f, ":")
	if i <= 0 || i == len(f)-1 {
		return "", "", false
	}
	return f[:i], status.Task(f[i+1:]), true
}
