// Package cache keeps finished results in Redis keyed by their inputs, so a
// repeated request is served without re-running the simulation.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/san-kum/traysim/internal/dynamo"
)

const keyPrefix = "traysim:result:"

// Cache is safe to use as a nil pointer, which behaves as an always-empty
// cache.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Connect parses a redis:// URL and verifies the server answers.
func Connect(ctx context.Context, redisURL string, ttl time.Duration) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return New(client, ttl), nil
}

func New(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

// Key derives the cache key of a run. Runs are deterministic, so equal
// inputs always map to equal results.
func Key(p dynamo.Params, s dynamo.SolverConfig) (string, error) {
	data, err := json.Marshal(struct {
		Params dynamo.Params       `json:"params"`
		Solver dynamo.SolverConfig `json:"solver"`
	}{p, s})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}

// Get reports a miss with a nil error when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) (*dynamo.Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var res dynamo.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, err
	}
	return &res, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, res *dynamo.Result) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
