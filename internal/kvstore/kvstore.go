// Package kvstore implements the Key-Value Source Adapter (§6): the
// worker's only view of the upstream store, backed by Redis.
package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client abstracts the upstream store behind the three operations the
// core needs: scan for session identifiers, single-key get, and batched
// get. All calls take the background context internally; the adapter
// has no cancellation surface of its own (§5: no operation internal to
// the core is cancelable mid-pass).
type Client struct {
	rdb *redis.Client
}

// New parses url (a redis:// or rediss:// URL, per REDIS_URL) and
// returns a ready Client. The connection itself is lazy; New never
// talks to the network.
func New(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("kvstore: parse REDIS_URL: %w", err)
	}
	return &Client{rdb: redis.NewClient(opts)}, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Scan implements the store's cursor-based scan primitive: cursor == 0
// both starts and (on return) signals the end of a full enumeration.
func (c *Client) Scan(cursor uint64, pattern string, count int64) (nextCursor uint64, keys []string, err error) {
	keys, next, err := c.rdb.Scan(context.Background(), cursor, pattern, count).Result()
	if err != nil {
		return 0, nil, fmt.Errorf("kvstore: scan %s: %w", pattern, err)
	}
	return next, keys, nil
}

// Get returns a key's value, or present=false if it does not exist.
func (c *Client) Get(key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kvstore: get %s: %w", key, err)
	}
	return b, true, nil
}

// MGet batch-fetches keys, returning a same-length, same-order slice
// where a missing key is a nil entry. Per §7, a failure here is the
// caller's cue to fall back to individual Gets rather than treat the
// whole batch as absent.
func (c *Client) MGet(keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := c.rdb.MGet(context.Background(), keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("kvstore: mget: %w", err)
	}

	out := make([][]byte, len(values))
	for i, v := range values {
		switch val := v.(type) {
		case nil:
			out[i] = nil
		case string:
			out[i] = []byte(val)
		case []byte:
			out[i] = val
		default:
			out[i] = []byte(fmt.Sprint(val))
		}
	}
	return out, nil
}
