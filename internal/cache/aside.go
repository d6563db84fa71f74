package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Aside implements the cache-aside pattern. It fills dest from the cache on a
// hit; on a miss it calls load, which must populate dest, then writes the
// result back with the given TTL. A nil or unreachable client degrades to a
// plain load.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	if client != nil {
		raw, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, dest); jsonErr == nil {
				return nil
			}
			// Corrupt entry, drop it and fall through to load
			client.Del(ctx, key)
		} else if !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled) {
			// Redis error other than a miss, serve from the database
		}
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if raw, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, raw, ttl)
		}
	}
	return nil
}
