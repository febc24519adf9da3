// Package querycache is a read-through cache for list and lookup queries.
// Entries are recorded under tags so a write can invalidate every query it
// affects in one call. A Cache is created once and handed to the services
// that need it.
//
// Every tag carries a version counter that Invalidate bumps. A load records
// the versions of its tags before it starts and its result is only stored if
// none of them moved, so a load racing a write never caches the old value.
package querycache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL    = 30 * time.Minute
	DefaultPrefix = "hrms"
)

// Key names one cached query and the tags it belongs to. A zero TTL uses the
// cache default.
type Key struct {
	Name string
	Tags []string
	TTL  time.Duration
}

// NewKey joins name parts with ':'.
func NewKey(tags []string, parts ...string) Key {
	return Key{Name: strings.Join(parts, ":"), Tags: tags}
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		if prefix != "" {
			c.prefix = prefix
		}
	}
}

// storeIfCurrent writes the entry and tags it only while every tag version
// still equals the one read before the load.
//
// KEYS: store key, n version keys, n tag keys
// ARGV: payload, ttl in ms, n, n expected versions
var storeIfCurrent = `
local n = tonumber(ARGV[3])
for i = 1, n do
  local cur = redis.call('GET', KEYS[1 + i]) or ''
  if cur ~= ARGV[3 + i] then
    return 0
  end
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
for i = 1, n do
  local tag = KEYS[1 + n + i]
  redis.call('SADD', tag, KEYS[1])
  redis.call('PEXPIRE', tag, ARGV[2])
end
return 1
`

type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	sf     singleflight.Group
}

// New returns a Cache backed by rdb. With a nil client nothing is stored but
// concurrent loads of the same key are still coalesced.
func New(rdb *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		rdb:    rdb,
		prefix: DefaultPrefix,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) StoreKey(name string) string {
	return c.prefix + ":q:" + name
}

func (c *Cache) TagKey(tag string) string {
	return c.prefix + ":tag:" + tag
}

// VersionKey holds the invalidation counter of tag. It has no expiry.
func (c *Cache) VersionKey(tag string) string {
	return c.prefix + ":tagver:" + tag
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) ttlFor(key Key) time.Duration {
	if key.TTL > 0 {
		return key.TTL
	}
	return c.ttl
}

// Fetch returns the cached value for key or loads, stores and returns it.
// Redis failures degrade to calling load.
func Fetch[T any](ctx context.Context, c *Cache, key Key, load func(context.Context) (T, error)) (T, error) {
	storeKey := c.StoreKey(key.Name)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, storeKey).Result()
		switch {
		case err == nil:
			var v T
			if err := json.Unmarshal([]byte(cached), &v); err == nil {
				return v, nil
			}
			slog.Warn("querycache: dropping undecodable entry", "key", storeKey)
		case !errors.Is(err, redis.Nil):
			slog.Warn("querycache: get failed", "key", storeKey, "error", err)
		}
	}

	v, err, _ := c.sf.Do(storeKey, func() (interface{}, error) {
		versions, ok := c.tagVersions(ctx, key.Tags)
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			c.store(ctx, storeKey, key, versions, loaded)
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// tagVersions reads the current version of every tag. ok is false when the
// versions are unknown and the result must not be stored.
func (c *Cache) tagVersions(ctx context.Context, tags []string) ([]string, bool) {
	if c.rdb == nil {
		return nil, false
	}
	if len(tags) == 0 {
		return nil, true
	}

	keys := make([]string, len(tags))
	for i, tag := range tags {
		keys[i] = c.VersionKey(tag)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("querycache: version read failed", "tags", tags, "error", err)
		return nil, false
	}

	versions := make([]string, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			versions[i] = s
		}
	}
	return versions, true
}

func (c *Cache) store(ctx context.Context, storeKey string, key Key, versions []string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.Warn("querycache: encode failed", "key", storeKey, "error", err)
		return
	}
	ttl := c.ttlFor(key)

	if len(key.Tags) == 0 {
		if err := c.rdb.Set(ctx, storeKey, string(data), ttl).Err(); err != nil {
			slog.Warn("querycache: set failed", "key", storeKey, "error", err)
		}
		return
	}

	n := len(key.Tags)
	keys := make([]string, 0, 1+2*n)
	keys = append(keys, storeKey)
	for _, tag := range key.Tags {
		keys = append(keys, c.VersionKey(tag))
	}
	for _, tag := range key.Tags {
		keys = append(keys, c.TagKey(tag))
	}
	args := make([]interface{}, 0, 3+n)
	args = append(args, string(data), strconv.FormatInt(ttl.Milliseconds(), 10), strconv.Itoa(n))
	for _, v := range versions {
		args = append(args, v)
	}

	stored, err := c.rdb.Eval(ctx, storeIfCurrent, keys, args...).Int()
	if err != nil {
		slog.Warn("querycache: set failed", "key", storeKey, "error", err)
		return
	}
	if stored == 0 {
		slog.Debug("querycache: skipped result invalidated during load", "key", storeKey)
	}
}

// Invalidate bumps the version of the given tags, so loads already running
// do not store their results, and removes every entry recorded under them.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) error {
	if c.rdb == nil {
		return nil
	}

	var errs []error
	for _, tag := range tags {
		if err := c.rdb.Incr(ctx, c.VersionKey(tag)).Err(); err != nil {
			errs = append(errs, err)
		}

		tagKey := c.TagKey(tag)
		members, err := c.rdb.SMembers(ctx, tagKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			errs = append(errs, err)
			continue
		}
		for _, m := range members {
			c.sf.Forget(m)
		}
		keys := append(members, tagKey)
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
