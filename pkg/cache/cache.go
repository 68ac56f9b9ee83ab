package cache

import (
	"context"
	"errors"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

type localEntry struct {
	Expires time.Time
	Data    []byte
}

// Cache is a two level cache, an in process lru in front of an optional redis.
// Values are stored as json so callers never share memory with the cache.
type Cache struct {
	local    *lru.Cache[string, localEntry]
	localTTL time.Duration
	client   redis.UniversalClient
}

type Options struct {
	Addr      string
	Password  string
	DB        int
	LocalSize int
	LocalTTL  time.Duration
}

func NewCache(opts Options) (*Cache, error) {
	size := opts.LocalSize
	if size <= 0 {
		size = 1024
	}
	local, err := lru.New[string, localEntry](size)
	if err != nil {
		return nil, err
	}
	c := &Cache{local: local, localTTL: opts.LocalTTL}
	if c.localTTL <= 0 {
		c.localTTL = time.Minute
	}
	if opts.Addr != "" {
		c.client = redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		})
	}
	return c, nil
}

func (c *Cache) HasRemote() bool {
	return c.client != nil
}

func (c *Cache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	if local, found := c.local.Get(key); found {
		if time.Now().Before(local.Expires) {
			return jsoncompat.Unmarshal(local.Data, out)
		}
		c.local.Remove(key)
	}
	if c.client == nil {
		return ErrMiss
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	if err = jsoncompat.Unmarshal(data, out); err != nil {
		return err
	}
	c.local.Add(key, localEntry{Expires: time.Now().Add(c.localTTL), Data: data})
	return nil
}

// Set stores value for expiration. Entries without a positive expiration are
// not cached at all, redis would otherwise keep them forever.
func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if expiration <= 0 {
		return nil
	}
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.local.Add(key, localEntry{Expires: time.Now().Add(min(expiration, c.localTTL)), Data: data})
	if c.client == nil {
		return nil
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Close() error {
	c.local.Purge()
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
