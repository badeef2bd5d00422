package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "clientra:",
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// genTTL 代数 key 的存活时间，远大于任何一次回源耗时
const genTTL = 24 * time.Hour

func (c *Cache) genKey(k string) string { return k + ":gen" }

// GetOrLoad 读穿缓存。回源前记下 key 的代数，写回时代数变了（期间有 Del）就放弃写入，
// 避免慢回源把旧值写回已失效的 key
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	// 先读缓存；redis 故障时直接回源
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(k, func() (any, error) {
		gen, genErr := c.RDB.Get(ctx, c.genKey(k)).Int64()
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if genErr == nil || errors.Is(genErr, redis.Nil) {
			_ = c.setIfGen(ctx, k, gen, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) setIfGen(ctx context.Context, k string, gen int64, b []byte, ttl time.Duration) error {
	gk := c.genKey(k)
	return c.RDB.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, gk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, k, b, ttl)
			return nil
		})
		return err
	}, gk)
}

// Del 删除 key 并推进代数，使进行中的回源不再写回
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, key := range keys {
			k := c.key(key)
			p.Incr(ctx, c.genKey(k))
			p.Expire(ctx, c.genKey(k), genTTL)
			p.Del(ctx, k)
		}
		return nil
	})
	return err
}

// GetOrLoadJSON GetOrLoad 的类型化版本；缓存内容无法解码时删除并直接回源
func GetOrLoadJSON[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		_ = c.Del(ctx, key)
		return load(ctx)
	}
	return out, nil
}

// DenyList 基于 redis 的令牌注销名单，key 随令牌剩余有效期过期
type DenyList struct{ c *Cache }

func NewDenyList(c *Cache) *DenyList { return &DenyList{c: c} }

func (d *DenyList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return d.c.RDB.Set(ctx, d.c.key("revoked:"+jti), 1, ttl).Err()
}

func (d *DenyList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := d.c.RDB.Get(ctx, d.c.key("revoked:"+jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, err
	}
}
