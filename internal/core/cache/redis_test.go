package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestGetOrLoadJSON_CachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	var calls int32
	load := func(context.Context) (*item, error) {
		atomic.AddInt32(&calls, 1)
		return &item{ID: "1", Name: "Ana"}, nil
	}

	got, err := GetOrLoadJSON(ctx, c, "cliente:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	got, err = GetOrLoadJSON(ctx, c, "cliente:1", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists("clientra:cliente:1"))
}

func TestGetOrLoadJSON_LoadErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("not found")

	_, err := GetOrLoadJSON(context.Background(), c, "cliente:x", time.Minute, func(context.Context) (*item, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("clientra:cliente:x"))
}

func TestGetOrLoad_DelDuringLoadSkipsWriteBack(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// 回源期间发生更新并失效：旧值不应写回
	got, err := GetOrLoadJSON(ctx, c, "cliente:1", time.Minute, func(ctx context.Context) (*item, error) {
		require.NoError(t, c.Del(ctx, "cliente:1"))
		return &item{ID: "1", Name: "old"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old", got.Name)
	assert.False(t, mr.Exists("clientra:cliente:1"))

	// 之后的读取重新回源并正常缓存
	got, err = GetOrLoadJSON(ctx, c, "cliente:1", time.Minute, func(context.Context) (*item, error) {
		return &item{ID: "1", Name: "new"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.True(t, mr.Exists("clientra:cliente:1"))
}

func TestGetOrLoadJSON_CorruptEntryReloads(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("clientra:cliente:1", "{not json"))

	got, err := GetOrLoadJSON(context.Background(), c, "cliente:1", time.Minute, func(context.Context) (*item, error) {
		return &item{ID: "1", Name: "Ana"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.False(t, mr.Exists("clientra:cliente:1"))
}

func TestGetOrLoad_RedisDownFallsBackToLoad(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
}

func TestDel(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("clientra:a", "1"))

	require.NoError(t, c.Del(context.Background(), "a"))
	assert.False(t, mr.Exists("clientra:a"))
	assert.NoError(t, c.Del(context.Background()))
}

func TestDenyList(t *testing.T) {
	c, mr := newTestCache(t)
	d := NewDenyList(c)
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, "jti-1", time.Hour))
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = d.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestDenyList_RedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	_, err := NewDenyList(c).IsRevoked(context.Background(), "jti-1")
	assert.Error(t, err)
}
