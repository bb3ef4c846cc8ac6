package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis は RedisStore が使う Get/Set/Del だけを実装します。
type fakeRedis struct {
	redis.Cmdable
	mu   sync.Mutex
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestStores(t *testing.T) {
	stores := map[string]func() Store{
		"memory": func() Store { return NewMemoryStore() },
		"redis":  func() Store { return NewRedisStore(newFakeRedis(), time.Minute) },
	}
	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore()

			got, err := s.Get(ctx, "progress:missing")
			require.NoError(t, err)
			assert.Nil(t, got, "未登録のキーは nil, nil")

			snap := sampleSnapshot()
			require.NoError(t, s.Set(ctx, "progress:a", snap))

			got, err = s.Get(ctx, "progress:a")
			require.NoError(t, err)
			assert.Equal(t, snap, got)

			// 取り出した値を書き換えてもキャッシュには影響しない
			got.CompletedCount = 99
			got.Units["1"].Chunks[0] = got.Units["1"].Chunks[1]
			again, err := s.Get(ctx, "progress:a")
			require.NoError(t, err)
			assert.Equal(t, sampleSnapshot(), again)

			require.NoError(t, s.Delete(ctx, "progress:a"))
			got, err = s.Get(ctx, "progress:a")
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: プレフィックスとTTLを付けて保存する", func(t *testing.T) {
		fake := newFakeRedis()
		s := NewRedisStore(fake, 10*time.Minute)
		require.NoError(t, s.Set(ctx, "progress:u:c", sampleSnapshot()))

		assert.Contains(t, fake.data, "course_hub:progress:u:c")
		assert.Equal(t, 10*time.Minute, fake.ttls["course_hub:progress:u:c"])
	})

	t.Run("異常系: Redis のエラーはラップして返す", func(t *testing.T) {
		fake := newFakeRedis()
		fake.err = errors.New("connection refused")
		s := NewRedisStore(fake, time.Minute)

		_, err := s.Get(ctx, "k")
		assert.ErrorContains(t, err, "connection refused")
		assert.Error(t, s.Set(ctx, "k", sampleSnapshot()))
	})

	t.Run("異常系: 壊れたJSON", func(t *testing.T) {
		fake := newFakeRedis()
		fake.data["course_hub:k"] = "{not json"
		s := NewRedisStore(fake, time.Minute)

		_, err := s.Get(ctx, "k")
		assert.Error(t, err)
	})
}
