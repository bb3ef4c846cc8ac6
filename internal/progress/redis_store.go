package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course_hub/internal/model"

	"github.com/redis/go-redis/v9"
)

// RedisStore はスナップショットをJSONで Redis に保存します。
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, prefix: "course_hub:"}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*model.CourseProgress, error) {
	raw, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("RedisStore.Get: %w", err)
	}
	var snap model.CourseProgress
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("RedisStore.Get: decode %q: %w", key, err)
	}
	return &snap, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, snap *model.CourseProgress) error {
	if snap == nil {
		return s.Delete(ctx, key)
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("RedisStore.Set: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("RedisStore.Set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("RedisStore.Delete: %w", err)
	}
	return nil
}
