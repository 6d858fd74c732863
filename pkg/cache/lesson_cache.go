package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course-booking/internal/data/entity"

	"github.com/redis/go-redis/v9"
)

const LessonsKey = "course-booking:lessons"

// LessonCache keeps a copy of the full lesson list. A miss is (nil, false, nil).
type LessonCache interface {
	GetLessons(ctx context.Context) ([]*entity.Lesson, bool, error)
	SetLessons(ctx context.Context, lessons []*entity.Lesson) error
	Invalidate(ctx context.Context) error
}

type redisLessonCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisLessonCache(client redis.Cmdable, ttl time.Duration) LessonCache {
	return &redisLessonCache{client: client, ttl: ttl}
}

func (c *redisLessonCache) GetLessons(ctx context.Context) ([]*entity.Lesson, bool, error) {
	value, err := c.client.Get(ctx, LessonsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached lessons: %w", err)
	}

	var lessons []*entity.Lesson
	if err := json.Unmarshal(value, &lessons); err != nil {
		return nil, false, fmt.Errorf("decode cached lessons: %w", err)
	}
	return lessons, true, nil
}

func (c *redisLessonCache) SetLessons(ctx context.Context, lessons []*entity.Lesson) error {
	payload, err := json.Marshal(lessons)
	if err != nil {
		return fmt.Errorf("encode lessons: %w", err)
	}
	if err := c.client.Set(ctx, LessonsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached lessons: %w", err)
	}
	return nil
}

func (c *redisLessonCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, LessonsKey).Err(); err != nil {
		return fmt.Errorf("invalidate cached lessons: %w", err)
	}
	return nil
}

// NewClient connects to Redis and pings it once.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// nopLessonCache always misses; used when REDIS_ADDR is not configured.
type nopLessonCache struct{}

func NewNopLessonCache() LessonCache { return nopLessonCache{} }

func (nopLessonCache) GetLessons(context.Context) ([]*entity.Lesson, bool, error) {
	return nil, false, nil
}
func (nopLessonCache) SetLessons(context.Context, []*entity.Lesson) error { return nil }
func (nopLessonCache) Invalidate(context.Context) error                   { return nil }
