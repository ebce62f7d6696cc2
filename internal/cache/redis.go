package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache implements Cache on a redis client. Structured values are
// redis hashes.
type RedisCache struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

func (c *RedisCache) GetElements(ctx context.Context, key string) (map[string]string, error) {
	elements, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return elements, nil
}

func (c *RedisCache) GetElement(ctx context.Context, key, element string) (string, bool, error) {
	value, err := c.rdb.HGet(ctx, key, element).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (c *RedisCache) SetElements(ctx context.Context, key string, elements map[string]string, ttl time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, key)
	args := make([]interface{}, 0, len(elements)*2)
	for element, value := range elements {
		args = append(args, element, value)
	}
	pipe.HSet(ctx, key, args...)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisCache) SetElement(ctx context.Context, key, element, value string) error {
	return c.rdb.HSet(ctx, key, element, value).Err()
}

func (c *RedisCache) DeleteElement(ctx context.Context, key, element string) error {
	return c.rdb.HDel(ctx, key, element).Err()
}
