package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Mshaban73/Cashier/internal/domain"
)

type RedisShippingTableCache struct {
	client *redis.Client
}

func NewRedisShippingTableCache(addr string, password string, db int) *RedisShippingTableCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisShippingTableCache{client: client}
}

func (c *RedisShippingTableCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisShippingTableCache) Close() error {
	return c.client.Close()
}

func (c *RedisShippingTableCache) Get(ctx context.Context, key string) (*domain.ShippingYear, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var table domain.ShippingYear
	if err := json.Unmarshal(val, &table); err != nil {
		return nil, false, err
	}
	return &table, true, nil
}

func (c *RedisShippingTableCache) Set(ctx context.Context, key string, value *domain.ShippingYear, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

func (c *RedisShippingTableCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
