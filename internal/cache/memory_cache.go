package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Mshaban73/Cashier/internal/domain"
)

const memoryCleanupInterval = 10 * time.Minute

// MemoryShippingTableCache keeps tables in process. Get and Set copy the
// table so callers never share its maps with the cache.
type MemoryShippingTableCache struct {
	items *gocache.Cache
}

func NewMemoryShippingTableCache(defaultTTL time.Duration) *MemoryShippingTableCache {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &MemoryShippingTableCache{items: gocache.New(defaultTTL, memoryCleanupInterval)}
}

func (c *MemoryShippingTableCache) Get(_ context.Context, key string) (*domain.ShippingYear, bool, error) {
	raw, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	table, ok := raw.(domain.ShippingYear)
	if !ok {
		c.items.Delete(key)
		return nil, false, nil
	}
	clone := table.Clone()
	return &clone, true, nil
}

// Set stores a deep copy of value. A zero ttl uses the cache default.
func (c *MemoryShippingTableCache) Set(_ context.Context, key string, value *domain.ShippingYear, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, value.Clone(), ttl)
	return nil
}

func (c *MemoryShippingTableCache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}
