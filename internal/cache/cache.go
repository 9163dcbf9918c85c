package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/Mshaban73/Cashier/internal/domain"
)

// ShippingTableCache holds rendered shipping year tables. Entries are views
// derived from the stored records, so a miss or an error only costs a rebuild.
type ShippingTableCache interface {
	Get(ctx context.Context, key string) (*domain.ShippingYear, bool, error)
	Set(ctx context.Context, key string, value *domain.ShippingYear, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func ShippingTableKey(year int) string {
	return "cashier:shipping:table:" + strconv.Itoa(year)
}

type NoopShippingTableCache struct{}

func (NoopShippingTableCache) Get(_ context.Context, _ string) (*domain.ShippingYear, bool, error) {
	return nil, false, nil
}

func (NoopShippingTableCache) Set(_ context.Context, _ string, _ *domain.ShippingYear, _ time.Duration) error {
	return nil
}

func (NoopShippingTableCache) Delete(_ context.Context, _ string) error {
	return nil
}
