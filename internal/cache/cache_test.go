package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
)

func sampleTable() *domain.ShippingYear {
	return &domain.ShippingYear{
		Year: 2024,
		Days: []domain.ShippingDay{{
			Date:       "2024-01-01",
			Record:     domain.ZeroShippingRecord(),
			Totals:     domain.DailyTotals{GrandTotal: decimal.NewFromInt(75)},
			Difference: decimal.NewFromInt(75),
		}},
	}
}

func TestShippingTableKey(t *testing.T) {
	if got := ShippingTableKey(2024); got != "cashier:shipping:table:2024" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	var c ShippingTableCache = NoopShippingTableCache{}
	if err := c.Set(context.Background(), "k", sampleTable(), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryCacheSetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShippingTableCache(time.Minute)
	key := ShippingTableKey(2024)

	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatalf("expected miss on empty cache")
	}
	if err := c.Set(ctx, key, sampleTable(), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if got.Year != 2024 || !got.Days[0].Totals.GrandTotal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected table %+v", got)
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestMemoryCacheDoesNotShareTables(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShippingTableCache(time.Minute)
	key := ShippingTableKey(2024)

	original := sampleTable()
	if err := c.Set(ctx, key, original, 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	original.Days[0].Record.Payments[domain.ChannelCash] = decimal.NewFromInt(1)

	got, _, _ := c.Get(ctx, key)
	got.Days[0].Record.Payments[domain.ChannelFawry] = decimal.NewFromInt(2)
	got.Days[0].Difference = decimal.NewFromInt(-1)

	again, ok, _ := c.Get(ctx, key)
	if !ok {
		t.Fatalf("expected hit")
	}
	rec := again.Days[0].Record
	if !rec.Payments[domain.ChannelCash].IsZero() || !rec.Payments[domain.ChannelFawry].IsZero() {
		t.Fatalf("cached record changed through a caller: %+v", rec.Payments)
	}
	if !again.Days[0].Difference.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("cached difference changed through a caller: %s", again.Days[0].Difference)
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryShippingTableCache(0)
	if err := c.Set(ctx, "short", sampleTable(), 20*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("CASHIER_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CASHIER_TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()
	c := NewRedisShippingTableCache(addr, os.Getenv("CASHIER_TEST_REDIS_PASSWORD"), 0)
	defer c.Close()
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := "cashier:test:" + time.Now().Format("150405.000000")
	defer c.Delete(ctx, key)

	if err := c.Set(ctx, key, sampleTable(), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got.Days) != 1 || !got.Days[0].Difference.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected table %+v", got)
	}
}
