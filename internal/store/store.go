package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Named entries. Each is read and written whole.
const (
	KeyTreasury  = "treasury_transactions"
	KeyShipping  = "shipping_records"
	KeyCustomers = "customers"
)

var ErrPersistence = errors.New("persistence failure")

// KV is a durable key-value store of whole named entries.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Load decodes the entry at key into a T. A missing entry yields fallback with
// no error; an unreadable or undecodable entry yields fallback and an
// ErrPersistence-wrapped error.
func Load[T any](ctx context.Context, kv KV, key string, fallback T) (T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fallback, fmt.Errorf("%w: get %s: %v", ErrPersistence, key, err)
	}
	if !ok || len(raw) == 0 {
		return fallback, nil
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return fallback, fmt.Errorf("%w: decode %s: %v", ErrPersistence, key, err)
	}
	return out, nil
}

func Save[T any](ctx context.Context, kv KV, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrPersistence, key, err)
	}
	if err := kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrPersistence, key, err)
	}
	return nil
}
