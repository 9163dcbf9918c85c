package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cashier.db")

	s, err := New(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := s.Set(ctx, "customers", []byte(`[{"id":"c1"}]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "customers", []byte(`[{"id":"c2"}]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})

	got, ok, err := reopened.Get(ctx, "customers")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"id":"c2"}]` {
		t.Fatalf("expected last write to win, got %s", got)
	}

	if _, ok, err := reopened.Get(ctx, "shipping_records"); err != nil || ok {
		t.Fatalf("expected missing entry, ok=%v err=%v", ok, err)
	}
}
