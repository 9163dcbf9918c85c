package xid

import (
	"strings"
	"testing"
	"time"
)

func TestNewAtEmbedsTimestampAndPrefix(t *testing.T) {
	at := time.UnixMilli(1710057600000)
	id := NewAt("tx", at)
	if !strings.HasPrefix(id, "tx-1710057600000-") {
		t.Fatalf("unexpected id %q", id)
	}
	if len(strings.Split(id, "-")[2]) != 12 {
		t.Fatalf("expected 12 char suffix in %q", id)
	}
}

func TestNewIsUniqueAcrossCalls(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	at := time.Now()
	for i := 0; i < 1000; i++ {
		id := NewAt("", at)
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}
