package xid

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns "<prefix>-<unix millis>-<random suffix>". Uniqueness rests on the
// random part; collisions are improbable, not impossible.
func New(prefix string) string {
	return NewAt(prefix, time.Now())
}

func NewAt(prefix string, at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	if prefix == "" {
		return fmt.Sprintf("%d-%s", at.UnixMilli(), suffix)
	}
	return fmt.Sprintf("%s-%d-%s", prefix, at.UnixMilli(), suffix)
}
