package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists one serialized session blob per shopper. Backends
// additionally enforce ttl server-side where they can; the session
// service still checks expires_at on every read.
type Store interface {
	// Get returns the stored blob, or nil when no session exists.
	Get(ctx context.Context, shopperID uuid.UUID) ([]byte, error)
	Set(ctx context.Context, shopperID uuid.UUID, blob []byte, ttl time.Duration) error
	Delete(ctx context.Context, shopperID uuid.UUID) error
}
