package pool

import (
	"time"

	"github.com/google/uuid"
)

// pooledResource is a wrapper around one pooled value.
// It belongs to exactly one pool for its whole lifetime and leaves the
// pool's resource set at the same step it is destroyed.
type pooledResource[T comparable] struct {
	id         uuid.UUID
	value      T
	createdAt  time.Time
	lastUsedAt time.Time
	inUse      bool

	// releasing pins a checked-out record while Release validates it,
	// so a concurrent duplicate Release cannot claim it a second time.
	releasing bool
}

func newPooledResource[T comparable](v T) *pooledResource[T] {
	now := time.Now()
	return &pooledResource[T]{
		id:         uuid.New(),
		value:      v,
		createdAt:  now,
		lastUsedAt: now,
	}
}

func (r *pooledResource[T]) idleFor(now time.Time) time.Duration {
	return now.Sub(r.lastUsedAt)
}
