// Package session keeps checkouts alive between requests. A record holds a
// flow snapshot and expires after the session TTL; nothing is durable.
package session

import (
	"context"
	"storefront/internal/checkout/flow"

	"github.com/google/uuid"
)

// Store persists checkout snapshots and the per-checkout submit lock that
// keeps a single booking request in flight.
type Store interface {
	// Get returns ErrSessionNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*flow.Snapshot, error)
	// Save writes the snapshot and restarts its TTL.
	Save(ctx context.Context, id string, snap flow.Snapshot) error

	// Lock reports false when the lock is already held. The returned token
	// identifies this holder.
	Lock(ctx context.Context, id string) (token string, ok bool, err error)
	// Unlock releases the lock only while token still owns it. A lock that
	// expired and was taken by another request is left alone.
	Unlock(ctx context.Context, id, token string) error
	Locked(ctx context.Context, id string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

func NewID() string {
	return uuid.NewString()
}

func newLockToken() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like one NewID produced.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
