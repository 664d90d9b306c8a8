package store

import (
	"context"

	"github.com/micahreeves/what-time/internal/domain"
)

// Store defines durable storage for user timezones and per-chat display
// lists. Implementations must keep single-record upserts atomic: a
// failed write leaves the observable state untouched.
type Store interface {
	// Get returns the record for identity, or ok=false when none exists.
	Get(ctx context.Context, identity domain.Identity) (*domain.Record, bool, error)
	// Set upserts the record for identity, stamping UpdatedAt.
	// The tz must already be catalog-validated by the caller.
	Set(ctx context.Context, identity domain.Identity, tz string) (*domain.Record, error)
	// Clear removes the record if present and reports whether one existed.
	Clear(ctx context.Context, identity domain.Identity) (bool, error)
	// All returns every record ordered by identity.
	All(ctx context.Context) ([]domain.Record, error)

	// ChatZones returns a chat's display list ordered by name.
	ChatZones(ctx context.Context, chatID string) ([]domain.NamedZone, error)
	// PutChatZone adds or replaces a named display zone, enforcing
	// domain.MaxChatZones for new names.
	PutChatZone(ctx context.Context, chatID, name, tz string) error
	// RemoveChatZone removes a named zone and reports whether it existed.
	RemoveChatZone(ctx context.Context, chatID, name string) (bool, error)
	// ClearChatZones drops a chat's entire display list.
	ClearChatZones(ctx context.Context, chatID string) error

	Close() error
}
