// Package store persists crowd-learned alias statistics. The parsing
// engine never touches it directly: callers fetch a read-only snapshot and
// pass it in, and a fetch failure degrades to "no crowd aliases".
package store

import (
	"context"

	"github.com/sells-group/specsheet-cli/internal/model"
)

// Store is the persistence interface for crowd aliases.
type Store interface {
	// ListAliases returns aliases, optionally filtered by category
	// (empty category means all).
	ListAliases(ctx context.Context, category string) ([]model.CrowdAlias, error)
	// RecordAlias upserts a mapping, incrementing its usage count when it
	// already exists.
	RecordAlias(ctx context.Context, sourceKey, targetField, category string) error
	// DeleteAlias removes a mapping.
	DeleteAlias(ctx context.Context, sourceKey, targetField string) error

	Migrate(ctx context.Context) error
	Close() error
}
