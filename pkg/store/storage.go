// Package store persists style profiles and comparison records. Two adapters
// exist: a JSON file store for single-node deployments and a PostgreSQL store
// backed by pgvector for similarity search over profile feature vectors.
package store

import (
	"context"
	"errors"

	"github.com/stylemetry/engine/pkg/profile"
)

// ErrNotFound is returned when a profile id has no stored profile.
var ErrNotFound = errors.New("profile not found")

// ProfileStorage defines the interface for persisting and querying style
// profiles and the comparison records derived from them.
type ProfileStorage interface {
	SaveProfile(ctx context.Context, p *profile.StyleProfile) error
	GetProfile(ctx context.Context, profileID string) (*profile.StyleProfile, error)
	ListProfiles(ctx context.Context, limit int) ([]*profile.StyleProfile, error)
	DeleteProfile(ctx context.Context, profileID string) error

	SaveComparison(ctx context.Context, c *profile.Comparison) error

	// NearestProfiles returns up to limit stored profiles ordered by
	// feature-vector similarity to p, excluding p itself. Adapters without
	// vector search may approximate this in memory.
	NearestProfiles(ctx context.Context, p *profile.StyleProfile, limit int) ([]*profile.StyleProfile, error)
}
