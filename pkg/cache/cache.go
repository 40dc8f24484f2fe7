// Package cache provides pluggable result caching for the analysis
// pipeline: a byte-oriented Cache interface with file, Redis, and null
// backends, plus content-addressed key generation.
//
// Analysis of a feature collection is deterministic, so the resolved
// graph and every rendered artifact can be cached by content hash of
// their inputs. The CLI uses the file backend; the API server can use
// Redis to share results across instances.
package cache

import (
	"context"
	"time"
)

// TTLs per cached object kind.
const (
	// TTLNetwork is how long resolved graphs stay cached.
	TTLNetwork = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts stay cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key-value store with TTL expiry.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NetworkKeyOpts are the inputs that change which resolved graph a key
// identifies.
type NetworkKeyOpts struct {
	// EventHash is the content hash of the validation event, or empty
	// when no event was applied.
	EventHash string
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string
	TopK   int
}

// Keyer generates cache keys. Implementations must be deterministic:
// equal inputs produce equal keys.
type Keyer interface {
	// NetworkKey generates a key for a resolved graph, from the content
	// hash of the input feature collection.
	NetworkKey(inputHash string, opts NetworkKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact, from the
	// content hash of the resolved graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes inputs and options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// NetworkKey generates a key for a resolved graph.
func (k *DefaultKeyer) NetworkKey(inputHash string, opts NetworkKeyOpts) string {
	return hashKey("network", inputHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
