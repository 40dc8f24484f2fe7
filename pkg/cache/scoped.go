package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so a
// shared Redis instance can keep per-deployment caches separate.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all keys.
// A nil inner keyer falls back to the default keyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NetworkKey generates a prefixed key for a resolved graph.
func (k *ScopedKeyer) NetworkKey(inputHash string, opts NetworkKeyOpts) string {
	return k.prefix + k.inner.NetworkKey(inputHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
