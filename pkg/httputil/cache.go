package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when a cached entry exists but has
// exceeded its time-to-live. The data still exists on disk but is stale;
// callers should fetch fresh data and update the cache with [Cache.Set].
var ErrExpired = errors.New("cache entry expired")

// Cache provides file-based caching of raw response bodies.
//
// Each entry is stored as a file in the cache directory, with the filename
// derived from a SHA-256 hash of the cache key (the request URL). Hashing
// keeps filenames filesystem-safe regardless of what the URL contains.
//
// Entries expire based on file modification time. A TTL of 0 means entries
// never expire. Multiple Cache instances, even in different processes, can
// safely share the same directory.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache that stores entries in dir with the given TTL.
// The directory is created if it doesn't exist.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string { return c.dir }

// Get retrieves a cached response body by key.
//
// Return values indicate three outcomes:
//   - (data, true, nil): fresh hit
//   - (nil, false, nil): miss
//   - (nil, false, ErrExpired): entry exists but exceeded its TTL
func (c *Cache) Get(key string) ([]byte, bool, error) {
	path := c.keyPath(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false, ErrExpired
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a response body under key, resetting its TTL.
func (c *Cache) Set(key string, data []byte) error {
	return os.WriteFile(c.keyPath(key), data, 0o644)
}

func (c *Cache) keyPath(key string) string {
	h := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
