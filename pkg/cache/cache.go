// Package cache stores solved comparisons so repeated requests skip the
// solver.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] and
// [MongoCache] for the shared HTTP service, and [NullCache] when caching is
// disabled. Keys come from a [Keyer] so that every backend shares one key
// scheme.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLResult is how long a solved comparison stays cached. Results are a pure
// function of their key, so the TTL only bounds storage growth.
const TTLResult = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ResultKeyOpts are the options that change a comparison's result.
type ResultKeyOpts struct {
	Mode      string `json:"mode"`
	Strategy  string `json:"strategy"`
	TokenKind string `json:"token_kind"`
	Affinity  string `json:"affinity"`
	Anonymous bool   `json:"anonymous,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ResultKey keys a comparison of two trees, given their content hashes.
	ResultKey(tree1Hash, tree2Hash string, opts ResultKeyOpts) string
	// PathsKey keys a path-collection comparison.
	PathsKey(paths1, paths2 []string, sep string, opts ResultKeyOpts) string
}

// DefaultKeyer is the unscoped key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default key scheme.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ResultKey returns "result:" followed by the hash of all inputs.
func (DefaultKeyer) ResultKey(tree1Hash, tree2Hash string, opts ResultKeyOpts) string {
	return hashKey("result", tree1Hash, tree2Hash, opts)
}

// PathsKey returns "paths:" followed by the hash of all inputs.
func (DefaultKeyer) PathsKey(paths1, paths2 []string, sep string, opts ResultKeyOpts) string {
	return hashKey("paths", paths1, paths2, sep, opts)
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey joins prefix and the digest of the JSON-encoded parts. Struct
// fields encode in declaration order, so equal inputs give equal keys.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts) // strings and plain structs only
	return prefix + ":" + Hash(data)
}
