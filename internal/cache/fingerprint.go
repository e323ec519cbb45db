// Package cache implements the two-tier parsed-candidate cache: a volatile
// Redis hot tier with a bounded TTL in front of a durable Postgres tier.
// Entries are keyed by candidate ID and validated by a content fingerprint;
// any fingerprint mismatch is a miss, never stale data.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns a stable digest of the text, used purely for cache
// invalidation. Whitespace runs are collapsed first so cosmetic reformatting
// of a source record does not invalidate its derived payload.
func Fingerprint(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
