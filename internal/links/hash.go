package links

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashURL computes the identity hash of a submitted URL: the hex-encoded
// SHA-256 digest of the raw string.
//
// The URL is hashed exactly as submitted. There is no case folding, no
// trailing-slash trimming and no query parameter reordering, so two
// textually different URLs count as distinct links even when they resolve
// to the same destination. This is a deliberate policy: the dedup and quota
// contracts are defined over URL text, not over destinations.
func HashURL(rawURL string) URLHash {
	sum := sha256.Sum256([]byte(rawURL))

	return URLHash(hex.EncodeToString(sum[:]))
}
