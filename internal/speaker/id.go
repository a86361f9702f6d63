package speaker

import (
	"crypto/sha1"
	"encoding/hex"
)

// ID derives the stable identity for a source-local document: the lowercase
// hex SHA-1 of "<prefix>|<localID>". The same pair always hashes to the same
// identity, which is what makes every persisted write an idempotent upsert.
func ID(prefix, localID string) string {
	sum := sha1.Sum([]byte(prefix + "|" + localID))
	return hex.EncodeToString(sum[:])
}
