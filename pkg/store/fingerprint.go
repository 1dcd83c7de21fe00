package store

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the hex blake3 digest of data.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
