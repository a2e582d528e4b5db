package sim

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// SeedFromString derives a stable RNG seed from an arbitrary seed string, so
// backend options can carry human-readable seeds ("run-42") while the engine
// still gets well-mixed 64-bit state.
func SeedFromString(s string) int64 {
	sum := sha3.Sum256([]byte(s))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}
