// Package random provides seed generation and the pseudo-random source used
// by the roller.
//
// Seeds come from crypto/rand so every session starts from a fresh state; the
// rolls themselves use a fast non-cryptographic PCG generator, which is all a
// casual table game needs.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
