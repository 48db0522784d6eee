// Package random provides seed generation and stream derivation for the
// simulation's pseudo-random sources.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// NewSeed generates a random non-zero seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	for {
		if _, err := crand.Read(b[:]); err != nil {
			return 0, fmt.Errorf("read random seed: %w", err)
		}
		if seed := binary.LittleEndian.Uint64(b[:]); seed != 0 {
			return seed, nil
		}
	}
}

// Stream returns the source for stream index i of a seed. Streams of the same
// seed are independent of one another and reproducible.
func Stream(seed, i uint64) *rand.PCG {
	return rand.NewPCG(splitmix64(seed^splitmix64(i)), splitmix64(i+seed))
}

// splitmix64 is the output function of the SplitMix64 generator. It spreads
// nearby inputs across the whole 64-bit range.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
