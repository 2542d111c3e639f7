package random

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sync"
)

// Source is a concurrency-safe PCG source producing die faces.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a deterministic source for seed.
func NewSource(seed int64) *Source {
	// Non-cryptographic PRNG is intentional: rolls only need to feel fair.
	// #nosec G404
	return &Source{rng: rand.New(rand.NewPCG(seedWord(seed, "hope"), seedWord(seed, "fear")))}
}

// NewSeededSource returns a source seeded from crypto/rand.
func NewSeededSource() (*Source, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSource(seed), nil
}

// Uniform returns a uniformly distributed int in [1, n].
func (s *Source) Uniform(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("random: uniform bound must be positive, got %d", n))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n) + 1
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}
