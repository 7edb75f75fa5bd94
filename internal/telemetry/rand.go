package telemetry

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Rand is the random source the fakes draw from. Implementations must be safe for
// concurrent use.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// NewRand returns a goroutine-safe PCG source. A zero seed draws one from crypto/rand.
func NewRand(seed uint64) (Rand, error) {
	if seed == 0 {
		var b [8]byte
		if _, err := crand.Read(b[:]); err != nil {
			return nil, fmt.Errorf("read random seed: %w", err)
		}
		seed = binary.LittleEndian.Uint64(b[:])
	}
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
}

func uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// intBetween is inclusive on both ends.
func intBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

func choice[T any](r Rand, items []T) T {
	return items[r.IntN(len(items))]
}

// chance reports true with probability p.
func chance(r Rand, p float64) bool {
	return r.Float64() < p
}
