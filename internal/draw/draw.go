// Package draw produces the random numbers the game runs on: card
// cells, called numbers, and the randomized protocol delays.
package draw

import (
	"math/rand/v2"
	"time"
)

// Generator draws pseudo-random integers. It is not safe for
// concurrent use; each peer owns exactly one and drives it from its
// event loop.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded from the runtime's random source.
// Game draws must stay unpredictable, so production code always uses
// this constructor.
func New() *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewSeeded returns a deterministic generator. Test-only override; do
// not reach for this outside _test files.
func NewSeeded(seed uint64) *Generator {
	return &Generator{
		rng: rand.New(rand.NewPCG(seed, seed)),
	}
}

// InRange draws one integer from [min, max], bounds inclusive.
func (g *Generator) InRange(min, max int) int {
	return min + g.rng.IntN(max-min+1)
}

// Unique draws count distinct integers from [min, max]. The caller
// must guarantee count <= max-min+1; the rejection loop does not
// terminate otherwise.
func (g *Generator) Unique(min, max, count int) []int {
	seen := make(map[int]bool, count)
	out := make([]int, 0, count)
	for len(out) < count {
		n := g.InRange(min, max)
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// Excluding draws one integer from [min, max] that is not already in
// excluded. Same caller contract as Unique: the range must not be
// exhausted.
func (g *Generator) Excluding(min, max int, excluded []int) int {
	for {
		n := g.InRange(min, max)
		novel := true
		for _, e := range excluded {
			if e == n {
				novel = false
				break
			}
		}
		if novel {
			return n
		}
	}
}

// Between draws a duration from [min, max). Used for the election
// timeout and the claim-verdict pacing delays.
func (g *Generator) Between(min, max time.Duration) time.Duration {
	return min + time.Duration(g.rng.Int64N(int64(max-min)))
}
