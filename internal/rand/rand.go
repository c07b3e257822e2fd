// Package rand provides the two random sources used by the simulation:
// a time-seeded source for gameplay rolls and a day-seeded source for
// listings that must be identical for everyone on the same calendar day.
package rand

import (
	"time"

	"github.com/MichaelTJones/pcg"
)

const pcgSequence = 0xda3e39cb94b95bdb

// Source is the subset of random operations the engine needs.
type Source interface {
	Float64() float64
	Intn(n int) int
	Uniform(lo, hi float64) float64
}

type Rand struct {
	r *pcg.PCG32
}

func New(seed int64) *Rand {
	r := &Rand{r: pcg.NewPCG32()}
	r.Seed(seed)
	return r
}

// EngineRandom returns a source seeded from the wall clock. Its output
// is not reproducible across runs.
func EngineRandom() *Rand {
	return New(time.Now().UnixNano())
}

// MarketRandom returns a source seeded by the integer day index so that
// the same day always produces the same sequence.
func MarketRandom(day int) *Rand {
	return New(int64(day))
}

func (r *Rand) Seed(s int64) {
	r.r.Seed(uint64(s), pcgSequence)
}

// Intn returns a value in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.r.Bounded(uint32(n)))
}

// Float64 returns a value in [0, 1).
func (r *Rand) Float64() float64 {
	return float64(r.r.Random()) / (1 << 32)
}

// Uniform returns a value in [lo, hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

func (r *Rand) Uint32() uint32 {
	return r.r.Random()
}

// IntRange returns a value in [lo, hi], both inclusive.
func IntRange(s Source, lo, hi int) int {
	return lo + s.Intn(hi-lo+1)
}

// SampleSlice uniformly samples an element of a non-empty slice.
func SampleSlice[T any](s Source, slice []T) T {
	return slice[s.Intn(len(slice))]
}

// SampleWeighted returns the index chosen with probability proportional
// to weights, or -1 if all weights are zero.
func SampleWeighted(s Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return -1
	}
	x := s.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}
