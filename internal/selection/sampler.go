package selection

import (
	"math/rand/v2"

	"github.com/SARVESHVARADKAR123/bottle/internal/domain"
)

// Rand is the random source used by samplers. *rand.Rand from math/rand/v2
// satisfies it; tests pass scripted sources.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand is safe for concurrent use.
var DefaultRand Rand = globalRand{}

// Sampler picks one candidate from a non-empty, ordered slice.
type Sampler func(candidates []*domain.Message, rng Rand) *domain.Message

// PickFirst returns the oldest candidate.
func PickFirst(candidates []*domain.Message, _ Rand) *domain.Message {
	return candidates[0]
}

func PickUniform(candidates []*domain.Message, rng Rand) *domain.Message {
	return candidates[rng.IntN(len(candidates))]
}

// LeastReadWeights gives every candidate (maxReadCount + 1) - readCount, so the
// least read message weighs the most and the most read one still weighs 1.
func LeastReadWeights(candidates []*domain.Message) []int {
	maxReads := 0
	for _, m := range candidates {
		maxReads = max(maxReads, m.ReadCount())
	}

	weights := make([]int, len(candidates))
	for i, m := range candidates {
		weights[i] = maxReads + 1 - m.ReadCount()
	}
	return weights
}

// PickLeastRead draws r in [0, total) and walks the candidates subtracting
// weights until r drops to <= 0.
func PickLeastRead(candidates []*domain.Message, rng Rand) *domain.Message {
	weights := LeastReadWeights(candidates)

	total := 0
	for _, w := range weights {
		total += w
	}

	r := rng.Float64() * float64(total)
	for i, w := range weights {
		r -= float64(w)
		if r <= 0 {
			return candidates[i]
		}
	}

	return candidates[0]
}
