// Package rng provides the pseudo-random sources behind every dice roll.
//
// A seeded source is a pure function of its seed text: the same seed yields
// the same sequence in any process. An empty seed selects the platform
// generator, which is not reproducible.
package rng

import (
	"math/bits"
	"math/rand/v2"
)

// Source produces floats in [0, 1).
type Source interface {
	Next() float64
}

// New returns a Source for the given seed.
func New(seed string) Source {
	if seed == "" {
		return platform{}
	}
	return NewMulberry32(HashSeed(seed))
}

type platform struct{}

func (platform) Next() float64 { return rand.Float64() }

// HashSeed folds the seed text into a 32-bit state. Every rune is mixed in
// with a multiply and a rotate, so the result depends on character order.
func HashSeed(seed string) uint32 {
	h := uint32(1779033703) ^ uint32(len(seed))
	for _, r := range seed {
		h = (h ^ uint32(r)) * 3432918353
		h = bits.RotateLeft32(h, 13)
	}
	h = (h ^ (h >> 16)) * 2246822507
	h = (h ^ (h >> 13)) * 3266489909
	return h ^ (h >> 16)
}

// Mulberry32 is a single-word generator: each call adds a constant to the
// state and scrambles it with xor-shifts and multiplies.
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 creates a generator starting at state.
func NewMulberry32(state uint32) *Mulberry32 {
	return &Mulberry32{state: state}
}

// Next advances the state and returns a float in [0, 1).
func (m *Mulberry32) Next() float64 {
	m.state += 0x6D2B79F5
	t := m.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}
