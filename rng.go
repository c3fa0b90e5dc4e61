package main

import (
	"crypto/rand"
	"encoding/binary"
	"math"
)

// Rand is a small seeded xorshift generator. Gameplay randomness goes
// through an injected instance so matches replay deterministically
// under test; jitter-suppression cadence uses the tick counter, not
// this generator and not the wall clock.
type Rand struct {
	s uint64
}

// NewRand creates a generator from an explicit seed
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{s: seed}
}

// NewRandomSeed draws a seed from crypto/rand for real matches
func NewRandomSeed() uint64 {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	seed := binary.LittleEndian.Uint64(b)
	if seed == 0 {
		seed = 1
	}
	return seed
}

func (r *Rand) next() uint64 {
	r.s ^= r.s << 13
	r.s ^= r.s >> 7
	r.s ^= r.s << 17
	if r.s == 0 {
		r.s = 1
	}
	return r.s
}

// Float64 returns a value in [0, 1)
func (r *Rand) Float64() float64 {
	return float64(r.next()>>11) / (1 << 53)
}

// Range returns a value in [min, max)
func (r *Rand) Range(min, max float64) float64 {
	return min + r.Float64()*(max-min)
}

// Intn returns a value in [0, n)
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.next() % uint64(n))
}

// Chance returns true with probability p
func (r *Rand) Chance(p float64) bool {
	return r.Float64() < p
}

// Angle returns a rotation in [0, 2π)
func (r *Rand) Angle() float64 {
	return r.Float64() * 2 * math.Pi
}

// Jitter returns a symmetric perturbation in [-spread/2, spread/2)
func (r *Rand) Jitter(spread float64) float64 {
	return (r.Float64() - 0.5) * spread
}
