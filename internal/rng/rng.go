package rng

import (
	"math/rand/v2"
)

// Source yields pseudo-random floats in [0, 1).
type Source interface {
	Float64() float64
}

// Func adapts a plain function to Source.
type Func func() float64

// Float64 calls f.
func (f Func) Float64() float64 { return f() }

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }

// System returns the process-level, unseeded source.
func System() Source {
	return systemSource{}
}

// LCG is a deterministic linear congruential generator for reproducible runs.
type LCG struct {
	state uint32
}

// NewLCG creates an LCG seeded with seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Float64 advances the generator and returns the next value in [0, 1).
func (l *LCG) Float64() float64 {
	l.state = l.state*1664525 + 1013904223
	return float64(l.state) / 4294967296.0
}

// Intn maps the next value of src to an integer in [0, n). It returns 0 for n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	// Guard against sources that return exactly 1.
	if i >= n {
		i = n - 1
	}
	return i
}

// Between returns an integer in [min, max] inclusive.
func Between(src Source, min, max int) int {
	return min + Intn(src, max-min+1)
}
