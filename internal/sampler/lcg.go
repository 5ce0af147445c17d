// Package sampler generates reproducible synthetic marker candidates around seed centers.
package sampler

const (
	// Modulus is the Park–Miller prime modulus (2^31 - 1)
	Modulus int64 = 2147483647
	// Multiplier is the Park–Miller minimal standard multiplier
	Multiplier int64 = 16807
	// DefaultSeed is the seed used when none is configured
	DefaultSeed int64 = 1
)

// LCG is a multiplicative linear-congruential generator using the Park–Miller constants.
// It is not safe for concurrent use; create one per generation run.
type LCG struct {
	state int64
}

// NewLCG creates a generator. Seeds outside [1, Modulus-1] are folded into that range.
func NewLCG(seed int64) *LCG {
	seed %= Modulus
	if seed < 0 {
		seed += Modulus
	}
	if seed == 0 {
		seed = DefaultSeed
	}
	return &LCG{state: seed}
}

// Next advances the generator and returns a value in [0, 1)
func (g *LCG) Next() float64 {
	// state < 2^31 and Multiplier < 2^15, so the product fits in int64
	g.state = (g.state * Multiplier) % Modulus
	return float64(g.state) / float64(Modulus)
}

// State returns the current internal state
func (g *LCG) State() int64 {
	return g.state
}
