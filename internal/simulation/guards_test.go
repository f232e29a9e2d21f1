package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.0, safeDiv(10, 5, 0))
	assert.Equal(t, 0.0, safeDiv(10, 0, 0))
	assert.Equal(t, 1.0, safeDiv(10, -3, 1))
}

func TestFiniteOrZero(t *testing.T) {
	assert.Equal(t, 42.0, finiteOrZero(42.0))
	assert.Equal(t, 0.0, finiteOrZero(math.NaN()))
	assert.Equal(t, 0.0, finiteOrZero(math.Inf(1)))
	assert.Equal(t, 0.0, finiteOrZero(math.Inf(-1)))
}

func TestILFactorAtParity(t *testing.T) {
	assert.Equal(t, 0.0, ilFactor(1))
}

func TestILFactorSymmetry(t *testing.T) {
	for _, k := range []float64{0.1, 0.5, 0.9, 1.5, 2, 4, 10} {
		assert.InDelta(t, ilFactor(k), ilFactor(1/k), 1e-12, "k=%v", k)
	}
}

func TestILFactorNeverPositive(t *testing.T) {
	for _, k := range []float64{0.01, 0.3, 0.99, 1.01, 3, 100} {
		assert.LessOrEqual(t, ilFactor(k), 0.0, "k=%v", k)
	}
	// Undefined ratio movement models no loss.
	assert.Equal(t, 0.0, ilFactor(0))
	assert.Equal(t, 0.0, ilFactor(-2))
}
