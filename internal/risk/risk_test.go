package risk

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shuffledHundred() []float64 {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	rand.New(rand.NewSource(7)).Shuffle(len(xs), func(i, j int) {
		xs[i], xs[j] = xs[j], xs[i]
	})
	return xs
}

func TestVaRQuantiles(t *testing.T) {
	xs := shuffledHundred()

	tests := []struct {
		name string
		q    float64
		want float64
	}{
		{"median", 0.50, 50.5},
		{"lower quartile", 0.25, 25.75},
		{"tail", 0.05, 5.95},
		{"minimum", 0.0, 1.0},
		{"maximum", 1.0, 100.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VaR(xs, tt.q)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCVaRIsTailMean(t *testing.T) {
	xs := shuffledHundred()

	// VaR(0.05) is 5.95, so the tail is {1..5} with mean 3.
	got, err := CVaR(xs, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)
}

func TestSingleObservation(t *testing.T) {
	v, err := VaR([]float64{-0.2}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, -0.2, v)

	c, err := CVaR([]float64{-0.2}, 0.05)
	require.NoError(t, err)
	assert.Equal(t, -0.2, c)
}

func TestEmptyReturns(t *testing.T) {
	_, err := VaR(nil, 0.05)
	assert.ErrorIs(t, err, ErrNoReturns)

	_, err = CVaR(nil, 0.05)
	assert.ErrorIs(t, err, ErrNoReturns)
}
