package diagnostics

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credence/pkg/domain-errors"
)

func independentChains(rng *rand.Rand, chains, draws int, offset func(chain int) float64) [][][]float64 {
	out := make([][][]float64, chains)
	for c := range out {
		out[c] = make([][]float64, draws)
		for i := range out[c] {
			out[c][i] = []float64{offset(c) + rng.NormFloat64()}
		}
	}
	return out
}

func TestDiagnose(t *testing.T) {
	d := New()
	rng := rand.New(rand.NewPCG(3, 4))

	t.Run("mixed chains have r-hat near one", func(t *testing.T) {
		chains := independentChains(rng, 4, 1000, func(int) float64 { return 0 })
		got, err := d.Diagnose(chains)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.InDelta(t, 1.0, got[0].RHat, 0.02)
		assert.Greater(t, got[0].EffectiveSampleSize, 2000.0)
	})

	t.Run("separated chains have large r-hat", func(t *testing.T) {
		chains := independentChains(rng, 4, 500, func(c int) float64 { return 5 * float64(c) })
		got, err := d.Diagnose(chains)
		require.NoError(t, err)
		assert.Greater(t, got[0].RHat, 2.0)
	})

	t.Run("constant chains", func(t *testing.T) {
		chains := independentChains(rng, 2, 10, func(int) float64 { return 0 })
		for _, c := range chains {
			for _, draw := range c {
				draw[0] = 1
			}
		}
		got, err := d.Diagnose(chains)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got[0].RHat)
	})
}

func TestDiagnoseValidation(t *testing.T) {
	tests := []struct {
		name   string
		chains [][][]float64
	}{
		{"no chains", nil},
		{"too short", [][][]float64{{{1}, {2}}}},
		{"ragged lengths", [][][]float64{{{1}, {2}, {3}, {4}}, {{1}, {2}, {3}}}},
		{"ragged dimensions", [][][]float64{{{1}, {2}, {3}, {4, 5}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Diagnose(tt.chains)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}
