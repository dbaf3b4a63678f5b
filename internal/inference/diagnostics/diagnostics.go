// Package diagnostics computes split R-hat and effective sample size once all
// chains of a run have joined.
package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"credence/internal/inference/ports"
	dErrors "credence/pkg/domain-errors"
)

// minDraws is the shortest chain that can be split into two halves of two draws.
const minDraws = 4

type Diagnostician struct{}

func New() *Diagnostician {
	return &Diagnostician{}
}

// Diagnose returns one Diagnostic per parameter. Chains must have equal
// length and dimension.
func (d *Diagnostician) Diagnose(chains [][][]float64) ([]ports.Diagnostic, error) {
	if len(chains) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one chain is required")
	}
	n := len(chains[0])
	if n < minDraws {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "chains need at least %d draws, got %d", minDraws, n)
	}
	dim := len(chains[0][0])
	for i, c := range chains {
		if len(c) != n {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "chain %d has %d draws, expected %d", i, len(c), n)
		}
		for _, draw := range c {
			if len(draw) != dim {
				return nil, dErrors.Newf(dErrors.CodeInvalidInput, "chain %d has a draw of dimension %d, expected %d", i, len(draw), dim)
			}
		}
	}

	out := make([]ports.Diagnostic, dim)
	for j := range out {
		out[j] = diagnose(splitHalves(chains, j))
	}
	return out, nil
}

// splitHalves extracts parameter j and cuts every chain into two sequences,
// which makes R-hat sensitive to drift within a chain.
func splitHalves(chains [][][]float64, j int) [][]float64 {
	half := len(chains[0]) / 2
	seqs := make([][]float64, 0, 2*len(chains))
	for _, c := range chains {
		first := make([]float64, half)
		second := make([]float64, half)
		for i := 0; i < half; i++ {
			first[i] = c[i][j]
			second[i] = c[len(c)-half+i][j]
		}
		seqs = append(seqs, first, second)
	}
	return seqs
}

func diagnose(seqs [][]float64) ports.Diagnostic {
	m := float64(len(seqs))
	n := float64(len(seqs[0]))

	means := make([]float64, len(seqs))
	variances := make([]float64, len(seqs))
	for i, s := range seqs {
		means[i], variances[i] = stat.MeanVariance(s, nil)
	}
	w := stat.Mean(variances, nil)
	b := n * stat.Variance(means, nil)
	varPlus := (n-1)/n*w + b/n

	if w == 0 {
		if b == 0 {
			// Every sequence is constant at the same value.
			return ports.Diagnostic{RHat: 1, EffectiveSampleSize: m * n}
		}
		return ports.Diagnostic{RHat: math.Inf(1), EffectiveSampleSize: 1}
	}

	return ports.Diagnostic{
		RHat:                math.Sqrt(varPlus / w),
		EffectiveSampleSize: effectiveSampleSize(seqs, means, w, varPlus),
	}
}

// effectiveSampleSize sums combined autocorrelations over lag pairs until a
// pair turns negative (Geyer's initial positive sequence).
func effectiveSampleSize(seqs [][]float64, means []float64, w, varPlus float64) float64 {
	m := float64(len(seqs))
	n := len(seqs[0])

	rho := func(lag int) float64 {
		acov := 0.0
		for i, s := range seqs {
			sum := 0.0
			for k := 0; k+lag < n; k++ {
				sum += (s[k] - means[i]) * (s[k+lag] - means[i])
			}
			acov += sum / float64(n)
		}
		acov /= m
		return 1 - (w-acov)/varPlus
	}

	tau := -1.0 // rho(0) == 1 is counted twice by the pair loop below
	for lag := 0; lag+1 < n; lag += 2 {
		pair := rho(lag) + rho(lag+1)
		if pair < 0 {
			break
		}
		tau += 2 * pair
	}
	if tau <= 0 {
		tau = 1.0 / math.Log10(m*float64(n))
	}
	ess := m * float64(n) / tau
	return math.Min(ess, m*float64(n)*math.Log10(m*float64(n)))
}
