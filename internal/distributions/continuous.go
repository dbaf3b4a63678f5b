// Package distributions implements continuous distributions as parameterizations
// of an unconstrained variable.
//
// Every distribution's Param draws a fresh unconstrained parameter, maps it into
// the distribution's support, and carries the log-density of the result in the
// unconstrained coordinates, Jacobian correction included. Samplers therefore
// see a correct density surface over the coordinates they actually move in.
// LogDensity, by contrast, scores an already realized value and is used for
// observed data.
package distributions

import (
	"math"
	"math/rand/v2"

	"credence/internal/real"
	"credence/internal/rv"
	dErrors "credence/pkg/domain-errors"
	"credence/pkg/platform/sentinel"
)

// Continuous is the parameterization contract of a continuous distribution.
type Continuous interface {
	rv.Likelihood[float64]

	// Param returns a new program over a fresh unconstrained parameter mapped
	// into the support. Each call is independent of every other.
	Param() *rv.RandomVariable[real.Real]
	// LogDensity scores a realized value.
	LogDensity(x real.Real) real.Real
	// LogDensities scores i.i.d. observations; equal to the sum of LogDensity.
	LogDensities(xs []float64) real.Real
	// Generator draws realized values.
	Generator() rv.Generator[float64]
}

// SumLogDensities is the element-wise LogDensities every distribution without
// a vectorized form uses.
func SumLogDensities(d Continuous, xs []float64) real.Real {
	terms := make([]real.Real, len(xs))
	for i, x := range xs {
		terms[i] = d.LogDensity(real.Const(x))
	}
	return real.Sum(terms...)
}

func fit(d Continuous, observations []float64) *rv.RandomVariable[rv.Unit] {
	return rv.WithDensity(rv.Unit{}, d.LogDensities(observations))
}

// FitBatched contributes the log-likelihood of observations split into
// numBatches equal mini-batches. Each slot of a batch reads its value from a
// placeholder column, so the resulting program can only be optimized.
func FitBatched(d Continuous, observations []float64, numBatches int) (*rv.RandomVariable[rv.Unit], error) {
	if numBatches < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "numBatches must be at least 1")
	}
	if len(observations) == 0 || len(observations)%numBatches != 0 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput,
			"%d observations cannot be split into %d equal batches", len(observations), numBatches)
	}
	size := len(observations) / numBatches
	columns := make([]rv.Column, size)
	terms := make([]real.Real, size)
	for i := range columns {
		ph := real.NewPlaceholder()
		values := make([]float64, numBatches)
		for b := range values {
			values[b] = observations[b*size+i]
		}
		columns[i] = rv.Column{Placeholder: ph, Values: values}
		terms[i] = d.LogDensity(ph)
	}
	batches, err := rv.NewBatches(numBatches, columns...)
	if err != nil {
		return nil, err
	}
	return rv.WithBatches(rv.Unit{}, real.Sum(terms...), batches), nil
}

// generator draws through a closure over the evaluated distribution parameters.
type generator struct {
	reals []real.Real
	draw  func(rng *rand.Rand, eval real.Evaluator) float64
}

func (g generator) Reals() []real.Real { return g.reals }

func (g generator) Get(rng *rand.Rand, eval real.Evaluator) (float64, error) {
	return g.draw(rng, eval), nil
}

type unsupportedGenerator struct {
	name string
}

func (unsupportedGenerator) Reals() []real.Real { return nil }

func (g unsupportedGenerator) Get(*rand.Rand, real.Evaluator) (float64, error) {
	return 0, dErrors.Wrap(sentinel.ErrUnsupported, dErrors.CodeUnsupported, g.name+" has no generator")
}

// uniformOpen draws from (0, 1) so quantile functions stay finite.
func uniformOpen(rng *rand.Rand) float64 {
	for {
		if u := rng.Float64(); u > 0 {
			return u
		}
	}
}

var halfLog2Pi = 0.5 * math.Log(2*math.Pi)
