package distributions

import (
	"credence/internal/real"
	"credence/internal/rv"
)

// Unbounded is the flat prior on the real line.
type Unbounded struct{}

// Param is the identity on a fresh parameter with a constant density term.
func (Unbounded) Param() *rv.RandomVariable[real.Real] {
	return rv.WithDensity[real.Real](real.NewParameter(), real.One)
}

func (Unbounded) LogDensity(real.Real) real.Real { return real.Zero }

func (u Unbounded) LogDensities(xs []float64) real.Real { return SumLogDensities(u, xs) }

// Generator is unsupported: the flat prior is improper.
func (Unbounded) Generator() rv.Generator[float64] {
	return unsupportedGenerator{name: "Unbounded"}
}

func (u Unbounded) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(u, observations)
}

// NonNegative is the flat prior on the positive reals.
type NonNegative struct{}

// Param exponentiates a fresh parameter x. The density term is x itself, the
// log-derivative of exp.
func (NonNegative) Param() *rv.RandomVariable[real.Real] {
	x := real.NewParameter()
	return rv.WithDensity(real.Exp(x), real.Real(x))
}

func (NonNegative) LogDensity(x real.Real) real.Real {
	return real.IfGreater(real.Zero, x, real.NegInf, real.Zero)
}

func (n NonNegative) LogDensities(xs []float64) real.Real { return SumLogDensities(n, xs) }

// Generator is unsupported: the flat prior is improper.
func (NonNegative) Generator() rv.Generator[float64] {
	return unsupportedGenerator{name: "NonNegative"}
}

func (n NonNegative) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(n, observations)
}

// StandardExponential is Exponential(1), built by reweighting NonNegative.
type StandardExponential struct{}

func (s StandardExponential) Param() *rv.RandomVariable[real.Real] {
	return rv.FlatMap(NonNegative{}.Param(), func(y real.Real) *rv.RandomVariable[real.Real] {
		return rv.WithDensity(y, real.Neg(y))
	})
}

func (StandardExponential) LogDensity(x real.Real) real.Real {
	return real.IfGreater(real.Zero, x, real.NegInf, real.Neg(x))
}

func (s StandardExponential) LogDensities(xs []float64) real.Real { return SumLogDensities(s, xs) }

func (StandardExponential) Generator() rv.Generator[float64] {
	return NewExponential(real.One).Generator()
}

func (s StandardExponential) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(s, observations)
}
