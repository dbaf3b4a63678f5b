package distributions

import (
	"math/rand/v2"

	"credence/internal/real"
	"credence/internal/rv"
)

// injected is a base distribution pushed through a bijection.
type injected struct {
	base Continuous
	fwd  func(real.Real) real.Real
	inv  func(real.Real) real.Real
	// logJacobian is log |d inv(y) / dy|.
	logJacobian func(real.Real) real.Real
	// support guards LogDensity outside the image of fwd; nil means all reals.
	support func(y, inside real.Real) real.Real
	reals   []real.Real
}

// Translate shifts d by b.
func Translate(d Continuous, b real.Real) Continuous {
	return injected{
		base:        d,
		fwd:         func(x real.Real) real.Real { return real.Add(x, b) },
		inv:         func(y real.Real) real.Real { return real.Sub(y, b) },
		logJacobian: func(real.Real) real.Real { return real.Zero },
		reals:       []real.Real{b},
	}
}

// Scale multiplies d by a, which must be positive.
func Scale(d Continuous, a real.Real) Continuous {
	return injected{
		base:        d,
		fwd:         func(x real.Real) real.Real { return real.Mul(x, a) },
		inv:         func(y real.Real) real.Real { return real.Div(y, a) },
		logJacobian: func(real.Real) real.Real { return real.Neg(real.Log(a)) },
		reals:       []real.Real{a},
	}
}

// Exp exponentiates d.
func Exp(d Continuous) Continuous {
	return injected{
		base:        d,
		fwd:         real.Exp,
		inv:         real.Log,
		logJacobian: func(y real.Real) real.Real { return real.Neg(real.Log(y)) },
		support: func(y, inside real.Real) real.Real {
			return real.IfGreater(y, real.Zero, inside, real.NegInf)
		},
	}
}

// Param maps the base param forward. The base term already is the density in
// unconstrained coordinates, which a deterministic map does not change.
func (i injected) Param() *rv.RandomVariable[real.Real] {
	return rv.Map(i.base.Param(), i.fwd)
}

func (i injected) LogDensity(y real.Real) real.Real {
	inside := real.Add(i.base.LogDensity(i.inv(y)), i.logJacobian(y))
	if i.support == nil {
		return inside
	}
	return i.support(y, inside)
}

func (i injected) LogDensities(xs []float64) real.Real { return SumLogDensities(i, xs) }

func (i injected) Generator() rv.Generator[float64] {
	return injectedGenerator{base: i.base.Generator(), fwd: i.fwd, reals: i.reals}
}

type injectedGenerator struct {
	base  rv.Generator[float64]
	fwd   func(real.Real) real.Real
	reals []real.Real
}

func (g injectedGenerator) Reals() []real.Real {
	return append(append([]real.Real{}, g.base.Reals()...), g.reals...)
}

func (g injectedGenerator) Get(rng *rand.Rand, eval real.Evaluator) (float64, error) {
	x, err := g.base.Get(rng, eval)
	if err != nil {
		return 0, err
	}
	return eval(g.fwd(real.Const(x))), nil
}

func (i injected) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(i, observations)
}
