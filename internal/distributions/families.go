package distributions

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"credence/internal/real"
	"credence/internal/rv"
)

// translated is the shared parameterization of location families: a fresh
// parameter shifted by loc, scored by logDensity. Translation has unit
// Jacobian, so no correction term is needed.
func translated(loc real.Real, logDensity func(real.Real) real.Real) *rv.RandomVariable[real.Real] {
	y := real.Add(real.NewParameter(), loc)
	return rv.WithDensity(y, logDensity(y))
}

// Normal is the Gaussian with mean Mean and standard deviation StdDev.
type Normal struct {
	Mean   real.Real
	StdDev real.Real
}

func NewNormal(mean, stddev real.Real) Normal {
	return Normal{Mean: mean, StdDev: stddev}
}

func (n Normal) Param() *rv.RandomVariable[real.Real] {
	return translated(n.Mean, n.LogDensity)
}

func (n Normal) LogDensity(x real.Real) real.Real {
	z := real.Div(real.Sub(x, n.Mean), n.StdDev)
	return real.Sum(
		real.Mul(real.Const(-0.5), real.Mul(z, z)),
		real.Neg(real.Log(n.StdDev)),
		real.Const(-halfLog2Pi),
	)
}

// LogDensities sums squared errors once: sum((x-m)^2) = sum(x^2) - 2m sum(x) + n m^2.
func (n Normal) LogDensities(xs []float64) real.Real {
	if len(xs) == 0 {
		return real.Zero
	}
	var sx, sx2 float64
	for _, x := range xs {
		sx += x
		sx2 += x * x
	}
	count := real.Const(float64(len(xs)))
	squares := real.Sum(
		real.Const(sx2),
		real.Mul(real.Const(-2*sx), n.Mean),
		real.Mul(count, real.Mul(n.Mean, n.Mean)),
	)
	variance := real.Mul(n.StdDev, n.StdDev)
	return real.Sum(
		real.Div(real.Mul(real.Const(-0.5), squares), variance),
		real.Mul(count, real.Neg(real.Log(n.StdDev))),
		real.Const(-halfLog2Pi*float64(len(xs))),
	)
}

func (n Normal) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{n.Mean, n.StdDev},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return distuv.Normal{Mu: eval(n.Mean), Sigma: eval(n.StdDev)}.Quantile(uniformOpen(rng))
		},
	}
}

func (n Normal) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(n, observations)
}

// Cauchy has location X0 and scale Beta.
type Cauchy struct {
	X0   real.Real
	Beta real.Real
}

func NewCauchy(x0, beta real.Real) Cauchy {
	return Cauchy{X0: x0, Beta: beta}
}

func (c Cauchy) Param() *rv.RandomVariable[real.Real] {
	return translated(c.X0, c.LogDensity)
}

func (c Cauchy) LogDensity(x real.Real) real.Real {
	z := real.Div(real.Sub(x, c.X0), c.Beta)
	return real.Sum(
		real.Const(-math.Log(math.Pi)),
		real.Neg(real.Log(c.Beta)),
		real.Neg(real.Log(real.Add(real.One, real.Mul(z, z)))),
	)
}

func (c Cauchy) LogDensities(xs []float64) real.Real { return SumLogDensities(c, xs) }

func (c Cauchy) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{c.X0, c.Beta},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return eval(c.X0) + eval(c.Beta)*math.Tan(math.Pi*(uniformOpen(rng)-0.5))
		},
	}
}

func (c Cauchy) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(c, observations)
}

// LogNormal is exp of a Normal(Mean, StdDev).
type LogNormal struct {
	Mean   real.Real
	StdDev real.Real
}

func NewLogNormal(mean, stddev real.Real) LogNormal {
	return LogNormal{Mean: mean, StdDev: stddev}
}

// Param exponentiates Normal's param. Normal's density term is already the
// density of log y in the sampler's coordinates, so no extra term is added.
func (l LogNormal) Param() *rv.RandomVariable[real.Real] {
	return rv.Map(NewNormal(l.Mean, l.StdDev).Param(), real.Exp)
}

func (l LogNormal) LogDensity(x real.Real) real.Real {
	logX := real.Log(x)
	return real.IfGreater(x, real.Zero,
		real.Sub(NewNormal(l.Mean, l.StdDev).LogDensity(logX), logX),
		real.NegInf,
	)
}

func (l LogNormal) LogDensities(xs []float64) real.Real { return SumLogDensities(l, xs) }

func (l LogNormal) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{l.Mean, l.StdDev},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return distuv.LogNormal{Mu: eval(l.Mean), Sigma: eval(l.StdDev)}.Quantile(uniformOpen(rng))
		},
	}
}

func (l LogNormal) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(l, observations)
}

// Exponential has rate Lambda.
type Exponential struct {
	Lambda real.Real
}

func NewExponential(lambda real.Real) Exponential {
	return Exponential{Lambda: lambda}
}

// Param scales NonNegative's param by 1/Lambda. The term carries the
// exponential log-density of the scaled value plus log(1/Lambda), the
// log-derivative of the scaling.
func (e Exponential) Param() *rv.RandomVariable[real.Real] {
	return rv.FlatMap(NonNegative{}.Param(), func(y real.Real) *rv.RandomVariable[real.Real] {
		z := real.Div(y, e.Lambda)
		return rv.WithDensity(z, real.Sub(e.logDensity(z), real.Log(e.Lambda)))
	})
}

func (e Exponential) logDensity(x real.Real) real.Real {
	return real.Sub(real.Log(e.Lambda), real.Mul(e.Lambda, x))
}

func (e Exponential) LogDensity(x real.Real) real.Real {
	return real.IfGreater(real.Zero, x, real.NegInf, e.logDensity(x))
}

func (e Exponential) LogDensities(xs []float64) real.Real { return SumLogDensities(e, xs) }

func (e Exponential) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{e.Lambda},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return distuv.Exponential{Rate: eval(e.Lambda)}.Quantile(uniformOpen(rng))
		},
	}
}

func (e Exponential) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(e, observations)
}

// Laplace has location Mean and scale Scale.
type Laplace struct {
	Mean  real.Real
	Scale real.Real
}

func NewLaplace(mean, scale real.Real) Laplace {
	return Laplace{Mean: mean, Scale: scale}
}

func (l Laplace) Param() *rv.RandomVariable[real.Real] {
	return translated(l.Mean, l.LogDensity)
}

func (l Laplace) LogDensity(x real.Real) real.Real {
	return real.Sub(
		real.Neg(real.Log(real.Mul(real.Two, l.Scale))),
		real.Div(real.Abs(real.Sub(x, l.Mean)), l.Scale),
	)
}

func (l Laplace) LogDensities(xs []float64) real.Real { return SumLogDensities(l, xs) }

func (l Laplace) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{l.Mean, l.Scale},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return distuv.Laplace{Mu: eval(l.Mean), Scale: eval(l.Scale)}.Quantile(uniformOpen(rng))
		},
	}
}

func (l Laplace) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(l, observations)
}

// Uniform is flat on [From, To].
type Uniform struct {
	From real.Real
	To   real.Real
}

func NewUniform(from, to real.Real) Uniform {
	return Uniform{From: from, To: to}
}

// Param squeezes a fresh parameter x through the logistic function and maps
// the result affinely onto [From, To]. The uniform density -log(To - From)
// and the affine correction log(To - From) cancel, leaving only the logistic
// correction log(sigmoid(x) * (1 - sigmoid(x))). The term never reads y, so
// rounding of y at the edges of the support cannot produce log(0).
func (u Uniform) Param() *rv.RandomVariable[real.Real] {
	x := real.NewParameter()
	width := real.Sub(u.To, u.From)
	y := real.Add(u.From, real.Mul(width, real.Sigmoid(x)))
	logistic := real.Neg(real.Add(real.Softplus(x), real.Softplus(real.Neg(x))))
	return rv.WithDensity(y, logistic)
}

func (u Uniform) LogDensity(x real.Real) real.Real {
	return real.IfGreater(u.From, x, real.NegInf,
		real.IfGreater(x, u.To, real.NegInf,
			real.Neg(real.Log(real.Sub(u.To, u.From))),
		),
	)
}

func (u Uniform) LogDensities(xs []float64) real.Real { return SumLogDensities(u, xs) }

func (u Uniform) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{u.From, u.To},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			from, to := eval(u.From), eval(u.To)
			return from + (to-from)*rng.Float64()
		},
	}
}

func (u Uniform) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(u, observations)
}

// StudentsT has Nu degrees of freedom, location Mu and scale Sigma.
type StudentsT struct {
	Nu    real.Real
	Mu    real.Real
	Sigma real.Real
}

func NewStudentsT(nu, mu, sigma real.Real) StudentsT {
	return StudentsT{Nu: nu, Mu: mu, Sigma: sigma}
}

// Param translates a fresh parameter by Mu, like every location family.
func (s StudentsT) Param() *rv.RandomVariable[real.Real] {
	return translated(s.Mu, s.LogDensity)
}

func (s StudentsT) LogDensity(x real.Real) real.Real {
	z := real.Div(real.Sub(x, s.Mu), s.Sigma)
	halfNuPlusOne := real.Div(real.Add(s.Nu, real.One), real.Two)
	return real.Sum(
		real.LogGamma(halfNuPlusOne),
		real.Neg(real.LogGamma(real.Div(s.Nu, real.Two))),
		real.Mul(real.Const(-0.5), real.Log(real.Mul(s.Nu, real.Pi))),
		real.Neg(real.Log(s.Sigma)),
		real.Neg(real.Mul(halfNuPlusOne, real.Log(real.Add(real.One, real.Div(real.Mul(z, z), s.Nu))))),
	)
}

func (s StudentsT) LogDensities(xs []float64) real.Real { return SumLogDensities(s, xs) }

func (s StudentsT) Generator() rv.Generator[float64] {
	return generator{
		reals: []real.Real{s.Nu, s.Mu, s.Sigma},
		draw: func(rng *rand.Rand, eval real.Evaluator) float64 {
			return distuv.StudentsT{Mu: eval(s.Mu), Sigma: eval(s.Sigma), Nu: eval(s.Nu)}.Quantile(uniformOpen(rng))
		},
	}
}

func (s StudentsT) Fit(observations []float64) *rv.RandomVariable[rv.Unit] {
	return fit(s, observations)
}
