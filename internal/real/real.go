// Package real is the symbolic scalar engine consumed by the composition core.
//
// A Real is an immutable expression over constants and Variables. The core only
// needs to construct and sum expressions; evaluation against a parameter vector
// happens through a Context built once per realized density.
package real

import (
	"math"

	"credence/pkg/domain"
)

// Real is a deferred scalar expression.
type Real interface {
	eval(b Bindings) float64
	visit(fn func(*Variable))
}

// Bindings maps variables to concrete values for one evaluation.
type Bindings map[domain.VariableID]float64

// Evaluator computes the concrete value of an expression under a fixed binding.
type Evaluator func(Real) float64

// Eval evaluates r under b. Unbound variables evaluate to NaN.
func Eval(r Real, b Bindings) float64 {
	return r.eval(b)
}

// Kind distinguishes sampled parameters from data placeholders.
type Kind int

const (
	// KindParameter is an unconstrained latent coordinate owned by the sampler.
	KindParameter Kind = iota
	// KindPlaceholder is a per-observation slot bound from a batch column.
	KindPlaceholder
)

// Variable is a leaf whose value is supplied at evaluation time.
type Variable struct {
	id   domain.VariableID
	kind Kind
}

// NewParameter returns a fresh unconstrained parameter.
func NewParameter() *Variable {
	return &Variable{id: domain.NewVariableID(), kind: KindParameter}
}

// NewPlaceholder returns a fresh data placeholder.
func NewPlaceholder() *Variable {
	return &Variable{id: domain.NewVariableID(), kind: KindPlaceholder}
}

func (v *Variable) ID() domain.VariableID { return v.id }
func (v *Variable) Kind() Kind            { return v.kind }

func (v *Variable) eval(b Bindings) float64 {
	x, ok := b[v.id]
	if !ok {
		return math.NaN()
	}
	return x
}

func (v *Variable) visit(fn func(*Variable)) { fn(v) }

type constant float64

func (c constant) eval(Bindings) float64  { return float64(c) }
func (c constant) visit(func(*Variable)) {}

var (
	Zero   Real = constant(0)
	One    Real = constant(1)
	Two    Real = constant(2)
	Pi     Real = constant(math.Pi)
	NegInf Real = constant(math.Inf(-1))
)

// Const lifts a float into an expression.
func Const(x float64) Real {
	return constant(x)
}

// Constant reports the value of r when r folded to a constant.
func Constant(r Real) (float64, bool) {
	c, ok := r.(constant)
	return float64(c), ok
}

func nan() float64 { return math.NaN() }
