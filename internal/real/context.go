package real

import (
	"github.com/hashicorp/go-set/v3"

	"credence/pkg/domain"
	dErrors "credence/pkg/domain-errors"
)

// Context realizes a density expression: it discovers the parameters the
// expression depends on and fixes their order in the parameter vector.
type Context struct {
	density      Real
	parameters   []*Variable
	placeholders []*Variable
	index        map[domain.VariableID]int
}

// NewContext discovers the variables of density in depth-first order of first
// appearance. extra expressions (payload reals that never enter the density)
// contribute their parameters after the density's own.
func NewContext(density Real, extra ...Real) *Context {
	c := &Context{
		density: density,
		index:   make(map[domain.VariableID]int),
	}
	seen := set.New[domain.VariableID](16)
	collect := func(v *Variable) {
		if !seen.Insert(v.id) {
			return
		}
		if v.kind == KindPlaceholder {
			c.placeholders = append(c.placeholders, v)
			return
		}
		c.index[v.id] = len(c.parameters)
		c.parameters = append(c.parameters, v)
	}
	density.visit(collect)
	for _, r := range extra {
		r.visit(collect)
	}
	return c
}

// Dim is the number of parameters.
func (c *Context) Dim() int { return len(c.parameters) }

// Parameters returns the parameters in vector order.
func (c *Context) Parameters() []*Variable {
	out := make([]*Variable, len(c.parameters))
	copy(out, c.parameters)
	return out
}

// Placeholders returns the data placeholders the density references.
func (c *Context) Placeholders() []*Variable {
	out := make([]*Variable, len(c.placeholders))
	copy(out, c.placeholders)
	return out
}

// Density is the realized density expression.
func (c *Context) Density() Real { return c.density }

// Bind maps a parameter vector onto the context's parameters.
func (c *Context) Bind(params []float64) (Bindings, error) {
	if len(params) != len(c.parameters) {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "expected %d parameters, got %d", len(c.parameters), len(params))
	}
	b := make(Bindings, len(params)+len(c.placeholders))
	for i, v := range c.parameters {
		b[v.id] = params[i]
	}
	return b, nil
}

// LogDensity evaluates the density at params. A vector of the wrong
// length evaluates to NaN.
func (c *Context) LogDensity(params []float64) float64 {
	b, err := c.Bind(params)
	if err != nil {
		return nan()
	}
	return c.density.eval(b)
}

// Evaluator returns a function evaluating any expression at params.
func (c *Context) Evaluator(params []float64) (Evaluator, error) {
	b, err := c.Bind(params)
	if err != nil {
		return nil, err
	}
	return func(r Real) float64 { return r.eval(b) }, nil
}

// DependsOn reports whether r references any variable of the given kind.
func DependsOn(r Real, kind Kind) bool {
	found := false
	r.visit(func(v *Variable) {
		if v.kind == kind {
			found = true
		}
	})
	return found
}
