package real

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "credence/pkg/domain-errors"
)

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name     string
		expr     Real
		expected float64
	}{
		{"add", Add(Const(2), Const(3)), 5},
		{"sub", Sub(Const(2), Const(3)), -1},
		{"mul", Mul(Const(2), Const(3)), 6},
		{"div", Div(Const(3), Const(2)), 1.5},
		{"pow", Pow(Const(2), Const(3)), 8},
		{"exp log", Log(Exp(Const(1.25))), 1.25},
		{"abs neg", Abs(Neg(Const(4))), 4},
		{"softplus zero", Softplus(Zero), math.Log(2)},
		{"log gamma of 5", LogGamma(Const(5)), math.Log(24)},
		{"sigmoid zero", Sigmoid(Zero), 0.5},
		{"sum", Sum(Const(1), Const(2), Const(3)), 6},
		{"empty sum", Sum(), 0},
		{"if greater true branch", IfGreater(One, Zero, Const(7), Const(8)), 7},
		{"if greater false branch", IfGreater(Zero, Zero, Const(7), Const(8)), 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Constant(tt.expr)
			require.True(t, ok, "expression should fold to a constant")
			assert.InDelta(t, tt.expected, v, 1e-12)
		})
	}
}

func TestNegInfSaturatesSum(t *testing.T) {
	x := NewParameter()
	s := Sum(x, NegInf, Const(10))
	assert.True(t, math.IsInf(Eval(s, Bindings{x.ID(): 3}), -1))
}

func TestSoftplusIsStableForLargeInputs(t *testing.T) {
	x := NewParameter()
	sp := Softplus(x)
	assert.InDelta(t, 800.0, Eval(sp, Bindings{x.ID(): 800}), 1e-9)
	assert.InDelta(t, 0.0, Eval(sp, Bindings{x.ID(): -800}), 1e-12)
}

func TestUnboundVariableIsNaN(t *testing.T) {
	x := NewParameter()
	assert.True(t, math.IsNaN(Eval(Add(x, One), Bindings{})))
}

func TestIfGreaterWithVariables(t *testing.T) {
	x := NewParameter()
	expr := IfGreater(x, Const(0.5), Zero, NegInf)
	assert.Equal(t, 0.0, Eval(expr, Bindings{x.ID(): 0.9}))
	assert.True(t, math.IsInf(Eval(expr, Bindings{x.ID(): 0.5}), -1))
}

func TestContext(t *testing.T) {
	a := NewParameter()
	b := NewParameter()
	p := NewPlaceholder()
	density := Sum(Mul(a, a), Mul(b, p), a)

	ctx := NewContext(density)

	t.Run("discovers parameters in first-appearance order", func(t *testing.T) {
		params := ctx.Parameters()
		require.Len(t, params, 2)
		assert.Equal(t, a.ID(), params[0].ID())
		assert.Equal(t, b.ID(), params[1].ID())
		assert.Equal(t, 2, ctx.Dim())
	})

	t.Run("separates placeholders", func(t *testing.T) {
		ph := ctx.Placeholders()
		require.Len(t, ph, 1)
		assert.Equal(t, p.ID(), ph[0].ID())
		assert.True(t, DependsOn(density, KindPlaceholder))
		assert.False(t, DependsOn(Mul(a, b), KindPlaceholder))
	})

	t.Run("rejects wrong vector length", func(t *testing.T) {
		_, err := ctx.Bind([]float64{1})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		assert.Contains(t, err.Error(), "expected 2 parameters, got 1")
		assert.True(t, math.IsNaN(ctx.LogDensity([]float64{1, 2, 3})))
	})

	t.Run("extra expressions add parameters after the density", func(t *testing.T) {
		c := NewParameter()
		withExtra := NewContext(Mul(a, a), Add(c, a))
		params := withExtra.Parameters()
		require.Len(t, params, 2)
		assert.Equal(t, a.ID(), params[0].ID())
		assert.Equal(t, c.ID(), params[1].ID())

		eval, err := withExtra.Evaluator([]float64{2, 5})
		require.NoError(t, err)
		assert.Equal(t, 7.0, eval(Add(c, a)))
	})
}
