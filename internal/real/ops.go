package real

import "math"

type unaryOp int

const (
	opNeg unaryOp = iota
	opExp
	opLog
	opAbs
	opSoftplus
	opLogGamma
)

func (op unaryOp) apply(x float64) float64 {
	switch op {
	case opNeg:
		return -x
	case opExp:
		return math.Exp(x)
	case opLog:
		return math.Log(x)
	case opAbs:
		return math.Abs(x)
	case opSoftplus:
		// log(1 + e^x) without overflow for large x
		if x > 0 {
			return x + math.Log1p(math.Exp(-x))
		}
		return math.Log1p(math.Exp(x))
	case opLogGamma:
		v, _ := math.Lgamma(x)
		return v
	}
	panic("real: unknown unary op")
}

type unary struct {
	op unaryOp
	x  Real
}

func (u unary) eval(b Bindings) float64   { return u.op.apply(u.x.eval(b)) }
func (u unary) visit(fn func(*Variable)) { u.x.visit(fn) }

func newUnary(op unaryOp, x Real) Real {
	if c, ok := x.(constant); ok {
		return constant(op.apply(float64(c)))
	}
	return unary{op: op, x: x}
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSub
	opMul
	opDiv
	opPow
)

func (op binaryOp) apply(l, r float64) float64 {
	switch op {
	case opAdd:
		return l + r
	case opSub:
		return l - r
	case opMul:
		return l * r
	case opDiv:
		return l / r
	case opPow:
		return math.Pow(l, r)
	}
	panic("real: unknown binary op")
}

type binary struct {
	op   binaryOp
	l, r Real
}

func (n binary) eval(b Bindings) float64 { return n.op.apply(n.l.eval(b), n.r.eval(b)) }

func (n binary) visit(fn func(*Variable)) {
	n.l.visit(fn)
	n.r.visit(fn)
}

func newBinary(op binaryOp, l, r Real) Real {
	lc, lok := l.(constant)
	rc, rok := r.(constant)
	if lok && rok {
		return constant(op.apply(float64(lc), float64(rc)))
	}
	switch op {
	case opAdd:
		if lok && lc == 0 {
			return r
		}
		if rok && rc == 0 {
			return l
		}
	case opSub:
		if rok && rc == 0 {
			return l
		}
	case opMul:
		if lok && lc == 1 {
			return r
		}
		if rok && rc == 1 {
			return l
		}
	case opDiv:
		if rok && rc == 1 {
			return l
		}
	}
	return binary{op: op, l: l, r: r}
}

func Add(l, r Real) Real { return newBinary(opAdd, l, r) }
func Sub(l, r Real) Real { return newBinary(opSub, l, r) }
func Mul(l, r Real) Real { return newBinary(opMul, l, r) }
func Div(l, r Real) Real { return newBinary(opDiv, l, r) }
func Pow(l, r Real) Real { return newBinary(opPow, l, r) }

func Neg(x Real) Real      { return newUnary(opNeg, x) }
func Exp(x Real) Real      { return newUnary(opExp, x) }
func Log(x Real) Real      { return newUnary(opLog, x) }
func Abs(x Real) Real      { return newUnary(opAbs, x) }
func LogGamma(x Real) Real { return newUnary(opLogGamma, x) }

// Softplus is log(1 + e^x).
func Softplus(x Real) Real { return newUnary(opSoftplus, x) }

// Sigmoid is 1 / (1 + e^-x).
func Sigmoid(x Real) Real {
	return Div(One, Add(One, Exp(Neg(x))))
}

type sum struct {
	terms []Real
}

func (s sum) eval(b Bindings) float64 {
	total := 0.0
	for _, t := range s.terms {
		total += t.eval(b)
	}
	return total
}

func (s sum) visit(fn func(*Variable)) {
	for _, t := range s.terms {
		t.visit(fn)
	}
}

// Sum adds terms in order. Constant terms are folded into one.
func Sum(terms ...Real) Real {
	folded := 0.0
	rest := make([]Real, 0, len(terms))
	for _, t := range terms {
		if c, ok := t.(constant); ok {
			folded += float64(c)
			continue
		}
		rest = append(rest, t)
	}
	if folded != 0 || len(rest) == 0 {
		rest = append(rest, constant(folded))
	}
	if len(rest) == 1 {
		return rest[0]
	}
	return sum{terms: rest}
}

type ifGreater struct {
	a, b, then, otherwise Real
}

func (n ifGreater) eval(b Bindings) float64 {
	if n.a.eval(b) > n.b.eval(b) {
		return n.then.eval(b)
	}
	return n.otherwise.eval(b)
}

func (n ifGreater) visit(fn func(*Variable)) {
	n.a.visit(fn)
	n.b.visit(fn)
	n.then.visit(fn)
	n.otherwise.visit(fn)
}

// IfGreater selects then when a > b and otherwise when not.
func IfGreater(a, b, then, otherwise Real) Real {
	ac, aok := a.(constant)
	bc, bok := b.(constant)
	if aok && bok {
		if ac > bc {
			return then
		}
		return otherwise
	}
	return ifGreater{a: a, b: b, then: then, otherwise: otherwise}
}
