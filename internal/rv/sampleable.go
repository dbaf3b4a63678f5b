package rv

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"credence/internal/real"
)

// Extractor maps one raw parameter vector to a concrete value. rng feeds
// payloads that draw fresh randomness, such as generators.
type Extractor[U any] func(params []float64, rng *rand.Rand) (U, error)

// Sampleable turns a payload of shape T into concrete values of type U.
type Sampleable[T, U any] interface {
	// Reals lists the expressions the payload reads, so their parameters are
	// part of the realized context even when the density ignores them.
	Reals(value T) []real.Real
	Prepare(value T, ctx *real.Context) Extractor[U]
}

// Generator draws a realized value given randomness and the concrete values
// of the expressions it depends on.
type Generator[U any] interface {
	Reals() []real.Real
	Get(rng *rand.Rand, eval real.Evaluator) (U, error)
}

type realValue struct{}

// RealValue extracts a single scalar.
func RealValue() Sampleable[real.Real, float64] { return realValue{} }

func (realValue) Reals(r real.Real) []real.Real { return []real.Real{r} }

func (realValue) Prepare(r real.Real, ctx *real.Context) Extractor[float64] {
	return func(params []float64, _ *rand.Rand) (float64, error) {
		eval, err := ctx.Evaluator(params)
		if err != nil {
			return 0, err
		}
		return eval(r), nil
	}
}

type realSlice struct{}

// RealSlice extracts a slice of scalars, preserving order.
func RealSlice() Sampleable[[]real.Real, []float64] { return realSlice{} }

func (realSlice) Reals(rs []real.Real) []real.Real { return rs }

func (realSlice) Prepare(rs []real.Real, ctx *real.Context) Extractor[[]float64] {
	return func(params []float64, _ *rand.Rand) ([]float64, error) {
		eval, err := ctx.Evaluator(params)
		if err != nil {
			return nil, err
		}
		out := make([]float64, len(rs))
		for i, r := range rs {
			out[i] = eval(r)
		}
		return out, nil
	}
}

type realMap[K cmp.Ordered] struct{}

// RealMap extracts a map of named scalars.
func RealMap[K cmp.Ordered]() Sampleable[map[K]real.Real, map[K]float64] { return realMap[K]{} }

// Reals lists the values in key order so payload-only parameters get the same
// position in the parameter vector on every run.
func (realMap[K]) Reals(m map[K]real.Real) []real.Real {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]real.Real, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func (realMap[K]) Prepare(m map[K]real.Real, ctx *real.Context) Extractor[map[K]float64] {
	return func(params []float64, _ *rand.Rand) (map[K]float64, error) {
		eval, err := ctx.Evaluator(params)
		if err != nil {
			return nil, err
		}
		out := make(map[K]float64, len(m))
		for k, r := range m {
			out[k] = eval(r)
		}
		return out, nil
	}
}

type generated[U any] struct{}

// Generated draws from a generator payload at every parameter vector, which
// yields posterior predictive samples.
func Generated[U any]() Sampleable[Generator[U], U] { return generated[U]{} }

func (generated[U]) Reals(g Generator[U]) []real.Real { return g.Reals() }

func (generated[U]) Prepare(g Generator[U], ctx *real.Context) Extractor[U] {
	return func(params []float64, rng *rand.Rand) (U, error) {
		eval, err := ctx.Evaluator(params)
		if err != nil {
			var zero U
			return zero, err
		}
		return g.Get(rng, eval)
	}
}

type constantValue[T any] struct{}

// Constant returns the payload unchanged for payloads with no reals.
func Constant[T any]() Sampleable[T, T] { return constantValue[T]{} }

func (constantValue[T]) Reals(T) []real.Real { return nil }

func (constantValue[T]) Prepare(value T, _ *real.Context) Extractor[T] {
	return func([]float64, *rand.Rand) (T, error) { return value, nil }
}
