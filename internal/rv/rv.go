// Package rv implements RandomVariable, the value of a partially specified
// probabilistic program: a payload plus the unnormalized log-density of the
// model built so far.
//
// Programs grow only by composition. Every combinator returns a new
// RandomVariable and never mutates its inputs, so programs may be shared
// freely between goroutines. Density terms are deduplicated by TermID: a term
// reached through two composition paths (for example p zipped with itself) is
// summed once, while two numerically equal terms created by separate steps
// are both kept.
package rv

import (
	"slices"
	"sync"

	"credence/internal/real"
	"credence/pkg/domain"
	dErrors "credence/pkg/domain-errors"
)

// RandomVariable is a payload with accumulated density terms and batch descriptors.
type RandomVariable[T any] struct {
	value     T
	densities map[domain.TermID]real.Real
	batches   map[domain.BatchID]*Batches

	densityOnce sync.Once
	density     real.Real
}

// Unit is the payload of programs that only contribute density.
type Unit = struct{}

// Pair is the payload produced by Zip.
type Pair[A, B any] struct {
	First  A
	Second B
}

// New wraps a plain value with zero density.
func New[T any](value T) *RandomVariable[T] {
	return &RandomVariable[T]{value: value}
}

// WithDensity wraps value with a single fresh density term.
func WithDensity[T any](value T, density real.Real) *RandomVariable[T] {
	return &RandomVariable[T]{
		value:     value,
		densities: map[domain.TermID]real.Real{domain.NewTermID(): density},
	}
}

// WithBatches wraps value with a fresh density term that reads from the
// placeholders described by b.
func WithBatches[T any](value T, density real.Real, b *Batches) *RandomVariable[T] {
	p := WithDensity(value, density)
	if b != nil {
		p.batches = map[domain.BatchID]*Batches{b.id: b}
	}
	return p
}

// Value returns the payload, discarding density and batch bookkeeping.
func (p *RandomVariable[T]) Value() T { return p.value }

// NumTerms is the number of distinct density terms.
func (p *RandomVariable[T]) NumTerms() int { return len(p.densities) }

// Batches returns the batch descriptors in issue order.
func (p *RandomVariable[T]) Batches() []*Batches {
	out := make([]*Batches, 0, len(p.batches))
	for _, b := range p.batches {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b *Batches) int { return a.compare(b) })
	return out
}

// Density is the sum of the deduplicated density terms. It is computed on
// first use and cached; concurrent callers observe the same expression.
func (p *RandomVariable[T]) Density() real.Real {
	p.densityOnce.Do(func() {
		terms := p.terms()
		values := make([]real.Real, len(terms))
		for i, id := range terms {
			values[i] = p.densities[id]
		}
		p.density = real.Sum(values...)
	})
	return p.density
}

// terms lists term IDs in issue order so sums are reproducible.
func (p *RandomVariable[T]) terms() []domain.TermID {
	ids := make([]domain.TermID, 0, len(p.densities))
	for id := range p.densities {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b domain.TermID) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	return ids
}

// Map reshapes the payload. Densities and batches are carried unchanged.
func Map[T, U any](p *RandomVariable[T], f func(T) U) *RandomVariable[U] {
	return &RandomVariable[U]{
		value:     f(p.value),
		densities: p.densities,
		batches:   p.batches,
	}
}

// FlatMap continues the program with f. The result carries the union of both
// programs' density terms and batch descriptors.
//
// FlatMap panics with a CodeInvariantViolation error when both programs carry
// batch descriptors with different batch counts; such a model cannot be fit.
func FlatMap[T, U any](p *RandomVariable[T], f func(T) *RandomVariable[U]) *RandomVariable[U] {
	inner := f(p.value)
	mustMatchBatches(p.batches, inner.batches)
	return &RandomVariable[U]{
		value:     inner.value,
		densities: unionTerms(p.densities, inner.densities),
		batches:   unionBatches(p.batches, inner.batches),
	}
}

// Zip pairs two programs.
func Zip[A, B any](a *RandomVariable[A], b *RandomVariable[B]) *RandomVariable[Pair[A, B]] {
	return FlatMap(a, func(x A) *RandomVariable[Pair[A, B]] {
		return Map(b, func(y B) Pair[A, B] {
			return Pair[A, B]{First: x, Second: y}
		})
	})
}

// Condition adds the density term f(value), keeping the payload.
func (p *RandomVariable[T]) Condition(f func(T) real.Real) *RandomVariable[T] {
	return FlatMap(p, func(t T) *RandomVariable[T] {
		return WithDensity(t, f(t))
	})
}

// WithFilter returns p itself when pred holds. Otherwise it returns p with an
// extra log(0) term, a valid zero-probability state.
func (p *RandomVariable[T]) WithFilter(pred func(T) bool) *RandomVariable[T] {
	if pred(p.value) {
		return p
	}
	return &RandomVariable[T]{
		value:     p.value,
		densities: unionTerms(p.densities, map[domain.TermID]real.Real{domain.NewTermID(): real.NegInf}),
		batches:   p.batches,
	}
}

func unionTerms(a, b map[domain.TermID]real.Real) map[domain.TermID]real.Real {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make(map[domain.TermID]real.Real, len(a)+len(b))
	for id, t := range a {
		out[id] = t
	}
	for id, t := range b {
		out[id] = t
	}
	return out
}

func unionBatches(a, b map[domain.BatchID]*Batches) map[domain.BatchID]*Batches {
	if len(b) == 0 {
		return a
	}
	if len(a) == 0 {
		return b
	}
	out := make(map[domain.BatchID]*Batches, len(a)+len(b))
	for id, x := range a {
		out[id] = x
	}
	for id, x := range b {
		out[id] = x
	}
	return out
}

func numBatches(bs map[domain.BatchID]*Batches) int {
	for _, b := range bs {
		return b.numBatches
	}
	return 0
}

func mustMatchBatches(outer, inner map[domain.BatchID]*Batches) {
	if len(outer) == 0 || len(inner) == 0 {
		return
	}
	if o, i := numBatches(outer), numBatches(inner); o != i {
		panic(dErrors.Newf(dErrors.CodeInvariantViolation,
			"cannot combine programs batched into %d and %d batches", o, i))
	}
}
