package rv

import (
	"credence/internal/real"
	"credence/pkg/domain"
)

// Traverse turns a slice of programs into a program over the slice of their
// payloads, in input order. Densities and batches of every element are
// unioned; an empty input yields an empty payload with zero density.
//
// The result equals left-folding FlatMap over ps, but accumulates into one
// set instead of copying the union at every step.
func Traverse[A any](ps []*RandomVariable[A]) *RandomVariable[[]A] {
	values := make([]A, 0, len(ps))
	var densities map[domain.TermID]real.Real
	var batches map[domain.BatchID]*Batches
	for _, p := range ps {
		mustMatchBatches(batches, p.batches)
		if len(p.densities) > 0 {
			if densities == nil {
				densities = make(map[domain.TermID]real.Real, len(p.densities)*len(ps))
			}
			for id, t := range p.densities {
				densities[id] = t
			}
		}
		if len(p.batches) > 0 {
			if batches == nil {
				batches = make(map[domain.BatchID]*Batches, len(p.batches))
			}
			for id, b := range p.batches {
				batches[id] = b
			}
		}
		values = append(values, p.value)
	}
	return &RandomVariable[[]A]{value: values, densities: densities, batches: batches}
}

// Fill traverses k programs built by fn.
func Fill[A any](k int, fn func() *RandomVariable[A]) *RandomVariable[[]A] {
	ps := make([]*RandomVariable[A], k)
	for i := range ps {
		ps[i] = fn()
	}
	return Traverse(ps)
}
