package rv

import (
	"math"

	"credence/internal/real"
)

// batchedDensity realizes a program for optimization. Terms reading a batch
// placeholder are evaluated once per batch; every other term is counted once.
type batchedDensity struct {
	ctx     *real.Context
	global  real.Real
	local   real.Real
	batches *Batches
}

func newBatchedDensity[T any](p *RandomVariable[T], extra []real.Real) (*batchedDensity, error) {
	merged, err := MergeBatches(p.Batches())
	if err != nil {
		return nil, err
	}
	var global, local []real.Real
	for _, id := range p.terms() {
		t := p.densities[id]
		if merged != nil && real.DependsOn(t, real.KindPlaceholder) {
			local = append(local, t)
			continue
		}
		global = append(global, t)
	}
	g, l := real.Sum(global...), real.Sum(local...)
	return &batchedDensity{
		ctx:     real.NewContext(real.Add(g, l), extra...),
		global:  g,
		local:   l,
		batches: merged,
	}, nil
}

func (d *batchedDensity) Dim() int { return d.ctx.Dim() }

func (d *batchedDensity) NumBatches() int {
	if d.batches == nil {
		return 0
	}
	return d.batches.numBatches
}

func (d *batchedDensity) LogDensity(params []float64) float64 {
	b, err := d.ctx.Bind(params)
	if err != nil {
		return math.NaN()
	}
	total := real.Eval(d.global, b)
	if d.batches == nil {
		return total + real.Eval(d.local, b)
	}
	for i := 0; i < d.batches.numBatches; i++ {
		d.batches.Bind(i, b)
		total += real.Eval(d.local, b)
	}
	return total
}
