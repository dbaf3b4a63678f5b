package rv

import (
	"bytes"

	"github.com/hashicorp/go-set/v3"

	"credence/internal/real"
	"credence/pkg/domain"
	dErrors "credence/pkg/domain-errors"
)

// Column binds one placeholder to its value in every batch.
type Column struct {
	Placeholder *real.Variable
	// Values holds one observation per batch.
	Values []float64
}

// Batches describes a mini-batch partition: an ordered set of columns, each
// holding NumBatches values.
type Batches struct {
	id         domain.BatchID
	columns    []Column
	numBatches int
}

// NewBatches validates and builds a batch descriptor.
func NewBatches(numBatches int, columns ...Column) (*Batches, error) {
	if numBatches < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "batches must contain at least one batch")
	}
	for i, c := range columns {
		if c.Placeholder == nil || c.Placeholder.Kind() != real.KindPlaceholder {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput, "column %d is not bound to a placeholder", i)
		}
		if len(c.Values) != numBatches {
			return nil, dErrors.Newf(dErrors.CodeInvalidInput,
				"column %d has %d values, expected %d", i, len(c.Values), numBatches)
		}
	}
	cols := make([]Column, len(columns))
	copy(cols, columns)
	return &Batches{id: domain.NewBatchID(), columns: cols, numBatches: numBatches}, nil
}

func (b *Batches) ID() domain.BatchID { return b.id }
func (b *Batches) NumBatches() int    { return b.numBatches }

// Columns returns a copy of the columns.
func (b *Batches) Columns() []Column {
	out := make([]Column, len(b.columns))
	copy(out, b.columns)
	return out
}

// Bind writes batch i's value for every column into bindings.
func (b *Batches) Bind(i int, bindings real.Bindings) {
	for _, c := range b.columns {
		bindings[c.Placeholder.ID()] = c.Values[i]
	}
}

func (b *Batches) compare(other *Batches) int {
	return bytes.Compare(b.id[:], other.id[:])
}

// MergeBatches combines descriptors into one whose columns are the union of
// theirs. A placeholder shared by several descriptors appears once.
func MergeBatches(bs []*Batches) (*Batches, error) {
	if len(bs) == 0 {
		return nil, nil
	}
	n := bs[0].numBatches
	seen := set.New[domain.VariableID](len(bs))
	var columns []Column
	for _, b := range bs {
		if b.numBatches != n {
			return nil, dErrors.Newf(dErrors.CodeInvariantViolation,
				"cannot merge batches of %d and %d", n, b.numBatches)
		}
		for _, c := range b.columns {
			if seen.Insert(c.Placeholder.ID()) {
				columns = append(columns, c)
			}
		}
	}
	return NewBatches(n, columns...)
}
