// Package ports defines the narrow contracts between the composition core and
// the inference collaborators that consume a realized density.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"math/rand/v2"
)

// Density is a realized log-density over an unconstrained parameter vector.
type Density interface {
	Dim() int
	LogDensity(params []float64) float64
}

// BatchedDensity is a realized density whose likelihood terms are split into
// mini-batches. LogDensity covers every batch, with batch-independent terms
// counted once.
type BatchedDensity interface {
	Density
	NumBatches() int
}

// SampleRequest tells a sampler how long to run one chain.
type SampleRequest struct {
	Warmup     int
	Iterations int
	KeepEvery  int
}

// Sampler draws raw parameter vectors for one chain. Implementations must not
// share mutable state between calls; each chain gets its own rng.
type Sampler interface {
	Sample(ctx context.Context, density Density, req SampleRequest, rng *rand.Rand) ([][]float64, error)
}

// Optimizer finds a parameter vector maximizing the density.
type Optimizer interface {
	Optimize(ctx context.Context, density BatchedDensity) ([]float64, error)
}

// Diagnostic summarizes convergence of one parameter across chains.
type Diagnostic struct {
	RHat                float64
	EffectiveSampleSize float64
}

// Diagnostician computes per-parameter diagnostics once every chain has finished.
// chains is indexed [chain][draw][parameter].
type Diagnostician interface {
	Diagnose(chains [][][]float64) ([]Diagnostic, error)
}
