package config

import (
	dErrors "credence/pkg/domain-errors"
)

// Sampling captures multi-chain sampling configuration.
type Sampling struct {
	Chains     int
	Warmup     int
	Iterations int
	KeepEvery  int
	// Seed makes runs reproducible; chain i draws from a stream derived from (Seed, i).
	Seed uint64
}

// Optimization captures optimizer configuration.
type Optimization struct {
	MaxIterations int
	// Tolerance is the absolute change in log-density below which the optimizer stops.
	Tolerance   float64
	InitialStep float64
	// FiniteDifference is the step used for central-difference gradients.
	FiniteDifference float64
}

// DefaultSampling returns settings suitable for small models.
func DefaultSampling() Sampling {
	return Sampling{
		Chains:     4,
		Warmup:     1000,
		Iterations: 1000,
		KeepEvery:  1,
		Seed:       1,
	}
}

// DefaultOptimization returns settings suitable for smooth, low-dimensional objectives.
func DefaultOptimization() Optimization {
	return Optimization{
		MaxIterations:    1000,
		Tolerance:        1e-9,
		InitialStep:      1,
		FiniteDifference: 1e-5,
	}
}

// Validate rejects settings no sampler can honor.
func (s Sampling) Validate() error {
	switch {
	case s.Chains < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "chains must be at least 1")
	case s.Warmup < 0:
		return dErrors.New(dErrors.CodeInvalidInput, "warmup must not be negative")
	case s.Iterations < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "iterations must be at least 1")
	case s.KeepEvery < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "keep_every must be at least 1")
	}
	return nil
}

// Validate rejects settings no optimizer can honor.
func (o Optimization) Validate() error {
	switch {
	case o.MaxIterations < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "max_iterations must be at least 1")
	case o.Tolerance <= 0:
		return dErrors.New(dErrors.CodeInvalidInput, "tolerance must be positive")
	case o.InitialStep <= 0:
		return dErrors.New(dErrors.CodeInvalidInput, "initial_step must be positive")
	case o.FiniteDifference <= 0:
		return dErrors.New(dErrors.CodeInvalidInput, "finite_difference must be positive")
	}
	return nil
}
