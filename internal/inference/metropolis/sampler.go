// Package metropolis is a random-walk Metropolis sampler over unconstrained
// parameter vectors. Step size adapts during warmup toward a target
// acceptance rate and is frozen afterwards.
package metropolis

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credence/internal/inference/metrics"
	"credence/internal/inference/ports"
	dErrors "credence/pkg/domain-errors"
	"credence/pkg/platform/sentinel"
)

const (
	defaultStepSize         = 1.0
	defaultTargetAcceptance = 0.3
	// initAttempts bounds the search for a starting point with finite density.
	initAttempts = 100
	// initRadius is the half-width of the box starting points are drawn from.
	initRadius = 2.0
	// cancelCheckEvery is how often the chain polls its context.
	cancelCheckEvery = 64
)

type Sampler struct {
	stepSize         float64
	targetAcceptance float64
	logger           *slog.Logger
	metrics          *metrics.Metrics
	tracer           trace.Tracer
}

type Option func(*Sampler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sampler) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Sampler) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Sampler) {
		s.tracer = tracer
	}
}

func WithStepSize(step float64) Option {
	return func(s *Sampler) {
		s.stepSize = step
	}
}

func WithTargetAcceptance(rate float64) Option {
	return func(s *Sampler) {
		s.targetAcceptance = rate
	}
}

func New(opts ...Option) (*Sampler, error) {
	s := &Sampler{
		stepSize:         defaultStepSize,
		targetAcceptance: defaultTargetAcceptance,
		tracer:           otel.Tracer("credence/metropolis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.stepSize <= 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "step size must be positive")
	}
	if s.targetAcceptance <= 0 || s.targetAcceptance >= 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "target acceptance must be in (0, 1)")
	}
	return s, nil
}

// chain is the mutable state of one run. It never escapes Sample.
type chain struct {
	density  ports.Density
	rng      *rand.Rand
	position []float64
	logp     float64
	proposal []float64
	step     float64
}

func (c *chain) advance() bool {
	for i, x := range c.position {
		c.proposal[i] = x + c.step*c.rng.NormFloat64()
	}
	lp := c.density.LogDensity(c.proposal)
	if math.IsNaN(lp) || math.IsInf(lp, -1) {
		return false
	}
	if lp >= c.logp || math.Log(c.rng.Float64()) < lp-c.logp {
		copy(c.position, c.proposal)
		c.logp = lp
		return true
	}
	return false
}

// Sample runs one chain: req.Warmup adapting iterations, then req.Iterations
// iterations keeping every req.KeepEvery-th position.
func (s *Sampler) Sample(ctx context.Context, density ports.Density, req ports.SampleRequest, rng *rand.Rand) ([][]float64, error) {
	ctx, span := s.tracer.Start(ctx, "metropolis.Chain", trace.WithAttributes(
		attribute.Int("dim", density.Dim()),
		attribute.Int("warmup", req.Warmup),
		attribute.Int("iterations", req.Iterations),
	))
	defer span.End()
	start := time.Now()

	if req.Iterations < 1 || req.KeepEvery < 1 || req.Warmup < 0 {
		err := dErrors.New(dErrors.CodeInvalidInput, "invalid sample request")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		return nil, err
	}

	c, err := s.initialize(density, rng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "initialization failed")
		return nil, err
	}

	for t := 0; t < req.Warmup; t++ {
		if t%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, s.canceled(ctx, span)
		}
		accepted := 0.0
		if c.advance() {
			accepted = 1
		}
		// Diminishing adaptation keeps the step bounded as warmup proceeds.
		c.step *= math.Exp((accepted - s.targetAcceptance) / math.Sqrt(float64(t+1)))
	}

	draws := make([][]float64, 0, req.Iterations/req.KeepEvery)
	accepted := 0
	for t := 0; t < req.Iterations; t++ {
		if t%cancelCheckEvery == 0 && ctx.Err() != nil {
			return nil, s.canceled(ctx, span)
		}
		if c.advance() {
			accepted++
		}
		if (t+1)%req.KeepEvery == 0 {
			draw := make([]float64, len(c.position))
			copy(draw, c.position)
			draws = append(draws, draw)
		}
	}

	rate := float64(accepted) / float64(req.Iterations)
	s.metrics.ObserveChain(time.Since(start), len(draws), rate)
	span.SetAttributes(
		attribute.Int("draws", len(draws)),
		attribute.Float64("acceptance_rate", rate),
		attribute.Float64("step_size", c.step),
	)
	if s.logger != nil {
		s.logger.DebugContext(ctx, "chain complete",
			"draws", len(draws),
			"acceptance_rate", rate,
			"step_size", c.step,
		)
	}
	return draws, nil
}

func (s *Sampler) initialize(density ports.Density, rng *rand.Rand) (*chain, error) {
	dim := density.Dim()
	c := &chain{
		density:  density,
		rng:      rng,
		position: make([]float64, dim),
		proposal: make([]float64, dim),
		step:     s.stepSize,
	}
	for attempt := 0; attempt < initAttempts; attempt++ {
		for i := range c.position {
			c.position[i] = initRadius * (2*rng.Float64() - 1)
		}
		c.logp = density.LogDensity(c.position)
		if !math.IsNaN(c.logp) && !math.IsInf(c.logp, 0) {
			return c, nil
		}
	}
	return nil, dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeInvalidState,
		"no starting point with finite density")
}

func (s *Sampler) canceled(ctx context.Context, span trace.Span) error {
	err := dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "chain interrupted")
	span.RecordError(err)
	span.SetStatus(codes.Error, "canceled")
	return err
}
