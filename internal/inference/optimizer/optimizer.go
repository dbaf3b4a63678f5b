// Package optimizer maximizes a realized density by gradient ascent with
// central-difference gradients and a backtracking line search.
package optimizer

import (
	"context"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"credence/internal/inference/metrics"
	"credence/internal/inference/ports"
	"credence/internal/platform/config"
	dErrors "credence/pkg/domain-errors"
	"credence/pkg/platform/sentinel"
)

const (
	// armijo is the sufficient-increase constant of the line search.
	armijo = 1e-4
	// maxHalvings bounds backtracking before the step is declared exhausted.
	maxHalvings = 60
)

// Outcomes reported in metrics, spans and logs.
const (
	outcomeConverged     = "converged"
	outcomeStalled       = "stalled"
	outcomeMaxIterations = "max_iterations"
)

type Optimizer struct {
	cfg     config.Optimization
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Optimizer)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Optimizer) {
		o.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Optimizer) {
		o.tracer = tracer
	}
}

func New(cfg config.Optimization, opts ...Option) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Optimizer{cfg: cfg, tracer: otel.Tracer("credence/optimizer")}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Optimize starts at the origin of the unconstrained space and climbs until the
// objective changes by less than the tolerance or the iteration budget runs out.
// Running out of budget is not an error; the best point found is returned.
func (o *Optimizer) Optimize(ctx context.Context, density ports.BatchedDensity) ([]float64, error) {
	ctx, span := o.tracer.Start(ctx, "optimizer.Optimize", trace.WithAttributes(
		attribute.Int("dim", density.Dim()),
		attribute.Int("batches", density.NumBatches()),
	))
	defer span.End()

	x := make([]float64, density.Dim())
	f := density.LogDensity(x)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		err := dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeInvalidState,
			"objective is not finite at the starting point")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid start")
		return nil, err
	}

	grad := make([]float64, len(x))
	candidate := make([]float64, len(x))
	step := o.cfg.InitialStep
	outcome := outcomeMaxIterations
	iter := 0
	for iter = 1; iter <= o.cfg.MaxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			err = dErrors.Wrap(err, dErrors.CodeTimeout, "optimization interrupted")
			span.RecordError(err)
			span.SetStatus(codes.Error, "canceled")
			return nil, err
		}

		norm2 := o.gradient(density, x, grad)
		if norm2 == 0 {
			outcome = outcomeConverged
			break
		}
		if math.IsNaN(norm2) || math.IsInf(norm2, 0) {
			outcome = outcomeStalled
			break
		}

		t := step
		improved := false
		for h := 0; h < maxHalvings; h++ {
			for i := range x {
				candidate[i] = x[i] + t*grad[i]
			}
			fc := density.LogDensity(candidate)
			if !math.IsNaN(fc) && fc >= f+armijo*t*norm2 {
				improved = true
				copy(x, candidate)
				delta := fc - f
				f = fc
				if delta < o.cfg.Tolerance {
					outcome = outcomeConverged
				}
				break
			}
			t /= 2
		}
		if !improved {
			// No step along the gradient increases the objective enough.
			outcome = outcomeStalled
			break
		}
		if outcome == outcomeConverged {
			break
		}
		step = 2 * t
	}

	if iter > o.cfg.MaxIterations {
		iter = o.cfg.MaxIterations
	}
	o.metrics.ObserveOptimizer(outcome, iter)
	span.SetAttributes(
		attribute.Int("iterations", iter),
		attribute.String("outcome", outcome),
		attribute.Float64("log_density", f),
	)
	if o.logger != nil {
		level := slog.LevelDebug
		if outcome != outcomeConverged {
			level = slog.LevelWarn
		}
		o.logger.Log(ctx, level, "optimization stopped",
			"outcome", outcome,
			"iterations", iter,
			"log_density", f,
		)
	}
	return x, nil
}

// gradient fills grad with central differences and returns its squared norm.
func (o *Optimizer) gradient(density ports.BatchedDensity, x, grad []float64) float64 {
	h := o.cfg.FiniteDifference
	norm2 := 0.0
	for i := range x {
		orig := x[i]
		x[i] = orig + h
		up := density.LogDensity(x)
		x[i] = orig - h
		down := density.LogDensity(x)
		x[i] = orig
		grad[i] = (up - down) / (2 * h)
		norm2 += grad[i] * grad[i]
	}
	return norm2
}
