package rv

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"credence/internal/inference/metrics"
	"credence/internal/inference/ports"
	"credence/internal/platform/config"
	"credence/internal/real"
	"credence/pkg/domain"
	dErrors "credence/pkg/domain-errors"
	"credence/pkg/platform/sentinel"
)

type runOptions struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// Option configures a terminal operation.
type Option func(*runOptions)

func WithLogger(logger *slog.Logger) Option {
	return func(o *runOptions) {
		o.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *runOptions) {
		o.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *runOptions) {
		o.tracer = tracer
	}
}

func newRunOptions(opts []Option) *runOptions {
	o := &runOptions{tracer: otel.Tracer("credence/rv")}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sample runs cfg.Chains chains in parallel and returns every kept draw,
// chain by chain. p must carry no batches.
func Sample[T, U any](
	ctx context.Context,
	p *RandomVariable[T],
	s Sampleable[T, U],
	sampler ports.Sampler,
	cfg config.Sampling,
	opts ...Option,
) ([]U, error) {
	o := newRunOptions(opts)
	ctx, span := o.tracer.Start(ctx, "rv.Sample", trace.WithAttributes(attribute.Int("chains", cfg.Chains)))
	defer span.End()

	draws, _, err := sampleChains(ctx, o, "sample", p, s, sampler, nil, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sampling failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("draws", len(draws)))
	return draws, nil
}

// SampleWithDiagnostics is Sample followed by diagnostics computed once every
// chain has finished.
func SampleWithDiagnostics[T, U any](
	ctx context.Context,
	p *RandomVariable[T],
	s Sampleable[T, U],
	sampler ports.Sampler,
	diagnostician ports.Diagnostician,
	cfg config.Sampling,
	opts ...Option,
) ([]U, []ports.Diagnostic, error) {
	if diagnostician == nil {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "diagnostician is required")
	}
	o := newRunOptions(opts)
	ctx, span := o.tracer.Start(ctx, "rv.SampleWithDiagnostics", trace.WithAttributes(attribute.Int("chains", cfg.Chains)))
	defer span.End()

	draws, diagnostics, err := sampleChains(ctx, o, "sample_with_diagnostics", p, s, sampler, diagnostician, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sampling failed")
		return nil, nil, err
	}
	return draws, diagnostics, nil
}

// Get runs a single chain and returns its last kept draw.
func Get[T, U any](
	ctx context.Context,
	p *RandomVariable[T],
	s Sampleable[T, U],
	sampler ports.Sampler,
	cfg config.Sampling,
	opts ...Option,
) (U, error) {
	var zero U
	o := newRunOptions(opts)
	ctx, span := o.tracer.Start(ctx, "rv.Get")
	defer span.End()

	cfg.Chains = 1
	draws, _, err := sampleChains(ctx, o, "get", p, s, sampler, nil, cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sampling failed")
		return zero, err
	}
	if len(draws) == 0 {
		return zero, dErrors.New(dErrors.CodeInternal, "sampler returned no draws")
	}
	return draws[len(draws)-1], nil
}

func sampleChains[T, U any](
	ctx context.Context,
	o *runOptions,
	operation string,
	p *RandomVariable[T],
	s Sampleable[T, U],
	sampler ports.Sampler,
	diagnostician ports.Diagnostician,
	cfg config.Sampling,
) ([]U, []ports.Diagnostic, error) {
	if sampler == nil {
		return nil, nil, dErrors.New(dErrors.CodeInvalidInput, "sampler is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := o.requireUnbatched(ctx, operation, p.batches); err != nil {
		return nil, nil, err
	}

	rctx := real.NewContext(p.Density(), s.Reals(p.value)...)
	extract := s.Prepare(p.value, rctx)
	req := ports.SampleRequest{Warmup: cfg.Warmup, Iterations: cfg.Iterations, KeepEvery: cfg.KeepEvery}

	chains := make([][][]float64, cfg.Chains)
	g, gctx := errgroup.WithContext(ctx)
	for i := range chains {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
			draws, err := sampler.Sample(gctx, rctx, req, rng)
			if err != nil {
				return err
			}
			chains[i] = draws
			if o.logger != nil {
				o.logger.DebugContext(gctx, "chain finished",
					"chain", i,
					"draws", len(draws),
				)
			}
			return nil
		})
	}
	// Join: diagnostics only see chains once all of them completed.
	if err := g.Wait(); err != nil {
		return nil, nil, wrapInferenceError(err, "sampling failed")
	}

	var diagnostics []ports.Diagnostic
	if diagnostician != nil {
		d, err := diagnostician.Diagnose(chains)
		if err != nil {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "diagnostics failed")
		}
		diagnostics = d
	}

	// Extraction draws from its own stream so chains stay independent of it.
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(cfg.Chains)))
	var out []U
	for _, chain := range chains {
		for _, params := range chain {
			u, err := extract(params, rng)
			if err != nil {
				return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to extract draw")
			}
			out = append(out, u)
		}
	}

	if o.logger != nil {
		o.logger.InfoContext(ctx, "sampling finished",
			"operation", operation,
			"chains", cfg.Chains,
			"parameters", rctx.Dim(),
			"draws", len(out),
		)
	}
	return out, diagnostics, nil
}

// Optimize merges every batch descriptor into one, realizes the density and
// hands both to optimizer. The payload is extracted at the optimum.
func Optimize[T, U any](
	ctx context.Context,
	p *RandomVariable[T],
	s Sampleable[T, U],
	optimizer ports.Optimizer,
	opts ...Option,
) (U, error) {
	var zero U
	if optimizer == nil {
		return zero, dErrors.New(dErrors.CodeInvalidInput, "optimizer is required")
	}
	o := newRunOptions(opts)
	ctx, span := o.tracer.Start(ctx, "rv.Optimize")
	defer span.End()

	density, err := newBatchedDensity(p, s.Reals(p.value))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid batches")
		return zero, err
	}
	span.SetAttributes(
		attribute.Int("parameters", density.Dim()),
		attribute.Int("batches", density.NumBatches()),
	)

	params, err := optimizer.Optimize(ctx, density)
	if err != nil {
		err = wrapInferenceError(err, "optimization failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "optimization failed")
		return zero, err
	}

	extract := s.Prepare(p.value, density.ctx)
	u, err := extract(params, rand.New(rand.NewPCG(0, 0)))
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to extract optimum")
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return zero, err
	}

	if o.logger != nil {
		o.logger.InfoContext(ctx, "optimization finished",
			"parameters", density.Dim(),
			"batches", density.NumBatches(),
		)
	}
	return u, nil
}

func (o *runOptions) requireUnbatched(ctx context.Context, operation string, batches map[domain.BatchID]*Batches) error {
	if len(batches) == 0 {
		return nil
	}
	o.metrics.IncrementRejected(operation)
	if o.logger != nil {
		o.logger.WarnContext(ctx, "refusing to sample a batched program",
			"operation", operation,
			"batches", len(batches),
		)
	}
	return dErrors.Wrap(sentinel.ErrInvalidState, dErrors.CodeInvalidState,
		"cannot sample a program with batches; use Optimize")
}

func wrapInferenceError(err error, msg string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
