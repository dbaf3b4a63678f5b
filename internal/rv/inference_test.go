package rv_test

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"credence/internal/distributions"
	"credence/internal/inference/metrics"
	"credence/internal/inference/metropolis"
	"credence/internal/inference/optimizer"
	"credence/internal/inference/ports"
	"credence/internal/inference/ports/mocks"
	"credence/internal/platform/config"
	"credence/internal/platform/logger"
	"credence/internal/real"
	"credence/internal/rv"
	dErrors "credence/pkg/domain-errors"
	"credence/pkg/platform/sentinel"
)

// =============================================================================
// Terminal Operations Test Suite
// =============================================================================
// Justification for unit tests: chain fan-out, the batched-program guard and
// extraction order are only observable at the boundary with the sampler and
// optimizer, which are mocked here.

type TerminalSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	sampler   *mocks.MockSampler
	optimizer *mocks.MockOptimizer
	diag      *mocks.MockDiagnostician
	metrics   *metrics.Metrics
	cfg       config.Sampling
}

func TestTerminalSuite(t *testing.T) {
	suite.Run(t, new(TerminalSuite))
}

func (s *TerminalSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.sampler = mocks.NewMockSampler(s.ctrl)
	s.optimizer = mocks.NewMockOptimizer(s.ctrl)
	s.diag = mocks.NewMockDiagnostician(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.cfg = config.Sampling{Chains: 2, Warmup: 10, Iterations: 20, KeepEvery: 10, Seed: 7}
}

func (s *TerminalSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *TerminalSuite) opts() []rv.Option {
	return []rv.Option{rv.WithLogger(logger.Discard()), rv.WithMetrics(s.metrics)}
}

func (s *TerminalSuite) batchedProgram() *rv.RandomVariable[real.Real] {
	mu := distributions.NewNormal(real.Zero, real.One).Param()
	return rv.FlatMap(mu, func(m real.Real) *rv.RandomVariable[real.Real] {
		fit, err := distributions.FitBatched(distributions.NewNormal(m, real.One), []float64{1, 2, 3, 4}, 2)
		s.Require().NoError(err)
		return rv.Map(fit, func(rv.Unit) real.Real { return m })
	})
}

// =============================================================================
// Batched Program Guard Tests
// =============================================================================

func (s *TerminalSuite) TestBatchedProgramsCannotBeSampled() {
	ctx := context.Background()
	p := s.batchedProgram()

	s.Run("sample", func() {
		_, err := rv.Sample(ctx, p, rv.RealValue(), s.sampler, s.cfg, s.opts()...)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.True(errors.Is(err, sentinel.ErrInvalidState))
	})

	s.Run("get", func() {
		_, err := rv.Get(ctx, p, rv.RealValue(), s.sampler, s.cfg, s.opts()...)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("sample with diagnostics", func() {
		_, _, err := rv.SampleWithDiagnostics(ctx, p, rv.RealValue(), s.sampler, s.diag, s.cfg, s.opts()...)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.RejectedOperations.WithLabelValues("sample")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RejectedOperations.WithLabelValues("get")))
}

// =============================================================================
// Sampling Tests
// =============================================================================

func (s *TerminalSuite) TestSample() {
	ctx := context.Background()
	p := distributions.Unbounded{}.Param()
	req := ports.SampleRequest{Warmup: 10, Iterations: 20, KeepEvery: 10}

	s.Run("runs one chain per configured chain and concatenates draws", func() {
		s.sampler.EXPECT().
			Sample(gomock.Any(), gomock.Any(), req, gomock.Any()).
			DoAndReturn(func(_ context.Context, d ports.Density, _ ports.SampleRequest, _ *rand.Rand) ([][]float64, error) {
				s.Equal(1, d.Dim())
				return [][]float64{{1.5}, {2.5}}, nil
			}).
			Times(2)

		draws, err := rv.Sample(ctx, p, rv.RealValue(), s.sampler, s.cfg, s.opts()...)
		s.Require().NoError(err)
		s.Equal([]float64{1.5, 2.5, 1.5, 2.5}, draws)
	})

	s.Run("sampler failure is wrapped", func() {
		s.sampler.EXPECT().
			Sample(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("boom")).
			AnyTimes()

		_, err := rv.Sample(ctx, p, rv.RealValue(), s.sampler, s.cfg, s.opts()...)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *TerminalSuite) TestSampleValidation() {
	ctx := context.Background()
	p := distributions.Unbounded{}.Param()

	s.Run("nil sampler", func() {
		_, err := rv.Sample(ctx, p, rv.RealValue(), nil, s.cfg)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("invalid config", func() {
		cfg := s.cfg
		cfg.Chains = 0
		_, err := rv.Sample(ctx, p, rv.RealValue(), s.sampler, cfg)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("nil diagnostician", func() {
		_, _, err := rv.SampleWithDiagnostics(ctx, p, rv.RealValue(), s.sampler, nil, s.cfg)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *TerminalSuite) TestGetReturnsLastDrawOfOneChain() {
	p := distributions.Unbounded{}.Param()
	s.sampler.EXPECT().
		Sample(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([][]float64{{1}, {2}, {3}}, nil).
		Times(1)

	v, err := rv.Get(context.Background(), p, rv.RealValue(), s.sampler, s.cfg, s.opts()...)
	s.Require().NoError(err)
	s.Equal(3.0, v)
}

func (s *TerminalSuite) TestSampleWithDiagnosticsSeesEveryChain() {
	p := distributions.Unbounded{}.Param()
	s.sampler.EXPECT().
		Sample(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([][]float64{{1}, {2}}, nil).
		Times(2)
	want := []ports.Diagnostic{{RHat: 1.01, EffectiveSampleSize: 3}}
	s.diag.EXPECT().
		Diagnose(gomock.Len(2)).
		Return(want, nil)

	draws, diagnostics, err := rv.SampleWithDiagnostics(context.Background(), p, rv.RealValue(), s.sampler, s.diag, s.cfg, s.opts()...)
	s.Require().NoError(err)
	s.Len(draws, 4)
	s.Equal(want, diagnostics)
}

func (s *TerminalSuite) TestExtractionIncludesPayloadOnlyParameters() {
	// y never enters the density but is still realized as a parameter.
	x := distributions.NewNormal(real.Zero, real.One).Param()
	y := real.NewParameter()
	p := rv.Map(x, func(v real.Real) []real.Real { return []real.Real{v, y} })

	s.sampler.EXPECT().
		Sample(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d ports.Density, _ ports.SampleRequest, _ *rand.Rand) ([][]float64, error) {
			s.Equal(2, d.Dim())
			return [][]float64{{0.25, -1}}, nil
		})

	v, err := rv.Get(context.Background(), p, rv.RealSlice(), s.sampler, s.cfg)
	s.Require().NoError(err)
	s.Equal([]float64{0.25, -1}, v)
}

// =============================================================================
// Optimization Tests
// =============================================================================

func (s *TerminalSuite) TestOptimizeHandsOverMergedBatches() {
	p := s.batchedProgram()
	s.optimizer.EXPECT().
		Optimize(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d ports.BatchedDensity) ([]float64, error) {
			s.Equal(1, d.Dim())
			s.Equal(2, d.NumBatches())
			s.False(math.IsNaN(d.LogDensity([]float64{0})))
			return []float64{2.5}, nil
		})

	v, err := rv.Optimize(context.Background(), p, rv.RealValue(), s.optimizer, s.opts()...)
	s.Require().NoError(err)
	s.InDelta(2.5, v, 1e-12)
}

func (s *TerminalSuite) TestOptimizeFailures() {
	p := distributions.Unbounded{}.Param()

	s.Run("nil optimizer", func() {
		_, err := rv.Optimize(context.Background(), p, rv.RealValue(), nil)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("optimum of the wrong dimension fails extraction", func() {
		s.optimizer.EXPECT().
			Optimize(gomock.Any(), gomock.Any()).
			Return([]float64{1, 2}, nil)

		_, err := rv.Optimize(context.Background(), p, rv.RealValue(), s.optimizer)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		s.Contains(err.Error(), "failed to extract optimum")
	})

	s.Run("cancellation maps to timeout", func() {
		s.optimizer.EXPECT().
			Optimize(gomock.Any(), gomock.Any()).
			Return(nil, context.Canceled)

		_, err := rv.Optimize(context.Background(), p, rv.RealValue(), s.optimizer)
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

// =============================================================================
// End-to-End Tests
// =============================================================================
// Justification: these exercise composition, realization and the built-in
// inference collaborators together on models with known answers.

type EndToEndSuite struct {
	suite.Suite
	data []float64
}

func TestEndToEndSuite(t *testing.T) {
	suite.Run(t, new(EndToEndSuite))
}

func (s *EndToEndSuite) SetupTest() {
	s.data = []float64{1, 2, 3, 4, 5, 6}
}

func (s *EndToEndSuite) optimizer() *optimizer.Optimizer {
	o, err := optimizer.New(config.DefaultOptimization())
	s.Require().NoError(err)
	return o
}

// posteriorMode of a Normal(m, 1) likelihood under a Normal(0, 10) prior on m.
func (s *EndToEndSuite) posteriorMode() float64 {
	sum := 0.0
	for _, x := range s.data {
		sum += x
	}
	return sum / (float64(len(s.data)) + 0.01)
}

func (s *EndToEndSuite) TestObserveThenOptimizeRecoversPosteriorMode() {
	mu := distributions.NewNormal(real.Zero, real.Const(10)).Param()
	likelihood := rv.Map(mu, func(m real.Real) distributions.Normal {
		return distributions.NewNormal(m, real.One)
	})
	model := rv.Map(rv.Observe(likelihood, s.data), func(n distributions.Normal) real.Real { return n.Mean })

	got, err := rv.Optimize(context.Background(), model, rv.RealValue(), s.optimizer())
	s.Require().NoError(err)
	s.InDelta(s.posteriorMode(), got, 1e-3)
}

func (s *EndToEndSuite) TestBatchedOptimumMatchesUnbatched() {
	build := func(batches int) *rv.RandomVariable[real.Real] {
		mu := distributions.NewNormal(real.Zero, real.Const(10)).Param()
		return rv.FlatMap(mu, func(m real.Real) *rv.RandomVariable[real.Real] {
			fit, err := distributions.FitBatched(distributions.NewNormal(m, real.One), s.data, batches)
			s.Require().NoError(err)
			return rv.Map(fit, func(rv.Unit) real.Real { return m })
		})
	}

	unbatched, err := rv.Optimize(context.Background(), build(1), rv.RealValue(), s.optimizer())
	s.Require().NoError(err)
	batched, err := rv.Optimize(context.Background(), build(3), rv.RealValue(), s.optimizer())
	s.Require().NoError(err)

	s.InDelta(unbatched, batched, 1e-3)
	s.InDelta(s.posteriorMode(), batched, 1e-3)
}

func (s *EndToEndSuite) TestConditionRestrictsSupport() {
	x := distributions.NewUniform(real.Zero, real.One).Param()
	conditioned := x.Condition(func(v real.Real) real.Real {
		return real.IfGreater(v, real.Const(0.5), real.Zero, real.NegInf)
	})

	sampler, err := metropolis.New()
	s.Require().NoError(err)
	cfg := config.Sampling{Chains: 4, Warmup: 500, Iterations: 2000, KeepEvery: 2, Seed: 11}

	draws, err := rv.Sample(context.Background(), conditioned, rv.RealValue(), sampler, cfg)
	s.Require().NoError(err)
	s.Len(draws, 4*1000)

	sum := 0.0
	for _, d := range draws {
		s.Greater(d, 0.5)
		s.Less(d, 1.0)
		sum += d
	}
	s.InDelta(0.75, sum/float64(len(draws)), 0.05)
}

func (s *EndToEndSuite) TestPosteriorPredictiveDraws() {
	mu := distributions.NewNormal(real.Zero, real.One).Param()
	predictive := rv.Map(mu, func(m real.Real) rv.Generator[float64] {
		return distributions.NewNormal(m, real.Const(0.1)).Generator()
	})

	sampler, err := metropolis.New()
	s.Require().NoError(err)
	cfg := config.Sampling{Chains: 2, Warmup: 200, Iterations: 400, KeepEvery: 4, Seed: 3}

	draws, err := rv.Sample(context.Background(), predictive, rv.Generated[float64](), sampler, cfg)
	s.Require().NoError(err)
	s.Len(draws, 200)
	for _, d := range draws {
		s.False(math.IsNaN(d))
	}
}

func (s *EndToEndSuite) TestSameSeedReproducesDraws() {
	// Neither parameter enters the density, so their positions in the
	// parameter vector come from the payload alone.
	payload := rv.Map(rv.Zip(distributions.Unbounded{}.Param(), distributions.Unbounded{}.Param()),
		func(p rv.Pair[real.Real, real.Real]) map[string]real.Real {
			return map[string]real.Real{"a": p.First, "b": p.Second, "c": real.Add(p.First, p.Second)}
		})

	sampler, err := metropolis.New()
	s.Require().NoError(err)
	cfg := config.Sampling{Chains: 2, Warmup: 20, Iterations: 40, KeepEvery: 10, Seed: 3}

	first, err := rv.Sample(context.Background(), payload, rv.RealMap[string](), sampler, cfg)
	s.Require().NoError(err)
	for run := 0; run < 10; run++ {
		again, err := rv.Sample(context.Background(), payload, rv.RealMap[string](), sampler, cfg)
		s.Require().NoError(err)
		s.Equal(first, again, "run %d", run)
	}
}

func (s *EndToEndSuite) TestRealMapListsRealsInKeyOrder() {
	a, b, c := real.NewParameter(), real.NewParameter(), real.NewParameter()
	m := map[string]real.Real{"c": c, "a": a, "b": b}

	for i := 0; i < 10; i++ {
		s.Equal([]real.Real{a, b, c}, rv.RealMap[string]().Reals(m))
	}
}
