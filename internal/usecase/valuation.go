package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"OptionVal/internal/domain/models"
	drepo "OptionVal/internal/domain/repository"
	"OptionVal/internal/montecarlo"
	icache "OptionVal/internal/service/cache"
	smetrics "OptionVal/internal/service/metrics"
	pkgcache "OptionVal/pkg/cache"
	"OptionVal/pkg/logger"
	"OptionVal/pkg/util"
)

// confidenceZ is the z-score for the 95% interval reported with every price.
const confidenceZ = 1.96

// ValuationService runs Monte Carlo valuations and manages the surrounding
// plumbing: spot resolution, caching, persistence and publishing.
type ValuationService struct {
	store   drepo.ResultStore
	pub     drepo.Publisher
	metrics drepo.Metrics
	spots   drepo.SpotBook

	sims    *icache.TTLCache // keyed by model parameters, holds *montecarlo.MonteCarloAssetModel
	results pkgcache.Service // serialized ValuationResult, may be nil
	log     *logger.Logger

	simTTL    time.Duration
	resultTTL time.Duration
}

func NewValuationService(
	store drepo.ResultStore,
	pub drepo.Publisher,
	metrics drepo.Metrics,
	spots drepo.SpotBook,
	results pkgcache.Service,
	log *logger.Logger,
	simTTL, resultTTL time.Duration,
) *ValuationService {
	if simTTL <= 0 {
		simTTL = 5 * time.Minute
	}
	if resultTTL <= 0 {
		resultTTL = time.Minute
	}
	return &ValuationService{
		store:     store,
		pub:       pub,
		metrics:   metrics,
		spots:     spots,
		sims:      icache.NewTTLCache(),
		results:   results,
		log:       log,
		simTTL:    simTTL,
		resultTTL: resultTTL,
	}
}

// Value prices one European option. source tags where the request came from
// ("http" or "kafka") for metrics and persistence.
func (s *ValuationService) Value(ctx context.Context, req *models.ValuationRequest, source string) (*models.ValuationResult, error) {
	start := time.Now()

	spot := req.InitialValue
	if req.UseLiveSpot {
		if s.spots == nil {
			return nil, fmt.Errorf("live spot requested but no market feed configured")
		}
		p, ok := s.spots.LastPrice(req.Symbol)
		if !ok {
			return nil, fmt.Errorf("no live spot observed yet for %q", req.Symbol)
		}
		spot = p
	}
	if spot <= 0 {
		return nil, fmt.Errorf("initial value must be positive, got %v", spot)
	}

	dt := req.StepSize
	if dt == 0 {
		dt = req.Maturity / float64(req.Steps)
	}
	scheme := montecarlo.ParseScheme(req.Scheme)

	rkey := resultKey(req, spot, dt)
	if s.results != nil {
		var raw string
		if err := s.results.Get(ctx, rkey, &raw); err == nil {
			var cached models.ValuationResult
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				cached.Cached = true
				cached.Source = source
				s.metrics.RecordValuation(source, req.Symbol)
				return &cached, nil
			}
		} else if !errors.Is(err, pkgcache.ErrCacheMiss) && s.log != nil {
			s.log.Warn("result cache lookup failed", logger.Error(err))
		}
	}

	sim, err := s.simulation(spot, req, dt, scheme)
	if err != nil {
		s.metrics.RecordError("simulation")
		return nil, err
	}

	barrier := montecarlo.NoBarrier()
	if req.Barrier > 0 {
		barrier = req.Barrier
	}
	var opt *montecarlo.EuropeanOption
	if req.Symbol != "" {
		opt = montecarlo.NewEuropeanOptionNamed(req.Maturity, req.Strike, barrier, req.Symbol)
	} else {
		opt = montecarlo.NewEuropeanOption(req.Maturity, req.Strike, barrier, 0)
	}

	values, err := opt.Value(req.EvaluationTime, sim)
	if err != nil {
		s.metrics.RecordError("valuation")
		return nil, err
	}

	price := values.Average()
	se := values.StdError()
	analytic := montecarlo.BlackScholesCallPrice(spot, req.Rate, req.Volatility, req.Maturity-req.EvaluationTime, req.Strike)

	res := &models.ValuationResult{
		Symbol:         req.Symbol,
		Price:          price,
		StdError:       se,
		CILow:          price - confidenceZ*se,
		CIHigh:         price + confidenceZ*se,
		AnalyticPrice:  analytic,
		Spot:           spot,
		Rate:           req.Rate,
		Volatility:     req.Volatility,
		Maturity:       req.Maturity,
		Strike:         req.Strike,
		Barrier:        req.Barrier,
		EvaluationTime: req.EvaluationTime,
		Paths:          req.Paths,
		Steps:          req.Steps,
		Seed:           req.Seed,
		Scheme:         string(scheme),
		Source:         source,
		Elapsed:        time.Since(start),
		CreatedAt:      time.Now().UTC(),
	}

	// The analytic price only references the MC one when no barrier skews it.
	if req.Barrier <= 0 {
		smetrics.AnalyticDeviation.Observe(abs(price - analytic))
	}

	s.persist(ctx, res)

	if s.results != nil {
		if b, err := json.Marshal(res); err == nil {
			if err := s.results.Set(ctx, rkey, string(b), s.resultTTL); err != nil && s.log != nil {
				s.log.Warn("result cache store failed", logger.Error(err))
			}
		}
	}

	s.metrics.RecordValuation(source, req.Symbol)
	s.metrics.RecordLatency("valuation", time.Since(start).Seconds())
	return res, nil
}

// Analytic returns the closed-form Black-Scholes price for a call or put.
func (s *ValuationService) Analytic(req *models.AnalyticRequest) (float64, error) {
	switch req.Kind {
	case "put":
		return montecarlo.BlackScholesPutPrice(req.Spot, req.Rate, req.Volatility, req.Maturity, req.Strike), nil
	case "call", "":
		return montecarlo.BlackScholesCallPrice(req.Spot, req.Rate, req.Volatility, req.Maturity, req.Strike), nil
	default:
		return 0, fmt.Errorf("unknown option kind %q", req.Kind)
	}
}

// History returns stored valuations for a symbol within a time range.
func (s *ValuationService) History(ctx context.Context, req *models.HistoryRequest) ([]*models.ValuationResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("no result store configured")
	}
	now := time.Now().UTC()
	from := util.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, now)
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.store.Query(ctx, req.Symbol, from, to, limit)
}

// simulation returns a cached asset model for the parameter set, generating
// one on a miss. Reuse is sound because models are immutable after creation
// and seeded draws are deterministic.
func (s *ValuationService) simulation(spot float64, req *models.ValuationRequest, dt float64, scheme montecarlo.Scheme) (montecarlo.Simulation, error) {
	key := simKey(spot, req, dt, scheme)
	if v, ok := s.sims.Get(key); ok {
		if sim, ok2 := v.(montecarlo.Simulation); ok2 {
			smetrics.SimulationCacheHits.WithLabelValues("hit").Inc()
			return sim, nil
		}
	}
	smetrics.SimulationCacheHits.WithLabelValues("miss").Inc()

	grid, err := montecarlo.NewTimeGrid(0.0, req.Steps, dt)
	if err != nil {
		return nil, err
	}
	model := montecarlo.NewBlackScholesModel(spot, req.Rate, req.Volatility)
	bm, err := montecarlo.NewBrownianMotion(grid, 1, req.Paths, montecarlo.NewSeededSource(req.Seed))
	if err != nil {
		return nil, err
	}
	process, err := montecarlo.NewEulerScheme(bm, scheme)
	if err != nil {
		return nil, err
	}
	sim := montecarlo.NewMonteCarloAssetModel(model, process)
	if req.Symbol != "" {
		sim.SetUnderlyingNames([]string{req.Symbol})
	}
	smetrics.SimulatedPaths.Add(float64(req.Paths))

	s.sims.Set(key, sim, s.simTTL)
	return sim, nil
}

// persist writes the result to the store and the results topic. Failures are
// logged and counted, they do not fail the valuation itself.
func (s *ValuationService) persist(ctx context.Context, res *models.ValuationResult) {
	if s.store != nil {
		if err := s.store.Store(ctx, res); err != nil {
			s.metrics.RecordError("store")
			if s.log != nil {
				s.log.Error("store valuation failed", logger.Error(err), logger.String("symbol", res.Symbol))
			}
		}
	}
	if s.pub != nil {
		if err := s.pub.Publish(ctx, res); err != nil {
			s.metrics.RecordError("publish")
			if s.log != nil {
				s.log.Error("publish valuation failed", logger.Error(err), logger.String("symbol", res.Symbol))
			}
		}
	}
}

func simKey(spot float64, req *models.ValuationRequest, dt float64, scheme montecarlo.Scheme) string {
	// Symbol is part of the key: the cached model carries the underlying name.
	return pkgcache.GenerateKeyWithParams("sim",
		req.Symbol, spot, req.Rate, req.Volatility, req.Steps, req.Paths, dt, req.Seed, scheme)
}

func resultKey(req *models.ValuationRequest, spot, dt float64) string {
	return pkgcache.GenerateKeyWithParams("val",
		req.Symbol, spot, req.Rate, req.Volatility, req.Maturity, req.Strike,
		req.Barrier, req.EvaluationTime, req.Paths, req.Steps, dt, req.Seed, req.Scheme)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
