package usecase

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"OptionVal/internal/domain/models"
	"OptionVal/internal/montecarlo"
)

type fakeStore struct {
	stored []*models.ValuationResult
	query  []*models.ValuationResult
}

func (f *fakeStore) Init(ctx context.Context) error { return nil }
func (f *fakeStore) Store(ctx context.Context, r *models.ValuationResult) error {
	f.stored = append(f.stored, r)
	return nil
}
func (f *fakeStore) StoreBatch(ctx context.Context, rs []*models.ValuationResult) error {
	f.stored = append(f.stored, rs...)
	return nil
}
func (f *fakeStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.ValuationResult, error) {
	return f.query, nil
}
func (f *fakeStore) Health(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                     { return nil }

type fakePublisher struct {
	published []*models.ValuationResult
}

func (f *fakePublisher) Publish(ctx context.Context, r *models.ValuationResult) error {
	f.published = append(f.published, r)
	return nil
}
func (f *fakePublisher) PublishBatch(ctx context.Context, rs []*models.ValuationResult) error {
	f.published = append(f.published, rs...)
	return nil
}
func (f *fakePublisher) Close() error { return nil }

type fakeMetrics struct {
	valuations int
	errors     int
}

func (f *fakeMetrics) RecordValuation(source, symbol string)    { f.valuations++ }
func (f *fakeMetrics) RecordError(kind string)                  { f.errors++ }
func (f *fakeMetrics) RecordLastPrice(symbol string, p float64) {}
func (f *fakeMetrics) RecordLatency(op string, seconds float64) {}

type fakeSpotBook map[string]float64

func (f fakeSpotBook) LastPrice(symbol string) (float64, bool) {
	p, ok := f[symbol]
	return p, ok
}

func referenceRequest() *models.ValuationRequest {
	return &models.ValuationRequest{
		Symbol:       "TEST",
		InitialValue: 100,
		Rate:         0.04,
		Volatility:   0.25,
		Maturity:     1.0,
		Strike:       90,
		Paths:        10000,
		Steps:        10,
		Seed:         31415,
		Scheme:       "log_euler",
	}
}

func TestValuationServiceValue(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	svc := NewValuationService(store, pub, m, nil, nil, nil, 0, 0)

	res, err := svc.Value(context.Background(), referenceRequest(), "http")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	analytic := montecarlo.BlackScholesCallPrice(100, 0.04, 0.25, 1.0, 90)
	if math.Abs(res.Price-analytic) > 1.5 {
		t.Fatalf("price %v too far from analytic %v", res.Price, analytic)
	}
	if res.AnalyticPrice != analytic {
		t.Fatalf("analytic mismatch: got=%v want=%v", res.AnalyticPrice, analytic)
	}
	if res.StdError <= 0 {
		t.Fatalf("expected positive std error, got %v", res.StdError)
	}
	if res.CILow >= res.Price || res.CIHigh <= res.Price {
		t.Fatalf("confidence interval does not bracket price: [%v, %v] vs %v", res.CILow, res.CIHigh, res.Price)
	}
	if len(store.stored) != 1 || len(pub.published) != 1 {
		t.Fatalf("expected result stored and published, got %d/%d", len(store.stored), len(pub.published))
	}
	if m.valuations != 1 {
		t.Fatalf("expected one valuation recorded, got %d", m.valuations)
	}
	if res.Source != "http" {
		t.Fatalf("source not tagged: %q", res.Source)
	}
}

func TestValuationServiceDeterministic(t *testing.T) {
	svc := NewValuationService(nil, nil, &fakeMetrics{}, nil, nil, nil, 0, 0)

	r1, err := svc.Value(context.Background(), referenceRequest(), "http")
	if err != nil {
		t.Fatalf("first value: %v", err)
	}
	r2, err := svc.Value(context.Background(), referenceRequest(), "http")
	if err != nil {
		t.Fatalf("second value: %v", err)
	}
	if r1.Price != r2.Price {
		t.Fatalf("same seed must give same price: %v vs %v", r1.Price, r2.Price)
	}

	other := referenceRequest()
	other.Seed = 2718
	r3, err := svc.Value(context.Background(), other, "http")
	if err != nil {
		t.Fatalf("third value: %v", err)
	}
	if r3.Price == r1.Price {
		t.Fatalf("different seed should move the estimate")
	}
}

func TestValuationServiceBarrierLowersPrice(t *testing.T) {
	svc := NewValuationService(nil, nil, &fakeMetrics{}, nil, nil, nil, 0, 0)

	open, err := svc.Value(context.Background(), referenceRequest(), "http")
	if err != nil {
		t.Fatalf("open value: %v", err)
	}

	withBarrier := referenceRequest()
	withBarrier.Barrier = 10.0
	knocked, err := svc.Value(context.Background(), withBarrier, "http")
	if err != nil {
		t.Fatalf("barrier value: %v", err)
	}
	if knocked.Price >= open.Price {
		t.Fatalf("barrier should lower price: %v vs %v", knocked.Price, open.Price)
	}
}

func TestValuationServiceLiveSpot(t *testing.T) {
	spots := fakeSpotBook{"AAPL": 105.0}
	svc := NewValuationService(nil, nil, &fakeMetrics{}, spots, nil, nil, 0, 0)

	req := referenceRequest()
	req.Symbol = "AAPL"
	req.UseLiveSpot = true
	req.InitialValue = 0

	res, err := svc.Value(context.Background(), req, "http")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Spot != 105.0 {
		t.Fatalf("expected live spot 105, got %v", res.Spot)
	}

	req.Symbol = "MSFT"
	if _, err := svc.Value(context.Background(), req, "http"); err == nil {
		t.Fatalf("expected error for unobserved symbol")
	}
}

func TestValuationServiceAnalytic(t *testing.T) {
	svc := NewValuationService(nil, nil, &fakeMetrics{}, nil, nil, nil, 0, 0)

	call, err := svc.Analytic(&models.AnalyticRequest{Spot: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1, Strike: 100, Kind: "call"})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	put, err := svc.Analytic(&models.AnalyticRequest{Spot: 100, Rate: 0.05, Volatility: 0.2, Maturity: 1, Strike: 100, Kind: "put"})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	// put-call parity
	want := 100 - 100*math.Exp(-0.05)
	if math.Abs((call-put)-want) > 1e-9 {
		t.Fatalf("parity violated: call-put=%v want=%v", call-put, want)
	}
	if _, err := svc.Analytic(&models.AnalyticRequest{Kind: "straddle"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestValuationServiceHistory(t *testing.T) {
	store := &fakeStore{query: []*models.ValuationResult{{Symbol: "TEST", Price: 17.5}}}
	svc := NewValuationService(store, nil, &fakeMetrics{}, nil, nil, nil, 0, 0)

	rows, err := svc.History(context.Background(), &models.HistoryRequest{Symbol: "TEST"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].Price != 17.5 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
}

func TestKafkaRequestsHandler(t *testing.T) {
	store := &fakeStore{}
	m := &fakeMetrics{}
	svc := NewValuationService(store, nil, m, nil, nil, nil, 0, 0)
	h := NewKafkaRequestsHandler("valuation.requests", svc, m, nil)

	if h.Topic() != "valuation.requests" {
		t.Fatalf("unexpected topic %q", h.Topic())
	}

	msg, _ := json.Marshal(map[string]interface{}{
		"symbol":        "TEST",
		"initial_value": 100,
		"rate":          0.04,
		"volatility":    0.25,
		"maturity":      1.0,
		"strike":        90,
	})
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected stored result, got %d", len(store.stored))
	}
	if store.stored[0].Paths != 10000 || store.stored[0].Seed != 31415 {
		t.Fatalf("defaults not applied: %+v", store.stored[0])
	}

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
