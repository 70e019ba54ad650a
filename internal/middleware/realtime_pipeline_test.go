package middleware

import (
	"context"
	"testing"
	"time"

	"OptionVal/internal/domain/models"
)

type sinkFunc func(ctx context.Context, q *models.SpotQuote) error

func (f sinkFunc) Accept(ctx context.Context, q *models.SpotQuote) error { return f(ctx, q) }

type nopMetrics struct{}

func (nopMetrics) RecordValuation(source, symbol string)    {}
func (nopMetrics) RecordError(kind string)                  {}
func (nopMetrics) RecordLastPrice(symbol string, p float64) {}
func (nopMetrics) RecordLatency(op string, seconds float64) {}

func TestPipelineValidation(t *testing.T) {
	var got []*models.SpotQuote
	sink := sinkFunc(func(ctx context.Context, q *models.SpotQuote) error {
		got = append(got, q)
		return nil
	})
	p := NewRealtimePipeline(sink, nopMetrics{})

	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil quote")
	}
	if err := p.Process(context.Background(), &models.SpotQuote{Symbol: "", Timestamp: 1, Price: 1}); err == nil {
		t.Fatalf("expected error for empty symbol")
	}
	if err := p.Process(context.Background(), &models.SpotQuote{Symbol: "X", Timestamp: 1, Price: -1}); err == nil {
		t.Fatalf("expected error for negative price")
	}

	ok := &models.SpotQuote{Symbol: "X", Timestamp: time.Now().Unix(), Price: 100, Volume: 1}
	if err := p.Process(context.Background(), ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected one forwarded quote, got %d", len(got))
	}
}

func TestPipelineThrottle(t *testing.T) {
	var count int
	sink := sinkFunc(func(ctx context.Context, q *models.SpotQuote) error {
		count++
		return nil
	})
	p := NewRealtimePipeline(sink, nopMetrics{}, WithMaxRPS(1))

	q := &models.SpotQuote{Symbol: "X", Timestamp: time.Now().Unix(), Price: 100}
	// back-to-back quotes for the same symbol, second one is dropped
	if err := p.Process(context.Background(), q); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := p.Process(context.Background(), q); err != nil {
		t.Fatalf("second (throttled) should not error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected throttle to drop second quote, forwarded %d", count)
	}
}
