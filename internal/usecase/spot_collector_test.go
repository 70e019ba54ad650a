package usecase

import (
	"context"
	"testing"

	"OptionVal/internal/domain/models"
)

func TestSpotCollectorLastPrice(t *testing.T) {
	c := NewSpotCollector(nil, &fakeMetrics{})

	if _, ok := c.LastPrice("AAPL"); ok {
		t.Fatalf("expected no price before any quote")
	}

	_ = c.Accept(context.Background(), &models.SpotQuote{Symbol: "AAPL", Price: 101, Timestamp: 100})
	if p, ok := c.LastPrice("AAPL"); !ok || p != 101 {
		t.Fatalf("expected 101, got %v ok=%v", p, ok)
	}

	// newer quote replaces
	_ = c.Accept(context.Background(), &models.SpotQuote{Symbol: "AAPL", Price: 102, Timestamp: 200})
	if p, _ := c.LastPrice("AAPL"); p != 102 {
		t.Fatalf("expected 102, got %v", p)
	}

	// stale quote is ignored
	_ = c.Accept(context.Background(), &models.SpotQuote{Symbol: "AAPL", Price: 99, Timestamp: 150})
	if p, _ := c.LastPrice("AAPL"); p != 102 {
		t.Fatalf("stale quote should be ignored, got %v", p)
	}

	if q, ok := c.LastQuote("AAPL"); !ok || q.Timestamp != 200 {
		t.Fatalf("unexpected last quote: %+v ok=%v", q, ok)
	}
}
