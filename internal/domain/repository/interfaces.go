package repository

import (
	"context"
	"time"

	"OptionVal/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SpotQuote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Publisher interface {
	Publish(ctx context.Context, r *models.ValuationResult) error
	PublishBatch(ctx context.Context, rs []*models.ValuationResult) error
	Close() error
}

type ResultStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, r *models.ValuationResult) error
	StoreBatch(ctx context.Context, rs []*models.ValuationResult) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.ValuationResult, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// SpotBook exposes the latest observed spot price per symbol.
type SpotBook interface {
	LastPrice(symbol string) (float64, bool)
}

type Metrics interface {
	RecordValuation(source, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
