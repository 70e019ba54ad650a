package usecase

import (
	"context"
	"sync"

	"OptionVal/internal/domain/models"
	drepo "OptionVal/internal/domain/repository"
	mid "OptionVal/internal/middleware"
)

// SpotCollector consumes the market stream and keeps the latest observed
// price per symbol so valuations can run against live spots.
type SpotCollector struct {
	stream  drepo.MarketStream
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline

	mu   sync.RWMutex
	last map[string]*models.SpotQuote
}

// NewSpotCollector creates a collector. Attach a pipeline afterwards with
// SetPipeline if throttling/buffering is wanted between stream and book.
func NewSpotCollector(stream drepo.MarketStream, metrics drepo.Metrics) *SpotCollector {
	return &SpotCollector{
		stream:  stream,
		metrics: metrics,
		last:    make(map[string]*models.SpotQuote),
	}
}

func (c *SpotCollector) SetPipeline(p *mid.RealtimePipeline) { c.pipe = p }

// IsConnected returns true if the market stream is connected.
func (c *SpotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SpotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

func (c *SpotCollector) consume(ctx context.Context, qCh <-chan *models.SpotQuote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordError("stream")
				_ = c.stream.Reconnect(ctx)
			}
		case q := <-qCh:
			if q == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.Accept(ctx, q)
			}
		}
	}
}

// Accept records the quote as the latest spot for its symbol.
// It is the pipeline's downstream sink.
func (c *SpotCollector) Accept(_ context.Context, q *models.SpotQuote) error {
	c.mu.Lock()
	prev, ok := c.last[q.Symbol]
	if !ok || q.Timestamp >= prev.Timestamp {
		c.last[q.Symbol] = q
	}
	c.mu.Unlock()
	c.metrics.RecordLastPrice(q.Symbol, q.Price)
	return nil
}

// LastPrice returns the latest observed price for the symbol.
func (c *SpotCollector) LastPrice(symbol string) (float64, bool) {
	c.mu.RLock()
	q, ok := c.last[symbol]
	c.mu.RUnlock()
	if !ok {
		return 0, false
	}
	return q.Price, true
}

// LastQuote returns the latest full quote for the symbol.
func (c *SpotCollector) LastQuote(symbol string) (*models.SpotQuote, bool) {
	c.mu.RLock()
	q, ok := c.last[symbol]
	c.mu.RUnlock()
	return q, ok
}

// Shutdown stops the pipeline and closes the stream.
func (c *SpotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}

var (
	_ drepo.SpotBook = (*SpotCollector)(nil)
	_ mid.QuoteSink  = (*SpotCollector)(nil)
)
