package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"OptionVal/internal/domain/models"
	"OptionVal/internal/domain/repository"
)

// ClickHouseResultStore implements ResultStore on ClickHouse.
type ClickHouseResultStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseResultStore creates the ClickHouse-backed result store.
func NewClickHouseResultStore(db *sql.DB, table string) repository.ResultStore {
	return &ClickHouseResultStore{db: db, table: table}
}

func (s *ClickHouseResultStore) Init(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts              DateTime64(3),
		symbol          LowCardinality(String),
		price           Float64,
		std_error       Float64,
		ci_low          Float64,
		ci_high         Float64,
		analytic_price  Float64,
		spot            Float64,
		rate            Float64,
		volatility      Float64,
		maturity        Float64,
		strike          Float64,
		barrier         Float64,
		evaluation_time Float64,
		paths           UInt32,
		steps           UInt32,
		seed            Int64,
		scheme          LowCardinality(String),
		source          LowCardinality(String),
		elapsed_ms      Float64
	) ENGINE = MergeTree
	PARTITION BY toYYYYMM(ts)
	ORDER BY (symbol, ts)`, s.table)
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

const resultColumns = "(ts, symbol, price, std_error, ci_low, ci_high, analytic_price, spot, rate, volatility, maturity, strike, barrier, evaluation_time, paths, steps, seed, scheme, source, elapsed_ms)"

func resultArgs(r *models.ValuationResult) []interface{} {
	ts := r.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return []interface{}{
		ts,
		r.Symbol,
		r.Price,
		r.StdError,
		r.CILow,
		r.CIHigh,
		r.AnalyticPrice,
		r.Spot,
		r.Rate,
		r.Volatility,
		r.Maturity,
		r.Strike,
		r.Barrier,
		r.EvaluationTime,
		uint32(r.Paths),
		uint32(r.Steps),
		r.Seed,
		r.Scheme,
		r.Source,
		float64(r.Elapsed) / float64(time.Millisecond),
	}
}

func (s *ClickHouseResultStore) Store(ctx context.Context, r *models.ValuationResult) error {
	q := fmt.Sprintf("INSERT INTO %s %s VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.table, resultColumns)
	_, err := s.db.ExecContext(ctx, q, resultArgs(r)...)
	return err
}

func (s *ClickHouseResultStore) StoreBatch(ctx context.Context, rs []*models.ValuationResult) error {
	if len(rs) == 0 {
		return nil
	}
	// Multi-row VALUES insert to cut round-trips. 2000 rows per chunk.
	const chunkSize = 2000
	for start := 0; start < len(rs); start += chunkSize {
		end := start + chunkSize
		if end > len(rs) {
			end = len(rs)
		}
		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*20)
		for _, r := range rs[start:end] {
			if r == nil {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, resultArgs(r)...)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s %s VALUES %s", s.table, resultColumns, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseResultStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.ValuationResult, error) {
	q := fmt.Sprintf(`SELECT ts, symbol, price, std_error, ci_low, ci_high, analytic_price, spot, rate, volatility,
		maturity, strike, barrier, evaluation_time, paths, steps, seed, scheme, source
		FROM %s WHERE ts >= ? AND ts <= ?`, s.table)
	args := []interface{}{from, to}
	if symbol != "" {
		q += " AND symbol = ?"
		args = append(args, symbol)
	}
	q += " ORDER BY ts DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.ValuationResult
	for rows.Next() {
		var r models.ValuationResult
		var ts time.Time
		var paths, steps uint32
		if err := rows.Scan(&ts, &r.Symbol, &r.Price, &r.StdError, &r.CILow, &r.CIHigh, &r.AnalyticPrice,
			&r.Spot, &r.Rate, &r.Volatility, &r.Maturity, &r.Strike, &r.Barrier, &r.EvaluationTime,
			&paths, &steps, &r.Seed, &r.Scheme, &r.Source); err != nil {
			return nil, err
		}
		r.CreatedAt = ts
		r.Paths = int(paths)
		r.Steps = int(steps)
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *ClickHouseResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseResultStore) Close() error {
	return nil // connection owned by pkg
}
