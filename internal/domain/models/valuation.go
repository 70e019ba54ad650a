package models

import "time"

// ValuationResult is the outcome of one Monte Carlo valuation.
// Note: no transport (json/http) concerns beyond serialization tags.
type ValuationResult struct {
	Symbol         string  `json:"symbol,omitempty"`
	Price          float64 `json:"price"`
	StdError       float64 `json:"std_error"`
	CILow          float64 `json:"ci_low"`
	CIHigh         float64 `json:"ci_high"`
	AnalyticPrice  float64 `json:"analytic_price"`
	Spot           float64 `json:"spot"`
	Rate           float64 `json:"rate"`
	Volatility     float64 `json:"volatility"`
	Maturity       float64 `json:"maturity"`
	Strike         float64 `json:"strike"`
	Barrier        float64 `json:"barrier,omitempty"` // 0 means no barrier
	EvaluationTime float64 `json:"evaluation_time"`
	Paths          int     `json:"paths"`
	Steps          int     `json:"steps"`
	Seed           int64   `json:"seed"`
	Scheme         string  `json:"scheme"`

	Source    string        `json:"source,omitempty"` // "http" or "kafka"
	Cached    bool          `json:"cached,omitempty"`
	Elapsed   time.Duration `json:"elapsed_ns,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// SpotQuote is one observed market price for a symbol.
type SpotQuote struct {
	Symbol    string
	Price     float64
	Volume    float64
	Timestamp int64 // unix seconds
}
