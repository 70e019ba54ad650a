package models

// Requests for valuation HTTP endpoints. Defined in domain for consistency
// and reuse by the Kafka request path.

type ValuationRequest struct {
	Symbol       string  `query:"symbol" json:"symbol"`
	InitialValue float64 `query:"initial_value" json:"initial_value" validate:"gte=0"`
	UseLiveSpot  bool    `query:"use_live_spot" json:"use_live_spot"`
	Rate         float64 `query:"rate" json:"rate"`
	Volatility   float64 `query:"volatility" json:"volatility" validate:"required,gt=0"`
	Maturity     float64 `query:"maturity" json:"maturity" validate:"required,gt=0"`
	Strike       float64 `query:"strike" json:"strike" validate:"required,gt=0"`
	// Barrier <= 0 means no barrier (knockout disabled).
	Barrier        float64 `query:"barrier" json:"barrier"`
	EvaluationTime float64 `query:"evaluation_time" json:"evaluation_time" validate:"gte=0"`
	Paths          int     `query:"paths" json:"paths" default:"10000" validate:"gte=100,lte=1000000"`
	Steps          int     `query:"steps" json:"steps" default:"10" validate:"gte=1,lte=10000"`
	// StepSize 0 derives a uniform step from maturity/steps.
	StepSize float64 `query:"step_size" json:"step_size" validate:"gte=0"`
	Seed     int64   `query:"seed" json:"seed" default:"31415"`
	Scheme   string  `query:"scheme" json:"scheme" default:"log_euler" validate:"oneof=log_euler euler"`
}

type AnalyticRequest struct {
	Spot       float64 `query:"spot" json:"spot" validate:"required,gt=0"`
	Rate       float64 `query:"rate" json:"rate"`
	Volatility float64 `query:"volatility" json:"volatility" validate:"required,gt=0"`
	Maturity   float64 `query:"maturity" json:"maturity" validate:"required,gt=0"`
	Strike     float64 `query:"strike" json:"strike" validate:"required,gt=0"`
	Kind       string  `query:"kind" json:"kind" default:"call" validate:"oneof=call put"`
}

type HistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"100" validate:"gte=1,lte=5000"`
}
