package models

import "time"

// Quote is the live market snapshot for a ticker
type Quote struct {
	Ticker       string     `json:"ticker"`
	Symbol       string     `json:"symbol"` // provider symbol, e.g. "BRK-B"
	CompanyName  string     `json:"company_name,omitempty"`
	Currency     string     `json:"currency,omitempty"`
	CurrentPrice float64    `json:"current_price"`
	MarketCap    float64    `json:"market_cap"`
	TTMMetrics   TTMMetrics `json:"ttm_metrics"`
	Technicals   Technicals `json:"technicals"`
	FetchedAt    time.Time  `json:"fetched_at"`
}

// TTMMetrics are trailing twelve month ratios
type TTMMetrics struct {
	PER          *float64 `json:"per"` // nil for negative earnings
	DebtToEquity float64  `json:"debt_to_equity"`
}

// Technicals are price range indicators
type Technicals struct {
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	TwoHundredDayAvg float64 `json:"two_hundred_day_avg"`
}
