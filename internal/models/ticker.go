package models

// TickerInfo describes a ticker with local fundamentals
type TickerInfo struct {
	Ticker      string `json:"ticker" yaml:"ticker" validate:"required"`
	CompanyName string `json:"company_name" yaml:"company_name"`
	Market      string `json:"market" yaml:"market" validate:"omitempty,oneof=nasdaq nyse"`
}
