// Package yahoo provides a client for the Yahoo Finance quoteSummary API.
// It supplies the live price, TTM ratios and technical indicators used by the
// valuation engine.
package yahoo

import (
	"fmt"
	"time"
)

// APIError represents a non-200 response from Yahoo Finance.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo Finance API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a rate limit error.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("Yahoo Finance rate limit exceeded, retry after %v", e.RetryAfter)
}

// rawValue is Yahoo's formatted number, e.g. {"raw": 189.5, "fmt": "189.50"}.
// Missing values are sent as {} and leave Raw nil.
type rawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt,omitempty"`
}

// Float returns the raw value, or false when absent
func (v *rawValue) Float() (float64, bool) {
	if v == nil || v.Raw == nil {
		return 0, false
	}
	return *v.Raw, true
}

// orZero returns the raw value or 0
func (v *rawValue) orZero() float64 {
	f, _ := v.Float()
	return f
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *summaryError        `json:"error"`
	} `json:"quoteSummary"`
}

type summaryError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteSummaryResult struct {
	Price                *priceModule         `json:"price"`
	SummaryDetail        *summaryDetailModule `json:"summaryDetail"`
	DefaultKeyStatistics *keyStatisticsModule `json:"defaultKeyStatistics"`
	FinancialData        *financialDataModule `json:"financialData"`
}

type priceModule struct {
	Symbol             string    `json:"symbol"`
	LongName           string    `json:"longName"`
	ShortName          string    `json:"shortName"`
	Currency           string    `json:"currency"`
	RegularMarketPrice *rawValue `json:"regularMarketPrice"`
	MarketCap          *rawValue `json:"marketCap"`
}

type summaryDetailModule struct {
	TrailingPE           *rawValue `json:"trailingPE"`
	FiftyTwoWeekHigh     *rawValue `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow      *rawValue `json:"fiftyTwoWeekLow"`
	TwoHundredDayAverage *rawValue `json:"twoHundredDayAverage"`
}

type keyStatisticsModule struct {
	TrailingEps *rawValue `json:"trailingEps"`
}

type financialDataModule struct {
	CurrentPrice *rawValue `json:"currentPrice"`
	DebtToEquity *rawValue `json:"debtToEquity"`
}
