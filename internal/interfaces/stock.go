// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/verdict/internal/models"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

// QuoteProvider fetches live market data
type QuoteProvider interface {
	// GetQuote returns the current snapshot for a ticker.
	// Failures are returned as *models.StockDataError.
	GetQuote(ctx context.Context, ticker string) (*models.Quote, error)
}

// FundamentalsSource provides historical fundamentals per ticker
type FundamentalsSource interface {
	// GetFundamentals returns the full local history for a ticker.
	// A ticker with no data returns a TICKER_NOT_FOUND StockDataError.
	GetFundamentals(ctx context.Context, ticker string) (*models.FundamentalsRecord, error)

	// ListTickers returns every ticker the source holds, sorted
	ListTickers(ctx context.Context) ([]string, error)

	// Name identifies the source in logs and status output
	Name() string
}

// FundamentalsStorage is a FundamentalsSource that can be written to
type FundamentalsStorage interface {
	FundamentalsSource

	SaveFundamentals(ctx context.Context, record *models.FundamentalsRecord) error
	DeleteFundamentals(ctx context.Context, ticker string) error
	Count(ctx context.Context) (int, error)
}

// TickerDirectory lists the tickers the service advertises
type TickerDirectory interface {
	List() []models.TickerInfo
	Lookup(ticker string) (models.TickerInfo, bool)
}

// AnalysisService runs the valuation pipeline for a ticker
type AnalysisService interface {
	// Analyze validates the ticker, combines live and historical data,
	// and evaluates every persona
	Analyze(ctx context.Context, ticker string) (*valuation.AnalysisResult, error)

	// Combine returns the normalized input without evaluating it
	Combine(ctx context.Context, ticker string) (*valuation.Input, error)

	// Quote returns the live quote only
	Quote(ctx context.Context, ticker string) (*models.Quote, error)
}
