package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

var _ interfaces.AnalysisService = (*Service)(nil)

// Service implements AnalysisService on top of a quote provider and a fundamentals source
type Service struct {
	quotes       interfaces.QuoteProvider
	fundamentals interfaces.FundamentalsSource
	logger       arbor.ILogger
	historyYears int
	currency     string
	options      valuation.Options
	now          func() time.Time
}

// NewService creates a new analysis service
func NewService(quotes interfaces.QuoteProvider, fundamentals interfaces.FundamentalsSource, config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		quotes:       quotes,
		fundamentals: fundamentals,
		logger:       logger,
		historyYears: config.Fundamentals.HistoryYears,
		currency:     config.Analysis.Currency,
		options: valuation.Options{
			FisherTargetRedirect: config.Analysis.FisherTargetRedirect,
			MarksRangeTarget:     config.Analysis.MarksRangeTarget,
			Sequential:           config.Analysis.Sequential,
		},
		now: time.Now,
	}
}

// Options returns the engine options the service evaluates with
func (s *Service) Options() valuation.Options {
	return s.options
}

// Quote validates the ticker and returns the live quote
func (s *Service) Quote(ctx context.Context, ticker string) (*models.Quote, error) {
	normalized, err := validate(ticker)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.GetQuote(ctx, normalized)
	if err != nil {
		return nil, models.Classify(err, normalized)
	}
	return quote, nil
}

// Combine validates the ticker, reads local history and the live quote,
// and returns the normalized engine input. Local data is read first so
// tickers without history never reach the quote provider.
func (s *Service) Combine(ctx context.Context, ticker string) (*valuation.Input, error) {
	normalized, err := validate(ticker)
	if err != nil {
		return nil, err
	}

	record, err := s.fundamentals.GetFundamentals(ctx, normalized)
	if err != nil {
		return nil, models.Classify(err, normalized)
	}

	quote, err := s.quotes.GetQuote(ctx, normalized)
	if err != nil {
		return nil, models.Classify(err, normalized)
	}

	in := Combine(normalized, quote, record, s.historyYears)

	s.logger.Debug().
		Str("ticker", normalized).
		Str("source", s.fundamentals.Name()).
		Int("years", len(in.History)).
		Msg("Combined stock data")

	return &in, nil
}

// Analyze runs the full pipeline and stamps the result's meta block
func (s *Service) Analyze(ctx context.Context, ticker string) (*valuation.AnalysisResult, error) {
	start := time.Now()

	in, err := s.Combine(ctx, ticker)
	if err != nil {
		return nil, err
	}

	result := valuation.Analyze(*in, s.options)
	result.Meta.Currency = s.currency
	result.Meta.Timestamp = s.now().UTC()
	result.Meta.RequestID = common.NewRequestID()

	s.logger.Info().
		Str("ticker", result.Ticker).
		Str("request_id", result.Meta.RequestID).
		Int("total_score", result.Summary.TotalScore).
		Str("consensus", string(result.Summary.ConsensusVerdict)).
		Dur("elapsed", time.Since(start)).
		Msg("Analysis complete")

	return &result, nil
}

func validate(ticker string) (string, error) {
	normalized, err := common.ValidateTicker(ticker)
	if err != nil {
		return "", models.NewStockDataError(models.ErrInvalidTicker, common.NormalizeTicker(ticker),
			fmt.Sprintf("Invalid ticker symbol %q", ticker), err)
	}
	return normalized, nil
}
