package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
)

// quoteModules are the quoteSummary modules needed to build a Quote
const quoteModules = "price,summaryDetail,defaultKeyStatistics,financialData"

var _ interfaces.QuoteProvider = (*Client)(nil)

// GetQuote fetches the live market snapshot for a ticker.
// Errors are *models.StockDataError with kind TICKER_NOT_FOUND, RATE_LIMIT or API_ERROR.
func (c *Client) GetQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	normalized := common.NormalizeTicker(ticker)
	symbol := common.YahooSymbol(normalized)

	params := url.Values{}
	params.Set("modules", quoteModules)

	var resp quoteSummaryResponse
	if err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params, &resp); err != nil {
		return nil, classifyError(err, normalized)
	}

	if len(resp.QuoteSummary.Result) == 0 {
		msg := fmt.Sprintf("Ticker symbol %q not found.", normalized)
		if resp.QuoteSummary.Error != nil && resp.QuoteSummary.Error.Description != "" {
			msg = resp.QuoteSummary.Error.Description
		}
		return nil, models.NewStockDataError(models.ErrTickerNotFound, normalized, msg, nil)
	}

	result := resp.QuoteSummary.Result[0]
	if result.Price == nil || result.FinancialData == nil {
		return nil, models.NewStockDataError(models.ErrTickerNotFound, normalized,
			fmt.Sprintf("Ticker symbol %q not found.", normalized), nil)
	}

	quote := buildQuote(normalized, symbol, result)

	if c.logger != nil {
		c.logger.Debug().
			Str("ticker", normalized).
			Str("price", fmt.Sprintf("%.2f", quote.CurrentPrice)).
			Msg("Fetched Yahoo Finance quote")
	}

	return quote, nil
}

func buildQuote(ticker, symbol string, r quoteSummaryResult) *models.Quote {
	q := &models.Quote{
		Ticker:       ticker,
		Symbol:       symbol,
		CompanyName:  r.Price.LongName,
		Currency:     r.Price.Currency,
		CurrentPrice: r.FinancialData.CurrentPrice.orZero(),
		MarketCap:    r.Price.MarketCap.orZero(),
		TTMMetrics: models.TTMMetrics{
			DebtToEquity: r.FinancialData.DebtToEquity.orZero(),
		},
		FetchedAt: time.Now().UTC(),
	}
	if q.CompanyName == "" {
		q.CompanyName = r.Price.ShortName
	}

	if sd := r.SummaryDetail; sd != nil {
		if pe, ok := sd.TrailingPE.Float(); ok {
			q.TTMMetrics.PER = &pe
		}
		q.Technicals = models.Technicals{
			FiftyTwoWeekHigh: sd.FiftyTwoWeekHigh.orZero(),
			FiftyTwoWeekLow:  sd.FiftyTwoWeekLow.orZero(),
			TwoHundredDayAvg: sd.TwoHundredDayAverage.orZero(),
		}
	}

	// Yahoo drops trailingPE for some symbols; derive it when earnings are positive
	if q.TTMMetrics.PER == nil && r.DefaultKeyStatistics != nil && q.CurrentPrice > 0 {
		if eps, ok := r.DefaultKeyStatistics.TrailingEps.Float(); ok && eps > 0 {
			pe := q.CurrentPrice / eps
			q.TTMMetrics.PER = &pe
		}
	}

	return q
}

func classifyError(err error, ticker string) error {
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return models.NewStockDataError(models.ErrRateLimit, ticker,
			fmt.Sprintf("Rate limit exceeded while fetching data for %s. Please try again later.", ticker), err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return models.NewStockDataError(models.ErrTickerNotFound, ticker,
				fmt.Sprintf("Ticker symbol %q not found.", ticker), err)
		case http.StatusTooManyRequests:
			return models.NewStockDataError(models.ErrRateLimit, ticker,
				fmt.Sprintf("Rate limit exceeded while fetching data for %s. Please try again later.", ticker), err)
		}
	}

	return models.Classify(err, ticker)
}
