// Package analysis runs the valuation pipeline: it combines a live quote with
// local fundamentals, evaluates every persona and schedules watchlist runs.
package analysis

import (
	"sort"

	"github.com/ternarybob/verdict/internal/models"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

// DataSource labels where a combined input came from
const DataSource = "Yahoo_Realtime + Local_JSON_History"

// RecentYears keeps the rows indexed t-(count-1) through t-0, oldest first.
// Rows with any other t_index are dropped.
func RecentYears(years []models.LocalFinancialYear, count int) []models.LocalFinancialYear {
	if count <= 0 {
		return nil
	}

	recent := make([]models.LocalFinancialYear, 0, count)
	for _, y := range years {
		if offset, ok := y.Offset(); ok && offset < count {
			recent = append(recent, y)
		}
	}

	sort.SliceStable(recent, func(i, j int) bool {
		a, _ := recent[i].Offset()
		b, _ := recent[j].Offset()
		return a > b
	})
	return recent
}

// ToFinancialYear converts a local row, treating missing metrics as 0.
// ROE falls back to the net profit margin when the file has no ROE.
func ToFinancialYear(y models.LocalFinancialYear) valuation.FinancialYear {
	roe := y.ROE
	if roe == nil {
		roe = y.NetMargin
	}

	return valuation.FinancialYear{
		Year: y.FiscalYear(),
		EPS:  orZero(y.EPS),
		ROE:  orZero(roe),
		PER:  orZero(y.PER),
		PBR:  orZero(y.PBR),
		PSR:  orZero(y.PSR),
		SPS:  orZero(y.SPS),
		FCF:  orZero(y.CalculatedFCF),
	}
}

// Combine builds the engine input from a live quote and the recent history
func Combine(ticker string, quote *models.Quote, record *models.FundamentalsRecord, historyYears int) valuation.Input {
	in := valuation.Input{
		Ticker:      ticker,
		CompanyName: ticker,
		History:     []valuation.FinancialYear{},
	}

	if quote != nil {
		in.Market = valuation.MarketStatus{
			CurrentPrice: quote.CurrentPrice,
			MarketCap:    quote.MarketCap,
			High52Week:   quote.Technicals.FiftyTwoWeekHigh,
			Low52Week:    quote.Technicals.FiftyTwoWeekLow,
			MA200:        quote.Technicals.TwoHundredDayAvg,
			DebtToEquity: quote.TTMMetrics.DebtToEquity,
		}
		if quote.TTMMetrics.PER != nil {
			per := *quote.TTMMetrics.PER
			in.Market.TTMPER = &per
		}
	}

	if record != nil {
		for _, y := range RecentYears(record.Years, historyYears) {
			in.History = append(in.History, ToFinancialYear(y))
		}
	}

	// Live name first, then the local file's name
	switch {
	case quote != nil && quote.CompanyName != "":
		in.CompanyName = quote.CompanyName
	case record != nil && record.CompanyName != "":
		in.CompanyName = record.CompanyName
	}

	return in
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
