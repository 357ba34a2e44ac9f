package valuation

import "math"

// baseInput is a healthy mid-cap with three years of steady growth
func baseInput() Input {
	per := 22.0
	return Input{
		Ticker:      "TEST",
		CompanyName: "Test Corp",
		Market: MarketStatus{
			CurrentPrice: 100,
			MarketCap:    50e9,
			High52Week:   120,
			Low52Week:    80,
			MA200:        95,
			TTMPER:       &per,
			DebtToEquity: 40,
		},
		History: []FinancialYear{
			{Year: 2022, EPS: 4.0, ROE: 18, PER: 20, PBR: 4.0, PSR: 3.0, SPS: 30, FCF: 3.5},
			{Year: 2023, EPS: 4.6, ROE: 20, PER: 22, PBR: 4.2, PSR: 3.4, SPS: 33, FCF: 4.0},
			{Year: 2024, EPS: 5.3, ROE: 22, PER: 24, PBR: 4.4, PSR: 3.8, SPS: 36, FCF: 4.6},
		},
	}
}

func withPrice(in Input, price float64) Input {
	in.Market.CurrentPrice = price
	return in
}

func withHistory(in Input, history ...FinancialYear) Input {
	in.History = history
	return in
}

// degenerateInputs covers empty, zero, negative and non-finite data
func degenerateInputs() map[string]Input {
	nan := math.NaN()
	inf := math.Inf(1)
	return map[string]Input{
		"zero value":     {},
		"empty history":  withHistory(baseInput()),
		"zero price":     withPrice(baseInput(), 0),
		"negative price": withPrice(baseInput(), -10),
		"NaN price":      withPrice(baseInput(), nan),
		"inverted range": func() Input {
			in := baseInput()
			in.Market.High52Week, in.Market.Low52Week = 50, 150
			return in
		}(),
		"flat range": func() Input {
			in := baseInput()
			in.Market.High52Week, in.Market.Low52Week = 100, 100
			return in
		}(),
		"negative eps": withHistory(baseInput(),
			FinancialYear{Year: 2023, EPS: -1, ROE: -5, PER: -10, PBR: 1, PSR: 2, SPS: 10},
			FinancialYear{Year: 2024, EPS: -2, ROE: -8, PER: -12, PBR: 1, PSR: 2, SPS: 10},
		),
		"all zero history": withHistory(baseInput(),
			FinancialYear{Year: 2023}, FinancialYear{Year: 2024},
		),
		"non-finite history": withHistory(baseInput(),
			FinancialYear{Year: 2024, EPS: nan, ROE: inf, PER: nan, PBR: inf, PSR: nan, SPS: inf},
		),
		"single year": withHistory(baseInput(),
			FinancialYear{Year: 2024, EPS: 5, ROE: 20, PER: 20, PBR: 3, PSR: 2, SPS: 30},
		),
		"zero technicals": func() Input {
			in := baseInput()
			in.Market.MA200, in.Market.High52Week, in.Market.Low52Week = 0, 0, 0
			return in
		}(),
	}
}

var allVerdicts = map[Verdict]bool{
	VerdictStrongBuy: true,
	VerdictBuy:       true,
	VerdictHold:      true,
	VerdictSell:      true,
	VerdictNA:        true,
}
