package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// growerInput has a 20% two-year EPS CAGR, so PEG = price / 1.44 / 20
func growerInput(price, debt float64) Input {
	in := baseInput()
	in.Market.CurrentPrice = price
	in.Market.DebtToEquity = debt
	in.History = []FinancialYear{
		{Year: 2023, EPS: 1.00},
		{Year: 2024, EPS: 1.44},
	}
	return in
}

func TestLynch_PEGTiers(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		verdict Verdict
		trigger TriggerCode
	}{
		{"fast grower", 12.96, VerdictStrongBuy, TriggerFastGrower},
		{"stalwart", 28.8, VerdictBuy, TriggerStalwart},
		{"fair value", 38.88, VerdictHold, TriggerFairValue},
		{"expensive", 72, VerdictSell, TriggerPEGExpensive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lynch(growerInput(tt.price, 40))
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.trigger, result.TriggerCode)

			growth, _ := result.KeyFactors.Get("growth_rate")
			g, _ := growth.Float()
			assert.Equal(t, 20.0, g)
		})
	}
}

func TestLynch_WinRate(t *testing.T) {
	// PEG 1.0
	assert.Equal(t, 60, Lynch(growerInput(28.8, 40)).WinRate)
	assert.Equal(t, 50, Lynch(growerInput(28.8, 160)).WinRate)
	assert.Equal(t, 40, Lynch(growerInput(28.8, 250)).WinRate)
}

func TestLynch_DebtPenalty(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		debt    float64
		verdict Verdict
		trigger TriggerCode
	}{
		{"warning downgrades buy", 28.8, 160, VerdictHold, TriggerDebtWarning},
		{"warning downgrades strong buy", 12.96, 160, VerdictBuy, TriggerDebtWarning},
		{"warning on a sell", 72, 160, VerdictSell, TriggerDebtRisk},
		{"risk", 28.8, 250, VerdictHold, TriggerDebtRisk},
		{"at threshold", 28.8, 150, VerdictBuy, TriggerStalwart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Lynch(growerInput(tt.price, tt.debt))
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.trigger, result.TriggerCode)
			if tt.debt > lynchDebtWarning {
				assert.Contains(t, result.Logic, "debt penalty")
			}
		})
	}
}

func TestLynch_SingleYearIsInsufficient(t *testing.T) {
	in := withHistory(baseInput(), FinancialYear{Year: 2024, EPS: 5})

	result := Lynch(in)
	assert.Equal(t, VerdictNA, result.Verdict)
	assert.Equal(t, TriggerDataInsufficient, result.TriggerCode)

	years, ok := result.KeyFactors.Get("years_available")
	require.True(t, ok)
	v, _ := years.Float()
	assert.Equal(t, 1.0, v)
}

func TestLynch_GrowthCappedByMarketCap(t *testing.T) {
	in := growerInput(40, 0)
	in.History[1].EPS = 4.0

	tests := []struct {
		marketCap float64
		want      float64
	}{
		{2e12, 25},
		{50e9, 35},
		{1e9, 50},
	}
	for _, tt := range tests {
		in.Market.MarketCap = tt.marketCap
		result := Lynch(in)

		growth, _ := result.KeyFactors.Get("growth_rate")
		g, _ := growth.Float()
		assert.Equal(t, tt.want, g)
		assert.Contains(t, result.Logic, "capped from 100%")
	}
}

func TestLynch_NonPositiveEPS(t *testing.T) {
	in := growerInput(30, 0)
	in.History[1].EPS = 0

	result := Lynch(in)
	assert.Equal(t, VerdictNA, result.Verdict)
	assert.Equal(t, TriggerDataInvalid, result.TriggerCode)
}

func TestDowngrade(t *testing.T) {
	assert.Equal(t, VerdictBuy, downgrade(VerdictStrongBuy))
	assert.Equal(t, VerdictHold, downgrade(VerdictBuy))
	assert.Equal(t, VerdictSell, downgrade(VerdictHold))
	assert.Equal(t, VerdictSell, downgrade(VerdictSell))
	assert.Equal(t, VerdictNA, downgrade(VerdictNA))
}
