package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// salesInput has PSR history 2/3/4 and SPS 10: buy target 30, sell target 40
func salesInput(price float64) Input {
	in := baseInput()
	in.Market.CurrentPrice = price
	in.History = []FinancialYear{
		{Year: 2022, PSR: 2, SPS: 8},
		{Year: 2023, PSR: 3, SPS: 9},
		{Year: 2024, PSR: 4, SPS: 10},
	}
	return in
}

func TestFisher_Tiers(t *testing.T) {
	tests := []struct {
		price   float64
		verdict Verdict
		trigger TriggerCode
	}{
		{20, VerdictStrongBuy, TriggerPSRBargain},
		{29, VerdictBuy, TriggerPSRFair},
		{35, VerdictHold, TriggerPSRBand},
		{45, VerdictSell, TriggerPSRExpensive},
	}

	for _, tt := range tests {
		t.Run(string(tt.verdict), func(t *testing.T) {
			result := Fisher(salesInput(tt.price))
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.trigger, result.TriggerCode)

			require.NotNil(t, result.PriceGuide.BuyZoneMax)
			assert.InDelta(t, 30.0, *result.PriceGuide.BuyZoneMax, 1e-9)
			require.NotNil(t, result.PriceGuide.ProfitZoneMin)
			assert.InDelta(t, 40.0, *result.PriceGuide.ProfitZoneMin, 1e-9)
		})
	}
}

func TestFisher_WinRate(t *testing.T) {
	// PSR 2.9 vs avg 3: 3.33% discount * 1.5
	assert.Equal(t, 55, Fisher(salesInput(29)).WinRate)
	assert.Equal(t, 50, Fisher(salesInput(30)).WinRate)
}

func TestFisher_TargetRedirect(t *testing.T) {
	on := DefaultOptions()
	off := on
	off.FisherTargetRedirect = false

	// bullish and within 5% of the buy target: show the band top
	result := evaluateFisher(salesInput(29), on)
	require.NotNil(t, result.DisplayPrice)
	assert.InDelta(t, 38.16, *result.DisplayPrice, 1e-9)
	assert.Equal(t, PriceSoftCap, result.PriceStatus)

	result = evaluateFisher(salesInput(29), off)
	require.NotNil(t, result.DisplayPrice)
	assert.InDelta(t, 30.0, *result.DisplayPrice, 1e-9)
	assert.Equal(t, PriceNormal, result.PriceStatus)

	// far below the buy target: buy target either way
	a := evaluateFisher(salesInput(25), on)
	b := evaluateFisher(salesInput(25), off)
	assert.Equal(t, a.DisplayPrice, b.DisplayPrice)

	// fair price is the buy target regardless of what is displayed
	assert.InDelta(t, 30.0, *evaluateFisher(salesInput(29), on).FairPrice, 1e-9)
}

func TestFisher_ZeroPSRCountsTowardAverage(t *testing.T) {
	in := salesInput(10)
	in.History[0].PSR = 0

	result := Fisher(in)
	avg, _ := result.KeyFactors.Get("avg_psr")
	v, _ := avg.Float()
	assert.Equal(t, 2.33, v)
}

func TestFisher_NotApplicable(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		in      Input
		trigger TriggerCode
	}{
		{"empty history", withHistory(baseInput()), TriggerDataInsufficient},
		{"no PSR", withHistory(baseInput(),
			FinancialYear{Year: 2024, PSR: nan, SPS: 10}), TriggerDataInsufficient},
		{"zero SPS", withHistory(baseInput(),
			FinancialYear{Year: 2024, PSR: 3, SPS: 0}), TriggerDataInvalid},
		{"all zero PSR", withHistory(baseInput(),
			FinancialYear{Year: 2024, PSR: 0, SPS: 10}), TriggerDataInvalid},
		{"no price", withPrice(salesInput(0), 0), TriggerDataInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Fisher(tt.in)
			assert.Equal(t, VerdictNA, result.Verdict)
			assert.Equal(t, tt.trigger, result.TriggerCode)
		})
	}
}
