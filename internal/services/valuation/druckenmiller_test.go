package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trendInput has MA200 95 and a 52-week high of 120; momentum starts above 108
func trendInput(price float64, growing bool) Input {
	in := baseInput()
	in.Market.CurrentPrice = price
	if !growing {
		in.History[2].EPS = in.History[1].EPS - 0.5
	}
	return in
}

func TestDruckenmiller_DecisionTree(t *testing.T) {
	tests := []struct {
		name    string
		price   float64
		growing bool
		verdict Verdict
		trigger TriggerCode
		signal  Verdict
		winRate int
	}{
		{"trend broken", 90, true, VerdictSell, TriggerTrendBroken, VerdictSell, 30},
		{"trend broken without growth", 90, false, VerdictSell, TriggerTrendBroken, VerdictSell, 20},
		{"breakout", 115, true, VerdictStrongBuy, TriggerTrendBreakout, VerdictBuy, 95},
		{"fake breakout", 115, false, VerdictHold, TriggerFakeBreakout, VerdictHold, 85},
		{"dip", 100, true, VerdictBuy, TriggerDipOpportunity, VerdictBuy, 80},
		{"no catalyst", 100, false, VerdictHold, TriggerNoCatalyst, VerdictHold, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Druckenmiller(trendInput(tt.price, tt.growing))
			assert.Equal(t, tt.verdict, result.Verdict)
			assert.Equal(t, tt.trigger, result.TriggerCode)
			assert.Equal(t, tt.signal, result.TrendSignal)
			assert.Equal(t, tt.winRate, result.WinRate)
			assert.NotEmpty(t, result.TrendStatus)
			assert.NotEmpty(t, result.TrendLabel)

			require.NotNil(t, result.PriceGuide.StopLoss)
			assert.Equal(t, 95.0, *result.PriceGuide.StopLoss)
			assert.Nil(t, result.DisplayPrice)
			assert.Nil(t, result.FairPrice)
			assert.Equal(t, PriceNormal, result.PriceStatus)
		})
	}
}

func TestDruckenmiller_BuyZoneOnlyInUptrend(t *testing.T) {
	up := Druckenmiller(trendInput(100, true))
	require.NotNil(t, up.PriceGuide.BuyZoneMax)
	assert.InDelta(t, 126.0, *up.PriceGuide.BuyZoneMax, 1e-9)

	down := Druckenmiller(trendInput(90, true))
	assert.Nil(t, down.PriceGuide.BuyZoneMax)
}

func TestDruckenmiller_MissingTechnicals(t *testing.T) {
	for _, mutate := range []func(*Input){
		func(in *Input) { in.Market.MA200 = 0 },
		func(in *Input) { in.Market.High52Week = 0 },
		func(in *Input) { in.Market.CurrentPrice = 0 },
	} {
		in := baseInput()
		mutate(&in)

		result := Druckenmiller(in)
		assert.Equal(t, VerdictNA, result.Verdict)
		assert.Equal(t, TriggerDataInsufficient, result.TriggerCode)
		assert.Empty(t, result.TrendSignal)
	}
}

func TestEarningsGrowing(t *testing.T) {
	tests := []struct {
		name string
		eps  []float64
		want bool
	}{
		{"growing", []float64{1, 2}, true},
		{"flat", []float64{2, 2}, false},
		{"shrinking", []float64{3, 2}, false},
		{"loss narrowing", []float64{-3, -1}, false},
		{"single year", []float64{2}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := make([]FinancialYear, len(tt.eps))
			for i, e := range tt.eps {
				history[i] = FinancialYear{Year: 2020 + i, EPS: e}
			}
			assert.Equal(t, tt.want, earningsGrowing(history))
		})
	}
}
