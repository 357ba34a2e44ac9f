package valuation

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_FullRun(t *testing.T) {
	result := Analyze(baseInput(), DefaultOptions())

	assert.Equal(t, "TEST", result.Ticker)
	assert.Equal(t, "Test Corp", result.CompanyName)
	assert.Equal(t, 100.0, result.Meta.CurrentPrice)
	assert.Equal(t, "3 years (2022-2024)", result.Meta.DataPeriodUsed)
	require.Len(t, result.Results, len(Personas))

	sum := 0
	for _, p := range Personas {
		r, ok := result.Results[p]
		require.True(t, ok, "missing persona %s", p)
		assertWinRateInBand(t, r)
		sum += r.WinRate
	}
	want := int(math.Round(float64(sum) / float64(len(Personas))))
	assert.Equal(t, want, result.Summary.TotalScore)
	assert.Equal(t, consensusVerdict(want), result.Summary.ConsensusVerdict)
}

func TestAnalyze_DegenerateInputsAreTotal(t *testing.T) {
	for name, in := range degenerateInputs() {
		t.Run(name, func(t *testing.T) {
			result := Analyze(in, DefaultOptions())
			require.Len(t, result.Results, len(Personas))

			for p, r := range result.Results {
				assert.True(t, allVerdicts[r.Verdict], "%s: unexpected verdict %q", p, r.Verdict)
				assert.True(t, r.TriggerCode.Known(), "%s: unknown trigger %q", p, r.TriggerCode)
				assert.NotNil(t, r.KeyFactors, "%s: nil key factors", p)
				assert.NotEmpty(t, r.Logic)
				assertWinRateInBand(t, r)
			}

			_, err := json.Marshal(result)
			assert.NoError(t, err)
		})
	}
}

func TestAnalyze_EmptyHistoryDataPeriod(t *testing.T) {
	result := Analyze(withHistory(baseInput()), DefaultOptions())
	assert.Equal(t, "0 years (N/A)", result.Meta.DataPeriodUsed)
	assert.Equal(t, VerdictNA, result.Results[PersonaBuffett].Verdict)
	assert.Equal(t, VerdictNA, result.Results[PersonaLynch].Verdict)
}

func TestEvaluate_SequentialMatchesConcurrent(t *testing.T) {
	inputs := []Input{baseInput(), compounderInput(25), salesInput(29), cycleInput(80, true)}
	for _, in := range inputs {
		concurrent := Evaluate(in, DefaultOptions())

		opts := DefaultOptions()
		opts.Sequential = true
		sequential := Evaluate(in, opts)

		assert.Equal(t, sequential, concurrent)
	}
}

func TestEvaluate_DoesNotModifyInput(t *testing.T) {
	in := baseInput()
	before := append([]FinancialYear(nil), in.History...)

	Evaluate(in, DefaultOptions())
	assert.Equal(t, before, in.History)
}

func TestEvaluatePersona_UnknownPersona(t *testing.T) {
	result := EvaluatePersona(Persona("soros"), baseInput(), DefaultOptions())
	assert.Equal(t, VerdictNA, result.Verdict)
	assert.Equal(t, TriggerCalculationError, result.TriggerCode)
}

func TestEvaluatePersona_RecoversPanic(t *testing.T) {
	original := strategies[PersonaGraham]
	strategies[PersonaGraham] = func(Input, Options) AlgorithmResult {
		panic("boom")
	}
	t.Cleanup(func() { strategies[PersonaGraham] = original })

	result := EvaluatePersona(PersonaGraham, baseInput(), DefaultOptions())
	assert.Equal(t, VerdictNA, result.Verdict)
	assert.Equal(t, TriggerCalculationError, result.TriggerCode)
	assert.Contains(t, result.Logic, "boom")
	assert.Equal(t, neutralWinRate, result.WinRate)
}

func TestStrategies_ReturnsCopy(t *testing.T) {
	s := Strategies()
	require.Len(t, s, len(Personas))
	delete(s, PersonaMarks)

	_, ok := strategies[PersonaMarks]
	assert.True(t, ok)
}

func TestAdjustWinRate(t *testing.T) {
	tests := []struct {
		verdict Verdict
		raw     int
		want    int
	}{
		{VerdictStrongBuy, 60, 85},
		{VerdictStrongBuy, 92, 92},
		{VerdictStrongBuy, 120, 99},
		{VerdictBuy, 50, 65},
		{VerdictBuy, 70, 70},
		{VerdictBuy, 95, 79},
		{VerdictHold, 10, 45},
		{VerdictHold, 50, 50},
		{VerdictHold, 85, 55},
		{VerdictSell, 0, 1},
		{VerdictSell, 20, 20},
		{VerdictSell, 60, 35},
		{VerdictNA, 50, 50},
		{VerdictNA, 0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AdjustWinRate(tt.verdict, tt.raw), "%s raw %d", tt.verdict, tt.raw)
	}
}

func TestSummarize(t *testing.T) {
	results := map[Persona]AlgorithmResult{
		PersonaBuffett:       {Verdict: VerdictStrongBuy, WinRate: 90},
		PersonaLynch:         {Verdict: VerdictBuy, WinRate: 70},
		PersonaGraham:        {Verdict: VerdictHold, WinRate: 50},
		PersonaFisher:        {Verdict: VerdictSell, WinRate: 30},
		PersonaDruckenmiller: {Verdict: VerdictNA, WinRate: 50},
		PersonaMarks:         {Verdict: VerdictBuy, WinRate: 75},
	}

	summary := Summarize(results)
	// (90+70+50+30+50+75)/6 = 60.83
	assert.Equal(t, 61, summary.TotalScore)
	assert.Equal(t, VerdictBuy, summary.ConsensusVerdict)
	assert.Equal(t, OpinionBreakdown{StrongBuy: 1, Buy: 2, Hold: 1, Sell: 1}, summary.OpinionBreakdown)
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)
	assert.Equal(t, 0, summary.TotalScore)
	assert.Equal(t, VerdictSell, summary.ConsensusVerdict)
}

func TestConsensusVerdict(t *testing.T) {
	tests := []struct {
		score int
		want  Verdict
	}{
		{99, VerdictStrongBuy},
		{80, VerdictStrongBuy},
		{79, VerdictBuy},
		{60, VerdictBuy},
		{59, VerdictHold},
		{40, VerdictHold},
		{39, VerdictSell},
		{1, VerdictSell},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, consensusVerdict(tt.score), "score %d", tt.score)
	}
}

func TestVerdicts_MonotoneInPrice(t *testing.T) {
	personas := map[Persona]Input{
		PersonaBuffett: compounderInput(1),
		PersonaLynch:   growerInput(1, 40),
		PersonaGraham:  flatEarningsInput(1),
		PersonaFisher:  salesInput(1),
		PersonaMarks:   cycleInput(1, true),
	}

	for p, in := range personas {
		t.Run(string(p), func(t *testing.T) {
			previous := math.MaxInt
			for price := 5.0; price <= 200; price += 2.5 {
				r := EvaluatePersona(p, withPrice(in, price), DefaultOptions())
				require.NotEqual(t, VerdictNA, r.Verdict, "price %.2f", price)
				rank := r.Verdict.Rank()
				assert.LessOrEqual(t, rank, previous, "price %.2f", price)
				previous = rank
			}
		})
	}
}

func TestDataPeriod(t *testing.T) {
	assert.Equal(t, "0 years (N/A)", DataPeriod(nil))
	assert.Equal(t, "1 years (2024-2024)", DataPeriod([]FinancialYear{{Year: 2024}}))
	assert.Equal(t, "2 years (2023-2024)", DataPeriod([]FinancialYear{{Year: 2023}, {Year: 2024}}))
}

func assertWinRateInBand(t *testing.T, r AlgorithmResult) {
	t.Helper()
	switch r.Verdict {
	case VerdictStrongBuy:
		assert.True(t, r.WinRate >= StrongBuyFloor && r.WinRate <= 99, "strong buy win rate %d", r.WinRate)
	case VerdictBuy:
		assert.True(t, r.WinRate >= BuyFloor && r.WinRate <= BuyCeiling, "buy win rate %d", r.WinRate)
	case VerdictHold:
		assert.True(t, r.WinRate >= HoldFloor && r.WinRate <= HoldCeiling, "hold win rate %d", r.WinRate)
	case VerdictSell:
		assert.True(t, r.WinRate >= 1 && r.WinRate <= SellCeiling, "sell win rate %d", r.WinRate)
	default:
		assert.True(t, r.WinRate >= 1 && r.WinRate <= 99, "n/a win rate %d", r.WinRate)
	}
}
