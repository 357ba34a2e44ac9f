// Package valuation provides the six-persona stock valuation engine.
// All functions are stateless and perform no I/O.
package valuation

import "time"

// Verdict is a persona's categorical recommendation
type Verdict string

const (
	VerdictStrongBuy Verdict = "STRONG_BUY"
	VerdictBuy       Verdict = "BUY"
	VerdictHold      Verdict = "HOLD"
	VerdictSell      Verdict = "SELL"
	VerdictNA        Verdict = "N/A"
)

// Rank orders verdicts SELL < HOLD < BUY < STRONG_BUY. N/A ranks below all.
func (v Verdict) Rank() int {
	switch v {
	case VerdictStrongBuy:
		return 3
	case VerdictBuy:
		return 2
	case VerdictHold:
		return 1
	case VerdictSell:
		return 0
	default:
		return -1
	}
}

// IsBullish reports whether the verdict is BUY or STRONG_BUY
func (v Verdict) IsBullish() bool {
	return v == VerdictBuy || v == VerdictStrongBuy
}

// PriceStatus describes how the display price was adjusted
type PriceStatus string

const (
	PriceNormal    PriceStatus = "NORMAL"
	PriceSoftCap   PriceStatus = "SOFT_CAP"
	PriceSoftFloor PriceStatus = "SOFT_FLOOR"
)

// Persona names a valuation strategy
type Persona string

const (
	PersonaBuffett       Persona = "buffett"
	PersonaLynch         Persona = "lynch"
	PersonaGraham        Persona = "graham"
	PersonaFisher        Persona = "fisher"
	PersonaDruckenmiller Persona = "druckenmiller"
	PersonaMarks         Persona = "marks"
)

// Personas lists every persona in presentation order
var Personas = []Persona{
	PersonaBuffett,
	PersonaLynch,
	PersonaGraham,
	PersonaFisher,
	PersonaDruckenmiller,
	PersonaMarks,
}

// FinancialYear is one year of historical fundamentals
type FinancialYear struct {
	Year int     `json:"year"`
	EPS  float64 `json:"eps"`
	ROE  float64 `json:"roe"`
	PER  float64 `json:"per"`
	PBR  float64 `json:"pbr"`
	PSR  float64 `json:"psr"`
	SPS  float64 `json:"sps"`
	FCF  float64 `json:"fcf"`
}

// MarketStatus is the live-quote technical snapshot
type MarketStatus struct {
	CurrentPrice float64  `json:"current_price"`
	MarketCap    float64  `json:"market_cap"`
	High52Week   float64  `json:"52w_high"`
	Low52Week    float64  `json:"52w_low"`
	MA200        float64  `json:"200d_ma"`
	TTMPER       *float64 `json:"ttm_per"`
	DebtToEquity float64  `json:"debt_to_equity"`
}

// Input is the normalized record every persona evaluates.
// History is ordered oldest to newest and is never modified.
type Input struct {
	Ticker      string          `json:"ticker"`
	CompanyName string          `json:"company_name"`
	Market      MarketStatus    `json:"market_status"`
	History     []FinancialYear `json:"financial_history"`
}

// PriceGuide gives the persona's action levels
type PriceGuide struct {
	BuyZoneMax    *float64 `json:"buy_zone_max"`
	ProfitZoneMin *float64 `json:"profit_zone_min"`
	StopLoss      *float64 `json:"stop_loss"`
}

// AlgorithmResult is the standardized output of a persona
type AlgorithmResult struct {
	Verdict      Verdict     `json:"verdict"`
	Logic        string      `json:"logic"`
	TriggerCode  TriggerCode `json:"trigger_code"`
	KeyFactors   KeyFactors  `json:"key_factors"`
	PriceGuide   PriceGuide  `json:"price_guide"`
	MetricName   string      `json:"metric_name,omitempty"`
	MetricValue  *float64    `json:"metric_value,omitempty"`
	DisplayPrice *float64    `json:"display_price"`
	PriceStatus  PriceStatus `json:"price_status"`
	WinRate      int         `json:"win_rate"`
	FairPrice    *float64    `json:"fair_price"`

	// Trend fields are populated by the trend-following persona only
	TrendStatus string  `json:"trend_status,omitempty"`
	TrendLabel  string  `json:"trend_label,omitempty"`
	TrendSignal Verdict `json:"trend_signal,omitempty"`
}

// OpinionBreakdown counts raw verdicts across personas
type OpinionBreakdown struct {
	StrongBuy int `json:"strong_buy"`
	Buy       int `json:"buy"`
	Hold      int `json:"hold"`
	Sell      int `json:"sell"`
}

// Summary is the consensus view across all personas
type Summary struct {
	TotalScore       int              `json:"total_score"`
	ConsensusVerdict Verdict          `json:"consensus_verdict"`
	OpinionBreakdown OpinionBreakdown `json:"opinion_breakdown"`
}

// Meta describes the snapshot an analysis ran against
type Meta struct {
	CurrentPrice   float64   `json:"current_price"`
	DataPeriodUsed string    `json:"data_period_used"`
	Currency       string    `json:"currency,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	RequestID      string    `json:"request_id,omitempty"`
}

// AnalysisResult is the orchestrator output for one ticker
type AnalysisResult struct {
	Ticker      string                      `json:"ticker"`
	CompanyName string                      `json:"company_name"`
	Meta        Meta                        `json:"meta"`
	Summary     Summary                     `json:"summary"`
	Results     map[Persona]AlgorithmResult `json:"results"`
}

// Options toggles presentation heuristics that sit on top of the valuation math
type Options struct {
	// FisherTargetRedirect shows the PSR band top when a bullish price already sits near the average-PSR target
	FisherTargetRedirect bool
	// MarksRangeTarget shows the 52-week high when bullish and the 52-week low otherwise
	MarksRangeTarget bool
	// Sequential evaluates personas one after another instead of concurrently
	Sequential bool
}

// DefaultOptions enables both display heuristics and concurrent evaluation
func DefaultOptions() Options {
	return Options{
		FisherTargetRedirect: true,
		MarksRangeTarget:     true,
	}
}
