package models

import (
	"strconv"
	"strings"
	"time"
)

// LocalFinancialYear is one row of a local fundamentals file.
// Every metric is optional; missing values decode as nil.
type LocalFinancialYear struct {
	TIndex        string   `json:"t_index"` // "t-5" ... "t-0", t-0 is the latest year
	Period        string   `json:"period"`  // fiscal period end, e.g. "2023.09.30"
	EPS           *float64 `json:"EPS,omitempty"`
	ROE           *float64 `json:"ROE,omitempty"`
	PER           *float64 `json:"PER,omitempty"`
	PBR           *float64 `json:"PBR,omitempty"`
	PSR           *float64 `json:"PSR,omitempty"`
	SPS           *float64 `json:"SPS,omitempty"`
	CalculatedFCF *float64 `json:"calculated_FCF,omitempty"`
	NetMargin     *float64 `json:"순이익마진율,omitempty"` // net profit margin (%)
}

// Offset returns the numeric part of the t_index ("t-2" is 2).
// ok is false when the index is not of the form t-N.
func (y LocalFinancialYear) Offset() (int, bool) {
	s := strings.TrimSpace(y.TIndex)
	if !strings.HasPrefix(s, "t-") {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, "t-"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// FiscalYear parses the year from the period ("2023.09.30" is 2023)
func (y LocalFinancialYear) FiscalYear() int {
	head := strings.TrimSpace(y.Period)
	if i := strings.IndexAny(head, ".-/"); i >= 0 {
		head = head[:i]
	}
	year, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return year
}

// FundamentalsRecord is the full local history for one ticker
type FundamentalsRecord struct {
	Ticker      string               `json:"ticker"`
	CompanyName string               `json:"company_name"`
	Market      string               `json:"market,omitempty"` // sub-directory the file was found in, e.g. "nasdaq"
	SourceFile  string               `json:"source_file,omitempty"`
	Years       []LocalFinancialYear `json:"years"`
	LoadedAt    time.Time            `json:"loaded_at"`
}
