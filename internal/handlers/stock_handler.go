package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
	"github.com/ternarybob/verdict/internal/services/analysis"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

// StockHandler serves the per-ticker endpoints
type StockHandler struct {
	service        interfaces.AnalysisService
	logger         arbor.ILogger
	includeDetails bool
}

// NewStockHandler creates a new StockHandler. includeDetails adds error causes to responses.
func NewStockHandler(service interfaces.AnalysisService, logger arbor.ILogger, includeDetails bool) *StockHandler {
	return &StockHandler{
		service:        service,
		logger:         logger,
		includeDetails: includeDetails,
	}
}

// CombinedResponse is the body of GET /api/analysis/{ticker}
type CombinedResponse struct {
	Ticker      string                    `json:"ticker"`
	CompanyName string                    `json:"company_name"`
	DataSource  string                    `json:"data_source"`
	Market      valuation.MarketStatus    `json:"market_status"`
	History     []valuation.FinancialYear `json:"financial_history"`
}

// InvestHandler handles GET /api/invest/{ticker}
func (h *StockHandler) InvestHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker, ok := h.ticker(w, r, "/api/invest/")
	if !ok {
		return
	}

	result, err := h.service.Analyze(r.Context(), ticker)
	if err != nil {
		h.fail(w, err, ticker, "Investment analysis failed")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// AnalysisHandler handles GET /api/analysis/{ticker}
func (h *StockHandler) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker, ok := h.ticker(w, r, "/api/analysis/")
	if !ok {
		return
	}

	in, err := h.service.Combine(r.Context(), ticker)
	if err != nil {
		h.fail(w, err, ticker, "Combining stock data failed")
		return
	}

	WriteJSON(w, http.StatusOK, CombinedResponse{
		Ticker:      in.Ticker,
		CompanyName: in.CompanyName,
		DataSource:  analysis.DataSource,
		Market:      in.Market,
		History:     in.History,
	})
}

// QuoteHandler handles GET /api/stocks/{ticker}
func (h *StockHandler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker, ok := h.ticker(w, r, "/api/stocks/")
	if !ok {
		return
	}

	quote, err := h.service.Quote(r.Context(), ticker)
	if err != nil {
		h.fail(w, err, ticker, "Quote fetch failed")
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

func (h *StockHandler) ticker(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	ticker := PathParam(r.URL.Path, prefix)
	if ticker == "" {
		WriteStockError(w, models.NewStockDataError(models.ErrInvalidTicker, "", "Invalid ticker symbol", nil), false)
		return "", false
	}
	return ticker, true
}

func (h *StockHandler) fail(w http.ResponseWriter, err error, ticker, msg string) {
	kind := models.KindOf(err)
	event := h.logger.Warn()
	if kind.HTTPStatus() >= http.StatusInternalServerError {
		event = h.logger.Error()
	}
	event.Err(err).Str("ticker", ticker).Str("code", string(kind)).Msg(msg)

	WriteStockError(w, err, h.includeDetails)
}
