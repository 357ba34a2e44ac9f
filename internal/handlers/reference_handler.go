package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

// ReferenceHandler serves the ticker list and the trigger message table
type ReferenceHandler struct {
	directory interfaces.TickerDirectory
	source    interfaces.FundamentalsSource
	logger    arbor.ILogger
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(directory interfaces.TickerDirectory, source interfaces.FundamentalsSource, logger arbor.ILogger) *ReferenceHandler {
	return &ReferenceHandler{
		directory: directory,
		source:    source,
		logger:    logger,
	}
}

// TickerEntry is one row of GET /api/tickers
type TickerEntry struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name,omitempty"`
	Market      string `json:"market,omitempty"`
	HasData     bool   `json:"has_data"`
}

// TickersHandler handles GET /api/tickers.
// Directory entries come first in directory order, then tickers only the
// fundamentals source knows about.
func (h *ReferenceHandler) TickersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	available, err := h.source.ListTickers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Str("source", h.source.Name()).Msg("Failed to list tickers")
		WriteError(w, http.StatusInternalServerError, "Failed to list tickers")
		return
	}

	hasData := make(map[string]bool, len(available))
	for _, t := range available {
		for _, alias := range common.TickerAliases(t) {
			hasData[alias] = true
		}
	}

	entries := make([]TickerEntry, 0, len(available))
	listed := make(map[string]bool)
	for _, info := range h.directory.List() {
		entries = append(entries, TickerEntry{
			Ticker:      info.Ticker,
			CompanyName: info.CompanyName,
			Market:      info.Market,
			HasData:     hasData[info.Ticker],
		})
		for _, alias := range common.TickerAliases(info.Ticker) {
			listed[alias] = true
		}
	}

	for _, t := range available {
		if listed[t] {
			continue
		}
		entries = append(entries, TickerEntry{Ticker: t, HasData: true})
		listed[t] = true
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": entries,
		"count":   len(entries),
		"source":  h.source.Name(),
	})
}

// TriggersHandler handles GET /api/triggers
func (h *ReferenceHandler) TriggersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	type trigger struct {
		Code    valuation.TriggerCode `json:"code"`
		Message string                `json:"message"`
	}

	codes := valuation.TriggerCodes()
	triggers := make([]trigger, 0, len(codes))
	for _, c := range codes {
		triggers = append(triggers, trigger{Code: c, Message: c.Message()})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"triggers": triggers,
		"count":    len(triggers),
	})
}
