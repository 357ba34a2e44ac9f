package server

import (
	"net/http"

	"github.com/ternarybob/verdict/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Analysis
	mux.HandleFunc("/api/invest/", s.app.StockHandler.InvestHandler)     // GET /{ticker} - persona verdicts
	mux.HandleFunc("/api/analysis/", s.app.StockHandler.AnalysisHandler) // GET /{ticker} - combined input
	mux.HandleFunc("/api/stocks/", s.app.StockHandler.QuoteHandler)      // GET /{ticker} - live quote

	// API routes - Reference data
	mux.HandleFunc("/api/tickers", s.app.ReferenceHandler.TickersHandler)
	mux.HandleFunc("/api/triggers", s.app.ReferenceHandler.TriggersHandler)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/health", s.app.StatusHandler.HealthHandler)

	// Unknown API paths get a JSON 404
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "Not found")
}
