package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ternarybob/verdict/internal/models"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// ErrorResponse is the body written for pipeline failures
type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Ticker  string `json:"ticker,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteStockError maps an error to its status code and writes it.
// Causes are only included outside production.
func WriteStockError(w http.ResponseWriter, err error, includeDetails bool) error {
	var sde *models.StockDataError
	if !errors.As(err, &sde) {
		sde = models.NewStockDataError(models.ErrAPI, "", "Internal server error", err)
	}

	resp := ErrorResponse{
		Status: "error",
		Error:  sde.Message,
		Code:   string(sde.Kind),
		Ticker: sde.Ticker,
	}
	if includeDetails && sde.Err != nil {
		resp.Details = sde.Err.Error()
	}

	if sde.Kind == models.ErrRateLimit {
		w.Header().Set("Retry-After", "60")
	}

	return WriteJSON(w, sde.Kind.HTTPStatus(), resp)
}

// PathParam returns the path segment following prefix, e.g.
// PathParam("/api/invest/AAPL", "/api/invest/") is "AAPL".
// Returns "" when nothing or more than one segment follows.
func PathParam(path, prefix string) string {
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if rest == "" || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
