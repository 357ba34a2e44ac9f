package models

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies failures surfaced to API callers
type ErrorKind string

const (
	ErrInvalidTicker    ErrorKind = "INVALID_TICKER"
	ErrTickerNotFound   ErrorKind = "TICKER_NOT_FOUND"
	ErrInsufficientData ErrorKind = "INSUFFICIENT_DATA"
	ErrRateLimit        ErrorKind = "RATE_LIMIT"
	ErrAPI              ErrorKind = "API_ERROR"
	ErrCalculation      ErrorKind = "CALCULATION_ERROR"
)

// HTTPStatus maps the kind to the response status code
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrInvalidTicker:
		return http.StatusBadRequest
	case ErrTickerNotFound:
		return http.StatusNotFound
	case ErrInsufficientData:
		return http.StatusUnprocessableEntity
	case ErrRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// StockDataError is returned by the quote provider, fundamentals sources and
// the analysis service
type StockDataError struct {
	Kind    ErrorKind
	Ticker  string
	Message string
	Err     error
}

// NewStockDataError creates a StockDataError wrapping an optional cause
func NewStockDataError(kind ErrorKind, ticker, message string, err error) *StockDataError {
	return &StockDataError{
		Kind:    kind,
		Ticker:  ticker,
		Message: message,
		Err:     err,
	}
}

func (e *StockDataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *StockDataError) Unwrap() error {
	return e.Err
}

// Is matches another StockDataError of the same kind, so
// errors.Is(err, &StockDataError{Kind: ErrRateLimit}) works
func (e *StockDataError) Is(target error) bool {
	t, ok := target.(*StockDataError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first StockDataError in the chain,
// or ErrAPI for anything else
func KindOf(err error) ErrorKind {
	var sde *StockDataError
	if errors.As(err, &sde) {
		return sde.Kind
	}
	return ErrAPI
}

// Classify converts an arbitrary error into a StockDataError.
// Existing StockDataErrors pass through; otherwise the message is inspected
// for rate limiting, not-found and missing-data wording.
func Classify(err error, ticker string) *StockDataError {
	if err == nil {
		return nil
	}

	var sde *StockDataError
	if errors.As(err, &sde) {
		return sde
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "429"):
		return NewStockDataError(ErrRateLimit, ticker,
			fmt.Sprintf("Rate limit exceeded while fetching data for %s. Please try again later.", ticker), err)
	case strings.Contains(msg, "not found"),
		strings.Contains(msg, "404"):
		return NewStockDataError(ErrTickerNotFound, ticker,
			fmt.Sprintf("Ticker symbol %q not found.", ticker), err)
	case strings.Contains(msg, "no data"),
		strings.Contains(msg, "insufficient"),
		strings.Contains(msg, "missing"):
		return NewStockDataError(ErrInsufficientData, ticker,
			fmt.Sprintf("Insufficient data available for ticker %q.", ticker), err)
	default:
		return NewStockDataError(ErrAPI, ticker,
			fmt.Sprintf("Failed to fetch data for %s", ticker), err)
	}
}
