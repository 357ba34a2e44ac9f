// Package common provides shared utilities across the application.
package common

import (
	"fmt"
	"regexp"
	"strings"
)

// tickerPattern accepts US-style symbols, including class shares (BRK.B, BRK-B)
var tickerPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,14}$`)

// NormalizeTicker trims and upper-cases a ticker
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// ValidateTicker normalizes a ticker and checks it is a plausible symbol
func ValidateTicker(ticker string) (string, error) {
	normalized := NormalizeTicker(ticker)
	if normalized == "" {
		return "", fmt.Errorf("ticker is required")
	}
	if !tickerPattern.MatchString(normalized) {
		return "", fmt.Errorf("invalid ticker symbol %q", ticker)
	}
	return normalized, nil
}

// YahooSymbol converts a ticker to the Yahoo Finance form.
// Yahoo uses hyphens for class shares: BRK.B -> BRK-B
func YahooSymbol(ticker string) string {
	return strings.ReplaceAll(NormalizeTicker(ticker), ".", "-")
}

// TickerAliases returns the forms a ticker may take in file names,
// e.g. BRK-B -> [BRK-B BRK.B]
func TickerAliases(ticker string) []string {
	normalized := NormalizeTicker(ticker)
	aliases := []string{normalized}
	if dotted := strings.ReplaceAll(normalized, "-", "."); dotted != normalized {
		aliases = append(aliases, dotted)
	}
	if dashed := strings.ReplaceAll(normalized, ".", "-"); dashed != normalized {
		aliases = append(aliases, dashed)
	}
	return aliases
}
