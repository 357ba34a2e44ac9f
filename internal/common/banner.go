package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the resolved runtime settings
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("Verdict", GetVersion())

	serviceURL := fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
	storage := config.Fundamentals.DataDir
	if config.Fundamentals.Source == "badger" {
		storage = config.Storage.Badger.Path
		if config.Storage.Badger.InMemory {
			storage = "badger (in-memory)"
		}
	}

	textColor := banner.ColorBold + banner.ColorWhite
	hr := banner.ColorCyan + strings.Repeat("═", 60) + banner.ColorReset

	kvLines := [][2]string{
		{"Version", GetFullVersion()},
		{"Environment", config.Environment},
		{"Service URL", serviceURL},
		{"Fundamentals", config.Fundamentals.Source},
		{"Data", storage},
		{"Currency", config.Analysis.Currency},
	}

	fmt.Fprintf(os.Stderr, "%s\n", hr)
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "%s\n\n", hr)

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("service_url", serviceURL).
		Str("fundamentals_source", config.Fundamentals.Source).
		Msg("Application started")
}
