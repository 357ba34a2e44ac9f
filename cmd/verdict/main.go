package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/app"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/server"
	"github.com/ternarybob/verdict/internal/storage/badger"
	"github.com/ternarybob/verdict/internal/storage/jsonfiles"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths // Multiple -config flags supported
	serverPort   = flag.Int("port", 0, "Server port (overrides config)")
	serverPortP  = flag.Int("p", 0, "Server port (shorthand, overrides config)")
	serverHost   = flag.String("host", "", "Server host (overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
	analyzeOnce  = flag.String("analyze", "", "Analyze a single ticker, print the JSON result and exit")
	seedOnly     = flag.Bool("seed", false, "Import the JSON data directory into Badger and exit")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()
	common.LoadVersionFromFile()

	if *showVersion || *showVersionV {
		fmt.Printf("Verdict version %s\n", common.GetFullVersion())
		os.Exit(0)
	}

	// Merge port flags (shorthand takes precedence)
	finalPort := *serverPort
	if *serverPortP != 0 {
		finalPort = *serverPortP
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("verdict.toml"); err == nil {
			configFiles = append(configFiles, "verdict.toml")
		} else if _, err := os.Stat("deployments/local/verdict.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/verdict.toml")
		}
	}

	// 1. Load configuration (default -> file1 -> file2 -> ... -> env -> CLI)
	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		common.GetLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration files")
		os.Exit(1)
	}

	// 2. Apply command-line flag overrides (highest priority)
	common.ApplyFlagOverrides(config, finalPort, *serverHost)

	if err := config.Validate(); err != nil {
		common.GetLogger().Fatal().Err(err).Msg("Invalid configuration")
		os.Exit(1)
	}

	// 3. Initialize logger with final configuration
	logger = common.InitLogger(config)

	// Crash reports go next to the log file when there is one
	crashDir := ""
	if logFile := common.GetLogFilePath(logger); logFile != "" {
		crashDir = filepath.Dir(logFile)
	}
	common.InstallCrashHandler(crashDir)

	defer func() {
		if r := recover(); r != nil {
			crashPath := common.WriteCrashFile(r, common.GetStackTrace())
			logger.Fatal().Str("panic", fmt.Sprintf("%v", r)).Str("crash_file", crashPath).Msg("Fatal panic")
		}
	}()

	switch {
	case *seedOnly:
		os.Exit(runSeed())
	case *analyzeOnce != "":
		os.Exit(runAnalyze(*analyzeOnce))
	}

	runServer()
}

// runServer starts the HTTP API and blocks until interrupted
func runServer() {
	// 4. Print banner with configuration and logger
	common.PrintBanner(config, logger)

	logger.Debug().
		Str("fundamentals_source", config.Fundamentals.Source).
		Str("data_dir", config.Fundamentals.DataDir).
		Str("yahoo_base_url", config.Yahoo.BaseURL).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Bool("watchlist_enabled", config.Watchlist.Enabled).
		Msg("Resolved configuration")

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		return
	}
	defer application.Close()

	srv := server.New(application)

	common.SafeGo(logger, "http-server", func() {
		if err := srv.Start(); err != nil {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	})

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Msg("Server ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info().Msg("Interrupt signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped")
}

// runAnalyze evaluates one ticker and writes the result to stdout
func runAnalyze(ticker string) int {
	config.Watchlist.Enabled = false

	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return 1
	}
	defer application.Close()

	timeout, _ := config.Yahoo.TimeoutDuration()
	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	result, err := application.AnalysisService.Analyze(ctx, ticker)
	if err != nil {
		logger.Error().Str("ticker", ticker).Err(err).Msg("Analysis failed")
		return 1
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error().Err(err).Msg("Failed to write result")
		return 1
	}
	return 0
}

// runSeed imports every JSON fundamentals file into the configured Badger database
func runSeed() int {
	manager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open Badger database")
		return 1
	}
	defer manager.Close()

	reader := jsonfiles.NewReader(config.Fundamentals.DataDir, config.Fundamentals.Subdirs, logger)

	loaded, skipped, errs, err := manager.LoadFundamentals(context.Background(), reader)
	if err != nil {
		logger.Error().Err(err).Msg("Seeding failed")
		return 1
	}

	logger.Info().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Int("errors", errs).
		Str("path", config.Storage.Badger.Path).
		Msg("Fundamentals imported")

	if errs > 0 {
		return 1
	}
	return 0
}
