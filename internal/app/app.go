package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/handlers"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/services/analysis"
	"github.com/ternarybob/verdict/internal/services/status"
	"github.com/ternarybob/verdict/internal/services/tickers"
	"github.com/ternarybob/verdict/internal/storage"
	"github.com/ternarybob/verdict/internal/yahoo"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Data sources
	Fundamentals *storage.FundamentalsBackend
	Quotes       interfaces.QuoteProvider
	Directory    *tickers.Directory

	// Services
	AnalysisService *analysis.Service
	Watchlist       *analysis.Watchlist // nil when the watchlist is disabled
	StatusService   *status.Service

	// HTTP handlers
	StockHandler     *handlers.StockHandler
	ReferenceHandler *handlers.ReferenceHandler
	StatusHandler    *handlers.StatusHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDataSources(); err != nil {
		return nil, fmt.Errorf("failed to initialize data sources: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("fundamentals", app.Fundamentals.Source.Name()).
		Int("tickers", len(app.Directory.List())).
		Bool("watchlist", app.Watchlist != nil).
		Msg("Application initialized")

	return app, nil
}

// initDataSources opens the fundamentals backend and builds the quote client
func (a *App) initDataSources() error {
	backend, err := storage.NewFundamentalsBackend(context.Background(), a.Logger, a.Config)
	if err != nil {
		return err
	}
	a.Fundamentals = backend

	timeout, err := a.Config.Yahoo.TimeoutDuration()
	if err != nil {
		backend.Close()
		return err
	}

	a.Quotes = yahoo.NewClient(
		yahoo.WithBaseURL(a.Config.Yahoo.BaseURL),
		yahoo.WithTimeout(timeout),
		yahoo.WithRateLimit(a.Config.Yahoo.RateLimit),
		yahoo.WithUserAgent(a.Config.Yahoo.UserAgent),
		yahoo.WithCookieURL(a.Config.Yahoo.CookieURL),
		yahoo.WithLogger(a.Logger),
	)

	directory, err := tickers.NewDirectory(a.Config.Fundamentals.TickerMap, a.Logger)
	if err != nil {
		backend.Close()
		return err
	}
	a.Directory = directory

	return nil
}

func (a *App) initServices() error {
	a.AnalysisService = analysis.NewService(a.Quotes, a.Fundamentals.Source, a.Config, a.Logger)

	// status.NewService takes an interface, so a disabled watchlist must stay an untyped nil
	var reporter status.WatchlistReporter
	if a.Config.Watchlist.Enabled {
		a.Watchlist = analysis.NewWatchlist(a.AnalysisService, &a.Config.Watchlist, a.Logger)
		if err := a.Watchlist.Start(); err != nil {
			a.Watchlist = nil
			return fmt.Errorf("failed to start watchlist: %w", err)
		}
		reporter = a.Watchlist
	}

	a.StatusService = status.NewService(a.Config, a.Fundamentals.Source, reporter, a.Logger)
	return nil
}

func (a *App) initHandlers() {
	includeDetails := !a.Config.IsProduction()

	a.StockHandler = handlers.NewStockHandler(a.AnalysisService, a.Logger, includeDetails)
	a.ReferenceHandler = handlers.NewReferenceHandler(a.Directory, a.Fundamentals.Source, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.Logger)
}

// Close stops the scheduler and releases storage
func (a *App) Close() error {
	if a.Watchlist != nil {
		a.Watchlist.Stop()
		a.Logger.Info().Msg("Watchlist scheduler stopped")
	}

	if a.Fundamentals != nil {
		if err := a.Fundamentals.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close fundamentals storage")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
