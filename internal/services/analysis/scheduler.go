package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/services/valuation"
)

// WatchlistRun records the outcome of one scheduled pass
type WatchlistRun struct {
	StartedAt time.Time                    `json:"started_at"`
	Duration  time.Duration                `json:"duration"`
	Results   map[string]valuation.Summary `json:"results"`
	Errors    map[string]string            `json:"errors,omitempty"`
}

// Watchlist analyses a fixed set of tickers on a cron schedule
type Watchlist struct {
	service  interfaces.AnalysisService
	tickers  []string
	schedule string
	logger   arbor.ILogger
	cron     *cron.Cron

	mu      sync.Mutex // guards running, lastRun
	running bool
	lastRun *WatchlistRun
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWatchlist creates a watchlist scheduler. Call Start to register the cron job.
func NewWatchlist(service interfaces.AnalysisService, config *common.WatchlistConfig, logger arbor.ILogger) *Watchlist {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watchlist{
		service:  service,
		tickers:  append([]string(nil), config.Tickers...),
		schedule: config.Schedule,
		logger:   logger,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start validates the schedule and starts the cron runner
func (w *Watchlist) Start() error {
	if err := common.ValidateSchedule(w.schedule); err != nil {
		return err
	}
	if len(w.tickers) == 0 {
		return fmt.Errorf("watchlist has no tickers")
	}

	if _, err := w.cron.AddFunc(w.schedule, w.trigger); err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	w.cron.Start()

	w.logger.Info().
		Str("schedule", w.schedule).
		Strs("tickers", w.tickers).
		Msg("Watchlist scheduler started")
	return nil
}

// Stop halts the cron runner and cancels an in-flight pass
func (w *Watchlist) Stop() {
	w.cancel()
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Watchlist scheduler stopped")
}

// trigger runs a pass in the background unless one is already running
func (w *Watchlist) trigger() {
	common.SafeGo(w.logger, "watchlist", func() {
		w.RunNow(w.ctx)
	})
}

// RunNow analyses every ticker once. Overlapping calls return nil without running.
func (w *Watchlist) RunNow(ctx context.Context) *WatchlistRun {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Warn().Msg("Watchlist pass already running, skipping")
		return nil
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	run := &WatchlistRun{
		StartedAt: time.Now().UTC(),
		Results:   make(map[string]valuation.Summary),
		Errors:    make(map[string]string),
	}

	for _, ticker := range w.tickers {
		if ctx.Err() != nil {
			run.Errors[ticker] = ctx.Err().Error()
			continue
		}

		result, err := w.service.Analyze(ctx, ticker)
		if err != nil {
			w.logger.Warn().Err(err).Str("ticker", ticker).Msg("Watchlist analysis failed")
			run.Errors[ticker] = err.Error()
			continue
		}

		run.Results[result.Ticker] = result.Summary
		w.logger.Info().
			Str("ticker", result.Ticker).
			Int("total_score", result.Summary.TotalScore).
			Str("consensus", string(result.Summary.ConsensusVerdict)).
			Msg("Watchlist verdict")
	}

	run.Duration = time.Since(run.StartedAt)

	w.mu.Lock()
	w.lastRun = run
	w.mu.Unlock()

	w.logger.Info().
		Int("analysed", len(run.Results)).
		Int("failed", len(run.Errors)).
		Dur("duration", run.Duration).
		Msg("Watchlist pass complete")

	return run
}

// LastRun returns the most recent completed pass, or nil
func (w *Watchlist) LastRun() *WatchlistRun {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun
}
