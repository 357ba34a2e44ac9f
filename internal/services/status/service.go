package status

import (
	"context"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/services/analysis"
)

// WatchlistReporter exposes the outcome of the last watchlist pass
type WatchlistReporter interface {
	LastRun() *analysis.WatchlistRun
}

// Status is the payload of GET /api/status
type Status struct {
	Status             string            `json:"status"`
	Build              common.BuildInfo  `json:"build"`
	Environment        string            `json:"environment"`
	StartedAt          time.Time         `json:"started_at"`
	Uptime             string            `json:"uptime"`
	UptimeSeconds      int64             `json:"uptime_seconds"`
	FundamentalsSource string            `json:"fundamentals_source"`
	TickersAvailable   int               `json:"tickers_available"`
	Goroutines         int               `json:"goroutines"`
	System             SystemStats       `json:"system"`
	Watchlist          WatchlistStatus   `json:"watchlist"`
	Errors             map[string]string `json:"errors,omitempty"`
}

// WatchlistStatus reports the scheduler state
type WatchlistStatus struct {
	Enabled  bool                   `json:"enabled"`
	Schedule string                 `json:"schedule,omitempty"`
	LastRun  *analysis.WatchlistRun `json:"last_run,omitempty"`
}

// SystemStats is host CPU and memory usage in percent
type SystemStats struct {
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
}

// Service builds application status reports
type Service struct {
	config    *common.Config
	source    interfaces.FundamentalsSource
	watchlist WatchlistReporter
	logger    arbor.ILogger
	startedAt time.Time

	systemStats func() (SystemStats, error)
}

// NewService creates a new status service. watchlist may be nil when the scheduler is disabled.
func NewService(config *common.Config, source interfaces.FundamentalsSource, watchlist WatchlistReporter, logger arbor.ILogger) *Service {
	return &Service{
		config:    config,
		source:    source,
		watchlist: watchlist,
		logger:    logger,
		startedAt: time.Now(),

		systemStats: hostStats,
	}
}

// GetStatus returns the current status. A failing fundamentals source
// degrades the status instead of failing the request.
func (s *Service) GetStatus(ctx context.Context) Status {
	uptime := time.Since(s.startedAt)

	st := Status{
		Status:             "ok",
		Build:              common.GetBuildInfo(),
		Environment:        s.config.Environment,
		StartedAt:          s.startedAt.UTC(),
		Uptime:             uptime.Truncate(time.Second).String(),
		UptimeSeconds:      int64(uptime.Seconds()),
		FundamentalsSource: s.source.Name(),
		Goroutines:         runtime.NumGoroutine(),
		Watchlist: WatchlistStatus{
			Enabled: s.config.Watchlist.Enabled,
		},
	}

	if s.config.Watchlist.Enabled {
		st.Watchlist.Schedule = s.config.Watchlist.Schedule
	}
	if s.watchlist != nil {
		st.Watchlist.LastRun = s.watchlist.LastRun()
	}

	if stats, err := s.systemStats(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to read system statistics")
		st.addError("system", err)
	} else {
		st.System = stats
	}

	tickers, err := s.source.ListTickers(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list tickers for status")
		st.Status = "degraded"
		st.addError("fundamentals", err)
	} else {
		st.TickersAvailable = len(tickers)
	}

	return st
}

func (st *Status) addError(key string, err error) {
	if st.Errors == nil {
		st.Errors = make(map[string]string)
	}
	st.Errors[key] = err.Error()
}

// hostStats samples CPU usage since the previous call, so it never blocks
func hostStats() (SystemStats, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return SystemStats{}, err
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		return SystemStats{}, err
	}

	stats := SystemStats{MemoryUsedPercent: memStat.UsedPercent}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	return stats, nil
}
