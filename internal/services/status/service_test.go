package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/models"
	"github.com/ternarybob/verdict/internal/services/analysis"
)

type fakeSource struct {
	tickers []string
	err     error
}

func (f *fakeSource) GetFundamentals(ctx context.Context, ticker string) (*models.FundamentalsRecord, error) {
	return nil, models.NewStockDataError(models.ErrTickerNotFound, ticker, "not found", nil)
}

func (f *fakeSource) ListTickers(ctx context.Context) ([]string, error) { return f.tickers, f.err }

func (f *fakeSource) Name() string { return "json" }

type fakeWatchlist struct {
	run *analysis.WatchlistRun
}

func (f *fakeWatchlist) LastRun() *analysis.WatchlistRun { return f.run }

func fixedStats() (SystemStats, error) {
	return SystemStats{CPUPercent: 12.5, MemoryUsedPercent: 40}, nil
}

func TestGetStatus_OK(t *testing.T) {
	config := common.NewDefaultConfig()
	service := NewService(config, &fakeSource{tickers: []string{"AAPL", "KO", "V"}}, nil, arbor.NewLogger())
	service.systemStats = fixedStats

	st := service.GetStatus(context.Background())

	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, "development", st.Environment)
	assert.Equal(t, "json", st.FundamentalsSource)
	assert.Equal(t, 3, st.TickersAvailable)
	assert.Equal(t, common.Version, st.Build.Version)
	assert.Positive(t, st.Goroutines)
	assert.Equal(t, SystemStats{CPUPercent: 12.5, MemoryUsedPercent: 40}, st.System)
	assert.False(t, st.Watchlist.Enabled)
	assert.Empty(t, st.Watchlist.Schedule)
	assert.Nil(t, st.Watchlist.LastRun)
	assert.Empty(t, st.Errors)
}

func TestGetStatus_DegradedWhenSourceFails(t *testing.T) {
	config := common.NewDefaultConfig()
	service := NewService(config, &fakeSource{err: errors.New("data dir missing")}, nil, arbor.NewLogger())
	service.systemStats = fixedStats

	st := service.GetStatus(context.Background())

	assert.Equal(t, "degraded", st.Status)
	assert.Zero(t, st.TickersAvailable)
	assert.Equal(t, "data dir missing", st.Errors["fundamentals"])
}

func TestGetStatus_SystemStatsFailureIsNotDegraded(t *testing.T) {
	config := common.NewDefaultConfig()
	service := NewService(config, &fakeSource{tickers: []string{"KO"}}, nil, arbor.NewLogger())
	service.systemStats = func() (SystemStats, error) {
		return SystemStats{}, errors.New("not implemented yet")
	}

	st := service.GetStatus(context.Background())

	assert.Equal(t, "ok", st.Status)
	assert.Equal(t, 1, st.TickersAvailable)
	assert.Zero(t, st.System)
	assert.Equal(t, "not implemented yet", st.Errors["system"])
}

func TestGetStatus_ReportsWatchlist(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Watchlist.Enabled = true
	config.Watchlist.Schedule = "0 6 * * *"

	run := &analysis.WatchlistRun{StartedAt: time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)}
	service := NewService(config, &fakeSource{}, &fakeWatchlist{run: run}, arbor.NewLogger())
	service.systemStats = fixedStats

	st := service.GetStatus(context.Background())

	require.True(t, st.Watchlist.Enabled)
	assert.Equal(t, "0 6 * * *", st.Watchlist.Schedule)
	assert.Same(t, run, st.Watchlist.LastRun)
}
