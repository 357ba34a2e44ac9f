package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// SourceName identifies this source in logs and status output
const SourceName = "badger"

// FundamentalsStorage implements the FundamentalsStorage interface for Badger.
// Records are keyed by normalized ticker.
type FundamentalsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewFundamentalsStorage creates a new FundamentalsStorage instance
func NewFundamentalsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.FundamentalsStorage {
	return &FundamentalsStorage{
		db:     db,
		logger: logger,
	}
}

func (s *FundamentalsStorage) Name() string {
	return SourceName
}

// GetFundamentals looks the ticker up under each of its aliases (BRK-B, BRK.B)
func (s *FundamentalsStorage) GetFundamentals(ctx context.Context, ticker string) (*models.FundamentalsRecord, error) {
	normalized := common.NormalizeTicker(ticker)

	for _, alias := range common.TickerAliases(normalized) {
		var record models.FundamentalsRecord
		err := s.db.Store().Get(alias, &record)
		if err == badgerhold.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, models.NewStockDataError(models.ErrAPI, normalized,
				fmt.Sprintf("Failed to read stored fundamentals for %s", normalized), err)
		}
		record.Ticker = normalized
		return &record, nil
	}

	return nil, models.NewStockDataError(models.ErrTickerNotFound, normalized,
		fmt.Sprintf("No stored fundamentals found for %s", normalized), nil)
}

func (s *FundamentalsStorage) SaveFundamentals(ctx context.Context, record *models.FundamentalsRecord) error {
	if record == nil {
		return fmt.Errorf("record is nil")
	}

	ticker, err := common.ValidateTicker(record.Ticker)
	if err != nil {
		return err
	}
	record.Ticker = ticker
	if record.LoadedAt.IsZero() {
		record.LoadedAt = time.Now().UTC()
	}

	if err := s.db.Store().Upsert(ticker, record); err != nil {
		return fmt.Errorf("failed to save fundamentals for %s: %w", ticker, err)
	}
	return nil
}

func (s *FundamentalsStorage) DeleteFundamentals(ctx context.Context, ticker string) error {
	normalized := common.NormalizeTicker(ticker)
	err := s.db.Store().Delete(normalized, &models.FundamentalsRecord{})
	if err == badgerhold.ErrNotFound {
		return models.NewStockDataError(models.ErrTickerNotFound, normalized,
			fmt.Sprintf("No stored fundamentals found for %s", normalized), nil)
	}
	if err != nil {
		return fmt.Errorf("failed to delete fundamentals for %s: %w", normalized, err)
	}
	return nil
}

// ListTickers returns every stored ticker, sorted
func (s *FundamentalsStorage) ListTickers(ctx context.Context) ([]string, error) {
	var records []models.FundamentalsRecord
	if err := s.db.Store().Find(&records, badgerhold.Where("Ticker").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to list fundamentals: %w", err)
	}

	tickers := make([]string, 0, len(records))
	for _, r := range records {
		tickers = append(tickers, r.Ticker)
	}
	sort.Strings(tickers)
	return tickers, nil
}

func (s *FundamentalsStorage) Count(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.FundamentalsRecord{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count fundamentals: %w", err)
	}
	return int(count), nil
}
