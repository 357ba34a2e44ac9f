package badger

import (
	"context"
	"reflect"

	"github.com/ternarybob/verdict/internal/models"
)

// FundamentalsLoader supplies every record available for seeding
type FundamentalsLoader interface {
	LoadAll(ctx context.Context) ([]*models.FundamentalsRecord, error)
	Name() string
}

// LoadFundamentals seeds the store from a loader. Records whose yearly rows
// are unchanged are skipped so restarts do not rewrite the database.
func (m *Manager) LoadFundamentals(ctx context.Context, loader FundamentalsLoader) (loaded, skipped, errors int, err error) {
	m.logger.Debug().Str("source", loader.Name()).Msg("Loading fundamentals into Badger")

	records, err := loader.LoadAll(ctx)
	if err != nil {
		return 0, 0, 0, err
	}

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return loaded, skipped, errors, err
		}

		existing, getErr := m.fundamentals.GetFundamentals(ctx, record.Ticker)
		if getErr == nil && existing.Ticker == record.Ticker && reflect.DeepEqual(existing.Years, record.Years) {
			m.logger.Debug().Str("ticker", record.Ticker).Msg("Fundamentals unchanged, skipping")
			skipped++
			continue
		}

		if err := m.fundamentals.SaveFundamentals(ctx, record); err != nil {
			m.logger.Warn().Err(err).Str("ticker", record.Ticker).Msg("Failed to store fundamentals")
			errors++
			continue
		}
		loaded++
	}

	m.logger.Debug().
		Int("loaded", loaded).
		Int("skipped", skipped).
		Int("errors", errors).
		Msg("Finished loading fundamentals")

	return loaded, skipped, errors, nil
}
