package storage

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/storage/badger"
	"github.com/ternarybob/verdict/internal/storage/jsonfiles"
)

// FundamentalsBackend is the configured fundamentals source plus its cleanup
type FundamentalsBackend struct {
	Source  interfaces.FundamentalsSource
	Manager *badger.Manager // nil for the json source
}

// Close releases the Badger connection when one is open
func (b *FundamentalsBackend) Close() error {
	if b.Manager != nil {
		return b.Manager.Close()
	}
	return nil
}

// NewFundamentalsBackend creates the fundamentals source selected by config.
// The badger source is seeded from the JSON data directory when seed_on_startup is set.
func NewFundamentalsBackend(ctx context.Context, logger arbor.ILogger, config *common.Config) (*FundamentalsBackend, error) {
	reader := jsonfiles.NewReader(config.Fundamentals.DataDir, config.Fundamentals.Subdirs, logger)

	switch config.Fundamentals.Source {
	case "", jsonfiles.SourceName:
		return &FundamentalsBackend{Source: reader}, nil

	case badger.SourceName:
		manager, err := badger.NewManager(logger, &config.Storage.Badger)
		if err != nil {
			return nil, err
		}

		if config.Storage.Badger.SeedOnStartup {
			loaded, skipped, errs, err := manager.LoadFundamentals(ctx, reader)
			if err != nil {
				manager.Close()
				return nil, fmt.Errorf("failed to seed fundamentals: %w", err)
			}
			logger.Info().
				Int("loaded", loaded).
				Int("skipped", skipped).
				Int("errors", errs).
				Str("data_dir", config.Fundamentals.DataDir).
				Msg("Seeded fundamentals from JSON files")
		}

		return &FundamentalsBackend{
			Source:  manager.FundamentalsStorage(),
			Manager: manager,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported fundamentals source: %s (expected 'json' or 'badger')", config.Fundamentals.Source)
	}
}
