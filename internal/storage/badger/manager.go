package badger

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
)

// Manager owns the Badger connection and the storages built on it
type Manager struct {
	db           *BadgerDB
	fundamentals interfaces.FundamentalsStorage
	logger       arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (*Manager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:           db,
		fundamentals: NewFundamentalsStorage(db, logger),
		logger:       logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// FundamentalsStorage returns the fundamentals storage interface
func (m *Manager) FundamentalsStorage() interfaces.FundamentalsStorage {
	return m.fundamentals
}

// Close closes the database connection
func (m *Manager) Close() error {
	return m.db.Close()
}
