package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/verdict/internal/common"
)

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	nyse := filepath.Join(dir, "nyse")
	require.NoError(t, os.MkdirAll(nyse, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nyse, "XOM_엑슨.json"),
		[]byte(`[{"t_index":"t-0","period":"2024.12.31","EPS":8.0}]`), 0644))
	return dir
}

func TestNewFundamentalsBackend_JSON(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Fundamentals.DataDir = seedDir(t)

	backend, err := NewFundamentalsBackend(context.Background(), arbor.NewLogger(), config)
	require.NoError(t, err)
	defer backend.Close()

	assert.Nil(t, backend.Manager)
	assert.Equal(t, "json", backend.Source.Name())

	record, err := backend.Source.GetFundamentals(context.Background(), "XOM")
	require.NoError(t, err)
	assert.Equal(t, "nyse", record.Market)
}

func TestNewFundamentalsBackend_BadgerSeeded(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Fundamentals.Source = "badger"
	config.Fundamentals.DataDir = seedDir(t)
	config.Storage.Badger.InMemory = true
	config.Storage.Badger.SeedOnStartup = true

	backend, err := NewFundamentalsBackend(context.Background(), arbor.NewLogger(), config)
	require.NoError(t, err)
	defer backend.Close()

	assert.Equal(t, "badger", backend.Source.Name())
	tickers, err := backend.Source.ListTickers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"XOM"}, tickers)
}

func TestNewFundamentalsBackend_UnknownSource(t *testing.T) {
	config := common.NewDefaultConfig()
	config.Fundamentals.Source = "sqlite"

	_, err := NewFundamentalsBackend(context.Background(), arbor.NewLogger(), config)
	assert.Error(t, err)
}
