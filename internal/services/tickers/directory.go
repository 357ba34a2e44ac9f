// Package tickers provides the directory of tickers the service advertises.
package tickers

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
)

//go:embed default_tickers.yaml
var defaultTickers []byte

var _ interfaces.TickerDirectory = (*Directory)(nil)

type tickerFile struct {
	Tickers []models.TickerInfo `yaml:"tickers" validate:"dive"`
}

// Directory is an ordered, read-only ticker list with alias lookup
type Directory struct {
	entries []models.TickerInfo
	index   map[string]int
}

// NewDirectory loads the ticker map at path, or the built-in list when path is empty
func NewDirectory(path string, logger arbor.ILogger) (*Directory, error) {
	data := defaultTickers
	source := "built-in"

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read ticker map %s: %w", path, err)
		}
		data = content
		source = path
	}

	dir, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid ticker map %s: %w", source, err)
	}

	logger.Debug().Str("source", source).Int("tickers", len(dir.entries)).Msg("Ticker directory loaded")
	return dir, nil
}

// Parse builds a directory from YAML. Tickers are normalized and duplicates rejected.
func Parse(data []byte) (*Directory, error) {
	var file tickerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ticker map: %w", err)
	}

	if err := validator.New().Struct(file); err != nil {
		return nil, err
	}

	dir := &Directory{
		entries: make([]models.TickerInfo, 0, len(file.Tickers)),
		index:   make(map[string]int, len(file.Tickers)),
	}

	for _, info := range file.Tickers {
		ticker, err := common.ValidateTicker(info.Ticker)
		if err != nil {
			return nil, err
		}
		if _, exists := dir.index[ticker]; exists {
			return nil, fmt.Errorf("duplicate ticker %s", ticker)
		}
		info.Ticker = ticker
		dir.index[ticker] = len(dir.entries)
		dir.entries = append(dir.entries, info)
	}

	return dir, nil
}

// List returns a copy of the entries in file order
func (d *Directory) List() []models.TickerInfo {
	out := make([]models.TickerInfo, len(d.entries))
	copy(out, d.entries)
	return out
}

// Lookup finds a ticker under any of its aliases, so BRK.B finds BRK-B
func (d *Directory) Lookup(ticker string) (models.TickerInfo, bool) {
	for _, alias := range common.TickerAliases(ticker) {
		if i, ok := d.index[alias]; ok {
			return d.entries[i], true
		}
	}
	return models.TickerInfo{}, false
}
