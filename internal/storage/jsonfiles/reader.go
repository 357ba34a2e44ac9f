// Package jsonfiles reads historical fundamentals from per-ticker JSON files.
//
// Files are named {TICKER}_{company}.json and hold an array of yearly rows.
// The data directory is searched first, then each configured sub-directory.
package jsonfiles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verdict/internal/common"
	"github.com/ternarybob/verdict/internal/interfaces"
	"github.com/ternarybob/verdict/internal/models"
)

// SourceName identifies this source in logs and status output
const SourceName = "json"

var _ interfaces.FundamentalsSource = (*Reader)(nil)

// Reader implements FundamentalsSource over a directory tree
type Reader struct {
	dataDir string
	subdirs []string
	logger  arbor.ILogger
}

// NewReader creates a reader rooted at dataDir
func NewReader(dataDir string, subdirs []string, logger arbor.ILogger) *Reader {
	return &Reader{
		dataDir: dataDir,
		subdirs: subdirs,
		logger:  logger,
	}
}

func (r *Reader) Name() string {
	return SourceName
}

// searchDirs returns (path, market) pairs in search order
func (r *Reader) searchDirs() [][2]string {
	dirs := [][2]string{{r.dataDir, ""}}
	for _, sub := range r.subdirs {
		dirs = append(dirs, [2]string{filepath.Join(r.dataDir, sub), sub})
	}
	return dirs
}

// GetFundamentals reads the first file matching any alias of the ticker
func (r *Reader) GetFundamentals(ctx context.Context, ticker string) (*models.FundamentalsRecord, error) {
	normalized := common.NormalizeTicker(ticker)
	aliases := common.TickerAliases(normalized)

	for _, dir := range r.searchDirs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(dir[0])
		if err != nil {
			// Missing directories are skipped
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			for _, alias := range aliases {
				company, ok := matchFile(entry.Name(), alias)
				if !ok {
					continue
				}

				record, err := r.readFile(filepath.Join(dir[0], entry.Name()), normalized, company, dir[1])
				if err != nil {
					return nil, models.NewStockDataError(models.ErrAPI, normalized,
						fmt.Sprintf("Failed to read local data for %s", normalized), err)
				}
				return record, nil
			}
		}
	}

	r.logger.Debug().Str("ticker", normalized).Str("data_dir", r.dataDir).Msg("No local data file found")
	return nil, models.NewStockDataError(models.ErrTickerNotFound, normalized,
		fmt.Sprintf("No local data file found for %s", normalized), nil)
}

// ListTickers returns the ticker of every data file, sorted and de-duplicated
func (r *Reader) ListTickers(ctx context.Context) ([]string, error) {
	files, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(files))
	for _, f := range files {
		tickers = append(tickers, f.ticker)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// LoadAll reads every data file. Files that fail to parse are logged and skipped.
func (r *Reader) LoadAll(ctx context.Context) ([]*models.FundamentalsRecord, error) {
	files, err := r.scan(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]*models.FundamentalsRecord, 0, len(files))
	for _, f := range files {
		record, err := r.readFile(f.path, f.ticker, f.company, f.market)
		if err != nil {
			r.logger.Warn().Err(err).Str("file", f.path).Msg("Skipping unreadable fundamentals file")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

type dataFile struct {
	path    string
	ticker  string
	company string
	market  string
}

// scan lists data files across all search directories. When a ticker appears
// in more than one directory the first one found wins, matching GetFundamentals.
func (r *Reader) scan(ctx context.Context) ([]dataFile, error) {
	seen := make(map[string]bool)
	var files []dataFile

	for _, dir := range r.searchDirs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := os.ReadDir(dir[0])
		if err != nil {
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			idx := strings.Index(name, "_")
			if idx <= 0 {
				continue
			}

			ticker := common.NormalizeTicker(name[:idx])
			if _, err := common.ValidateTicker(ticker); err != nil || seen[ticker] {
				continue
			}
			seen[ticker] = true

			files = append(files, dataFile{
				path:    filepath.Join(dir[0], name),
				ticker:  ticker,
				company: strings.TrimSuffix(name[idx+1:], ".json"),
				market:  dir[1],
			})
		}
	}

	return files, nil
}

func (r *Reader) readFile(path, ticker, company, market string) (*models.FundamentalsRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var years []models.LocalFinancialYear
	if err := json.Unmarshal(data, &years); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	r.logger.Debug().
		Str("ticker", ticker).
		Str("file", filepath.Base(path)).
		Int("years", len(years)).
		Msg("Loaded local fundamentals")

	return &models.FundamentalsRecord{
		Ticker:      ticker,
		CompanyName: company,
		Market:      market,
		SourceFile:  path,
		Years:       years,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

// matchFile reports whether name is {alias}_{company}.json and returns the company part
func matchFile(name, alias string) (string, bool) {
	prefix := alias + "_"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"), true
}
