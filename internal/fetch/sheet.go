package fetch

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thaskell/market-magic/internal/config"
	"github.com/thaskell/market-magic/internal/model"
)

// sheetTimeLayout matches the spreadsheet's date column (M/D/YYYY H:MM:SS).
const sheetTimeLayout = "1/2/2006 15:04:05"

// SheetSource fetches market bars from a spreadsheet's CSV export.
//
// The sheet lays companies out side by side: each company occupies one
// fixed-width column group (Symbol, Date, Open, High, Low, Close, Volume),
// so a single data row carries one bar per tracked company.
type SheetSource struct {
	cfg        config.SheetConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewSheetSource creates a SheetSource.
func NewSheetSource(cfg config.SheetConfig, logger *slog.Logger) *SheetSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SheetSource{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Fetch downloads the sheet and returns every valid bar it contains.
// Rows whose Open is empty, zero, or unparsable are dropped, matching the
// feed's convention for not-yet-populated rows.
func (s *SheetSource) Fetch(ctx context.Context) ([]model.MarketBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.CSVURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: "sheet export"}
	}

	return s.parse(resp.Body)
}

func (s *SheetSource) parse(r io.Reader) ([]model.MarketBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Row widths vary in the banner section

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	if len(rows) <= s.cfg.HeaderRows {
		s.logger.Warn("sheet has no data rows", "rows", len(rows))
		return nil, nil
	}

	var bars []model.MarketBar
	var skipped int

	for _, row := range rows[s.cfg.HeaderRows:] {
		for offset := 0; offset+s.cfg.GroupWidth <= len(row); offset += s.cfg.GroupWidth {
			bar, ok := s.parseGroup(row[offset : offset+s.cfg.GroupWidth])
			if !ok {
				skipped++
				continue
			}
			bars = append(bars, bar)
		}
	}

	s.logger.Debug("sheet parsed",
		"bars", len(bars),
		"skipped_groups", skipped,
	)
	return bars, nil
}

// parseGroup converts one 7-column company group into a bar. The group is
// rejected when the symbol or date is missing or the Open price is absent.
func (s *SheetSource) parseGroup(cols []string) (model.MarketBar, bool) {
	symbol := strings.TrimSpace(cols[0])
	if symbol == "" {
		return model.MarketBar{}, false
	}

	ts, err := time.Parse(sheetTimeLayout, strings.TrimSpace(cols[1]))
	if err != nil {
		return model.MarketBar{}, false
	}

	open := parsePrice(cols[2])
	if open == 0 {
		return model.MarketBar{}, false
	}

	return model.MarketBar{
		Symbol:    symbol,
		Timestamp: ts,
		Open:      open,
		High:      parsePrice(cols[3]),
		Low:       parsePrice(cols[4]),
		Close:     parsePrice(cols[5]),
		Volume:    parseVolume(cols[6]),
	}, true
}

// parsePrice converts a sheet cell to a price; empty and placeholder cells
// read as zero.
func parsePrice(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseVolume(cell string) int64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
	if err != nil {
		return 0
	}
	return int64(v)
}
