package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/inventory-pulse/internal/config"
)

// FeedSource reads the catalog and daily record feeds from Google Sheets
// ranges using the official Sheets API. The first row of each range holds
// the column headings; every following row becomes a heading-keyed map.
type FeedSource struct {
	service       *sheetsapi.Service
	spreadsheetID string
	itemRange     string
	recordRange   string
	logger        *zap.Logger
}

// NewFeedSource builds a Google Sheets backed feed source instance.
func NewFeedSource(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*FeedSource, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &FeedSource{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		itemRange:     cfg.ItemRange,
		recordRange:   cfg.RecordRange,
		logger:        logger,
	}, nil
}

// FetchItemRows reads the catalog range.
func (s *FeedSource) FetchItemRows(ctx context.Context) ([]map[string]any, error) {
	return s.readRows(ctx, s.itemRange)
}

// FetchRecordRows reads the daily record range.
func (s *FeedSource) FetchRecordRows(ctx context.Context) ([]map[string]any, error) {
	return s.readRows(ctx, s.recordRange)
}

func (s *FeedSource) readRows(ctx context.Context, sheetRange string) ([]map[string]any, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	values := resp.Values
	if len(values) < 2 {
		s.logger.Debug("sheet range has no data rows", zap.String("range", sheetRange))
		return nil, nil
	}

	headings := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headings[i] = fmt.Sprint(cell)
	}

	rows := make([]map[string]any, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make(map[string]any, len(headings))
		for i, heading := range headings {
			if i < len(raw) {
				row[heading] = raw[i]
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}
