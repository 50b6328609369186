package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Feed column headings as exported from the upstream spreadsheet.
const (
	colItemID       = "Item ID"
	colItemName     = "Item Name"
	colCategory     = "Category"
	colUnitPrice    = "Unit Price"
	colABCClass     = "ABC Class"
	colMSL          = "MSL"
	colDate         = "Date"
	colOpeningStock = "Opening Stock"
	colConsumption  = "Consumption"
	colIncoming     = "Incoming"
	colClosingStock = "Closing Stock"
	colTurnover     = "Inventory Turnover ratio"
	colRatio        = "Ratio"
)

// Source yields raw feed rows keyed by the spreadsheet headings above.
// Cell values may arrive as strings or numbers depending on the source.
type Source interface {
	FetchItemRows(ctx context.Context) ([]map[string]any, error)
	FetchRecordRows(ctx context.Context) ([]map[string]any, error)
}

// Store is the subset of persistence the importer writes to.
type Store interface {
	EnsureIndexes(ctx context.Context) error
	UpsertItems(ctx context.Context, items []models.ItemMaster) (int64, error)
	UpsertRecords(ctx context.Context, records []models.InventoryRecord) (int64, error)
}

// Summary reports the outcome of one sync run.
type Summary struct {
	ItemsUpserted   int64
	RecordsUpserted int64
	SkippedItems    int
	SkippedRecords  int
}

// Service pulls catalog and daily record feeds from a source and upserts
// them into the store. Runs are idempotent: rows are keyed by (itemId) and
// (itemId, date), so replaying a feed changes nothing.
type Service struct {
	source Source
	store  Store
	logger *zap.Logger
}

// NewService wires a new importer instance.
func NewService(source Source, store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, store: store, logger: logger}
}

// Sync fetches both feeds, parses them, and bulk-upserts the results.
// Malformed rows are skipped and counted, never fatal; fetch or store
// failures abort the run.
func (s *Service) Sync(ctx context.Context) (Summary, error) {
	var summary Summary

	if err := s.store.EnsureIndexes(ctx); err != nil {
		return summary, fmt.Errorf("ensure indexes: %w", err)
	}

	itemRows, err := s.source.FetchItemRows(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch item feed: %w", err)
	}
	items, skippedItems := s.parseItems(itemRows)
	summary.SkippedItems = skippedItems

	recordRows, err := s.source.FetchRecordRows(ctx)
	if err != nil {
		return summary, fmt.Errorf("fetch record feed: %w", err)
	}
	records, skippedRecords := s.parseRecords(recordRows)
	summary.SkippedRecords = skippedRecords

	summary.ItemsUpserted, err = s.store.UpsertItems(ctx, items)
	if err != nil {
		return summary, fmt.Errorf("upsert items: %w", err)
	}

	summary.RecordsUpserted, err = s.store.UpsertRecords(ctx, records)
	if err != nil {
		return summary, fmt.Errorf("upsert records: %w", err)
	}

	s.logger.Info("import sync finished",
		zap.Int64("items_upserted", summary.ItemsUpserted),
		zap.Int64("records_upserted", summary.RecordsUpserted),
		zap.Int("skipped_items", summary.SkippedItems),
		zap.Int("skipped_records", summary.SkippedRecords))

	return summary, nil
}

func (s *Service) parseItems(rows []map[string]any) ([]models.ItemMaster, int) {
	items := make([]models.ItemMaster, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		item, err := itemFromRow(row)
		if err != nil {
			s.logger.Debug("skip item row", zap.Int("row", i), zap.Error(err))
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}

func (s *Service) parseRecords(rows []map[string]any) ([]models.InventoryRecord, int) {
	records := make([]models.InventoryRecord, 0, len(rows))
	skipped := 0
	for i, row := range rows {
		record, err := recordFromRow(row)
		if err != nil {
			s.logger.Debug("skip record row", zap.Int("row", i), zap.Error(err))
			skipped++
			continue
		}
		records = append(records, record)
	}
	return records, skipped
}

func itemFromRow(row map[string]any) (models.ItemMaster, error) {
	itemID := parseString(row[colItemID])
	if itemID == "" {
		return models.ItemMaster{}, fmt.Errorf("missing %s", colItemID)
	}

	itemName := parseString(row[colItemName])
	if itemName == "" {
		return models.ItemMaster{}, fmt.Errorf("missing %s", colItemName)
	}

	category := parseString(row[colCategory])
	if category == "" {
		return models.ItemMaster{}, fmt.Errorf("missing %s", colCategory)
	}

	unitPrice, err := parseNonNegativeFloat(row[colUnitPrice])
	if err != nil {
		return models.ItemMaster{}, fmt.Errorf("%s: %w", colUnitPrice, err)
	}

	abcClass := parseString(row[colABCClass])
	if !models.ValidABCClass(abcClass) {
		return models.ItemMaster{}, fmt.Errorf("invalid %s %q", colABCClass, abcClass)
	}

	msl, err := parseNonNegativeFloat(row[colMSL])
	if err != nil {
		return models.ItemMaster{}, fmt.Errorf("%s: %w", colMSL, err)
	}

	return models.ItemMaster{
		ItemID:    itemID,
		ItemName:  itemName,
		Category:  category,
		UnitPrice: unitPrice,
		ABCClass:  abcClass,
		MSL:       msl,
	}, nil
}

func recordFromRow(row map[string]any) (models.InventoryRecord, error) {
	date, err := parseDate(row[colDate])
	if err != nil {
		return models.InventoryRecord{}, fmt.Errorf("%s: %w", colDate, err)
	}

	itemID := parseString(row[colItemID])
	if itemID == "" {
		return models.InventoryRecord{}, fmt.Errorf("missing %s", colItemID)
	}

	record := models.InventoryRecord{Date: date, ItemID: itemID}

	for _, field := range []struct {
		column string
		target *float64
	}{
		{colOpeningStock, &record.OpeningStock},
		{colConsumption, &record.Consumption},
		{colIncoming, &record.Incoming},
		{colClosingStock, &record.ClosingStock},
	} {
		value, err := parseNonNegativeFloat(row[field.column])
		if err != nil {
			return models.InventoryRecord{}, fmt.Errorf("%s: %w", field.column, err)
		}
		*field.target = value
	}

	// The precomputed ratio columns are display-only; absent or garbled
	// cells degrade to zero instead of losing the whole row.
	record.InventoryTurnoverRatio = parseFloatOrZero(row[colTurnover])
	record.Ratio = parseFloatOrZero(row[colRatio])

	return record, nil
}

func parseString(value any) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

// parseDate reads a YYYY-MM-DD day in UTC. Feed exports sometimes carry a
// time-of-day suffix ("2025-02-01 00:00:00"); only the day part matters.
func parseDate(value any) (time.Time, error) {
	str := parseString(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}

func parseFloat(value any) (float64, error) {
	str := parseString(value)
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	return strconv.ParseFloat(str, 64)
}

func parseNonNegativeFloat(value any) (float64, error) {
	parsed, err := parseFloat(value)
	if err != nil {
		return 0, err
	}
	if parsed < 0 {
		return 0, fmt.Errorf("negative value %v", parsed)
	}
	return parsed, nil
}

func parseFloatOrZero(value any) float64 {
	parsed, err := parseFloat(value)
	if err != nil {
		return 0
	}
	return parsed
}
