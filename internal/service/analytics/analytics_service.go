package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/config"
	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

const (
	yearMonthLayout = "2006-01"

	defaultPage  = 1
	defaultLimit = 20
)

// Store is the slice of persistence the query engine reads from. All
// methods are read-only; concurrent imports may be visible mid-query, which
// the engine tolerates as ordinary staleness.
type Store interface {
	ListItems(ctx context.Context) ([]models.ItemMaster, error)
	ListRecords(ctx context.Context, start, end *time.Time) ([]models.InventoryRecord, error)
	ListRecordPage(ctx context.Context, skip, limit int64) ([]models.InventoryRecord, error)
	CountRecords(ctx context.Context) (int64, error)
}

// Service implements the inventory analytics queries: the category
// distribution, the stock-vs-MSL trend, the monthly consumption trend, the
// inventory turnover ranking, and the paginated raw listing.
type Service struct {
	store  Store
	cfg    config.AnalyticsConfig
	logger *zap.Logger
}

// NewService wires a new analytics service instance.
func NewService(store Store, cfg config.AnalyticsConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cfg: cfg, logger: logger}
}

// joined loads records (date range pushed to the store) and the catalog,
// joins them by itemId, and keeps the rows matching every filter predicate.
// Records referencing an unknown item are dropped here.
func (s *Service) joined(ctx context.Context, filter Filter) ([]joinedRecord, error) {
	records, err := s.store.ListRecords(ctx, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	catalog, err := s.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	preds := filter.predicates()
	var rows []joinedRecord
	for _, record := range records {
		item, ok := catalog[record.ItemID]
		if !ok {
			continue
		}
		row := joinedRecord{record: record, item: item}
		if matchesAll(preds, row) {
			rows = append(rows, row)
		}
	}

	s.logger.Debug("joined records filtered",
		zap.Int("scanned", len(records)),
		zap.Int("matched", len(rows)))

	return rows, nil
}

// CategoryDistribution counts, per category, the distinct items appearing
// among the matched rows. An item showing up on many dates counts once.
func (s *Service) CategoryDistribution(ctx context.Context, filter Filter) ([]models.CategoryCount, error) {
	rows, err := s.joined(ctx, filter)
	if err != nil {
		return nil, err
	}

	itemsByCategory := make(map[string]map[string]struct{})
	for _, row := range rows {
		ids, ok := itemsByCategory[row.item.Category]
		if !ok {
			ids = make(map[string]struct{})
			itemsByCategory[row.item.Category] = ids
		}
		ids[row.record.ItemID] = struct{}{}
	}

	result := make([]models.CategoryCount, 0, len(itemsByCategory))
	for category, ids := range itemsByCategory {
		result = append(result, models.CategoryCount{Category: category, ItemCount: len(ids)})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })

	return result, nil
}

// StockVsMSLTrend labels every matched row against the item's minimum stock
// level. No aggregation happens; output is one point per row, oldest first.
func (s *Service) StockVsMSLTrend(ctx context.Context, filter Filter) ([]models.StockTrendPoint, error) {
	rows, err := s.joined(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]models.StockTrendPoint, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.StockTrendPoint{
			Date:         row.record.Date,
			ItemID:       row.record.ItemID,
			ClosingStock: row.record.ClosingStock,
			MSL:          row.item.MSL,
			Status:       s.classifyStock(row.record.ClosingStock, row.item.MSL),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })

	return result, nil
}

// MonthlyConsumption sums consumption per calendar month. Buckets are keyed
// by the record's UTC date so results do not depend on the server timezone;
// months with no matched rows are omitted.
func (s *Service) MonthlyConsumption(ctx context.Context, filter Filter) ([]models.ConsumptionPoint, error) {
	rows, err := s.joined(ctx, filter)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		bucket := row.record.Date.UTC().Format(yearMonthLayout)
		totals[bucket] += row.record.Consumption
	}

	result := make([]models.ConsumptionPoint, 0, len(totals))
	for yearMonth, total := range totals {
		result = append(result, models.ConsumptionPoint{YearMonth: yearMonth, TotalConsumption: total})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].YearMonth < result[j].YearMonth })

	return result, nil
}

// TurnoverRatios groups matched rows per item and computes the inventory
// turnover ratio: total consumption over the mean of the daily average
// inventory (opening+closing)/2. An item whose average inventory is exactly
// zero gets itr 0 rather than a division error. Highest turnover first.
func (s *Service) TurnoverRatios(ctx context.Context, filter Filter) ([]models.TurnoverRow, error) {
	rows, err := s.joined(ctx, filter)
	if err != nil {
		return nil, err
	}

	type accumulator struct {
		itemName         string
		totalConsumption float64
		dailyAvgSum      float64
		days             int
	}

	groups := make(map[string]*accumulator)
	var order []string
	for _, row := range rows {
		acc, ok := groups[row.record.ItemID]
		if !ok {
			acc = &accumulator{itemName: row.item.ItemName}
			groups[row.record.ItemID] = acc
			order = append(order, row.record.ItemID)
		}
		acc.totalConsumption += row.record.Consumption
		acc.dailyAvgSum += (row.record.OpeningStock + row.record.ClosingStock) / 2
		acc.days++
	}

	result := make([]models.TurnoverRow, 0, len(groups))
	for _, itemID := range order {
		acc := groups[itemID]
		avgInventory := acc.dailyAvgSum / float64(acc.days)

		var itr float64
		if avgInventory != 0 {
			itr = acc.totalConsumption / avgInventory
		}

		result = append(result, models.TurnoverRow{
			ItemID:           itemID,
			ItemName:         acc.itemName,
			TotalConsumption: acc.totalConsumption,
			AvgInventory:     avgInventory,
			ITR:              itr,
			TurnoverCategory: s.classifyTurnover(itr),
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ITR > result[j].ITR })

	return result, nil
}

// ListInventory returns one page of the raw record feed, newest date first,
// with the catalog entry left-joined in. This is the only path that keeps
// rows whose item is missing from the catalog; those carry a nil itemInfo.
// Non-positive page or limit fall back to the defaults.
func (s *Service) ListInventory(ctx context.Context, page, limit int) (*models.InventoryPage, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	total, err := s.store.CountRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	skip := int64(page-1) * int64(limit)
	records, err := s.store.ListRecordPage(ctx, skip, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("load record page: %w", err)
	}

	catalog, err := s.catalogByID(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.InventoryListEntry, 0, len(records))
	for _, record := range records {
		entry := models.InventoryListEntry{InventoryRecord: record}
		if item, ok := catalog[record.ItemID]; ok {
			joined := item
			entry.ItemInfo = &joined
		}
		entries = append(entries, entry)
	}

	return &models.InventoryPage{
		Total:   total,
		Page:    page,
		Limit:   limit,
		HasMore: skip+int64(len(entries)) < total,
		Data:    entries,
	}, nil
}

func (s *Service) catalogByID(ctx context.Context) (map[string]models.ItemMaster, error) {
	items, err := s.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	catalog := make(map[string]models.ItemMaster, len(items))
	for _, item := range items {
		catalog[item.ItemID] = item
	}
	return catalog, nil
}

// classifyStock compares a closing stock against the item's MSL. Stock on
// the boundaries (== msl, == factor*msl) counts as normal.
func (s *Service) classifyStock(closingStock, msl float64) models.StockStatus {
	switch {
	case closingStock < msl:
		return models.StatusBelowMSL
	case closingStock > s.cfg.AboveMSLFactor*msl:
		return models.StatusAboveMSL
	default:
		return models.StatusNormal
	}
}

// classifyTurnover buckets an itr against the configured cutoffs; values on
// the boundaries count as normal.
func (s *Service) classifyTurnover(itr float64) models.TurnoverCategory {
	switch {
	case itr < s.cfg.LowTurnoverThreshold:
		return models.LowTurnover
	case itr > s.cfg.HighTurnoverThreshold:
		return models.HighTurnover
	default:
		return models.NormalTurnover
	}
}
