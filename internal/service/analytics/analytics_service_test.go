package analytics

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/inventory-pulse/internal/config"
	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

// fakeStore serves canned rows. Date-range pushdown is ignored on purpose:
// the service re-applies date bounds as predicates, which these tests rely on.
type fakeStore struct {
	items   []models.ItemMaster
	records []models.InventoryRecord
	err     error
}

func (f *fakeStore) ListItems(_ context.Context) ([]models.ItemMaster, error) {
	return f.items, f.err
}

func (f *fakeStore) ListRecords(_ context.Context, _, _ *time.Time) ([]models.InventoryRecord, error) {
	return f.records, f.err
}

func (f *fakeStore) ListRecordPage(_ context.Context, skip, limit int64) ([]models.InventoryRecord, error) {
	if f.err != nil {
		return nil, f.err
	}

	sorted := make([]models.InventoryRecord, len(f.records))
	copy(sorted, f.records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ItemID < sorted[j].ItemID
	})

	if skip >= int64(len(sorted)) {
		return nil, nil
	}
	end := skip + limit
	if end > int64(len(sorted)) {
		end = int64(len(sorted))
	}
	return sorted[skip:end], nil
}

func (f *fakeStore) CountRecords(_ context.Context) (int64, error) {
	return int64(len(f.records)), f.err
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func item(id, name, category, class string, msl float64) models.ItemMaster {
	return models.ItemMaster{ItemID: id, ItemName: name, Category: category, ABCClass: class, MSL: msl, UnitPrice: 1}
}

func record(id, date string, opening, consumption, closing float64) models.InventoryRecord {
	return models.InventoryRecord{
		ItemID:       id,
		Date:         day(date),
		OpeningStock: opening,
		Consumption:  consumption,
		ClosingStock: closing,
	}
}

func newTestService(store *fakeStore) *Service {
	return NewService(store, config.AnalyticsConfig{
		AboveMSLFactor:        2,
		LowTurnoverThreshold:  0.5,
		HighTurnoverThreshold: 2,
	}, nil)
}

func TestCategoryDistributionCountsDistinctItems(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{
			item("X1", "Relay", "Electronics", "A", 10),
			item("X2", "Fuse", "Electronics", "B", 5),
			item("Y1", "Grease", "Consumables", "C", 2),
		},
		records: []models.InventoryRecord{
			record("X1", "2025-01-01", 10, 1, 9),
			record("X1", "2025-01-02", 9, 1, 8),
			record("X2", "2025-01-01", 5, 1, 4),
			record("Y1", "2025-01-01", 2, 1, 1),
		},
	}
	svc := newTestService(store)

	result, err := svc.CategoryDistribution(context.Background(), Filter{})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "Consumables", result[0].Category)
	assert.Equal(t, 1, result[0].ItemCount)
	assert.Equal(t, "Electronics", result[1].Category)
	assert.Equal(t, 2, result[1].ItemCount) // X1 on two dates counts once

	total := 0
	for _, bucket := range result {
		total += bucket.ItemCount
	}
	assert.Equal(t, 3, total, "summed itemCount must equal the distinct matched items")
}

func TestCategoryDistributionEmptyWhenNothingMatches(t *testing.T) {
	store := &fakeStore{
		items:   []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{record("X1", "2025-01-01", 10, 1, 9)},
	}
	svc := newTestService(store)

	result, err := svc.CategoryDistribution(context.Background(), Filter{ABCClass: "C"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestCategoryDistributionDropsRecordsWithoutCatalogEntry(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-01", 10, 1, 9),
			record("GHOST", "2025-01-01", 3, 1, 2),
		},
	}
	svc := newTestService(store)

	result, err := svc.CategoryDistribution(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 1, result[0].ItemCount)
}

func TestStockVsMSLTrendStatuses(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-01", 10, 5, 5),  // below
			record("X1", "2025-01-02", 5, 0, 10),  // exactly msl
			record("X1", "2025-01-03", 10, 0, 20), // exactly 2x msl
			record("X1", "2025-01-04", 20, 0, 21), // above
		},
	}
	svc := newTestService(store)

	result, err := svc.StockVsMSLTrend(context.Background(), Filter{ItemID: "X1"})
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.Equal(t, models.StatusBelowMSL, result[0].Status)
	assert.Equal(t, models.StatusNormal, result[1].Status)
	assert.Equal(t, models.StatusNormal, result[2].Status)
	assert.Equal(t, models.StatusAboveMSL, result[3].Status)

	assert.Equal(t, float64(10), result[0].MSL)
	assert.Equal(t, "X1", result[0].ItemID)
}

func TestStockVsMSLTrendSortedByDate(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-03", 10, 0, 10),
			record("X1", "2025-01-01", 10, 0, 10),
			record("X1", "2025-01-02", 10, 0, 10),
		},
	}
	svc := newTestService(store)

	result, err := svc.StockVsMSLTrend(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, result, 3)

	for i := 1; i < len(result); i++ {
		assert.False(t, result[i].Date.Before(result[i-1].Date), "trend must be non-decreasing by date")
	}
}

func TestStockVsMSLTrendInclusiveDateRange(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-01", 10, 0, 10),
			record("X1", "2025-01-02", 10, 0, 10),
			record("X1", "2025-01-03", 10, 0, 10),
		},
	}
	svc := newTestService(store)

	start := day("2025-01-02")
	end := day("2025-01-03")
	result, err := svc.StockVsMSLTrend(context.Background(), Filter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, day("2025-01-02"), result[0].Date)
	assert.Equal(t, day("2025-01-03"), result[1].Date)
}

func TestMonthlyConsumptionBucketsByMonth(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-05", 40, 10, 30),
			record("X1", "2025-01-20", 30, 20, 10),
			record("X1", "2025-03-02", 50, 5, 45),
		},
	}
	svc := newTestService(store)

	result, err := svc.MonthlyConsumption(context.Background(), Filter{})
	require.NoError(t, err)

	// Sparse output: February has no rows, so no bucket.
	require.Len(t, result, 2)
	assert.Equal(t, "2025-01", result[0].YearMonth)
	assert.Equal(t, float64(30), result[0].TotalConsumption)
	assert.Equal(t, "2025-03", result[1].YearMonth)
	assert.Equal(t, float64(5), result[1].TotalConsumption)

	var bucketed float64
	for _, point := range result {
		bucketed += point.TotalConsumption
	}
	assert.Equal(t, float64(35), bucketed, "bucketing must partition the matched consumption")
}

func TestMonthlyConsumptionFiltersByCategoryAndClass(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{
			item("X1", "Relay", "Electronics", "A", 10),
			item("Y1", "Grease", "Consumables", "C", 2),
		},
		records: []models.InventoryRecord{
			record("X1", "2025-01-05", 40, 10, 30),
			record("Y1", "2025-01-06", 10, 7, 3),
		},
	}
	svc := newTestService(store)

	result, err := svc.MonthlyConsumption(context.Background(), Filter{Category: "Consumables"})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, float64(7), result[0].TotalConsumption)

	result, err = svc.MonthlyConsumption(context.Background(), Filter{Category: "Consumables", ABCClass: "A"})
	require.NoError(t, err)
	assert.Empty(t, result, "predicates combine with AND")
}

func TestTurnoverRatiosComputation(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{
			item("X1", "Relay", "Electronics", "A", 10),
			item("X2", "Fuse", "Electronics", "B", 5),
			item("X3", "Belt", "Mechanical", "A", 5),
		},
		records: []models.InventoryRecord{
			// X1: daily averages 10 and 10, consumption 10+10 -> itr 2 (boundary, normal).
			record("X1", "2025-01-01", 10, 10, 10),
			record("X1", "2025-01-02", 10, 10, 10),
			// X2: zero inventory throughout but real consumption -> itr pinned to 0.
			record("X2", "2025-01-01", 0, 20, 0),
			record("X2", "2025-01-02", 0, 30, 0),
			// X3: avg inventory 10, consumption 50 -> itr 5 (high).
			record("X3", "2025-01-01", 10, 50, 10),
		},
	}
	svc := newTestService(store)

	result, err := svc.TurnoverRatios(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, result, 3)

	// Sorted by itr descending.
	assert.Equal(t, "X3", result[0].ItemID)
	assert.Equal(t, float64(5), result[0].ITR)
	assert.Equal(t, models.HighTurnover, result[0].TurnoverCategory)

	assert.Equal(t, "X1", result[1].ItemID)
	assert.Equal(t, "Relay", result[1].ItemName)
	assert.Equal(t, float64(20), result[1].TotalConsumption)
	assert.Equal(t, float64(10), result[1].AvgInventory)
	assert.Equal(t, float64(2), result[1].ITR)
	assert.Equal(t, models.NormalTurnover, result[1].TurnoverCategory)

	assert.Equal(t, "X2", result[2].ItemID)
	assert.Equal(t, float64(50), result[2].TotalConsumption)
	assert.Equal(t, float64(0), result[2].AvgInventory)
	assert.Equal(t, float64(0), result[2].ITR, "zero average inventory must yield itr 0, not a division error")
	assert.Equal(t, models.LowTurnover, result[2].TurnoverCategory)
}

func TestTurnoverRatiosLowBoundary(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			// avg inventory 10, consumption 5 -> itr 0.5 exactly.
			record("X1", "2025-01-01", 10, 5, 10),
		},
	}
	svc := newTestService(store)

	result, err := svc.TurnoverRatios(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, 0.5, result[0].ITR)
	assert.Equal(t, models.NormalTurnover, result[0].TurnoverCategory, "the 0.5 cutoff itself is normal")
}

func TestListInventoryPagination(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
	}
	for i := 0; i < 25; i++ {
		store.records = append(store.records, record("X1", day("2025-01-01").AddDate(0, 0, i).Format("2006-01-02"), 10, 0, 10))
	}
	svc := newTestService(store)

	first, err := svc.ListInventory(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), first.Total)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 20, first.Limit)
	assert.Len(t, first.Data, 20)
	assert.True(t, first.HasMore)

	second, err := svc.ListInventory(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), second.Total)
	assert.Len(t, second.Data, 5)
	assert.False(t, second.HasMore)

	// Newest first.
	assert.Equal(t, day("2025-01-25"), first.Data[0].Date)

	// Same page twice yields the same window.
	again, err := svc.ListInventory(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.Equal(t, second.Data, again.Data)
}

func TestListInventoryClampsPageAndLimit(t *testing.T) {
	store := &fakeStore{
		items:   []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{record("X1", "2025-01-01", 10, 0, 10)},
	}
	svc := newTestService(store)

	page, err := svc.ListInventory(context.Background(), -3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	assert.Len(t, page.Data, 1)
}

func TestListInventoryKeepsRecordsWithoutCatalogEntry(t *testing.T) {
	store := &fakeStore{
		items: []models.ItemMaster{item("X1", "Relay", "Electronics", "A", 10)},
		records: []models.InventoryRecord{
			record("X1", "2025-01-02", 10, 0, 10),
			record("GHOST", "2025-01-01", 3, 1, 2),
		},
	}
	svc := newTestService(store)

	page, err := svc.ListInventory(context.Background(), 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	require.NotNil(t, page.Data[0].ItemInfo)
	assert.Equal(t, "Relay", page.Data[0].ItemInfo.ItemName)
	assert.Nil(t, page.Data[1].ItemInfo, "the listing keeps unmatched records with a null itemInfo")
}

func TestStoreFaultPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	svc := newTestService(store)

	_, err := svc.CategoryDistribution(context.Background(), Filter{})
	assert.Error(t, err)

	_, err = svc.TurnoverRatios(context.Background(), Filter{})
	assert.Error(t, err)

	_, err = svc.ListInventory(context.Background(), 1, 20)
	assert.Error(t, err)
}
