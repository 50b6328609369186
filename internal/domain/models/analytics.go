package models

import "time"

// StockStatus labels a daily closing stock against the item's minimum stock level.
type StockStatus string

const (
	StatusBelowMSL StockStatus = "belowMSL"
	StatusNormal   StockStatus = "normal"
	StatusAboveMSL StockStatus = "aboveMSL"
)

// TurnoverCategory labels an item's inventory turnover ratio.
type TurnoverCategory string

const (
	LowTurnover    TurnoverCategory = "lowTurnover"
	NormalTurnover TurnoverCategory = "normalTurnover"
	HighTurnover   TurnoverCategory = "highTurnover"
)

// CategoryCount is one bucket of the category distribution: how many
// distinct items of a category matched the filter.
type CategoryCount struct {
	Category  string `json:"category"`
	ItemCount int    `json:"itemCount"`
}

// StockTrendPoint is one labeled day of the stock-vs-MSL trend.
type StockTrendPoint struct {
	Date         time.Time   `json:"date"`
	ItemID       string      `json:"itemId"`
	ClosingStock float64     `json:"closingStock"`
	MSL          float64     `json:"msl"`
	Status       StockStatus `json:"status"`
}

// ConsumptionPoint is the summed consumption of one calendar month.
// YearMonth is fixed-width "YYYY-MM", so lexicographic order is chronological.
type ConsumptionPoint struct {
	YearMonth        string  `json:"yearMonth"`
	TotalConsumption float64 `json:"totalConsumption"`
}

// TurnoverRow is the per-item inventory turnover result for the queried period.
type TurnoverRow struct {
	ItemID           string           `json:"itemId"`
	ItemName         string           `json:"itemName"`
	TotalConsumption float64          `json:"totalConsumption"`
	AvgInventory     float64          `json:"avgInventory"`
	ITR              float64          `json:"itr"`
	TurnoverCategory TurnoverCategory `json:"turnoverCategory"`
}

// InventoryListEntry is one raw record of the paginated listing with its
// catalog entry left-joined in. ItemInfo is nil when the record references
// an item the catalog does not know; the listing keeps such rows.
type InventoryListEntry struct {
	InventoryRecord
	ItemInfo *ItemMaster `json:"itemInfo"`
}

// InventoryPage is the paginated listing envelope.
type InventoryPage struct {
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	Limit   int                  `json:"limit"`
	HasMore bool                 `json:"hasMore"`
	Data    []InventoryListEntry `json:"data"`
}
