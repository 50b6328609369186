package models

import "time"

// InventoryRecord is one day of stock movement for a single item. The pair
// (itemId, date) is unique across the collection. The two trailing ratio
// fields come precomputed from the feed and are kept verbatim for the raw
// listing; the engine derives its own turnover figures.
type InventoryRecord struct {
	Date                   time.Time `bson:"date" json:"date"`
	ItemID                 string    `bson:"itemId" json:"itemId"`
	OpeningStock           float64   `bson:"openingStock" json:"openingStock"`
	Consumption            float64   `bson:"consumption" json:"consumption"`
	Incoming               float64   `bson:"incoming" json:"incoming"`
	ClosingStock           float64   `bson:"closingStock" json:"closingStock"`
	InventoryTurnoverRatio float64   `bson:"inventoryTurnoverRatio" json:"inventoryTurnoverRatio"`
	Ratio                  float64   `bson:"ratio" json:"ratio"`
}
