package analytics

import (
	"strings"
	"time"

	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

// joinedRecord pairs a daily record with the catalog entry it references.
// Analytical queries only ever see joined rows; records without a catalog
// match never reach them.
type joinedRecord struct {
	record models.InventoryRecord
	item   models.ItemMaster
}

// Filter carries the optional predicates a caller may supply. Zero values
// impose no constraint. Date bounds are inclusive on both ends and compared
// at day granularity in UTC.
type Filter struct {
	ItemName  string
	ABCClass  string
	Category  string
	ItemID    string
	StartDate *time.Time
	EndDate   *time.Time
}

type predicate func(joinedRecord) bool

// predicates expands the filter into a list of independent checks that are
// combined with logical AND over the joined row.
func (f Filter) predicates() []predicate {
	var preds []predicate

	if f.ItemName != "" {
		needle := strings.ToLower(f.ItemName)
		preds = append(preds, func(j joinedRecord) bool {
			return strings.Contains(strings.ToLower(j.item.ItemName), needle)
		})
	}
	if f.ABCClass != "" {
		preds = append(preds, func(j joinedRecord) bool {
			return j.item.ABCClass == f.ABCClass
		})
	}
	if f.Category != "" {
		preds = append(preds, func(j joinedRecord) bool {
			return j.item.Category == f.Category
		})
	}
	if f.ItemID != "" {
		preds = append(preds, func(j joinedRecord) bool {
			return j.record.ItemID == f.ItemID
		})
	}
	if f.StartDate != nil {
		start := *f.StartDate
		preds = append(preds, func(j joinedRecord) bool {
			return !j.record.Date.Before(start)
		})
	}
	if f.EndDate != nil {
		end := *f.EndDate
		preds = append(preds, func(j joinedRecord) bool {
			return !j.record.Date.After(end)
		})
	}

	return preds
}

func matchesAll(preds []predicate, j joinedRecord) bool {
	for _, p := range preds {
		if !p(j) {
			return false
		}
	}
	return true
}
