package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/inventory-pulse/internal/domain/models"
)

func joined(rec models.InventoryRecord, it models.ItemMaster) joinedRecord {
	return joinedRecord{record: rec, item: it}
}

func TestEmptyFilterMatchesEverything(t *testing.T) {
	preds := Filter{}.predicates()
	assert.Empty(t, preds)
	assert.True(t, matchesAll(preds, joined(record("X1", "2025-01-01", 1, 1, 1), item("X1", "Relay", "Electronics", "A", 10))))
}

func TestItemNameMatchIsCaseInsensitiveSubstring(t *testing.T) {
	row := joined(record("X1", "2025-01-01", 1, 1, 1), item("X1", "Power Relay", "Electronics", "A", 10))

	assert.True(t, matchesAll(Filter{ItemName: "relay"}.predicates(), row))
	assert.True(t, matchesAll(Filter{ItemName: "WER REL"}.predicates(), row))
	assert.False(t, matchesAll(Filter{ItemName: "fuse"}.predicates(), row))
}

func TestPredicatesCombineWithAnd(t *testing.T) {
	row := joined(record("X1", "2025-01-01", 1, 1, 1), item("X1", "Relay", "Electronics", "A", 10))

	assert.True(t, matchesAll(Filter{Category: "Electronics", ABCClass: "A"}.predicates(), row))
	assert.False(t, matchesAll(Filter{Category: "Electronics", ABCClass: "B"}.predicates(), row))
	assert.False(t, matchesAll(Filter{Category: "Mechanical", ABCClass: "A"}.predicates(), row))
}

func TestDateBoundsAreInclusive(t *testing.T) {
	row := joined(record("X1", "2025-01-15", 1, 1, 1), item("X1", "Relay", "Electronics", "A", 10))

	onDay := day("2025-01-15")
	before := day("2025-01-14")
	after := day("2025-01-16")

	for _, tc := range []struct {
		name  string
		start *time.Time
		end   *time.Time
		want  bool
	}{
		{"start equals record date", &onDay, nil, true},
		{"end equals record date", nil, &onDay, true},
		{"record inside range", &before, &after, true},
		{"record before range", &after, nil, false},
		{"record after range", nil, &before, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, matchesAll(Filter{StartDate: tc.start, EndDate: tc.end}.predicates(), row))
		})
	}
}
