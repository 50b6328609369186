package models

// ABCClass is the inventory priority tier assigned to a catalog item.
type ABCClass string

const (
	ClassA ABCClass = "A"
	ClassB ABCClass = "B"
	ClassC ABCClass = "C"
)

// ValidABCClass reports whether the label is one of the three known tiers.
func ValidABCClass(label string) bool {
	switch ABCClass(label) {
	case ClassA, ClassB, ClassC:
		return true
	}
	return false
}

// ItemMaster is the static catalog entry for an inventory item. Rows are
// owned by the import pipeline; the query engine only reads them.
type ItemMaster struct {
	ItemID    string  `bson:"itemId" json:"itemId"`
	ItemName  string  `bson:"itemName" json:"itemName"`
	Category  string  `bson:"category" json:"category"`
	UnitPrice float64 `bson:"unitPrice" json:"unitPrice"`
	ABCClass  string  `bson:"abcClass" json:"abcClass"`
	MSL       float64 `bson:"msl" json:"msl"`
}
