// Package model defines the core data structures for shop.
package model

// ItemStatus represents whether an item is still to be bought.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusPurchased ItemStatus = "purchased"
)

// Item is a single shopping-list entry.
type Item struct {
	ID        string  `yaml:"id" json:"id" validate:"required"`
	Name      string  `yaml:"name" json:"name" validate:"required"`
	Price     float64 `yaml:"price" json:"price" validate:"gt=0"`
	Quantity  int     `yaml:"quantity" json:"quantity" validate:"gte=1"`
	Purchased bool    `yaml:"purchased" json:"purchased"`
}

// Document is the persisted form of an item collection.
// Version 0 denotes the unversioned legacy layout (a bare list of items).
type Document struct {
	Version int    `yaml:"version"`
	Items   []Item `yaml:"items"`
}

// LineTotal returns price multiplied by quantity.
func (i Item) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Status returns the derived status of the item.
func (i Item) Status() ItemStatus {
	if i.Purchased {
		return ItemStatusPurchased
	}
	return ItemStatusPending
}

// ShortID returns the display form of the item ID.
func (i Item) ShortID() string {
	return ShortID(i.ID)
}

// Clone returns a copy of items that shares no backing array with the input.
// A nil input yields an empty, non-nil slice.
func Clone(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
