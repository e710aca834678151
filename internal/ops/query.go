package ops

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jacksmith/shop/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the order of a derived view.
type SortKey string

const (
	SortNone     SortKey = ""
	SortByName   SortKey = "name"
	SortByPrice  SortKey = "price"
	SortByStatus SortKey = "status"
)

// SortKeys lists the keys accepted by ParseSortKey, excluding SortNone.
var SortKeys = []SortKey{SortByName, SortByPrice, SortByStatus}

// ErrUnknownSortKey is returned for a sort key that is not in SortKeys.
var ErrUnknownSortKey = errors.New("unknown sort key")

// ParseSortKey converts user input to a SortKey. The empty string is SortNone.
func ParseSortKey(s string) (SortKey, error) {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if key == SortNone || slices.Contains(SortKeys, key) {
		return key, nil
	}
	return SortNone, fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
}

// TotalPurchased sums price*quantity over purchased items.
func TotalPurchased(items []model.Item) float64 {
	var total float64
	for _, item := range items {
		if item.Purchased {
			total += item.LineTotal()
		}
	}
	return total
}

// TotalPending sums price*quantity over items not yet purchased.
func TotalPending(items []model.Item) float64 {
	var total float64
	for _, item := range items {
		if !item.Purchased {
			total += item.LineTotal()
		}
	}
	return total
}

// Total sums price*quantity over all items.
func Total(items []model.Item) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// FilterByName returns the items whose name contains query, ignoring case.
// A blank query matches every item. Order is preserved.
func FilterByName(items []model.Item, query string) []model.Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return model.Clone(items)
	}

	fold := cases.Fold()
	needle := fold.String(query)

	result := []model.Item{}
	for _, item := range items {
		if strings.Contains(fold.String(item.Name), needle) {
			result = append(result, item)
		}
	}
	return result
}

// Sorter orders items. Names are compared with the collation rules of Locale.
type Sorter struct {
	Locale language.Tag
}

// NewSorter returns a Sorter for a BCP 47 locale such as "en" or "pt-BR".
func NewSorter(locale string) (Sorter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return Sorter{}, fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	return Sorter{Locale: tag}, nil
}

// Sort returns a sorted copy of items. All orders are stable:
// items that compare equal keep their relative order.
//
//   - SortByName: ascending by name
//   - SortByPrice: descending by price*quantity
//   - SortByStatus: pending items before purchased ones
//   - SortNone: original order
func (s Sorter) Sort(items []model.Item, key SortKey) ([]model.Item, error) {
	out := model.Clone(items)

	switch key {
	case SortNone:
	case SortByName:
		c := collate.New(s.Locale)
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return c.CompareString(a.Name, b.Name)
		})
	case SortByPrice:
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return cmp.Compare(b.LineTotal(), a.LineTotal())
		})
	case SortByStatus:
		slices.SortStableFunc(out, func(a, b model.Item) int {
			return cmp.Compare(statusRank(a), statusRank(b))
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortKey, string(key))
	}
	return out, nil
}

// SortBy sorts with English collation.
func SortBy(items []model.Item, key SortKey) ([]model.Item, error) {
	return Sorter{Locale: language.English}.Sort(items, key)
}

func statusRank(item model.Item) int {
	if item.Purchased {
		return 1
	}
	return 0
}

// Query describes a derived view of the collection.
type Query struct {
	Search string
	Sort   SortKey
}

// View filters by name, then sorts.
func (s Sorter) View(items []model.Item, q Query) ([]model.Item, error) {
	return s.Sort(FilterByName(items, q.Search), q.Sort)
}

// View is Sorter.View with English collation.
func View(items []model.Item, q Query) ([]model.Item, error) {
	return Sorter{Locale: language.English}.View(items, q)
}

// Summary holds the counts and totals shown under a list.
type Summary struct {
	Count          int
	Pending        int
	Purchased      int
	TotalPending   float64
	TotalPurchased float64
	Total          float64
}

// Summarize computes counts and totals in one pass.
func Summarize(items []model.Item) Summary {
	var s Summary
	for _, item := range items {
		s.Count++
		if item.Purchased {
			s.Purchased++
			s.TotalPurchased += item.LineTotal()
		} else {
			s.Pending++
			s.TotalPending += item.LineTotal()
		}
	}
	s.Total = s.TotalPending + s.TotalPurchased
	return s
}
