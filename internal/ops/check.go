package ops

import (
	"fmt"
	"math"
	"strings"

	"github.com/jacksmith/shop/internal/model"
)

// IssueType classifies a problem found in stored records.
type IssueType string

const (
	IssueMissingID       IssueType = "missing_id"
	IssueDuplicateID     IssueType = "duplicate_id"
	IssueEmptyName       IssueType = "empty_name"
	IssueInvalidPrice    IssueType = "invalid_price"
	IssueInvalidQuantity IssueType = "invalid_quantity"
)

// Issue is one problem in a stored record.
type Issue struct {
	Type     IssueType
	Position int    // index of the record in the stored array
	ItemID   string // may be empty
	Message  string
}

func (i Issue) String() string {
	if i.ItemID == "" {
		return fmt.Sprintf("record %d: %s", i.Position, i.Message)
	}
	return fmt.Sprintf("record %d (%s): %s", i.Position, model.ShortID(i.ItemID), i.Message)
}

// Fix describes one change made by Repair.
type Fix struct {
	Type        IssueType
	Position    int
	ItemID      string
	Description string
}

// Check reports every record that breaks an item invariant.
// It never modifies items.
func Check(items []model.Item) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for pos, item := range items {
		switch prev, dup := seen[item.ID]; {
		case item.ID == "":
			issues = append(issues, Issue{Type: IssueMissingID, Position: pos, Message: "missing id"})
		case dup:
			issues = append(issues, Issue{
				Type:     IssueDuplicateID,
				Position: pos,
				ItemID:   item.ID,
				Message:  fmt.Sprintf("id already used by record %d", prev),
			})
		default:
			seen[item.ID] = pos
		}

		if strings.TrimSpace(item.Name) == "" {
			issues = append(issues, Issue{Type: IssueEmptyName, Position: pos, ItemID: item.ID, Message: "name is empty"})
		}
		if !validPrice(item.Price) {
			issues = append(issues, Issue{
				Type:     IssueInvalidPrice,
				Position: pos,
				ItemID:   item.ID,
				Message:  fmt.Sprintf("price %v is not a positive number", item.Price),
			})
		}
		if item.Quantity < 1 {
			issues = append(issues, Issue{
				Type:     IssueInvalidQuantity,
				Position: pos,
				ItemID:   item.ID,
				Message:  fmt.Sprintf("quantity %d is less than 1", item.Quantity),
			})
		}
	}
	return issues
}

// Repair returns a copy of items that satisfies every invariant.
// Records with an empty name or unusable price are dropped, quantities
// below 1 become 1, and missing or repeated ids are replaced.
func Repair(items []model.Item) ([]model.Item, []Fix) {
	var fixes []Fix

	taken := make(map[string]bool, len(items))
	for _, item := range items {
		if item.ID != "" {
			taken[item.ID] = true
		}
	}

	kept := make(map[string]bool, len(items))
	result := []model.Item{}
	for pos, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			fixes = append(fixes, Fix{Type: IssueEmptyName, Position: pos, ItemID: item.ID, Description: "dropped record with empty name"})
			continue
		}
		if !validPrice(item.Price) {
			fixes = append(fixes, Fix{
				Type:        IssueInvalidPrice,
				Position:    pos,
				ItemID:      item.ID,
				Description: fmt.Sprintf("dropped %q with price %v", item.Name, item.Price),
			})
			continue
		}

		if item.Quantity < 1 {
			fixes = append(fixes, Fix{
				Type:        IssueInvalidQuantity,
				Position:    pos,
				ItemID:      item.ID,
				Description: fmt.Sprintf("set quantity of %q from %d to 1", item.Name, item.Quantity),
			})
			item.Quantity = 1
		}

		switch {
		case item.ID == "":
			item.ID = model.NewUniqueID(taken)
			taken[item.ID] = true
			fixes = append(fixes, Fix{
				Type:        IssueMissingID,
				Position:    pos,
				ItemID:      item.ID,
				Description: fmt.Sprintf("assigned id %s to %q", model.ShortID(item.ID), item.Name),
			})
		case kept[item.ID]:
			old := item.ID
			item.ID = model.NewUniqueID(taken)
			taken[item.ID] = true
			fixes = append(fixes, Fix{
				Type:        IssueDuplicateID,
				Position:    pos,
				ItemID:      item.ID,
				Description: fmt.Sprintf("replaced repeated id %s of %q with %s", model.ShortID(old), item.Name, model.ShortID(item.ID)),
			})
		}

		kept[item.ID] = true
		result = append(result, item)
	}
	return result, fixes
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
