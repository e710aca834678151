package ops

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/storage"
	"go.uber.org/zap"
)

// ItemStore owns the canonical item collection.
//
// Every mutation builds the next collection, saves it through the Persister
// and only then makes it current. If the save fails the collection is left
// as it was and the error is returned. A mutex serializes all operations,
// including the save.
type ItemStore struct {
	mu     sync.Mutex
	items  []model.Item
	p      Persister
	status storage.LoadStatus
	logger *zap.Logger
}

// OpenItemStore loads the stored collection once and returns a store over it.
func OpenItemStore(ctx context.Context, p Persister, logger *zap.Logger) *ItemStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	items, status := p.Load(ctx)
	if items == nil {
		items = []model.Item{}
	}
	logger.Debug("item store opened", zap.Stringer("status", status), zap.Int("items", len(items)))

	return &ItemStore{
		items:  items,
		p:      p,
		status: status,
		logger: logger,
	}
}

// LoadStatus reports how the collection was obtained when the store was opened.
func (s *ItemStore) LoadStatus() storage.LoadStatus {
	return s.status
}

// List returns a snapshot of the collection in order.
func (s *ItemStore) List() []model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.Clone(s.items)
}

// Get returns the item with the given ID.
func (s *ItemStore) Get(id string) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, &NotFoundError{ID: id}
	}
	return s.items[i], nil
}

// Resolve maps a full or abbreviated ID to the full ID of one item.
func (s *ItemStore) Resolve(ref string) (string, error) {
	s.mu.Lock()
	ids := make([]string, len(s.items))
	for i, item := range s.items {
		ids[i] = item.ID
	}
	s.mu.Unlock()

	id, err := model.MatchID(ref, ids)
	if errors.Is(err, model.ErrInvalidID) {
		return "", &NotFoundError{ID: strings.TrimSpace(ref)}
	}
	return id, err
}

// Add appends a new, not yet purchased item and saves the collection.
// The name is stored trimmed.
func (s *ItemStore) Add(ctx context.Context, name string, price float64, quantity int) (model.Item, error) {
	if err := CheckFields(name, price, quantity); err != nil {
		return model.Item{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]bool, len(s.items))
	for _, it := range s.items {
		taken[it.ID] = true
	}

	item := model.Item{
		ID:       model.NewUniqueID(taken),
		Name:     strings.TrimSpace(name),
		Price:    price,
		Quantity: quantity,
	}

	next := append(model.Clone(s.items), item)
	if err := s.commit(ctx, "add", next); err != nil {
		return model.Item{}, err
	}
	return item, nil
}

// Edit replaces name, price and quantity of an item.
// ID, purchased flag and position are unchanged.
func (s *ItemStore) Edit(ctx context.Context, id string, name string, price float64, quantity int) (model.Item, error) {
	if err := CheckFields(name, price, quantity); err != nil {
		return model.Item{}, err
	}
	return s.update(ctx, "edit", id, func(item *model.Item) {
		item.Name = strings.TrimSpace(name)
		item.Price = price
		item.Quantity = quantity
	})
}

// TogglePurchased flips the purchased flag of an item.
func (s *ItemStore) TogglePurchased(ctx context.Context, id string) (model.Item, error) {
	return s.update(ctx, "toggle", id, func(item *model.Item) {
		item.Purchased = !item.Purchased
	})
}

// AdjustQuantity adds delta to the quantity of an item.
// The result never goes below 1, however negative delta is.
func (s *ItemStore) AdjustQuantity(ctx context.Context, id string, delta int) (model.Item, error) {
	return s.update(ctx, "adjust quantity", id, func(item *model.Item) {
		item.Quantity = clampQuantity(item.Quantity, delta)
	})
}

// Delete removes an item. Returns false, and leaves the collection
// untouched, if no item has the ID.
func (s *ItemStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}

	next := make([]model.Item, 0, len(s.items)-1)
	next = append(next, s.items[:i]...)
	next = append(next, s.items[i+1:]...)
	if err := s.commit(ctx, "delete", next); err != nil {
		return false, err
	}
	return true, nil
}

// ClearPurchased removes every purchased item in one step and returns how
// many were removed. Nothing is saved when there is nothing to remove.
func (s *ItemStore) ClearPurchased(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Item, 0, len(s.items))
	for _, item := range s.items {
		if !item.Purchased {
			next = append(next, item)
		}
	}

	removed := len(s.items) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, "clear purchased", next); err != nil {
		return 0, err
	}
	return removed, nil
}

// update applies fn to a copy of the item with the given ID and commits it.
func (s *ItemStore) update(ctx context.Context, op string, id string, fn func(*model.Item)) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Item{}, &NotFoundError{ID: id}
	}

	next := model.Clone(s.items)
	fn(&next[i])
	if err := s.commit(ctx, op, next); err != nil {
		return model.Item{}, err
	}
	return next[i], nil
}

// commit saves next and, on success, makes it the current collection.
// Callers must hold s.mu.
func (s *ItemStore) commit(ctx context.Context, op string, next []model.Item) error {
	if err := s.p.Save(ctx, next); err != nil {
		s.logger.Warn("change not applied", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	s.items = next
	s.logger.Debug("change applied", zap.String("op", op), zap.Int("items", len(next)))
	return nil
}

// indexOf returns the position of the item with the given ID, or -1.
// Callers must hold s.mu.
func (s *ItemStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// clampQuantity returns max(1, q+delta) without overflowing.
// q is assumed to be at least 1.
func clampQuantity(q, delta int) int {
	if delta <= 1-q {
		return 1
	}
	if delta > 0 && q > math.MaxInt-delta {
		return math.MaxInt
	}
	return q + delta
}
