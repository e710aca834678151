package ops

import (
	"context"

	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/storage"
)

// Persister defines the persistence interface required by the ItemStore.
// The concrete implementation is storage.Gateway, but this interface allows
// alternative backends for testing.
type Persister interface {
	Save(ctx context.Context, items []model.Item) error
	Load(ctx context.Context) ([]model.Item, storage.LoadStatus)
}
