package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jacksmith/shop/internal/model"
	"go.uber.org/zap"
)

// corruptSuffix is appended to the key when an unreadable blob is set aside.
const corruptSuffix = ".corrupt"

// ErrInvalidRecord is returned when a stored or outgoing item breaks an item invariant.
var ErrInvalidRecord = errors.New("invalid item record")

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadStatus describes where the collection returned by Load came from.
type LoadStatus int

const (
	// LoadFound means the stored collection was read and is valid.
	LoadFound LoadStatus = iota
	// LoadMissing means nothing was stored under the key yet.
	LoadMissing
	// LoadRecovered means the stored data could not be used and an empty
	// collection was returned instead.
	LoadRecovered
)

func (s LoadStatus) String() string {
	switch s {
	case LoadFound:
		return "found"
	case LoadMissing:
		return "missing"
	case LoadRecovered:
		return "recovered"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Gateway reads and writes the whole item collection as one blob under a single key.
type Gateway struct {
	backend Backend
	key     string
	logger  *zap.Logger
}

// NewGateway returns a Gateway storing the collection under key in backend.
func NewGateway(backend Backend, key string, logger *zap.Logger) (*Gateway, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		backend: backend,
		key:     key,
		logger:  logger.With(zap.String("key", key)),
	}, nil
}

// Key returns the storage key.
func (g *Gateway) Key() string {
	return g.key
}

// CorruptKey returns the key under which unreadable blobs are set aside.
func (g *Gateway) CorruptKey() string {
	return g.key + corruptSuffix
}

// Save serializes items and replaces the stored value in one write.
// Collections that break an item invariant are rejected before anything is written.
func (g *Gateway) Save(ctx context.Context, items []model.Item) error {
	if err := ValidateItems(items); err != nil {
		return fmt.Errorf("refusing to save: %w", err)
	}

	data, err := model.Encode(items)
	if err != nil {
		return err
	}
	if err := g.backend.Put(ctx, g.key, data); err != nil {
		g.logger.Error("flush failed", zap.Int("items", len(items)), zap.Error(err))
		return fmt.Errorf("failed to save items: %w", err)
	}

	g.logger.Debug("flushed items", zap.Int("items", len(items)), zap.Int("bytes", len(data)))
	return nil
}

// Load reads the stored collection.
// A missing key yields an empty collection with LoadMissing. Read failures,
// undecodable blobs and records that break an item invariant yield an empty
// collection with LoadRecovered; the raw blob, if any, is copied to
// CorruptKey first. Load never fails.
func (g *Gateway) Load(ctx context.Context) ([]model.Item, LoadStatus) {
	data, ok, err := g.backend.Get(ctx, g.key)
	if err != nil {
		g.logger.Warn("could not read stored items, starting empty", zap.Error(err))
		return []model.Item{}, LoadRecovered
	}
	if !ok {
		g.logger.Debug("no stored items")
		return []model.Item{}, LoadMissing
	}

	items, err := decodeItems(data)
	if err != nil {
		g.setAside(ctx, data)
		g.logger.Warn("stored items are unreadable, starting empty",
			zap.String("backup_key", g.CorruptKey()),
			zap.Error(err),
		)
		return []model.Item{}, LoadRecovered
	}

	g.logger.Debug("loaded items", zap.Int("items", len(items)))
	return items, LoadFound
}

// Inspect decodes the stored blob without checking item invariants.
// Returns false if nothing is stored under the key.
func (g *Gateway) Inspect(ctx context.Context) (*model.Document, bool, error) {
	data, ok, err := g.backend.Get(ctx, g.key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	doc, err := model.Decode(data)
	if err != nil {
		return nil, true, err
	}
	return doc, true, nil
}

func (g *Gateway) setAside(ctx context.Context, data []byte) {
	if err := g.backend.Put(ctx, g.CorruptKey(), data); err != nil {
		g.logger.Error("could not back up unreadable items", zap.Error(err))
	}
}

func decodeItems(data []byte) ([]model.Item, error) {
	doc, err := model.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ValidateItems(doc.Items); err != nil {
		return nil, err
	}
	if doc.Items == nil {
		return []model.Item{}, nil
	}
	return doc.Items, nil
}

// ValidateItems checks every item invariant over a collection:
// required non-blank id and name, finite price > 0, quantity >= 1, unique ids.
func ValidateItems(items []model.Item) error {
	seen := make(map[string]bool, len(items))
	for i := range items {
		item := &items[i]
		if err := validate.Struct(item); err != nil {
			return fmt.Errorf("%w at position %d: %v", ErrInvalidRecord, i, err)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w at position %d: blank name", ErrInvalidRecord, i)
		}
		if math.IsInf(item.Price, 0) {
			return fmt.Errorf("%w at position %d: infinite price", ErrInvalidRecord, i)
		}
		if seen[item.ID] {
			return fmt.Errorf("%w at position %d: duplicate id %s", ErrInvalidRecord, i, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}
