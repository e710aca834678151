package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/jacksmith/shop/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// workspace is an opened .shop/ directory with its backend connected.
type workspace struct {
	storage *storage.Storage
	cfg     *storage.Config
	backend storage.Backend
	gateway *storage.Gateway
	sorter  ops.Sorter
}

// openWorkspace opens the workspace in workDir and connects the configured backend.
// Callers must Close it.
func openWorkspace(ctx context.Context) (*workspace, error) {
	s, err := storage.Open(workDir)
	if err != nil {
		return nil, err
	}

	cfg, err := s.LoadConfig()
	if err != nil {
		return nil, err
	}

	sorter, err := ops.NewSorter(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale in %s: %w", s.ConfigPath(), err)
	}

	backend, err := s.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	g, err := storage.NewGateway(backend, cfg.Key, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &workspace{
		storage: s,
		cfg:     cfg,
		backend: backend,
		gateway: g,
		sorter:  sorter,
	}, nil
}

// Close releases the backend.
func (w *workspace) Close() error {
	return w.backend.Close()
}

// locale is the tag used for sorting and money formatting.
func (w *workspace) locale() language.Tag {
	return w.sorter.Locale
}

// money formats an amount for display.
func (w *workspace) money(amount float64) string {
	return cli.FormatMoney(w.locale(), amount)
}

// openStore loads the list. A recovered (unreadable) list is reported on stderr.
func (w *workspace) openStore(ctx context.Context) *ops.ItemStore {
	store := ops.OpenItemStore(ctx, w.gateway, logger)
	if store.LoadStatus() == storage.LoadRecovered {
		fmt.Fprintln(os.Stderr, cli.Yellow(fmt.Sprintf(
			"warning: stored list was unreadable, starting empty (old data kept under %q)",
			w.gateway.CorruptKey())))
		logger.Debug("started from a recovered list", zap.String("backup", w.gateway.CorruptKey()))
	}
	return store
}

// resolveItem finds the item a full or abbreviated id refers to.
func resolveItem(store *ops.ItemStore, ref string) (model.Item, error) {
	id, err := store.Resolve(ref)
	if err != nil {
		return model.Item{}, err
	}
	return store.Get(id)
}

// commandContext returns the command's context, or Background when the
// command is run directly (as in tests).
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// checkbox renders the purchased flag.
func checkbox(item model.Item) string {
	if item.Purchased {
		return cli.Green("[x]")
	}
	return "[ ]"
}
