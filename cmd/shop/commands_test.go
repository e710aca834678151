package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/jacksmith/shop/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	riceID   = "6f1c2a9e-0d7b-4c1e-9a57-1f3b2c4d5e6f"
	soapID   = "0b8d7c6e-5f4a-4b3c-8d2e-1a0f9e8d7c6b"
	applesID = "a1b2c3d4-1111-4222-8333-944455566677"
)

// setupTestWorkspace initializes .shop/ in a temp dir and points workDir at it.
func setupTestWorkspace(t *testing.T) *storage.Storage {
	t.Helper()

	dir := t.TempDir()
	s, err := storage.Init(dir)
	require.NoError(t, err)

	old := workDir
	workDir = dir
	t.Cleanup(func() { workDir = old })

	cli.SetColorEnabled(false)
	resetFlags()
	return s
}

// setupTestWorkspaceWithData also stores a small list:
// Rice 5 x 2 (pending), Soap 3 x 1 (purchased), apples 0.5 x 6 (pending).
func setupTestWorkspaceWithData(t *testing.T) *storage.Storage {
	t.Helper()
	s := setupTestWorkspace(t)

	saveItems(t, s, []model.Item{
		{ID: riceID, Name: "Rice", Price: 5, Quantity: 2},
		{ID: soapID, Name: "Soap", Price: 3, Quantity: 1, Purchased: true},
		{ID: applesID, Name: "apples", Price: 0.5, Quantity: 6},
	})
	return s
}

func testGateway(t *testing.T, s *storage.Storage) *storage.Gateway {
	t.Helper()
	b, err := storage.NewFileBackend(s.DataPath())
	require.NoError(t, err)
	g, err := storage.NewGateway(b, storage.DefaultKey, nil)
	require.NoError(t, err)
	return g
}

func saveItems(t *testing.T, s *storage.Storage, items []model.Item) {
	t.Helper()
	require.NoError(t, testGateway(t, s).Save(context.Background(), items))
}

func loadItems(t *testing.T, s *storage.Storage) []model.Item {
	t.Helper()
	items, status := testGateway(t, s).Load(context.Background())
	require.Equal(t, storage.LoadFound, status)
	return items
}

func writeRawBlob(t *testing.T, s *storage.Storage, blob string) {
	t.Helper()
	path := filepath.Join(s.DataPath(), storage.DefaultKey+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(blob), 0644))
}

func writeUserConfig(t *testing.T, s *storage.Storage, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(s.ConfigPath(), []byte(content), 0644))
}

// resetFlags restores every command flag variable to its default.
func resetFlags() {
	editName, editPrice, editQuantity, editInteractive = "", "", "", false
	rmYes = false
	clearYes = false
	listSearch, listSort, listPending, listPurchased = "", "", false, false
	totalPendingOnly = false
	dumpJSON = false
	validateFix = false
}

// captureOutput runs fn with stdout redirected and returns what it printed.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	os.Stdout = old

	return buf.String(), runErr
}

// withStdin replaces stdin with a regular file, which is never a terminal.
func withStdin(t *testing.T) {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	old := os.Stdin
	os.Stdin = f
	t.Cleanup(func() {
		os.Stdin = old
		f.Close()
	})
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	old := workDir
	workDir = dir
	defer func() { workDir = old }()

	output, err := captureOutput(t, func() error { return runInit(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Initialized shop in")
	assert.Contains(t, output, ".shop")

	_, err = os.Stat(filepath.Join(dir, ".shop", "config.yaml"))
	assert.NoError(t, err)

	_, err = captureOutput(t, func() error { return runInit(nil, nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCommandsOutsideWorkspace(t *testing.T) {
	old := workDir
	workDir = t.TempDir()
	defer func() { workDir = old }()

	_, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shop init")
}

func TestAddCommand(t *testing.T) {
	s := setupTestWorkspace(t)

	output, err := captureOutput(t, func() error { return runAdd(nil, []string{"Rice", "5", "2"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Rice")

	output, err = captureOutput(t, func() error { return runAdd(nil, []string{"  Leite ", "4,99"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Leite")

	items := loadItems(t, s)
	require.Len(t, items, 2)
	assert.Equal(t, "Rice", items[0].Name)
	assert.Equal(t, 5.0, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
	assert.False(t, items[0].Purchased)
	assert.Equal(t, "Leite", items[1].Name)
	assert.Equal(t, 4.99, items[1].Price)
	assert.Equal(t, 1, items[1].Quantity)
	assert.True(t, strings.HasPrefix(output, items[1].ShortID()))
}

func TestAddCommandDefaultQuantity(t *testing.T) {
	s := setupTestWorkspace(t)
	writeUserConfig(t, s, "default_quantity: 3\n")

	_, err := captureOutput(t, func() error { return runAdd(nil, []string{"Milk", "1"}) })
	require.NoError(t, err)

	items := loadItems(t, s)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddCommandValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"empty name", []string{"", "10", "2"}, ops.ErrEmptyName},
		{"negative price", []string{"Milk", "-1", "2"}, ops.ErrInvalidPrice},
		{"text price", []string{"Milk", "abc", "2"}, ops.ErrInvalidPrice},
		{"zero quantity", []string{"Milk", "1", "0"}, ops.ErrInvalidQuantity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestWorkspace(t)

			_, err := captureOutput(t, func() error { return runAdd(nil, tt.args) })
			assert.ErrorIs(t, err, tt.want)

			_, status := testGateway(t, s).Load(context.Background())
			assert.Equal(t, storage.LoadMissing, status, "nothing should be saved")
		})
	}
}

func TestListCommand(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		contains    []string
		notContains []string
	}{
		{
			name:     "all items with totals",
			setup:    func() {},
			contains: []string{"Rice", "Soap", "apples", "2 x 5.00", "10.00", "To buy (2):", "13.00", "Purchased (1):", "3.00", "Total:", "16.00"},
		},
		{
			name:        "pending only",
			setup:       func() { listPending = true },
			contains:    []string{"Rice", "apples"},
			notContains: []string{"Soap"},
		},
		{
			name:        "purchased only",
			setup:       func() { listPurchased = true },
			contains:    []string{"Soap", "[x]"},
			notContains: []string{"Rice", "apples"},
		},
		{
			name:        "search ignores case",
			setup:       func() { listSearch = "RICE" },
			contains:    []string{"Rice"},
			notContains: []string{"Soap", "apples"},
		},
		{
			name:     "search without matches still shows totals",
			setup:    func() { listSearch = "bread" },
			contains: []string{"No matching items.", "To buy (2):"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestWorkspaceWithData(t)
			tt.setup()

			output, err := captureOutput(t, func() error { return runList(nil, nil) })
			require.NoError(t, err)

			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestListCommandSort(t *testing.T) {
	tests := []struct {
		sort string
		want []string
	}{
		{"", []string{"Rice", "Soap", "apples"}},
		{"name", []string{"apples", "Rice", "Soap"}},
		{"pr", []string{"Rice", "Soap", "apples"}},
		{"STATUS", []string{"Rice", "apples", "Soap"}},
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			setupTestWorkspaceWithData(t)
			listSort = tt.sort

			output, err := captureOutput(t, func() error { return runList(nil, nil) })
			require.NoError(t, err)

			last := -1
			for _, name := range tt.want {
				idx := strings.Index(output, name)
				require.GreaterOrEqual(t, idx, 0, name)
				assert.Greater(t, idx, last, "%s out of order", name)
				last = idx
			}
		})
	}
}

func TestListCommandDefaultSortFromConfig(t *testing.T) {
	s := setupTestWorkspaceWithData(t)
	writeUserConfig(t, s, "default_sort: status\n")

	output, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Less(t, strings.Index(output, "apples"), strings.Index(output, "Soap"))
}

func TestListCommandUnknownSort(t *testing.T) {
	setupTestWorkspaceWithData(t)
	listSort = "weight"

	_, err := captureOutput(t, func() error { return runList(nil, nil) })
	assert.ErrorIs(t, err, ops.ErrUnknownSortKey)
}

func TestListCommandEmpty(t *testing.T) {
	setupTestWorkspace(t)

	output, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "No items.")
}

func TestListCommandCorruptDataStartsEmpty(t *testing.T) {
	s := setupTestWorkspace(t)
	writeRawBlob(t, s, "{{{ not a list")

	output, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "No items.")

	backup, err := os.ReadFile(filepath.Join(s.DataPath(), storage.DefaultKey+".corrupt.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "{{{ not a list", string(backup))
}

func TestListCommandLegacyData(t *testing.T) {
	s := setupTestWorkspace(t)
	writeRawBlob(t, s, `[{"id":"0.5318","name":"Leite","price":4.99,"quantity":3,"purchased":false}]`)

	output, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Leite")
	assert.Contains(t, output, "14.97")
}

func TestFindCommand(t *testing.T) {
	setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runFind(nil, []string{"APP"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "apples")
	assert.NotContains(t, output, "Rice")

	output, err = captureOutput(t, func() error { return runFind(nil, []string{"bread"}) })
	require.NoError(t, err)
	assert.Contains(t, output, `No items match "bread".`)
}

func TestShowCommand(t *testing.T) {
	setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runShow(nil, []string{"6F1C"}) })
	require.NoError(t, err)
	assert.Contains(t, output, riceID)
	assert.Contains(t, output, "Name:      Rice")
	assert.Contains(t, output, "Price:     5.00")
	assert.Contains(t, output, "Quantity:  2")
	assert.Contains(t, output, "Status:    pending")
	assert.Contains(t, output, "Total:     10.00")
}

func TestShowCommandErrors(t *testing.T) {
	setupTestWorkspaceWithData(t)

	_, err := captureOutput(t, func() error { return runShow(nil, []string{"ffff"}) })
	assert.ErrorIs(t, err, ops.ErrNotFound)

	saveItems(t, storageAt(t), []model.Item{
		{ID: "abc1", Name: "A", Price: 1, Quantity: 1},
		{ID: "abc2", Name: "B", Price: 1, Quantity: 1},
	})
	_, err = captureOutput(t, func() error { return runShow(nil, []string{"abc"}) })
	var amb *model.AmbiguousIDError
	assert.ErrorAs(t, err, &amb)
	assert.Contains(t, cli.FormatError(err), "Type more characters")
}

// storageAt opens the workspace the commands are pointed at.
func storageAt(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(workDir)
	require.NoError(t, err)
	return s
}

func TestToggleCommand(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runToggle(nil, []string{"6f1c", "0b8d"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "[x] Rice")
	assert.Contains(t, output, "[ ] Soap")

	items := loadItems(t, s)
	assert.True(t, items[0].Purchased)
	assert.False(t, items[1].Purchased)

	_, err = captureOutput(t, func() error { return runToggle(nil, []string{"nope"}) })
	assert.ErrorIs(t, err, ops.ErrNotFound)
}

func TestQtyCommand(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runQty(nil, []string{"6f1c", "+3"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Rice x5")

	output, err = captureOutput(t, func() error { return runQty(nil, []string{"6f1c", "-10"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Rice x1")

	assert.Equal(t, 1, loadItems(t, s)[0].Quantity)

	_, err = captureOutput(t, func() error { return runQty(nil, []string{"6f1c", "two"}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid delta")
}

func TestEditCommand(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	editName = "Brown rice"
	editPrice = "7,5"
	output, err := captureOutput(t, func() error { return runEdit(nil, []string{"6f1c"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Updated 6f1c2a9e Brown rice")

	items := loadItems(t, s)
	assert.Equal(t, riceID, items[0].ID)
	assert.Equal(t, "Brown rice", items[0].Name)
	assert.Equal(t, 7.5, items[0].Price)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestEditCommandErrors(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	_, err := captureOutput(t, func() error { return runEdit(nil, []string{"6f1c"}) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no changes specified")

	editPrice = "0"
	_, err = captureOutput(t, func() error { return runEdit(nil, []string{"6f1c"}) })
	assert.ErrorIs(t, err, ops.ErrInvalidPrice)

	assert.Equal(t, 5.0, loadItems(t, s)[0].Price)
}

func TestEditCommandInteractive(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	script := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf 'name: Jasmine rice\\nprice: 6\\nquantity: 4\\n' > \"$1\"\n"), 0755))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	editInteractive = true
	_, err := captureOutput(t, func() error { return runEdit(nil, []string{"6f1c"}) })
	require.NoError(t, err)

	item := loadItems(t, s)[0]
	assert.Equal(t, "Jasmine rice", item.Name)
	assert.Equal(t, 6.0, item.Price)
	assert.Equal(t, 4, item.Quantity)

	t.Setenv("EDITOR", "true")
	output, err := captureOutput(t, func() error { return runEdit(nil, []string{"6f1c"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "No changes made.")
}

func TestRmCommand(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	rmYes = true
	output, err := captureOutput(t, func() error { return runRm(nil, []string{"0b8d"}) })
	require.NoError(t, err)
	assert.Contains(t, output, "Deleted Soap")

	items := loadItems(t, s)
	require.Len(t, items, 2)
	assert.Equal(t, riceID, items[0].ID)
	assert.Equal(t, applesID, items[1].ID)
}

func TestRmCommandNeedsConfirmation(t *testing.T) {
	s := setupTestWorkspaceWithData(t)
	withStdin(t)

	_, err := captureOutput(t, func() error { return runRm(nil, []string{"0b8d"}) })
	assert.ErrorIs(t, err, cli.ErrNotConfirmed)
	assert.Len(t, loadItems(t, s), 3)

	writeUserConfig(t, s, "confirm: false\n")
	_, err = captureOutput(t, func() error { return runRm(nil, []string{"0b8d"}) })
	require.NoError(t, err)
	assert.Len(t, loadItems(t, s), 2)
}

func TestClearCommand(t *testing.T) {
	s := setupTestWorkspaceWithData(t)

	clearYes = true
	output, err := captureOutput(t, func() error { return runClear(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Removed 1 purchased item(s)")

	items := loadItems(t, s)
	require.Len(t, items, 2)
	assert.Equal(t, "Rice", items[0].Name)
	assert.Equal(t, "apples", items[1].Name)

	output, err = captureOutput(t, func() error { return runClear(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "No purchased items.")
}

func TestTotalCommand(t *testing.T) {
	setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runTotal(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "To buy (2):")
	assert.Contains(t, output, "13.00")
	assert.Contains(t, output, "16.00")

	totalPendingOnly = true
	output, err = captureOutput(t, func() error { return runTotal(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "13.00\n", output)
}

func TestTotalCommandLocale(t *testing.T) {
	s := setupTestWorkspaceWithData(t)
	writeUserConfig(t, s, "locale: pt-BR\n")
	totalPendingOnly = true

	output, err := captureOutput(t, func() error { return runTotal(nil, nil) })
	require.NoError(t, err)
	assert.Equal(t, "13,00\n", output)
}

func TestDumpCommand(t *testing.T) {
	setupTestWorkspaceWithData(t)

	output, err := captureOutput(t, func() error { return runDump(nil, nil) })
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(output, "version: 1\nitems:\n"))
	assert.Contains(t, output, "name: Rice")

	dumpJSON = true
	output, err = captureOutput(t, func() error { return runDump(nil, nil) })
	require.NoError(t, err)

	var items []model.Item
	require.NoError(t, json.Unmarshal([]byte(output), &items))
	require.Len(t, items, 3)
	assert.Equal(t, "Soap", items[1].Name)
	assert.True(t, items[1].Purchased)

	// The JSON export is readable as a legacy blob.
	doc, err := model.Decode([]byte(output))
	require.NoError(t, err)
	assert.Equal(t, items, doc.Items)
}

func TestValidateCommand(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		setupTestWorkspace(t)
		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, output, "Nothing stored yet.")
	})

	t.Run("unreadable key", func(t *testing.T) {
		s := setupTestWorkspace(t)
		require.NoError(t, os.Mkdir(filepath.Join(s.DataPath(), storage.DefaultKey+".yaml"), 0755))

		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read stored list")
		assert.NotContains(t, output, "Nothing stored yet.")
	})

	t.Run("clean list", func(t *testing.T) {
		setupTestWorkspaceWithData(t)
		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, output, "No issues found.")
	})

	t.Run("bad records reported then fixed", func(t *testing.T) {
		s := setupTestWorkspace(t)
		writeRawBlob(t, s, `version: 1
items:
  - {id: a, name: Rice, price: 5, quantity: 0}
  - {id: a, name: Soap, price: 3, quantity: 1}
  - {id: b, name: "", price: 1, quantity: 1}
`)

		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.Error(t, err)
		assert.Contains(t, err.Error(), "found 3 issue(s)")
		assert.Contains(t, output, "[quantity]")
		assert.Contains(t, output, "[id]")
		assert.Contains(t, output, "[name]")

		validateFix = true
		output, err = captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, output, "Fixes applied:")
		assert.Contains(t, output, "Saved 2 item(s)")

		items := loadItems(t, s)
		require.Len(t, items, 2)
		assert.Equal(t, 1, items[0].Quantity)
		assert.NotEqual(t, items[0].ID, items[1].ID)
	})

	t.Run("legacy format upgraded by fix", func(t *testing.T) {
		s := setupTestWorkspace(t)
		writeRawBlob(t, s, `[{"id":"0.1","name":"Leite","price":4.99,"quantity":3,"purchased":true}]`)

		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, output, "[legacy]")

		validateFix = true
		_, err = captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)

		doc, ok, err := testGateway(t, s).Inspect(context.Background())
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, model.CurrentVersion, doc.Version)
		assert.True(t, doc.Items[0].Purchased)
	})

	t.Run("undecodable data reset by fix", func(t *testing.T) {
		s := setupTestWorkspace(t)
		writeRawBlob(t, s, "{{{")

		output, err := captureOutput(t, func() error { return runValidate(nil, nil) })
		require.Error(t, err)
		assert.Contains(t, output, "[corrupt]")

		validateFix = true
		output, err = captureOutput(t, func() error { return runValidate(nil, nil) })
		require.NoError(t, err)
		assert.Contains(t, output, "products.corrupt")
		assert.Empty(t, loadItems(t, s))
	})
}

func TestSQLiteWorkspace(t *testing.T) {
	s := setupTestWorkspace(t)
	writeUserConfig(t, s, "backend: sqlite\nkey: groceries\n")

	_, err := captureOutput(t, func() error { return runAdd(nil, []string{"Rice", "5", "2"}) })
	require.NoError(t, err)

	output, err := captureOutput(t, func() error { return runList(nil, nil) })
	require.NoError(t, err)
	assert.Contains(t, output, "Rice")
	assert.Contains(t, output, "10.00")

	_, err = os.Stat(s.DatabasePath())
	assert.NoError(t, err)
}

func TestCompleteItemIDs(t *testing.T) {
	setupTestWorkspaceWithData(t)

	completions, _ := completeItemIDs(nil, nil, "6f")
	require.Len(t, completions, 1)
	assert.Equal(t, "6f1c2a9e\tpending: Rice", completions[0])

	completions, _ = completeItemIDs(nil, nil, "")
	assert.Len(t, completions, 3)

	keys, _ := completeSortKeys(nil, nil, "p")
	assert.Equal(t, []string{"price"}, keys)
}
