package bboltstore

import (
	"path/filepath"
	"testing"

	"github.com/berejant/sheetengine/contracts"
	"github.com/stretchr/testify/assert"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sheet.db")
	store, err := Open(path)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_UpdateAndReadFormulas(t *testing.T) {
	store := openTestStore(t)

	assert.NoError(t, store.UpdateCell("sheet1", "a1", "5"))
	assert.NoError(t, store.UpdateCell("sheet1", "b1", "a1+1"))

	formulas, err := store.ReadFormulas("sheet1")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []contracts.CellFormula{
		{CellId: "a1", Formula: "5"},
		{CellId: "b1", Formula: "a1+1"},
	}, formulas)
}

func TestStore_ReadFormulas_UnknownSheetIsEmpty(t *testing.T) {
	store := openTestStore(t)

	formulas, err := store.ReadFormulas("never-written")
	assert.NoError(t, err)
	assert.Empty(t, formulas)
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)

	assert.NoError(t, store.UpdateCell("sheet1", "a1", "5"))
	assert.NoError(t, store.Delete("sheet1", "a1"))

	formulas, err := store.ReadFormulas("sheet1")
	assert.NoError(t, err)
	assert.Empty(t, formulas)
}

func TestStore_Delete_UnknownSheetIsNoOp(t *testing.T) {
	store := openTestStore(t)
	assert.NoError(t, store.Delete("never-written", "a1"))
}

func TestStore_Clear(t *testing.T) {
	store := openTestStore(t)

	assert.NoError(t, store.UpdateCell("sheet1", "a1", "5"))
	assert.NoError(t, store.UpdateCell("sheet1", "b1", "6"))
	assert.NoError(t, store.Clear("sheet1"))

	formulas, err := store.ReadFormulas("sheet1")
	assert.NoError(t, err)
	assert.Empty(t, formulas)
}

func TestStore_SheetIdsAreCaseInsensitive(t *testing.T) {
	store := openTestStore(t)

	assert.NoError(t, store.UpdateCell("Sheet1", "a1", "5"))

	formulas, err := store.ReadFormulas("sheet1")
	assert.NoError(t, err)
	assert.Equal(t, []contracts.CellFormula{{CellId: "a1", Formula: "5"}}, formulas)
}
