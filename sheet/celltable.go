package sheet

import (
	"github.com/berejant/sheetengine/coord"
	"github.com/berejant/sheetengine/formula"
)

// cellInfo is the Engine-owned record for a single cell: its parsed AST (nil
// when the cell is empty), its cached value, and the set of cells whose
// formula references this one.
type cellInfo struct {
	id         coord.CellId
	ast        formula.Ast
	value      float64
	dependents map[coord.CellId]struct{}
}

func newCellInfo(id coord.CellId) *cellInfo {
	return &cellInfo{id: id, dependents: map[coord.CellId]struct{}{}}
}

func (c *cellInfo) isEmpty() bool {
	return c.ast == nil
}

// clone makes a deep-enough copy for the undo log: the dependents set is
// copied so later mutation of the live cell never reaches back into a
// staged snapshot. The Ast is an immutable value built once by the parser
// and never mutated in place, so it is safe to share.
func (c *cellInfo) clone() *cellInfo {
	dependents := make(map[coord.CellId]struct{}, len(c.dependents))
	for id := range c.dependents {
		dependents[id] = struct{}{}
	}
	return &cellInfo{id: c.id, ast: c.ast, value: c.value, dependents: dependents}
}

// cellTable owns every live cell. No component outside this file mutates
// the map directly; Engine routes every mutation through touch, which
// stages an undo snapshot before handing back the live *cellInfo.
type cellTable struct {
	cells map[coord.CellId]*cellInfo
}

func newCellTable() *cellTable {
	return &cellTable{cells: map[coord.CellId]*cellInfo{}}
}

// getOrInsert returns the live cell for id, creating an empty one (with no
// Ast, carrying only a back-edge set) if absent.
func (t *cellTable) getOrInsert(id coord.CellId) *cellInfo {
	if c, ok := t.cells[id]; ok {
		return c
	}
	c := newCellInfo(id)
	t.cells[id] = c
	return c
}

// get looks up a cell without creating one.
func (t *cellTable) get(id coord.CellId) (*cellInfo, bool) {
	c, ok := t.cells[id]
	return c, ok
}

// removeIfDead erases the cell iff it is empty and has no dependents —
// garbage collection for orphaned back-edge carriers.
func (t *cellTable) removeIfDead(id coord.CellId) {
	c, ok := t.cells[id]
	if ok && c.isEmpty() && len(c.dependents) == 0 {
		delete(t.cells, id)
	}
}

// snapshot returns a deep clone of the live cell, or nil if id has no entry
// — the shape the undo log needs to restore "did not exist" on rollback.
func (t *cellTable) snapshot(id coord.CellId) *cellInfo {
	c, ok := t.cells[id]
	if !ok {
		return nil
	}
	return c.clone()
}

// restore replaces cells[id] with snap, or deletes the entry when snap is
// nil.
func (t *cellTable) restore(id coord.CellId, snap *cellInfo) {
	if snap == nil {
		delete(t.cells, id)
		return
	}
	t.cells[id] = snap
}

// nonEmptyIds returns the ids of every non-empty cell, in no particular
// order.
func (t *cellTable) nonEmptyIds() []coord.CellId {
	ids := make([]coord.CellId, 0, len(t.cells))
	for id, c := range t.cells {
		if !c.isEmpty() {
			ids = append(ids, id)
		}
	}
	return ids
}

// clear wipes every cell.
func (t *cellTable) clear() {
	t.cells = map[coord.CellId]*cellInfo{}
}
