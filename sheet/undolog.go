package sheet

import "github.com/berejant/sheetengine/coord"

// undoLog is the per-operation shadow of every cell touched since the last
// successful public operation. Because each operation touches only a
// handful of cells, a shadow map of pre-images is cheaper than any
// persistent/copy-on-write structure (spec.md §4.7, §9).
type undoLog struct {
	table   *cellTable
	touched map[coord.CellId]*cellInfo
}

func newUndoLog(table *cellTable) *undoLog {
	return &undoLog{table: table, touched: map[coord.CellId]*cellInfo{}}
}

// reset discards the shadow map at the start of every public mutating
// operation.
func (u *undoLog) reset() {
	u.touched = map[coord.CellId]*cellInfo{}
}

// stage snapshots the prior state of id the first time it is touched during
// the current operation. Later touches of the same id within the same
// operation are no-ops, since the first snapshot is already the correct
// pre-operation state to roll back to.
func (u *undoLog) stage(id coord.CellId) {
	if _, already := u.touched[id]; already {
		return
	}
	u.touched[id] = u.table.snapshot(id)
}

// rollback restores every staged cell to its pre-operation snapshot (or
// deletes it, if it did not exist before the operation began) and clears
// the log.
func (u *undoLog) rollback() {
	for id, snap := range u.touched {
		u.table.restore(id, snap)
	}
	u.reset()
}

// discard drops the shadow map on a successful operation, without touching
// the table.
func (u *undoLog) discard() {
	u.reset()
}
