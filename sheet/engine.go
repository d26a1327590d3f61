// Package sheet implements the spreadsheet engine: the cell/dependency
// data model, the incremental evaluator with circular-reference detection
// and transactional undo, and the public operations (eval, delete, copy,
// clear, query, dump, valueFormulas) that talk to an external store.
package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/berejant/sheetengine/contracts"
	"github.com/berejant/sheetengine/coord"
	"github.com/berejant/sheetengine/errs"
	"github.com/berejant/sheetengine/formula"
)

// Engine orchestrates the cell table, the undo log, and the evaluator atop
// a single sheet, and talks to the external Store for persistence
// (spec.md §4.8).
type Engine struct {
	sheetId  string
	store    contracts.Store
	notifier contracts.Notifier
	table    *cellTable
	undo     *undoLog
}

// New builds an Engine for sheetId backed by store. Call LoadFromStore to
// replay any previously persisted formulas.
func New(sheetId string, store contracts.Store) *Engine {
	table := newCellTable()
	return &Engine{
		sheetId: strings.ToLower(sheetId),
		store:   store,
		table:   table,
		undo:    newUndoLog(table),
	}
}

// SetNotifier attaches a change notifier; updates returned by Eval, Delete,
// and Copy are handed to it after a successful persist. A nil notifier (the
// default) disables notification entirely.
func (e *Engine) SetNotifier(n contracts.Notifier) {
	e.notifier = n
}

// Close releases the underlying store handle.
func (e *Engine) Close() error {
	return e.store.Close()
}

func canonicalCellId(id string) coord.CellId {
	return coord.CellId(strings.ToLower(id))
}

func stringifyValues(m map[coord.CellId]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for id, v := range m {
		out[string(id)] = v
	}
	return out
}

// LoadFromStore replays every persisted (cellId, formula) pair from the
// store through Eval, without writing back to the store (spec.md §6: since
// each replay is itself a transactional eval, any ordering yields the same
// final state).
func (e *Engine) LoadFromStore() error {
	formulas, err := e.store.ReadFormulas(e.sheetId)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.DB, err)
	}

	for _, cf := range formulas {
		id := canonicalCellId(cf.CellId)
		if err := coord.ValidateId(string(id)); err != nil {
			return err
		}
		if _, err := e.evalAndMaybePersist(id, cf.Formula, false); err != nil {
			return err
		}
	}

	return nil
}

// Eval parses formulaText with base cellId, installs it, and recomputes
// cellId and everything transitively dependent on it (spec.md §4.8).
func (e *Engine) Eval(cellId, formulaText string) (map[string]float64, error) {
	id := canonicalCellId(cellId)
	if err := coord.ValidateId(string(id)); err != nil {
		return nil, err
	}

	updates, err := e.evalAndMaybePersist(id, formulaText, true)
	if err != nil {
		return nil, err
	}
	return stringifyValues(updates), nil
}

// evalAndMaybePersist is the shared body of Eval and LoadFromStore's replay
// loop: parse & stage, mutate memory, persist (spec.md §4.8's three-phase
// transaction). persist=false skips both the store write and notification,
// used during bulk load since the store already holds the fact being
// replayed.
func (e *Engine) evalAndMaybePersist(id coord.CellId, formulaText string, persist bool) (map[coord.CellId]float64, error) {
	newAst, err := formula.Parse(formulaText, id)
	if err != nil {
		return nil, err
	}

	e.undo.reset()

	if old, ok := e.table.get(id); ok && !old.isEmpty() {
		if err = e.removeAsDependent(id, old.ast); err != nil {
			e.undo.rollback()
			return nil, err
		}
	}

	cell := e.touch(id)
	cell.ast = newAst

	updates, err := e.evalFromRoot(id)
	if err != nil {
		e.undo.rollback()
		return nil, err
	}

	if persist {
		if err = e.store.UpdateCell(e.sheetId, string(id), formulaText); err != nil {
			e.undo.rollback()
			return nil, fmt.Errorf("%w: %v", errs.DB, err)
		}
	}

	e.undo.discard()

	if persist {
		e.notify(updates)
	}

	return updates, nil
}

// Query returns the cached value and printed formula for cellId, or the
// zero cell {0, ""} for an unknown or empty one (spec.md §4.8).
func (e *Engine) Query(cellId string) (contracts.Cell, error) {
	id := canonicalCellId(cellId)

	cell, ok := e.table.get(id)
	if !ok || cell.isEmpty() {
		return contracts.Cell{}, nil
	}

	text, err := formula.Print(cell.ast, id)
	if err != nil {
		return contracts.Cell{}, err
	}

	return contracts.Cell{Value: cell.value, Formula: text}, nil
}

// Delete clears cellId's formula and propagates the resulting 0 value to
// every cell transitively dependent on it. Deleting an unknown or already
// empty cell is a no-op on the table that still asks the store to delete
// (spec.md §4.8).
func (e *Engine) Delete(cellId string) (map[string]float64, error) {
	id := canonicalCellId(cellId)
	if err := coord.ValidateId(string(id)); err != nil {
		return nil, err
	}

	e.undo.reset()

	cell, ok := e.table.get(id)
	if !ok || cell.isEmpty() {
		if err := e.store.Delete(e.sheetId, string(id)); err != nil {
			return nil, fmt.Errorf("%w: %v", errs.DB, err)
		}
		return map[string]float64{}, nil
	}

	if err := e.removeAsDependent(id, cell.ast); err != nil {
		e.undo.rollback()
		return nil, err
	}

	live := e.touch(id)
	live.ast = nil

	updates, err := e.evalFromRoot(id)
	if err != nil {
		e.undo.rollback()
		return nil, err
	}

	e.table.removeIfDead(id)

	if err = e.store.Delete(e.sheetId, string(id)); err != nil {
		e.undo.rollback()
		return nil, fmt.Errorf("%w: %v", errs.DB, err)
	}

	e.undo.discard()
	e.notify(updates)

	return stringifyValues(updates), nil
}

// Copy is print-then-parse (spec.md §8's copy law): it prints srcId's AST
// rebased against destId — which adjusts relative refs and leaves
// absolutes intact — and evaluates the result as destId's new formula. A
// source with no formula degrades to Delete(destId). Out-of-range relative
// references discovered during the rebase raise errs.Syntax.
func (e *Engine) Copy(destId, srcId string) (map[string]float64, error) {
	dest := canonicalCellId(destId)
	src := canonicalCellId(srcId)
	if err := coord.ValidateId(string(dest)); err != nil {
		return nil, err
	}
	if err := coord.ValidateId(string(src)); err != nil {
		return nil, err
	}

	srcCell, ok := e.table.get(src)
	if !ok || srcCell.isEmpty() {
		return e.Delete(string(dest))
	}

	destFormula, err := formula.Print(srcCell.ast, dest)
	if err != nil {
		return nil, err
	}

	return e.Eval(string(dest), destFormula)
}

// Clear wipes every cell without recording undos and asks the store to
// clear its persisted copy.
func (e *Engine) Clear() error {
	e.table.clear()
	e.undo.reset()

	if err := e.store.Clear(e.sheetId); err != nil {
		return fmt.Errorf("%w: %v", errs.DB, err)
	}
	return nil
}

// Dump topologically sorts every non-empty cell by depth (primary,
// ascending) and CellId (secondary, ascending), via Kahn-style layering
// over the prerequisite relation (spec.md §4.8).
func (e *Engine) Dump() ([]contracts.CellFormula, error) {
	ids := e.table.nonEmptyIds()

	nonEmpty := make(map[coord.CellId]bool, len(ids))
	for _, id := range ids {
		nonEmpty[id] = true
	}

	// indegree[c] counts non-empty prerequisites of c: cells p such that
	// c appears in p's dependents (i.e. c's formula references p).
	indegree := make(map[coord.CellId]int, len(ids))
	for _, id := range ids {
		indegree[id] = 0
	}
	for _, p := range ids {
		pCell, _ := e.table.get(p)
		for c := range pCell.dependents {
			if nonEmpty[c] {
				indegree[c]++
			}
		}
	}

	var frontier []coord.CellId
	for _, id := range ids {
		if indegree[id] == 0 {
			frontier = append(frontier, id)
		}
	}

	ordered := make([]coord.CellId, 0, len(ids))
	for len(frontier) > 0 {
		sort.Slice(frontier, func(i, j int) bool { return frontier[i] < frontier[j] })
		ordered = append(ordered, frontier...)

		var next []coord.CellId
		for _, p := range frontier {
			pCell, _ := e.table.get(p)
			for c := range pCell.dependents {
				if !nonEmpty[c] {
					continue
				}
				indegree[c]--
				if indegree[c] == 0 {
					next = append(next, c)
				}
			}
		}
		frontier = next
	}

	result := make([]contracts.CellFormula, 0, len(ordered))
	for _, id := range ordered {
		cell, _ := e.table.get(id)
		text, err := formula.Print(cell.ast, id)
		if err != nil {
			return nil, err
		}
		result = append(result, contracts.CellFormula{CellId: string(id), Formula: text})
	}

	return result, nil
}

// ValueFormulas returns the current Query result for each id in ids,
// defaulting to every id produced by Dump when ids is nil.
func (e *Engine) ValueFormulas(ids []string) (map[string]contracts.Cell, error) {
	if ids == nil {
		dump, err := e.Dump()
		if err != nil {
			return nil, err
		}
		ids = make([]string, len(dump))
		for i, cf := range dump {
			ids[i] = cf.CellId
		}
	}

	result := make(map[string]contracts.Cell, len(ids))
	for _, id := range ids {
		cell, err := e.Query(id)
		if err != nil {
			return nil, err
		}
		result[id] = cell
	}

	return result, nil
}

// notify hands the post-operation updates map to the attached Notifier, if
// any, printing each updated cell's current formula for the payload.
func (e *Engine) notify(updates map[coord.CellId]float64) {
	if e.notifier == nil || len(updates) == 0 {
		return
	}

	cells := make([]contracts.CellUpdate, 0, len(updates))
	for id, value := range updates {
		var text string
		if cell, ok := e.table.get(id); ok && !cell.isEmpty() {
			text, _ = formula.Print(cell.ast, id)
		}
		cells = append(cells, contracts.CellUpdate{CellId: string(id), Value: value, Formula: text})
	}

	e.notifier.Notify(e.sheetId, cells)
}
