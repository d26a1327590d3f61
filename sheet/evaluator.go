package sheet

import (
	"fmt"

	"github.com/berejant/sheetengine/coord"
	"github.com/berejant/sheetengine/errs"
	"github.com/berejant/sheetengine/formula"
)

// touch stages an undo snapshot for id (on first touch this operation only)
// and returns the live cell, creating an empty one if it does not yet
// exist. Every mutation anywhere in this package goes through touch so the
// undo log and the table never drift apart.
func (e *Engine) touch(id coord.CellId) *cellInfo {
	e.undo.stage(id)
	return e.table.getOrInsert(id)
}

// evalAst evaluates ast as if it lived in cell base, installing a
// dependency edge from base to every cell it references along the way
// (spec.md §4.6). A nil Ast (an empty cell) evaluates to 0.
func (e *Engine) evalAst(base coord.CellId, ast formula.Ast) (float64, error) {
	switch v := ast.(type) {
	case nil:
		return 0, nil

	case formula.Num:
		return v.Value, nil

	case formula.Ref:
		target, err := v.CellRef.Resolve(base)
		if err != nil {
			return 0, err
		}
		cell := e.touch(target)
		cell.dependents[base] = struct{}{}
		return cell.value, nil

	case formula.App:
		args := make([]float64, len(v.Kids))
		for i, kid := range v.Kids {
			val, err := e.evalAst(base, kid)
			if err != nil {
				return 0, err
			}
			args[i] = val
		}
		return formula.Apply(v.Fn, args), nil

	default:
		return 0, fmt.Errorf("unknown ast node %T: %w", ast, errs.Syntax)
	}
}

// evalFromRoot recomputes rootId and, recursively, every cell transitively
// dependent on it, detecting circular references on the way.
func (e *Engine) evalFromRoot(rootId coord.CellId) (map[coord.CellId]float64, error) {
	visiting := map[coord.CellId]bool{}
	result := map[coord.CellId]float64{}
	if err := e.evalOne(rootId, visiting, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Engine) evalOne(id coord.CellId, visiting map[coord.CellId]bool, result map[coord.CellId]float64) error {
	if visiting[id] {
		return fmt.Errorf("%s: %w", id, errs.CircularRef)
	}
	visiting[id] = true
	defer delete(visiting, id)

	cell := e.touch(id)
	value, err := e.evalAst(id, cell.ast)
	if err != nil {
		return err
	}
	cell.value = value
	result[id] = value

	// Copy the dependent ids before recursing: evalAst on a dependent can
	// install new edges into other cells' dependents sets, and mutating a
	// map while ranging a live reference to it is undefined.
	dependents := make([]coord.CellId, 0, len(cell.dependents))
	for d := range cell.dependents {
		dependents = append(dependents, d)
	}

	for _, d := range dependents {
		if err := e.evalOne(d, visiting, result); err != nil {
			return err
		}
	}

	return nil
}

// removeAsDependent reverse-walks ast (the cell's previous formula, if any)
// and deletes id from the dependents set of every cell it used to
// reference, keeping invariant I1 intact across a reinstall.
func (e *Engine) removeAsDependent(id coord.CellId, ast formula.Ast) error {
	switch v := ast.(type) {
	case nil:
		return nil

	case formula.Num:
		return nil

	case formula.Ref:
		target, err := v.CellRef.Resolve(id)
		if err != nil {
			return err
		}
		cell := e.touch(target)
		delete(cell.dependents, id)
		e.table.removeIfDead(target)
		return nil

	case formula.App:
		for _, kid := range v.Kids {
			if err := e.removeAsDependent(id, kid); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown ast node %T: %w", ast, errs.Syntax)
	}
}
