package formula

import (
	"fmt"

	"github.com/berejant/sheetengine/coord"
)

// FnId is the closed set of function ids an App node can carry.
type FnId int

const (
	Add FnId = iota
	Sub
	Mul
	Div
	Neg
	Min
	Max
)

// Precedence returns the binary-operator precedence used by the parser and
// printer. Neg and the variadic functions have no binary precedence.
func (f FnId) Precedence() int {
	switch f {
	case Add, Sub:
		return 10
	case Mul, Div:
		return 20
	default:
		return 0
	}
}

func (f FnId) String() string {
	switch f {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Neg:
		return "-"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "?"
	}
}

// Axis is one column or row coordinate inside a CellRef. When IsAbs, Index
// is an absolute zero-based coordinate; otherwise it is an offset relative
// to the cell the enclosing AST belongs to.
type Axis struct {
	IsAbs bool
	Index int
}

// Resolve returns the absolute index this axis refers to when the AST lives
// in a cell whose own coordinate (on this axis) is baseIndex.
func (a Axis) Resolve(baseIndex int) int {
	if a.IsAbs {
		return a.Index
	}
	return baseIndex + a.Index
}

// CellRef is a pair of axes appearing inside a Ref AST node.
type CellRef struct {
	Col Axis
	Row Axis
}

// Resolve turns a CellRef, stored relative to base, into the absolute
// CellId it designates.
func (r CellRef) Resolve(base coord.CellId) (coord.CellId, error) {
	baseCol, baseRow := 0, 0
	if base != "" {
		var err error
		baseCol, baseRow, err = base.Indices()
		if err != nil {
			return "", err
		}
	}
	return coord.FromIndices(r.Col.Resolve(baseCol), r.Row.Resolve(baseRow))
}

// Ast is the tagged union of the three node shapes the grammar produces.
// It is implemented as a closed interface with an unexported marker method
// so no type outside this package can add a fourth shape.
type Ast interface {
	astNode()
}

// Num is a finite numeric literal.
type Num struct {
	Value float64
}

func (Num) astNode() {}

// Ref is a reference leaf, already normalized against the parser's base
// cell at parse time.
type Ref struct {
	CellRef CellRef
}

func (Ref) astNode() {}

// App is a function application: Add/Sub/Mul/Div (arity 2), Neg (arity 1),
// or Min/Max (arity >= 1).
type App struct {
	Fn   FnId
	Kids []Ast
}

func (App) astNode() {}

// CheckArity validates the kid count against FnId's fixed arity rules.
func (a App) CheckArity() error {
	switch a.Fn {
	case Neg:
		if len(a.Kids) != 1 {
			return fmt.Errorf("neg expects 1 argument, got %d: %w", len(a.Kids), SyntaxError)
		}
	case Add, Sub, Mul, Div:
		if len(a.Kids) != 2 {
			return fmt.Errorf("%s expects 2 arguments, got %d: %w", a.Fn, len(a.Kids), SyntaxError)
		}
	case Min, Max:
		if len(a.Kids) < 1 {
			return fmt.Errorf("%s expects at least 1 argument, got %d: %w", a.Fn, len(a.Kids), SyntaxError)
		}
	}
	return nil
}
