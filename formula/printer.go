package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/berejant/sheetengine/coord"
)

// Print renders ast back to a formula string, rebased against baseCellId,
// with the minimum parenthesization needed to preserve meaning. It is the
// inverse of Parse: Parse(Print(A, c), c) reproduces A for any well-formed
// A whose refs stay in range under base c.
func Print(ast Ast, baseCellId coord.CellId) (string, error) {
	return renderNode(ast, baseCellId)
}

func renderNode(ast Ast, base coord.CellId) (string, error) {
	switch v := ast.(type) {
	case Num:
		return formatNum(v.Value), nil

	case Ref:
		return renderRef(v.CellRef, base)

	case App:
		switch v.Fn {
		case Add, Sub, Mul, Div:
			left, err := renderOperand(v.Kids[0], v.Fn.Precedence(), false, base)
			if err != nil {
				return "", err
			}
			right, err := renderOperand(v.Kids[1], v.Fn.Precedence(), true, base)
			if err != nil {
				return "", err
			}
			return left + v.Fn.String() + right, nil

		case Neg:
			operand := v.Kids[0]
			s, err := renderNode(operand, base)
			if err != nil {
				return "", err
			}
			if isBinaryOp(operand) {
				s = "(" + s + ")"
			}
			return "-" + s, nil

		case Min, Max:
			parts := make([]string, len(v.Kids))
			for i, kid := range v.Kids {
				s, err := renderNode(kid, base)
				if err != nil {
					return "", err
				}
				parts[i] = s
			}
			return v.Fn.String() + "(" + strings.Join(parts, ",") + ")", nil
		}
	}

	return "", fmt.Errorf("unprintable AST node %T: %w", ast, SyntaxError)
}

// renderOperand prints a child of a binary App, parenthesizing it iff its
// own operator has strictly lower precedence than parentPrec (left child)
// or strictly-lower-or-equal precedence (right child) — the minimum
// parenthesization that preserves left-associative meaning.
func renderOperand(ast Ast, parentPrec int, isRight bool, base coord.CellId) (string, error) {
	s, err := renderNode(ast, base)
	if err != nil {
		return "", err
	}

	if app, ok := ast.(App); ok {
		switch app.Fn {
		case Add, Sub, Mul, Div:
			childPrec := app.Fn.Precedence()
			needsParens := childPrec < parentPrec
			if isRight {
				needsParens = childPrec <= parentPrec
			}
			if needsParens {
				return "(" + s + ")", nil
			}
		}
	}

	return s, nil
}

func isBinaryOp(ast Ast) bool {
	app, ok := ast.(App)
	if !ok {
		return false
	}
	switch app.Fn {
	case Add, Sub, Mul, Div:
		return true
	default:
		return false
	}
}

func renderRef(ref CellRef, base coord.CellId) (string, error) {
	baseCol, baseRow := 0, 0
	if base != "" {
		var err error
		baseCol, baseRow, err = base.Indices()
		if err != nil {
			return "", err
		}
	}

	var colPart string
	if ref.Col.IsAbs {
		spec, err := coord.IndexToColSpec(ref.Col.Index, 0)
		if err != nil {
			return "", err
		}
		colPart = "$" + spec
	} else {
		spec, err := coord.IndexToColSpec(ref.Col.Index, baseCol)
		if err != nil {
			return "", err
		}
		colPart = spec
	}

	var rowPart string
	if ref.Row.IsAbs {
		spec, err := coord.IndexToRowSpec(ref.Row.Index, 0)
		if err != nil {
			return "", err
		}
		rowPart = "$" + spec
	} else {
		spec, err := coord.IndexToRowSpec(ref.Row.Index, baseRow)
		if err != nil {
			return "", err
		}
		rowPart = spec
	}

	return colPart + rowPart, nil
}

// formatNum renders a finite float in its canonical decimal form: integral
// values below 1e15 print in plain decimal ("1000000", not the "1e+06" the
// shortest 'g' form gives); every other value uses the shortest 'g' form.
func formatNum(v float64) string {
	if !math.IsInf(v, 0) && !math.IsNaN(v) && v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
