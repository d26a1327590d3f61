// Package coord converts between the textual column/row spelling of a cell
// reference and its zero-based coordinate, and enforces the sheet's size
// limits.
package coord

import (
	"fmt"
	"strconv"

	"github.com/berejant/sheetengine/errs"
)

// MaxCols bounds the number of columns, lettered a..z.
const MaxCols = 26

// MaxRows bounds the number of rows, numbered 1..MaxRows.
const MaxRows = 9999

// SyntaxError and LimitsError are the two ways coordinate text can fail to
// resolve to a valid absolute index; they match the error taxonomy in
// spec.md §7 so the engine layer can classify failures with errors.Is.
var (
	SyntaxError = errs.Syntax
	LimitsError = errs.Limits
)

// ColSpecToIndex converts a single lowercase column letter to its zero-based
// index. spec is expected to already be canonicalized to a single a-z byte.
func ColSpecToIndex(spec byte) (int, error) {
	if spec < 'a' || spec > 'z' {
		return 0, fmt.Errorf("column %q: %w", spec, SyntaxError)
	}
	return int(spec - 'a'), nil
}

// RowSpecToIndex converts a decimal, 1-based row spelling into a zero-based
// index, failing SyntaxError on malformed text and LimitsError out of range.
func RowSpecToIndex(spec string) (int, error) {
	n, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("row %q: %w", spec, SyntaxError)
	}
	if n < 1 || n > MaxRows {
		return 0, fmt.Errorf("row %q: %w", spec, LimitsError)
	}
	return n - 1, nil
}

// IndexToColSpec renders base+index as a column letter, failing SyntaxError
// if the sum falls outside [0, MaxCols).
func IndexToColSpec(index, base int) (string, error) {
	abs := base + index
	if abs < 0 || abs >= MaxCols {
		return "", fmt.Errorf("column index %d: %w", abs, SyntaxError)
	}
	return string(rune('a' + abs)), nil
}

// IndexToRowSpec renders base+index as a 1-based decimal row, failing
// SyntaxError if the sum falls outside [0, MaxRows).
func IndexToRowSpec(index, base int) (string, error) {
	abs := base + index
	if abs < 0 || abs >= MaxRows {
		return "", fmt.Errorf("row index %d: %w", abs, SyntaxError)
	}
	return strconv.Itoa(abs + 1), nil
}

// CellId is the canonical, lowercase, absolute-marker-free spelling of a
// cell: a single column letter followed by 1-based decimal digits.
type CellId string

// FromIndices builds the canonical CellId for an absolute (col, row) pair.
func FromIndices(col, row int) (CellId, error) {
	colSpec, err := IndexToColSpec(col, 0)
	if err != nil {
		return "", err
	}
	rowSpec, err := IndexToRowSpec(row, 0)
	if err != nil {
		return "", err
	}
	return CellId(colSpec + rowSpec), nil
}

// Indices parses a canonical CellId back into its absolute (col, row) pair.
func (id CellId) Indices() (col, row int, err error) {
	s := string(id)
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("cell id %q: %w", s, SyntaxError)
	}
	col, err = ColSpecToIndex(s[0])
	if err != nil {
		return 0, 0, err
	}
	row, err = RowSpecToIndex(s[1:])
	if err != nil {
		return 0, 0, err
	}
	return col, row, nil
}

// Blacklist holds the characters a cell id may never contain: operator and
// punctuation glyphs that would otherwise be ambiguous with formula syntax.
const Blacklist = "+-*/(),$ \t\n\r"

// ValidateId rejects a cell id spelling that could collide with formula
// syntax, before it ever reaches the lexer.
func ValidateId(id string) error {
	for i := 0; i < len(id); i++ {
		for j := 0; j < len(Blacklist); j++ {
			if id[i] == Blacklist[j] {
				return fmt.Errorf("cell id %q contains %q: %w", id, id[i], SyntaxError)
			}
		}
	}
	return nil
}
