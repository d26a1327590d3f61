package formula

import (
	"testing"

	"github.com/berejant/sheetengine/coord"
	"github.com/stretchr/testify/assert"
)

func TestPrint_ArithmeticBasics(t *testing.T) {
	ast, err := Parse("(1+2)*3", "")
	assert.NoError(t, err)

	s, err := Print(ast, "a1")
	assert.NoError(t, err)
	assert.Equal(t, "(1+2)*3", s)
}

func TestPrint_MinimalParens(t *testing.T) {
	cases := []struct {
		formula  string
		expected string
	}{
		{"1+2+3", "1+2+3"},
		{"1+2-3", "1+2-3"},
		{"1-(2+3)", "1-(2+3)"},
		{"1-2-3", "1-2-3"},
		{"1-(2-3)", "1-(2-3)"},
		{"1+2*3", "1+2*3"},
		{"(1+2)*3", "(1+2)*3"},
		{"1/2/3", "1/2/3"},
		{"1/(2/3)", "1/(2/3)"},
		{"-1+2", "-1+2"},
		{"-(1+2)", "-(1+2)"},
		{"-1*2", "-1*2"},
		{"min(1,2,3)", "min(1,2,3)"},
		{"max(1,min(2,3))", "max(1,min(2,3))"},
	}

	for _, c := range cases {
		t.Run(c.formula, func(t *testing.T) {
			ast, err := Parse(c.formula, "")
			assert.NoError(t, err)

			s, err := Print(ast, "")
			assert.NoError(t, err)
			assert.Equal(t, c.expected, s)
		})
	}
}

func TestPrint_References(t *testing.T) {
	ast, err := Parse("$a1+b$2", coord.CellId("c3"))
	assert.NoError(t, err)

	s, err := Print(ast, "c3")
	assert.NoError(t, err)
	assert.Equal(t, "$a1+b$2", s)
}

func TestPrint_RebaseAdjustsRelativeRefs(t *testing.T) {
	ast, err := Parse("$a$1+b2", coord.CellId("c1"))
	assert.NoError(t, err)

	// c1 -> c2: the relative ref "b2" (offset -1 col, +1 row from c1)
	// rebased to c2 becomes "b3"; the fully absolute "$a$1" is unaffected.
	s, err := Print(ast, "c2")
	assert.NoError(t, err)
	assert.Equal(t, "$a$1+b3", s)
}

func TestPrint_OutOfRangeRebaseFails(t *testing.T) {
	// "a1" stored relative to "z1" carries a -25 column offset; rebasing
	// against "a1" pushes the absolute column to -25, out of range.
	ast, err := Parse("a1", coord.CellId("z1"))
	assert.NoError(t, err)

	_, err = Print(ast, "a1")
	assert.ErrorIs(t, err, SyntaxError)
}

func TestRoundTrip(t *testing.T) {
	formulas := []string{
		"(1+2)*3",
		"1+2+3",
		"1-(2-3)",
		"1/(2/3)",
		"-1+2",
		"-(1+2)",
		"$a1+b$2-c3*min(1,2,max(3,4))",
		"-a1*b2",
	}

	base := coord.CellId("d4")

	for _, f := range formulas {
		t.Run(f, func(t *testing.T) {
			ast1, err := Parse(f, base)
			assert.NoError(t, err)

			printed, err := Print(ast1, base)
			assert.NoError(t, err)

			ast2, err := Parse(printed, base)
			assert.NoError(t, err)

			assert.Equal(t, ast1, ast2)
		})
	}
}
