package coord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColSpecToIndex(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		index, err := ColSpecToIndex('a')
		assert.NoError(t, err)
		assert.Equal(t, 0, index)

		index, err = ColSpecToIndex('z')
		assert.NoError(t, err)
		assert.Equal(t, 25, index)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ColSpecToIndex('A')
		assert.ErrorIs(t, err, SyntaxError)

		_, err = ColSpecToIndex('1')
		assert.ErrorIs(t, err, SyntaxError)
	})
}

func TestRowSpecToIndex(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		index, err := RowSpecToIndex("1")
		assert.NoError(t, err)
		assert.Equal(t, 0, index)

		index, err = RowSpecToIndex("9999")
		assert.NoError(t, err)
		assert.Equal(t, 9998, index)
	})

	t.Run("out of range", func(t *testing.T) {
		_, err := RowSpecToIndex("0")
		assert.ErrorIs(t, err, LimitsError)

		_, err = RowSpecToIndex("10000")
		assert.ErrorIs(t, err, LimitsError)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := RowSpecToIndex("1a")
		assert.ErrorIs(t, err, SyntaxError)

		_, err = RowSpecToIndex("")
		assert.ErrorIs(t, err, SyntaxError)
	})
}

func TestIndexToColSpec(t *testing.T) {
	spec, err := IndexToColSpec(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, "a", spec)

	spec, err = IndexToColSpec(-1, 5)
	assert.NoError(t, err)
	assert.Equal(t, "e", spec)

	_, err = IndexToColSpec(26, 0)
	assert.ErrorIs(t, err, SyntaxError)

	_, err = IndexToColSpec(-1, 0)
	assert.ErrorIs(t, err, SyntaxError)
}

func TestIndexToRowSpec(t *testing.T) {
	spec, err := IndexToRowSpec(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, "1", spec)

	spec, err = IndexToRowSpec(-3, 5)
	assert.NoError(t, err)
	assert.Equal(t, "3", spec)

	_, err = IndexToRowSpec(-1, 0)
	assert.ErrorIs(t, err, SyntaxError)
}

func TestFromIndicesAndIndices(t *testing.T) {
	id, err := FromIndices(0, 0)
	assert.NoError(t, err)
	assert.Equal(t, CellId("a1"), id)

	col, row, err := id.Indices()
	assert.NoError(t, err)
	assert.Equal(t, 0, col)
	assert.Equal(t, 0, row)

	id, err = FromIndices(2, 99)
	assert.NoError(t, err)
	assert.Equal(t, CellId("c100"), id)

	_, err = FromIndices(26, 0)
	assert.True(t, errors.Is(err, SyntaxError))
}

func TestValidateId(t *testing.T) {
	assert.NoError(t, ValidateId("a1"))
	assert.NoError(t, ValidateId("zz9999"))

	for _, bad := range []string{"a+1", "a-1", "a$1", "a(1)", "a,1", "a 1"} {
		assert.ErrorIsf(t, ValidateId(bad), SyntaxError, "id: %s", bad)
	}
}
