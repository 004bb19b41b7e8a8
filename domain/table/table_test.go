package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structset/domain/core"
)

func sample() *Table {
	t := New("name", "d_f")
	t.Append(Row{"name": "M12", "d_f": 12.0})
	t.Append(Row{"name": "M16", "d_f": 16.0})
	return t
}

func TestColumn(t *testing.T) {
	tbl := sample()
	values, err := tbl.Column("d_f")
	require.NoError(t, err)
	assert.Equal(t, []interface{}{12.0, 16.0}, values)

	_, err = tbl.Column("missing")
	assert.ErrorIs(t, err, core.ErrAttributeNotFound)
}

func TestKeyIndex(t *testing.T) {
	tbl := sample()
	index, err := tbl.KeyIndex("name")
	require.NoError(t, err)
	assert.Equal(t, map[interface{}]int{"M12": 0, "M16": 1}, index)
}

func TestKeyIndexDuplicate(t *testing.T) {
	tbl := sample()
	tbl.Append(Row{"name": "M12", "d_f": 12.5})
	_, err := tbl.KeyIndex("name")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestKeyIndexMissingColumn(t *testing.T) {
	_, err := sample().KeyIndex("id")
	assert.ErrorIs(t, err, core.ErrKeyColumnNotFound)
}

func TestAddColumn(t *testing.T) {
	tbl := sample()
	require.NoError(t, tbl.AddColumn("value_fn", []interface{}{1.0, 0.5}))
	assert.Equal(t, []string{"name", "d_f", "value_fn"}, tbl.Columns)
	assert.Equal(t, 0.5, tbl.Rows[1]["value_fn"])

	assert.Error(t, tbl.AddColumn("bad", []interface{}{1.0}))
}

func TestColumnsWithout(t *testing.T) {
	assert.Equal(t, []string{"d_f"}, sample().ColumnsWithout("name"))
}

func TestAsFloat(t *testing.T) {
	for _, v := range []interface{}{12, int64(12), float32(12), 12.0, uint8(12)} {
		f, ok := AsFloat(v)
		assert.True(t, ok)
		assert.Equal(t, 12.0, f)
	}
	_, ok := AsFloat("12")
	assert.False(t, ok)
	_, ok = AsFloat(nil)
	assert.False(t, ok)
}
