package table

import (
	"structset/domain/core"
)

// Row maps a column name to a scalar cell value.
type Row map[string]interface{}

// Table is an ordered-column tabular dataset. Columns fixes both the column
// set and the export order; every row holds one value per column.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New creates an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Append adds one row. Rows are never mutated after insertion; the generator
// rebuilds the whole table instead of patching it.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns all values of the named column in row order.
func (t *Table) Column(name string) ([]interface{}, error) {
	if !t.HasColumn(name) {
		return nil, core.NewAttributeNotFoundError(name)
	}
	values := make([]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[name]
	}
	return values, nil
}

// AddColumn declares a new column and assigns the given values by row
// position. The value count must match the row count.
func (t *Table) AddColumn(name string, values []interface{}) error {
	if len(values) != len(t.Rows) {
		return core.ErrEmptyTable
	}
	t.Columns = append(t.Columns, name)
	for i, row := range t.Rows {
		row[name] = values[i]
	}
	return nil
}

// KeyIndex builds a key→row-position index over the named column. Duplicate
// key values fail loudly; silent last-write-wins selection would poison every
// downstream comparison.
func (t *Table) KeyIndex(keyColumn string) (map[interface{}]int, error) {
	if !t.HasColumn(keyColumn) {
		return nil, core.ErrKeyColumnNotFound
	}
	index := make(map[interface{}]int, len(t.Rows))
	for i, row := range t.Rows {
		key := row[keyColumn]
		if _, seen := index[key]; seen {
			return nil, core.NewDuplicateKeyError(keyColumn, key)
		}
		index[key] = i
	}
	return index, nil
}

// ColumnsWithout returns the column order with the named column removed,
// used when a table is re-indexed by one of its columns.
func (t *Table) ColumnsWithout(name string) []string {
	columns := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c != name {
			columns = append(columns, c)
		}
	}
	return columns
}
