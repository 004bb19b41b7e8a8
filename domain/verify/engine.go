// Package verify compares a generated component library against an
// independent reference dataset. Both tables are aligned on a shared key
// column; every (row, column) pair of the generated table gets a type-aware
// per-cell error, and each column gets aggregate statistics with coverage.
package verify

import (
	"math"

	"structset/domain/core"
	"structset/domain/table"
)

// CellKind classifies one per-cell comparison result.
type CellKind int

const (
	// CellMissing marks a cell with no reference counterpart (missing key,
	// missing column, or a value the comparison cannot interpret). Never
	// conflated with a zero error.
	CellMissing CellKind = iota
	// CellError carries a signed percentage error for numeric values.
	CellError
	// CellMatch and CellNotMatch classify textual values.
	CellMatch
	CellNotMatch
)

// Cell is one per-cell comparison result.
type Cell struct {
	Kind  CellKind
	Error float64 // valid only when Kind == CellError
}

// String renders the cell the way the exported result table shows it.
func (c Cell) String() string {
	switch c.Kind {
	case CellMatch:
		return "match"
	case CellNotMatch:
		return "not match"
	default:
		return ""
	}
}

// Value returns the exportable cell value: a float for numeric errors, a
// match marker for text, nil for missing.
func (c Cell) Value() interface{} {
	switch c.Kind {
	case CellError:
		return c.Error
	case CellMatch, CellNotMatch:
		return c.String()
	default:
		return nil
	}
}

// Result is one complete verification run: the per-cell table plus the
// per-column report. Built once; rebuilding means a new Verify call.
type Result struct {
	KeyColumn string
	Keys      []interface{} // generated-table key order
	Columns   []string      // generated columns, key excluded
	Cells     [][]Cell      // indexed [row][column]
	Report    []ColumnReport
}

// Verify aligns the generated and reference tables on keyColumn and computes
// per-cell errors and per-column statistics. Duplicate keys in either table
// and a missing key column are fatal; missing reference data is not.
func Verify(generated, reference *table.Table, keyColumn string) (*Result, error) {
	if !generated.HasColumn(keyColumn) || !reference.HasColumn(keyColumn) {
		return nil, core.ErrKeyColumnNotFound
	}
	if _, err := generated.KeyIndex(keyColumn); err != nil {
		return nil, err
	}
	refIndex, err := reference.KeyIndex(keyColumn)
	if err != nil {
		return nil, err
	}

	res := &Result{
		KeyColumn: keyColumn,
		Columns:   generated.ColumnsWithout(keyColumn),
	}

	refColumns := make(map[string]bool, len(reference.Columns))
	for _, c := range reference.Columns {
		refColumns[c] = true
	}

	for _, row := range generated.Rows {
		key := row[keyColumn]
		res.Keys = append(res.Keys, key)

		cells := make([]Cell, len(res.Columns))
		refRow, keyPresent := lookupRow(reference, refIndex, key)
		for j, col := range res.Columns {
			if !keyPresent || !refColumns[col] {
				cells[j] = Cell{Kind: CellMissing}
				continue
			}
			cells[j] = errorCalc(row[col], refRow[col])
		}
		res.Cells = append(res.Cells, cells)
	}

	res.Report = buildReport(res, refColumns)
	return res, nil
}

func lookupRow(t *table.Table, index map[interface{}]int, key interface{}) (table.Row, bool) {
	i, ok := index[key]
	if !ok {
		return nil, false
	}
	return t.Rows[i], true
}

// errorCalc computes the per-cell error for one (generated, reference) pair.
//
// Textual generated values compare by exact, case-sensitive equality. A
// reference value of exactly zero uses the degenerate rule: 0 when equal,
// otherwise generated/generated*100. Everything else is a signed percentage
// error rounded to three decimals, positive when the generated value exceeds
// the reference.
func errorCalc(generated, reference interface{}) Cell {
	if generated == nil || reference == nil {
		return Cell{Kind: CellMissing}
	}
	if table.IsText(generated) {
		if generated == reference {
			return Cell{Kind: CellMatch}
		}
		return Cell{Kind: CellNotMatch}
	}

	g, okG := asNumber(generated)
	r, okR := asNumber(reference)
	if !okG || !okR {
		// No defined comparison between a numeric and a non-numeric cell.
		return Cell{Kind: CellMissing}
	}

	if r == 0 {
		if g == 0 {
			return Cell{Kind: CellError, Error: 0}
		}
		return Cell{Kind: CellError, Error: g / g * 100}
	}

	pct := (g - r) / r * 100
	return Cell{Kind: CellError, Error: round(pct, 3)}
}

// asNumber widens table.AsFloat with boolean coercion (true=1, false=0), the
// way the source data treats flag attributes.
func asNumber(v interface{}) (float64, bool) {
	if b, ok := v.(bool); ok {
		if b {
			return 1, true
		}
		return 0, true
	}
	return table.AsFloat(v)
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
