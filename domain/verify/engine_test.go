package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structset/domain/core"
	"structset/domain/table"
)

func twoColumn(rows ...table.Row) *table.Table {
	t := table.New("name", "phiV_f")
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestErrorCalcNumeric(t *testing.T) {
	gen := twoColumn(
		table.Row{"name": "a", "phiV_f": 110.0},
		table.Row{"name": "b", "phiV_f": 90.0},
	)
	ref := twoColumn(
		table.Row{"name": "a", "phiV_f": 100.0},
		table.Row{"name": "b", "phiV_f": 100.0},
	)

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	require.Equal(t, []string{"phiV_f"}, res.Columns)
	assert.Equal(t, Cell{Kind: CellError, Error: 10.0}, res.Cells[0][0])
	assert.Equal(t, Cell{Kind: CellError, Error: -10.0}, res.Cells[1][0])
}

func TestErrorCalcZeroReference(t *testing.T) {
	gen := twoColumn(
		table.Row{"name": "a", "phiV_f": 5.0},
		table.Row{"name": "b", "phiV_f": 0.0},
	)
	ref := twoColumn(
		table.Row{"name": "a", "phiV_f": 0.0},
		table.Row{"name": "b", "phiV_f": 0.0},
	)

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.Cells[0][0].Error, "zero reference with nonzero value reports 100")
	assert.Equal(t, 0.0, res.Cells[1][0].Error, "zero against zero is an exact match")
}

func TestErrorCalcRounding(t *testing.T) {
	gen := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 3.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)
	assert.Equal(t, -66.667, res.Cells[0][0].Error)
}

func TestErrorCalcText(t *testing.T) {
	gen := table.New("name", "bolt_cat")
	gen.Append(table.Row{"name": "a", "bolt_cat": "8.8/S"})
	gen.Append(table.Row{"name": "b", "bolt_cat": "8.8/S"})
	ref := table.New("name", "bolt_cat")
	ref.Append(table.Row{"name": "a", "bolt_cat": "8.8/S"})
	ref.Append(table.Row{"name": "b", "bolt_cat": "8.8/TB"})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	assert.Equal(t, CellMatch, res.Cells[0][0].Kind)
	assert.Equal(t, CellNotMatch, res.Cells[1][0].Kind)
	assert.Equal(t, "match", res.Cells[0][0].String())
	assert.Equal(t, "not match", res.Cells[1][0].String())

	rep := res.Report[0]
	require.True(t, rep.MismatchRate.Valid)
	assert.InDelta(t, 50.0, rep.MismatchRate.Value, 1e-9)
}

func TestBooleanCoercion(t *testing.T) {
	gen := table.New("name", "threads_included")
	gen.Append(table.Row{"name": "a", "threads_included": true})
	ref := table.New("name", "threads_included")
	ref.Append(table.Row{"name": "a", "threads_included": 1.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)
	assert.Equal(t, Cell{Kind: CellError, Error: 0}, res.Cells[0][0])
}

func TestCoverage(t *testing.T) {
	gen := table.New("name", "phiV_f")
	ref := table.New("name", "phiV_f")
	for i := 0; i < 10; i++ {
		gen.Append(table.Row{"name": i, "phiV_f": 1.0})
	}
	for i := 0; i < 6; i++ {
		ref.Append(table.Row{"name": i, "phiV_f": 1.0})
	}

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	rep := res.Report[0]
	assert.True(t, rep.Checked)
	require.True(t, rep.Coverage.Valid)
	assert.Equal(t, 60.0, rep.Coverage.Value)

	missing := 0
	for _, row := range res.Cells {
		if row[0].Kind == CellMissing {
			missing++
		}
	}
	assert.Equal(t, 4, missing)
}

func TestUncheckedColumn(t *testing.T) {
	gen := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})
	ref := table.New("name", "other")
	ref.Append(table.Row{"name": "a", "other": 1.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	rep := res.Report[0]
	assert.False(t, rep.Checked)
	assert.False(t, rep.Coverage.Valid)
	assert.Equal(t, CellMissing, res.Cells[0][0].Kind)

	report := res.ReportTable()
	assert.Equal(t, "no", report.Rows[0]["checked or not?"])
	assert.Equal(t, NA, report.Rows[0]["coverage"])
}

func TestNumericAggregates(t *testing.T) {
	gen := table.New("name", "phiV_f")
	ref := table.New("name", "phiV_f")
	// errors: +10, -10, +20
	pairs := [][2]float64{{110, 100}, {90, 100}, {120, 100}}
	for i, p := range pairs {
		gen.Append(table.Row{"name": i, "phiV_f": p[0]})
		ref.Append(table.Row{"name": i, "phiV_f": p[1]})
	}

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	rep := res.Report[0]
	assert.Equal(t, 20.0, rep.MaxError.Value)
	assert.Equal(t, -10.0, rep.MinError.Value)
	assert.InDelta(t, 20.0/3, rep.AvgError.Value, 1e-9)
	assert.InDelta(t, 40.0/3, rep.AvgAbsError.Value, 1e-9)
	assert.True(t, rep.StdDevError.Valid)
	assert.False(t, rep.MismatchRate.Valid)
}

func TestDuplicateKeysFail(t *testing.T) {
	gen := twoColumn(
		table.Row{"name": "a", "phiV_f": 1.0},
		table.Row{"name": "a", "phiV_f": 2.0},
	)
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})

	_, err := Verify(gen, ref, "name")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	_, err = Verify(ref, gen, "name")
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestMissingKeyColumn(t *testing.T) {
	gen := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})

	_, err := Verify(gen, ref, "id")
	assert.ErrorIs(t, err, core.ErrKeyColumnNotFound)
}

func TestMissingGeneratedValue(t *testing.T) {
	gen := twoColumn(table.Row{"name": "a", "phiV_f": nil})
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 1.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)
	assert.Equal(t, CellMissing, res.Cells[0][0].Kind)
}

func TestCellTableShape(t *testing.T) {
	gen := twoColumn(
		table.Row{"name": "a", "phiV_f": 110.0},
		table.Row{"name": "b", "phiV_f": 100.0},
	)
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 100.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	cells := res.CellTable()
	assert.Equal(t, []string{"name", "phiV_f"}, cells.Columns)
	require.Equal(t, 2, cells.Len())
	assert.Equal(t, "a", cells.Rows[0]["name"])
	assert.Equal(t, 10.0, cells.Rows[0]["phiV_f"])
	assert.Nil(t, cells.Rows[1]["phiV_f"], "rows without reference counterparts export empty cells")
}

func TestReportTableShape(t *testing.T) {
	gen := twoColumn(table.Row{"name": "a", "phiV_f": 110.0})
	ref := twoColumn(table.Row{"name": "a", "phiV_f": 100.0})

	res, err := Verify(gen, ref, "name")
	require.NoError(t, err)

	report := res.ReportTable()
	assert.Equal(t, []string{
		"parameters", "checked or not?", "coverage",
		"max error", "avg error", "avg abs error", "min error",
		"std dev error", "str error",
	}, report.Columns)
	require.Equal(t, 1, report.Len())

	row := report.Rows[0]
	assert.Equal(t, "phiV_f", row["parameters"])
	assert.Equal(t, "yes", row["checked or not?"])
	assert.Equal(t, 100.0, row["coverage"])
	assert.Equal(t, 10.0, row["max error"])
	assert.Equal(t, NA, row["std dev error"], "a single error has no spread")
	assert.Equal(t, NA, row["str error"])
}
