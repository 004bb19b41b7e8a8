package verify

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"structset/domain/table"
)

// Stat is one aggregate value that may be not-applicable.
type Stat struct {
	Value float64
	Valid bool
}

// NA marker used when report tables are exported.
const NA = "N/A"

// Export renders the stat for a report table cell.
func (s Stat) Export() interface{} {
	if !s.Valid {
		return NA
	}
	return s.Value
}

// ColumnReport aggregates the per-cell results of one generated column.
type ColumnReport struct {
	Column  string
	Checked bool // column exists in the reference table

	// Coverage is the percentage of generated rows with a computed cell.
	Coverage Stat

	// Numeric aggregates over non-missing cells.
	MaxError    Stat
	MinError    Stat
	AvgError    Stat
	AvgAbsError Stat
	StdDevError Stat

	// MismatchRate is the textual-column error: percentage of compared
	// cells that did not match.
	MismatchRate Stat
}

// buildReport computes one ColumnReport per generated column. Column type
// (textual vs numeric) is sampled from the first non-missing cell.
func buildReport(res *Result, refColumns map[string]bool) []ColumnReport {
	reports := make([]ColumnReport, 0, len(res.Columns))
	total := len(res.Cells)

	for j, col := range res.Columns {
		report := ColumnReport{Column: col}
		if !refColumns[col] {
			reports = append(reports, report)
			continue
		}
		report.Checked = true

		var errors []float64
		matched, notMatched, available := 0, 0, 0
		for i := 0; i < total; i++ {
			switch cell := res.Cells[i][j]; cell.Kind {
			case CellError:
				errors = append(errors, cell.Error)
				available++
			case CellMatch:
				matched++
				available++
			case CellNotMatch:
				notMatched++
				available++
			}
		}

		if total > 0 {
			report.Coverage = Stat{Value: round(float64(available)/float64(total)*100, 2), Valid: true}
		}

		switch firstKind(res.Cells, j) {
		case CellMatch, CellNotMatch:
			rate := (1 - float64(matched)/float64(matched+notMatched)) * 100
			report.MismatchRate = Stat{Value: rate, Valid: true}
		case CellError:
			report.MaxError = aggregate(stats.Max, errors)
			report.MinError = aggregate(stats.Min, errors)
			report.AvgError = aggregate(stats.Mean, errors)
			report.AvgAbsError = aggregate(stats.Mean, absolutes(errors))
			if len(errors) > 1 {
				report.StdDevError = Stat{Value: stat.StdDev(errors, nil), Valid: true}
			}
		}

		reports = append(reports, report)
	}
	return reports
}

// firstKind samples the kind of the first non-missing cell in a column.
// A representative-sample heuristic: mixed-type columns are aggregated by
// whatever type appears first.
func firstKind(cells [][]Cell, col int) CellKind {
	for i := range cells {
		if cells[i][col].Kind != CellMissing {
			return cells[i][col].Kind
		}
	}
	return CellMissing
}

func aggregate(fn func(stats.Float64Data) (float64, error), values []float64) Stat {
	if len(values) == 0 {
		return Stat{}
	}
	v, err := fn(values)
	if err != nil {
		return Stat{}
	}
	return Stat{Value: v, Valid: true}
}

func absolutes(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}

// CellTable renders the per-cell results as an exportable table, key column
// first. Missing cells export as nil.
func (r *Result) CellTable() *table.Table {
	columns := append([]string{r.KeyColumn}, r.Columns...)
	t := table.New(columns...)
	for i, key := range r.Keys {
		row := make(table.Row, len(columns))
		row[r.KeyColumn] = key
		for j, col := range r.Columns {
			row[col] = r.Cells[i][j].Value()
		}
		t.Append(row)
	}
	return t
}

// ReportTable renders the per-column report with the library's long-standing
// header names.
func (r *Result) ReportTable() *table.Table {
	t := table.New(
		"parameters", "checked or not?", "coverage",
		"max error", "avg error", "avg abs error", "min error",
		"std dev error", "str error",
	)
	for _, rep := range r.Report {
		checked := "no"
		if rep.Checked {
			checked = "yes"
		}
		t.Append(table.Row{
			"parameters":      rep.Column,
			"checked or not?": checked,
			"coverage":        rep.Coverage.Export(),
			"max error":       rep.MaxError.Export(),
			"avg error":       rep.AvgError.Export(),
			"avg abs error":   rep.AvgAbsError.Export(),
			"min error":       rep.MinError.Export(),
			"std dev error":   rep.StdDevError.Export(),
			"str error":       rep.MismatchRate.Export(),
		})
	}
	return t
}
