package ports

import (
	"structset/domain/table"
)

// TableReader loads a tabular dataset from a file (CSV or Excel).
type TableReader interface {
	Read(path string) (*table.Table, error)
}

// TableWriter exports a tabular dataset.
type TableWriter interface {
	WriteCSV(t *table.Table, path string) error
	WriteJSON(t *table.Table, path string) error
	WriteExcel(t *table.Table, path string) error
}
