// Package tracking keeps the dataset generation audit record: when each
// collection was last generated, verified against reference data, and pushed
// into the database. The record lives in an embedded SQLite file next to the
// datasets it describes.
package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"structset/internal/errors"
)

// Version is stamped onto every generation event.
const Version = "structset v0.2.0"

// Operation names one tracked lifecycle event.
type Operation string

const (
	OpGeneration           Operation = "generation"
	OpDatasetVerification  Operation = "dataset_verification"
	OpDatabasePopulation   Operation = "database_population"
	OpDatabaseVerification Operation = "database_verification"
)

// Record is one collection's audit row.
type Record struct {
	CollectionName       string         `db:"collection_name"`
	LastGenerationDate   sql.NullString `db:"last_generation_date"`
	DatasetVerifiedDate  sql.NullString `db:"dataset_verification_date"`
	DatabasePopulatedAt  sql.NullString `db:"database_population_date"`
	DatabaseVerifiedDate sql.NullString `db:"database_verification_date"`
	ToolkitVersion       sql.NullString `db:"toolkit_version"`
	RecordCount          int64          `db:"record_count"`
	CSVPath              sql.NullString `db:"csv_path"`
	JSONPath             sql.NullString `db:"json_path"`
	CSVSizeMB            float64        `db:"csv_size_mb"`
	JSONSizeMB           float64        `db:"json_size_mb"`
	Notes                sql.NullString `db:"notes"`
}

// Status summarizes the audit record.
type Status struct {
	TotalCollections  int
	Generated         int
	DatasetVerified   int
	DatabasePopulated int
	DatabaseVerified  int
}

// Tracker stores audit records in SQLite.
type Tracker struct {
	db *sqlx.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS dataset_records (
	collection_name            TEXT PRIMARY KEY,
	last_generation_date       TEXT,
	dataset_verification_date  TEXT,
	database_population_date   TEXT,
	database_verification_date TEXT,
	toolkit_version            TEXT,
	record_count               INTEGER NOT NULL DEFAULT 0,
	csv_path                   TEXT,
	json_path                  TEXT,
	csv_size_mb                REAL NOT NULL DEFAULT 0,
	json_size_mb               REAL NOT NULL DEFAULT 0,
	notes                      TEXT
)`

// Open connects to (and initializes) the audit record at path. Use
// ":memory:" for an ephemeral record.
func Open(path string) (*Tracker, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open tracker database")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize tracker schema")
	}
	return &Tracker{db: db}, nil
}

// Close releases the underlying database handle.
func (t *Tracker) Close() error {
	return t.db.Close()
}

// EventDetails carries optional metadata recorded with a generation event.
type EventDetails struct {
	RecordCount int
	CSVPath     string
	JSONPath    string
	Notes       string
}

// RecordEvent timestamps one lifecycle operation for a collection, creating
// the audit row on first sight. Generation events also refresh version,
// record count and file metadata.
func (t *Tracker) RecordEvent(ctx context.Context, collection string, op Operation, details EventDetails) error {
	column, ok := map[Operation]string{
		OpGeneration:           "last_generation_date",
		OpDatasetVerification:  "dataset_verification_date",
		OpDatabasePopulation:   "database_population_date",
		OpDatabaseVerification: "database_verification_date",
	}[op]
	if !ok {
		return errors.New(errors.CodeTrackerError, fmt.Sprintf("unknown operation %q", op))
	}

	now := time.Now().Format("2006-01-02 15:04:05")

	insert := `INSERT INTO dataset_records (collection_name) VALUES (?)
		ON CONFLICT (collection_name) DO NOTHING`
	if _, err := t.db.ExecContext(ctx, insert, collection); err != nil {
		return errors.Wrapf(err, "failed to upsert audit row for %s", collection)
	}

	update := fmt.Sprintf(`UPDATE dataset_records SET %s = ? WHERE collection_name = ?`, column)
	if _, err := t.db.ExecContext(ctx, update, now, collection); err != nil {
		return errors.Wrapf(err, "failed to record %s for %s", op, collection)
	}

	if op == OpGeneration {
		meta := `UPDATE dataset_records SET
			toolkit_version = ?, record_count = ?,
			csv_path = ?, json_path = ?,
			csv_size_mb = ?, json_size_mb = ?
			WHERE collection_name = ?`
		_, err := t.db.ExecContext(ctx, meta,
			Version, details.RecordCount,
			details.CSVPath, details.JSONPath,
			fileSizeMB(details.CSVPath), fileSizeMB(details.JSONPath),
			collection,
		)
		if err != nil {
			return errors.Wrapf(err, "failed to record generation metadata for %s", collection)
		}
	}

	if details.Notes != "" {
		note := `UPDATE dataset_records SET
			notes = CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || '; ' || ? END
			WHERE collection_name = ?`
		if _, err := t.db.ExecContext(ctx, note, details.Notes, details.Notes, collection); err != nil {
			return errors.Wrapf(err, "failed to append notes for %s", collection)
		}
	}
	return nil
}

// Get returns the audit row for one collection.
func (t *Tracker) Get(ctx context.Context, collection string) (*Record, error) {
	var rec Record
	err := t.db.GetContext(ctx, &rec,
		`SELECT * FROM dataset_records WHERE collection_name = ?`, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load audit row for %s", collection)
	}
	return &rec, nil
}

// List returns every audit row ordered by collection name.
func (t *Tracker) List(ctx context.Context) ([]Record, error) {
	var recs []Record
	err := t.db.SelectContext(ctx, &recs,
		`SELECT * FROM dataset_records ORDER BY collection_name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list audit rows")
	}
	return recs, nil
}

// Summary counts how far each collection has progressed through the
// generate / verify / populate lifecycle.
func (t *Tracker) Summary(ctx context.Context) (*Status, error) {
	var s Status
	query := `SELECT
		COUNT(*),
		COUNT(last_generation_date),
		COUNT(dataset_verification_date),
		COUNT(database_population_date),
		COUNT(database_verification_date)
		FROM dataset_records`
	row := t.db.QueryRowContext(ctx, query)
	if err := row.Scan(&s.TotalCollections, &s.Generated, &s.DatasetVerified,
		&s.DatabasePopulated, &s.DatabaseVerified); err != nil {
		return nil, errors.Wrap(err, "failed to summarize audit record")
	}
	return &s, nil
}

func fileSizeMB(path string) float64 {
	if path == "" {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return float64(info.Size()) / (1024 * 1024)
}
