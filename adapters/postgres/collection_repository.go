package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"structset/ports"
)

// collectionPrefix namespaces library collections away from other tables in
// the same database.
const collectionPrefix = "collection_"

// collectionRepository implements the CollectionRepository interface over
// Postgres. Each collection is one table with a JSONB record column, the
// closest relational shape to the document collections the library exports.
type collectionRepository struct {
	db *sqlx.DB
}

// NewCollectionRepository creates a new collection repository.
func NewCollectionRepository(db *sqlx.DB) ports.CollectionRepository {
	return &collectionRepository{db: db}
}

// Exists reports whether the collection's backing table is present.
func (r *collectionRepository) Exists(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = $1
	)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, collectionPrefix+name); err != nil {
		return false, fmt.Errorf("failed to check collection %s: %w", name, err)
	}
	return exists, nil
}

// Create provisions an empty collection table.
func (r *collectionRepository) Create(ctx context.Context, name string) error {
	query := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, record JSONB NOT NULL)`,
		pq.QuoteIdentifier(collectionPrefix+name),
	)
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create collection %s: %w", name, err)
	}
	return nil
}

// Drop removes the collection and all of its records.
func (r *collectionRepository) Drop(ctx context.Context, name string) error {
	query := fmt.Sprintf(`DROP TABLE IF EXISTS %s`, pq.QuoteIdentifier(collectionPrefix+name))
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", name, err)
	}
	return nil
}

// List returns the names of all collections.
func (r *collectionRepository) List(ctx context.Context) ([]string, error) {
	query := `SELECT table_name FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name LIKE $1
		ORDER BY table_name`

	var tables []string
	if err := r.db.SelectContext(ctx, &tables, query, collectionPrefix+"%"); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}

	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t[len(collectionPrefix):]
	}
	return names, nil
}

// Insert bulk-loads records through COPY inside one transaction.
func (r *collectionRepository) Insert(ctx context.Context, name string, records []map[string]interface{}) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, pq.CopyIn(collectionPrefix+name, "record"))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare bulk insert for %s: %w", name, err)
	}

	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to marshal record %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, string(payload)); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to insert record %d into %s: %w", i, name, err)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("failed to flush bulk insert for %s: %w", name, err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close bulk insert for %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bulk insert for %s: %w", name, err)
	}
	return len(records), nil
}
