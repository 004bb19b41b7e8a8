package ports

import (
	"context"
)

// CollectionRepository defines the interface for persisting generated
// component libraries as named collections of JSON records.
type CollectionRepository interface {
	// Exists reports whether a named collection is already present.
	Exists(ctx context.Context, name string) (bool, error)

	// Create provisions an empty collection.
	Create(ctx context.Context, name string) error

	// Drop removes a collection and all of its records. Irreversible;
	// callers confirm through a Confirmer first.
	Drop(ctx context.Context, name string) error

	// List returns the names of all collections.
	List(ctx context.Context) ([]string, error)

	// Insert bulk-loads records into a collection and returns the count.
	Insert(ctx context.Context, name string, records []map[string]interface{}) (int, error)
}
