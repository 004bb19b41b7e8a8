// Package population loads exported JSON collections into the collection
// store. Destructive operations (dropping an existing collection before
// replacement) go through an injected confirmation capability, so the logic
// is testable without a terminal.
package population

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"structset/internal"
	"structset/internal/errors"
	"structset/ports"
)

// Target pairs one collection name with the JSON file that feeds it.
type Target struct {
	Collection string
	File       string
}

// Populator pushes JSON collection files into the store.
type Populator struct {
	Repo    ports.CollectionRepository
	Confirm ports.Confirmer
	JSONDir string
	Log     *internal.Logger
}

// New creates a populator reading JSON files from jsonDir.
func New(repo ports.CollectionRepository, confirm ports.Confirmer, jsonDir string) *Populator {
	return &Populator{
		Repo:    repo,
		Confirm: confirm,
		JSONDir: jsonDir,
		Log:     internal.NewDefaultLogger("Populator"),
	}
}

// DropExisting checks each target collection against the store and asks, per
// existing collection, whether to drop and replace it. Answering no leaves
// the collection untouched.
func (p *Populator) DropExisting(ctx context.Context, targets []Target) error {
	for _, name := range uniqueCollections(targets) {
		exists, err := p.Repo.Exists(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to check collection %s", name)
		}
		if !exists {
			continue
		}

		ok, err := p.Confirm(fmt.Sprintf("%s collection exists - delete and replace this collection (yes/no)?", name))
		if err != nil {
			return errors.Wrap(err, "confirmation failed")
		}
		if !ok {
			p.Log.Info("keeping existing collection %s", name)
			continue
		}
		if err := p.Repo.Drop(ctx, name); err != nil {
			return errors.Wrapf(err, "failed to drop collection %s", name)
		}
		p.Log.Info("%s dropped", name)
	}
	return nil
}

// Populate loads every target's JSON array into its collection. When
// populateAll is false, only collections absent from the store are loaded;
// existing ones are skipped rather than duplicated.
func (p *Populator) Populate(ctx context.Context, targets []Target, populateAll bool) error {
	existing := make(map[string]bool)
	for _, name := range uniqueCollections(targets) {
		exists, err := p.Repo.Exists(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to check collection %s", name)
		}
		existing[name] = exists
	}

	for _, target := range targets {
		if !populateAll && existing[target.Collection] {
			p.Log.Info("skipping %s: collection already populated", target.Collection)
			continue
		}

		records, err := p.readRecords(target.File)
		if err != nil {
			// A missing file skips one target, not the whole run.
			p.Log.Warn("skipping %s: %v", target.Collection, err)
			continue
		}

		if !existing[target.Collection] {
			if err := p.Repo.Create(ctx, target.Collection); err != nil {
				return errors.Wrapf(err, "failed to create collection %s", target.Collection)
			}
			existing[target.Collection] = true
			p.Log.Info("%s created", target.Collection)
		}

		n, err := p.Repo.Insert(ctx, target.Collection, records)
		if err != nil {
			return errors.Wrapf(err, "failed to populate collection %s", target.Collection)
		}
		p.Log.Info("%s added to %s with %d records created", target.File, target.Collection, n)
	}
	return nil
}

// readRecords loads one JSON array-of-records document.
func (p *Populator) readRecords(file string) ([]map[string]interface{}, error) {
	path := file
	if p.JSONDir != "" {
		path = filepath.Join(p.JSONDir, file)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("file %s not found", path)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid collection document %s: %w", path, err)
	}
	return records, nil
}

func uniqueCollections(targets []Target) []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range targets {
		if !seen[t.Collection] {
			seen[t.Collection] = true
			names = append(names, t.Collection)
		}
	}
	return names
}
