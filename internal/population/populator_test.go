package population

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structset/internal/testkit"
)

func writeCollection(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestPopulateCreatesAndLoads(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "bolts.json", `[{"name":"M12"},{"name":"M16"}]`)

	repo := testkit.NewMemoryRepository()
	p := New(repo, testkit.ScriptedConfirmer(), dir)

	targets := []Target{{Collection: "bolts", File: "bolts.json"}}
	require.NoError(t, p.Populate(context.Background(), targets, false))

	require.Len(t, repo.Collections["bolts"], 2)
	assert.Equal(t, "M12", repo.Collections["bolts"][0]["name"])
}

func TestPopulateSkipsExistingUnlessAll(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "bolts.json", `[{"name":"M12"}]`)

	repo := testkit.NewMemoryRepository()
	require.NoError(t, repo.Create(context.Background(), "bolts"))

	p := New(repo, testkit.ScriptedConfirmer(), dir)
	targets := []Target{{Collection: "bolts", File: "bolts.json"}}

	require.NoError(t, p.Populate(context.Background(), targets, false))
	assert.Empty(t, repo.Collections["bolts"], "existing collection is not re-populated")

	require.NoError(t, p.Populate(context.Background(), targets, true))
	assert.Len(t, repo.Collections["bolts"], 1)
}

func TestPopulateSkipsMissingFile(t *testing.T) {
	repo := testkit.NewMemoryRepository()
	p := New(repo, testkit.ScriptedConfirmer(), t.TempDir())

	targets := []Target{{Collection: "bolts", File: "absent.json"}}
	require.NoError(t, p.Populate(context.Background(), targets, true))
	_, exists := repo.Collections["bolts"]
	assert.False(t, exists, "a missing file skips the target without creating the collection")
}

func TestPopulateRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, dir, "bolts.json", `{"name":"not an array"}`)

	repo := testkit.NewMemoryRepository()
	p := New(repo, testkit.ScriptedConfirmer(), dir)

	targets := []Target{{Collection: "bolts", File: "bolts.json"}}
	require.NoError(t, p.Populate(context.Background(), targets, true))
	_, exists := repo.Collections["bolts"]
	assert.False(t, exists)
}

func TestDropExistingHonorsAnswers(t *testing.T) {
	repo := testkit.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "bolts"))
	require.NoError(t, repo.Create(ctx, "plates"))
	_, err := repo.Insert(ctx, "plates", []map[string]interface{}{{"t": 10.0}})
	require.NoError(t, err)

	// yes for bolts, no for plates (targets iterate in declaration order)
	p := New(repo, testkit.ScriptedConfirmer(true, false), "")
	targets := []Target{
		{Collection: "bolts", File: "bolts.json"},
		{Collection: "plates", File: "plates.json"},
		{Collection: "absent", File: "absent.json"},
	}
	require.NoError(t, p.DropExisting(ctx, targets))

	_, boltsExist := repo.Collections["bolts"]
	assert.False(t, boltsExist, "confirmed collection is dropped")
	assert.Len(t, repo.Collections["plates"], 1, "declined collection is untouched")
}

func TestDropExistingPromptsOncePerCollection(t *testing.T) {
	repo := testkit.NewMemoryRepository()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, "bolts"))

	// a single scripted answer covers duplicate targets for one collection
	p := New(repo, testkit.ScriptedConfirmer(true), "")
	targets := []Target{
		{Collection: "bolts", File: "a.json"},
		{Collection: "bolts", File: "b.json"},
	}
	require.NoError(t, p.DropExisting(ctx, targets))
}
