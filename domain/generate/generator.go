// Package generate instantiates a record factory over every point of a
// design-space expansion and projects the produced records into a tabular
// library. Generation tolerates per-record failures: one malformed parameter
// combination must never abort the remaining thousands.
package generate

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"structset/domain/core"
	"structset/domain/design"
	"structset/domain/table"
)

// WeightColumn is the table column that carries per-record weights.
const WeightColumn = "value_fn"

// Record is the attribute surface the generator reads off a produced object.
// Unknown attribute names return an error wrapping core.ErrAttributeNotFound.
type Record interface {
	Attribute(name string) (interface{}, error)
}

// Factory constructs one Record from one parameter record. It also advertises
// the reportable attribute names of the records it produces, which become the
// default table columns when the caller declares none.
type Factory interface {
	New(p design.Params) (Record, error)
	ReportAttributes() []string
}

// Skip records one parameter record that could not be generated.
type Skip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Outcome holds one complete generation pass. Produced and Table are
// row-aligned; every skipped index is absent from both.
type Outcome struct {
	Produced []Record
	Table    *table.Table
	Skipped  []Skip

	// entryIndex maps each table row back to the generator entry that
	// produced it, so reduction can remove the right parameter records.
	entryIndex []int
}

// entry pairs one parameter record with its optional weight. Keeping the pair
// in one sequence means reduction can never desynchronize the two.
type entry struct {
	params design.Params
	weight *float64
}

// Generator runs a factory over a parameter-record sequence.
type Generator struct {
	factory Factory
	attrs   []string
	entries []entry

	// Workers bounds concurrent factory invocations. Values below 2 keep the
	// pass sequential. Result order and skip accounting are index-stable
	// regardless of execution order.
	Workers int

	// Progress, when set, is called after every ProgressEvery completed
	// records and once at the end. Purely observational.
	Progress      func(done, total int)
	ProgressEvery int

	// Logf receives per-record skip diagnostics. Defaults to log.Printf.
	Logf func(format string, args ...interface{})
}

// New creates a generator over a design-space expansion. If attrs is nil the
// factory's advertised report attributes are used.
func New(space *design.Space, factory Factory, attrs ...string) *Generator {
	g := &Generator{factory: factory, attrs: attrs, ProgressEvery: 1000}
	for _, p := range space.Expansion() {
		g.entries = append(g.entries, entry{params: p})
	}
	return g
}

// NewFromParams creates a generator over an explicit parameter-record list,
// e.g. the merge of several spaces.
func NewFromParams(params []design.Params, factory Factory, attrs ...string) *Generator {
	g := &Generator{factory: factory, attrs: attrs, ProgressEvery: 1000}
	for _, p := range params {
		g.entries = append(g.entries, entry{params: p})
	}
	return g
}

// AttachWeights pairs one weight with each parameter record. The table gains
// a WeightColumn column aligned with the rows that survive generation.
func (g *Generator) AttachWeights(weights []float64) error {
	if len(weights) != len(g.entries) {
		return fmt.Errorf("%d weights for %d parameter records", len(weights), len(g.entries))
	}
	for i := range g.entries {
		w := weights[i]
		g.entries[i].weight = &w
	}
	return nil
}

// Params returns the current parameter records, in order. Reduction shrinks
// this list permanently.
func (g *Generator) Params() []design.Params {
	out := make([]design.Params, len(g.entries))
	for i, e := range g.entries {
		out[i] = e.params
	}
	return out
}

// rowResult is one per-index generation result, merged back in index order.
type rowResult struct {
	record Record
	row    table.Row
	err    error
}

// Generate runs the factory once per parameter record, in input order.
// Construction or projection failures are skipped and recorded, never raised;
// the returned outcome always covers everything that was producible.
func (g *Generator) Generate(ctx context.Context) (*Outcome, error) {
	if g.factory == nil {
		return nil, core.ErrNoFactory
	}
	attrs := g.attrs
	if len(attrs) == 0 {
		attrs = g.factory.ReportAttributes()
	}
	logf := g.Logf
	if logf == nil {
		logf = log.Printf
	}

	results := make([]rowResult, len(g.entries))
	if g.Workers > 1 {
		if err := g.runParallel(ctx, attrs, results); err != nil {
			return nil, err
		}
	} else if err := g.runSequential(ctx, attrs, results); err != nil {
		return nil, err
	}

	weighted := false
	for _, e := range g.entries {
		if e.weight != nil {
			weighted = true
			break
		}
	}

	columns := append([]string(nil), attrs...)
	if weighted {
		columns = append(columns, WeightColumn)
	}

	outcome := &Outcome{Table: table.New(columns...)}
	for i, res := range results {
		if res.err != nil {
			logf("[Generator] skipping parameter record %d: %v", i, res.err)
			outcome.Skipped = append(outcome.Skipped, Skip{Index: i, Reason: res.err.Error()})
			continue
		}
		if weighted && g.entries[i].weight != nil {
			res.row[WeightColumn] = *g.entries[i].weight
		}
		outcome.Produced = append(outcome.Produced, res.record)
		outcome.Table.Append(res.row)
		outcome.entryIndex = append(outcome.entryIndex, i)
	}
	return outcome, nil
}

// runSequential is the default single-pass execution.
func (g *Generator) runSequential(ctx context.Context, attrs []string, results []rowResult) error {
	for i := range g.entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		results[i] = g.buildOne(g.entries[i].params, attrs)
		g.reportProgress(i+1, len(g.entries))
	}
	return nil
}

// runParallel fans the per-record work out over a weighted semaphore. Each
// worker writes only its own index slot, so merged output is identical to the
// sequential pass.
func (g *Generator) runParallel(ctx context.Context, attrs []string, results []rowResult) error {
	sem := semaphore.NewWeighted(int64(g.Workers))
	var wg sync.WaitGroup
	var mu sync.Mutex
	done := 0

	for i := range g.entries {
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = g.buildOne(g.entries[i].params, attrs)

			mu.Lock()
			done++
			d := done
			mu.Unlock()
			g.reportProgress(d, len(g.entries))
		}(i)
	}
	wg.Wait()
	return nil
}

// buildOne constructs one record and projects its report attributes into a
// row. Any failure is returned for skip accounting, not raised.
func (g *Generator) buildOne(p design.Params, attrs []string) rowResult {
	rec, err := g.factory.New(p)
	if err != nil {
		return rowResult{err: fmt.Errorf("%w: %v", core.ErrConstructionFailed, err)}
	}
	row := make(table.Row, len(attrs))
	for _, name := range attrs {
		v, err := rec.Attribute(name)
		if err != nil {
			return rowResult{err: err}
		}
		row[name] = v
	}
	return rowResult{record: rec, row: row}
}

func (g *Generator) reportProgress(done, total int) {
	if g.Progress == nil {
		return
	}
	every := g.ProgressEvery
	if every <= 0 {
		every = 1000
	}
	if done%every == 0 || done == total {
		g.Progress(done, total)
	}
}

// Reduce evaluates the predicate against every generated row and permanently
// removes the matching parameter records (with their paired weights) from the
// generator, then regenerates. This is not a filtered view; the design space
// shrinks for good.
func (g *Generator) Reduce(ctx context.Context, outcome *Outcome, predicate func(table.Row) bool) (*Outcome, error) {
	var remove []int
	for i, row := range outcome.Table.Rows {
		if predicate(row) {
			remove = append(remove, outcome.entryIndex[i])
		}
	}
	// Highest index first so earlier deletions cannot shift later ones.
	sort.Sort(sort.Reverse(sort.IntSlice(remove)))
	for _, idx := range remove {
		g.entries = append(g.entries[:idx], g.entries[idx+1:]...)
	}
	return g.Generate(ctx)
}

// NameDict zips the key attribute column with the produced records, 1:1 in
// row order. Duplicate key values fail loudly rather than silently dropping
// records.
func NameDict(outcome *Outcome, keyAttribute string) (map[interface{}]Record, error) {
	keys, err := outcome.Table.Column(keyAttribute)
	if err != nil {
		return nil, err
	}
	dict := make(map[interface{}]Record, len(keys))
	for i, key := range keys {
		if _, seen := dict[key]; seen {
			return nil, core.NewDuplicateKeyError(keyAttribute, key)
		}
		dict[key] = outcome.Produced[i]
	}
	return dict, nil
}
