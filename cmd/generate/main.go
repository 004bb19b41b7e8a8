package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"structset/adapters/tabular"
	"structset/domain/catalog"
	"structset/domain/core"
	"structset/domain/design"
	"structset/domain/generate"
	"structset/internal/config"
	"structset/internal/tracking"
	"structset/ports"
)

// factories maps component names to their built-in factories.
var factories = map[string]generate.Factory{
	"bolt": catalog.BoltFactory{},
}

func main() {
	varsFile := flag.String("vars", "", "design variable JSON file (object of arrays)")
	component := flag.String("component", "bolt", "component factory to instantiate")
	name := flag.String("name", "", "collection name for exports and tracking")
	outDir := flag.String("out", ".", "output directory")
	attrList := flag.String("attrs", "", "comma-separated report attributes (default: factory surface)")
	flag.Parse()

	if *varsFile == "" || *name == "" {
		log.Fatal("Usage: generate -vars <design_vars.json> -name <collection> [-component bolt] [-out dir] [-attrs a,b,c]")
	}

	// Missing .env is fine; environment variables may be set directly.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	factory, ok := factories[*component]
	if !ok {
		log.Fatalf("Unknown component %q", *component)
	}

	runID := core.NewID()
	log.Printf("Generation run %s for collection %s", runID, *name)

	space, err := design.FromJSON(*varsFile)
	if err != nil {
		log.Fatalf("Failed to load design variables: %v", err)
	}
	log.Printf("Loaded %d design variables, %d parameter combinations",
		len(space.Variables()), space.Size())

	var attrs []string
	if *attrList != "" {
		attrs = strings.Split(*attrList, ",")
	}

	gen := generate.New(space, factory, attrs...)
	gen.Workers = cfg.Generation.Workers
	gen.ProgressEvery = cfg.Generation.ProgressInterval
	gen.Progress = func(done, total int) {
		log.Printf("Generated %d/%d records", done, total)
	}

	outcome, err := gen.Generate(context.Background())
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	log.Printf("Generation complete: %d records, %d skipped",
		outcome.Table.Len(), len(outcome.Skipped))

	csvPath := filepath.Join(*outDir, *name+".csv")
	jsonPath := filepath.Join(*outDir, *name+".json")
	var writer ports.TableWriter = tabular.NewDataWriter()
	if err := writer.WriteCSV(outcome.Table, csvPath); err != nil {
		log.Fatalf("CSV export failed: %v", err)
	}
	if err := writer.WriteJSON(outcome.Table, jsonPath); err != nil {
		log.Fatalf("JSON export failed: %v", err)
	}

	tracker, err := tracking.Open(cfg.Tracker.Path)
	if err != nil {
		log.Fatalf("Failed to open tracker: %v", err)
	}
	defer tracker.Close()

	details := tracking.EventDetails{
		RecordCount: outcome.Table.Len(),
		CSVPath:     csvPath,
		JSONPath:    jsonPath,
		Notes:       fmt.Sprintf("run %s: %d parameter records skipped", runID, len(outcome.Skipped)),
	}
	if err := tracker.RecordEvent(context.Background(), *name, tracking.OpGeneration, details); err != nil {
		log.Fatalf("Failed to record generation event: %v", err)
	}

	fmt.Fprintf(os.Stdout, "%s library written to %s and %s\n", *name, csvPath, jsonPath)
}
