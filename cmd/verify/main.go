package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"structset/adapters/tabular"
	"structset/domain/verify"
	"structset/internal/config"
	"structset/internal/tracking"
	"structset/ports"
)

func main() {
	generatedFile := flag.String("generated", "", "generated library file (CSV or XLSX)")
	referenceFile := flag.String("reference", "", "reference dataset file (CSV or XLSX)")
	keyColumn := flag.String("key", "name", "shared key column")
	name := flag.String("name", "", "collection name for exports and tracking")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	if *generatedFile == "" || *referenceFile == "" || *name == "" {
		log.Fatal("Usage: verify -generated <lib file> -reference <ref file> -name <collection> [-key name] [-out dir]")
	}

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var reader ports.TableReader = tabular.NewDataReader()
	generated, err := reader.Read(*generatedFile)
	if err != nil {
		log.Fatalf("Failed to read generated library: %v", err)
	}
	reference, err := reader.Read(*referenceFile)
	if err != nil {
		log.Fatalf("Failed to read reference dataset: %v", err)
	}

	result, err := verify.Verify(generated, reference, *keyColumn)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	resultPath := filepath.Join(*outDir, *name+"_verification_result.csv")
	reportPath := filepath.Join(*outDir, *name+"_verification_report.csv")
	var writer ports.TableWriter = tabular.NewDataWriter()
	if err := writer.WriteCSV(result.CellTable(), resultPath); err != nil {
		log.Fatalf("Result export failed: %v", err)
	}
	if err := writer.WriteCSV(result.ReportTable(), reportPath); err != nil {
		log.Fatalf("Report export failed: %v", err)
	}

	for _, rep := range result.Report {
		if !rep.Checked {
			log.Printf("%s: not present in reference data", rep.Column)
			continue
		}
		log.Printf("%s: coverage %.2f%%, avg error %v, mismatch rate %v",
			rep.Column, rep.Coverage.Value, rep.AvgError.Export(), rep.MismatchRate.Export())
	}

	tracker, err := tracking.Open(cfg.Tracker.Path)
	if err != nil {
		log.Fatalf("Failed to open tracker: %v", err)
	}
	defer tracker.Close()

	details := tracking.EventDetails{
		Notes: fmt.Sprintf("verified against %s on %s", filepath.Base(*referenceFile), *keyColumn),
	}
	if err := tracker.RecordEvent(context.Background(), *name, tracking.OpDatasetVerification, details); err != nil {
		log.Fatalf("Failed to record verification event: %v", err)
	}

	fmt.Fprintf(os.Stdout, "verification written to %s and %s\n", resultPath, reportPath)
}
