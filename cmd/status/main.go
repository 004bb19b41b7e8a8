package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"structset/internal/config"
	"structset/internal/tracking"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tracker, err := tracking.Open(cfg.Tracker.Path)
	if err != nil {
		log.Fatalf("Failed to open tracker: %v", err)
	}
	defer tracker.Close()

	ctx := context.Background()
	summary, err := tracker.Summary(ctx)
	if err != nil {
		log.Fatalf("Failed to summarize audit record: %v", err)
	}

	fmt.Println("Dataset Generation Status Summary")
	fmt.Println("=================================")
	fmt.Printf("Total Collections:   %d\n", summary.TotalCollections)
	fmt.Printf("Generated:           %d\n", summary.Generated)
	fmt.Printf("Dataset Verified:    %d\n", summary.DatasetVerified)
	fmt.Printf("Database Populated:  %d\n", summary.DatabasePopulated)
	fmt.Printf("Database Verified:   %d\n", summary.DatabaseVerified)

	records, err := tracker.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list audit records: %v", err)
	}
	if len(records) == 0 {
		return
	}

	fmt.Println()
	for _, rec := range records {
		fmt.Printf("%s: %d records, generated %s\n",
			rec.CollectionName, rec.RecordCount, orNever(rec.LastGenerationDate.String))
	}
}

func orNever(s string) string {
	if s == "" {
		return "never"
	}
	return s
}
