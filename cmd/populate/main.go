package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"structset/adapters/postgres"
	"structset/internal/config"
	"structset/internal/population"
	"structset/internal/tracking"
)

func main() {
	targetsFile := flag.String("targets", "", "JSON file of {collection: json_file} pairs")
	flag.Parse()

	if *targetsFile == "" {
		log.Fatal("Usage: populate -targets <targets.json>")
	}

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	targets, err := loadTargets(*targetsFile)
	if err != nil {
		log.Fatalf("Failed to load population targets: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	confirm := terminalConfirmer(os.Stdin)
	populator := population.New(postgres.NewCollectionRepository(db), confirm, cfg.Data.JSONDir)

	ctx := context.Background()
	if err := populator.DropExisting(ctx, targets); err != nil {
		log.Fatalf("Drop check failed: %v", err)
	}

	populateAll, err := confirm("populate ALL collections? only populate newly added collection types if no. (yes/no)")
	if err != nil {
		log.Fatalf("Confirmation failed: %v", err)
	}
	if err := populator.Populate(ctx, targets, populateAll); err != nil {
		log.Fatalf("Population failed: %v", err)
	}

	tracker, err := tracking.Open(cfg.Tracker.Path)
	if err != nil {
		log.Fatalf("Failed to open tracker: %v", err)
	}
	defer tracker.Close()

	for _, t := range targets {
		err := tracker.RecordEvent(ctx, t.Collection, tracking.OpDatabasePopulation, tracking.EventDetails{})
		if err != nil {
			log.Fatalf("Failed to record population event: %v", err)
		}
	}
}

// loadTargets reads the population list: a JSON object mapping collection
// names to the JSON files that feed them.
func loadTargets(path string) ([]population.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("invalid targets document: %w", err)
	}
	targets := make([]population.Target, 0, len(mapping))
	for collection, file := range mapping {
		targets = append(targets, population.Target{Collection: collection, File: file})
	}
	return targets, nil
}

// terminalConfirmer prompts on stdout and reads yes/no answers until one
// parses.
func terminalConfirmer(in *os.File) func(string) (bool, error) {
	reader := bufio.NewReader(in)
	return func(prompt string) (bool, error) {
		for {
			fmt.Println(prompt)
			line, err := reader.ReadString('\n')
			if err != nil {
				return false, err
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "yes":
				return true, nil
			case "no":
				return false, nil
			}
			fmt.Println("Type yes/no")
		}
	}
}
