package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"krisha_importer/config"
	"krisha_importer/logging"
	"krisha_importer/parser"
	"krisha_importer/scheduler"
	"krisha_importer/services"
	"krisha_importer/storage"
	"krisha_importer/workers"
)

var (
	importURL = flag.String("import", "", "Import one listing URL and exit")
	queueURL  = flag.String("queue", "", "Queue a listing URL for the background worker and exit")
	ownerID   = flag.Int64("owner", 0, "Owner id to attach to the draft")
	agencyID  = flag.Int64("agency", 0, "Agency id to attach to the draft")
	sourceID  = flag.String("source", "", "Source profile id (defaults to the sole configured source)")
	seed      = flag.Bool("seed", false, "Seed the dictionary tables from the YAML file and exit")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogPath)
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting krisha_importer...")
	log.Printf("Loaded %d source profile(s)", len(cfg.Sources))

	ctx := context.Background()

	pgStore, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to Postgres: %v", err)
	}
	defer pgStore.Close()

	if *seed {
		seedDictionaries(ctx, cfg, pgStore)
		return
	}

	opsStore, err := storage.NewSQLiteStore(cfg.OpsDBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer opsStore.Close()

	if *queueURL != "" {
		token, err := opsStore.EnqueueRequest(*queueURL, *ownerID, *agencyID)
		if err != nil {
			log.Fatalf("Failed to queue %s: %v", *queueURL, err)
		}
		log.Printf("Queued %s (token %s)", *queueURL, token)
		return
	}

	source, err := cfg.Source(*sourceID)
	if err != nil {
		log.Fatalf("Failed to resolve source: %v", err)
	}
	log.Printf("Using source profile %s (%s)", source.ID, source.Domain)

	loader := parser.NewPageLoader(source)
	pageParser := parser.New(loader)
	normalizer := services.NewNormalizer(pgStore)
	importer := services.NewImporter(pageParser, normalizer, pgStore, opsStore)

	if *importURL != "" {
		draft, err := importer.Import(ctx, *importURL, *ownerID, *agencyID)
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		out, _ := json.MarshalIndent(draft, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		return
	}

	// Daemon mode: drain the request queue on an interval, plus an optional
	// cron-forced drain.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	worker := workers.NewImportWorker(opsStore, importer)
	go worker.Run(ctx, cfg.QueueInterval, cfg.QueueBatchSize)

	sched := scheduler.New(cfg, worker)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
	cancel()
}

func seedDictionaries(ctx context.Context, cfg *config.Config, store *storage.PostgresStore) {
	dicts, err := config.LoadDictionaries(cfg.DictionariesPath)
	if err != nil {
		log.Fatalf("Failed to load dictionaries: %v", err)
	}
	for dict, entries := range dicts {
		if err := store.SeedVocabulary(ctx, dict, entries); err != nil {
			log.Fatalf("Failed to seed %s: %v", dict, err)
		}
		log.Printf("Seeded %s with %d entries", dict, len(entries))
	}
	log.Println("Dictionary seeding complete")
}
