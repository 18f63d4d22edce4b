package main

import (
	"context"
	"log"
	"os"

	"github.com/Phoen1xxz/stillpark/internal/adapters/jsonstore"
	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/ingest"
	"github.com/Phoen1xxz/stillpark/internal/pkg/config"
)

func main() {
	cfg, err := config.Load("stillpark-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	seedPath := "data/seed_lots.json"
	if len(os.Args) > 1 {
		seedPath = os.Args[1]
	}
	exportPath := ""
	if len(os.Args) > 2 {
		exportPath = os.Args[2]
	}

	store, err := jsonstore.Open(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	lotRepo, err := jsonstore.NewLotRepo(store)
	if err != nil {
		log.Fatalf("lot catalog: %v", err)
	}

	seed, err := ingest.LoadSeed(seedPath)
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("Stillpark Importer: %d seed lots from %s", len(seed), seedPath)

	var imported []domain.ParkingLot
	if exportPath != "" {
		imported, err = ingest.LoadExport(exportPath)
		if err != nil {
			log.Fatalf("overpass export: %v", err)
		}
		log.Printf("parsed %d lots from %s", len(imported), exportPath)
	}

	merged := ingest.Merge(seed, imported)

	ctx := context.Background()
	if err := lotRepo.UpsertBatch(ctx, merged); err != nil {
		log.Fatalf("upsert catalog: %v", err)
	}

	log.Printf("catalog ready: %d lots (%d kept from export)", len(merged), len(merged)-len(seed))
}
