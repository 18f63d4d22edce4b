package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Phoen1xxz/stillpark/internal/adapters/jsonstore"
	natsadapter "github.com/Phoen1xxz/stillpark/internal/adapters/nats"
	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/pkg/config"
)

func main() {
	cfg, err := config.Load("stillpark-simulator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	interval := 5 * time.Second
	if len(os.Args) > 1 {
		secs, err := strconv.Atoi(os.Args[1])
		if err != nil || secs < 1 {
			log.Fatal("usage: simulator [interval-seconds]")
		}
		interval = time.Duration(secs) * time.Second
	}

	ctx := context.Background()

	store, err := jsonstore.Open(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}
	lotRepo, err := jsonstore.NewLotRepo(store)
	if err != nil {
		log.Fatalf("lot catalog: %v", err)
	}

	lots, err := lotRepo.List(ctx)
	if err != nil {
		log.Fatalf("list lots: %v", err)
	}
	if len(lots) == 0 {
		log.Fatal("catalog is empty, run the importer first")
	}

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	// Current count per lot, walked independently.
	counts := make(map[string]int, len(lots))
	for _, lot := range lots {
		counts[lot.ID] = lot.Available
	}

	log.Printf("Stillpark Simulator: drifting %d lots every %s", len(lots), interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Run once immediately
	drift(ctx, pub, lots, counts)

	for {
		select {
		case <-ticker.C:
			drift(ctx, pub, lots, counts)
		case sig := <-quit:
			log.Printf("received signal %v, stopping simulator", sig)
			return
		}
	}
}

// drift publishes one random step per lot. Counts never go below zero
// but may exceed capacity, the same as real counts during events when
// overflow rows open up.
func drift(ctx context.Context, pub *natsadapter.Publisher, lots []domain.ParkingLot, counts map[string]int) {
	published := 0
	for _, lot := range lots {
		next := counts[lot.ID] + rand.Intn(7) - 3
		if next < 0 {
			next = 0
		}
		counts[lot.ID] = next

		update := &domain.AvailabilityUpdate{
			LotID:      lot.ID,
			Available:  next,
			Source:     "simulator",
			ObservedAt: time.Now(),
		}
		if err := pub.PublishAvailability(ctx, update); err != nil {
			log.Printf("publish %s: %v", lot.ID, err)
			continue
		}
		published++
	}

	log.Printf("published %d availability updates", published)
}
