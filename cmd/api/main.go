package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Phoen1xxz/stillpark/internal/adapters/http"
	"github.com/Phoen1xxz/stillpark/internal/adapters/jsonstore"
	natsadapter "github.com/Phoen1xxz/stillpark/internal/adapters/nats"
	"github.com/Phoen1xxz/stillpark/internal/adapters/valkey"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
	"github.com/Phoen1xxz/stillpark/internal/core/usecases"
	"github.com/Phoen1xxz/stillpark/internal/pkg/config"
	"github.com/Phoen1xxz/stillpark/internal/pkg/logging"
	"github.com/Phoen1xxz/stillpark/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("stillpark-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Catalog, gazetteer and per-user state live in a directory of JSON files.
	store, err := jsonstore.Open(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("data dir: %v", err)
	}

	lotRepo, err := jsonstore.NewLotRepo(store)
	if err != nil {
		log.Fatalf("lot catalog: %v", err)
	}
	placeRepo, err := jsonstore.NewPlaceRepo(store)
	if err != nil {
		log.Fatalf("place gazetteer: %v", err)
	}
	historyRepo, err := jsonstore.NewHistoryRepo(store)
	if err != nil {
		log.Fatalf("search history: %v", err)
	}
	settingsRepo, err := jsonstore.NewSettingsRepo(store)
	if err != nil {
		log.Fatalf("settings: %v", err)
	}
	paramRepo, err := jsonstore.NewUserParamRepo(store)
	if err != nil {
		log.Fatalf("user params: %v", err)
	}

	// Cache. The API works without one; reads just skip the fast path.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, caching disabled", "error", err)
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS publisher for availability writes.
	var eventPub ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable, availability updates stay local", "error", err)
	} else {
		eventPub = pub
		defer pub.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Use cases
	lotSvc := usecases.NewLotService(lotRepo, cacheSvc)
	searchSvc := usecases.NewSearchService(lotRepo, placeRepo, historyRepo, settingsRepo, cacheSvc)
	availabilitySvc := usecases.NewAvailabilityService(lotRepo, eventPub, cacheSvc)
	historySvc := usecases.NewHistoryService(historyRepo)
	settingsSvc := usecases.NewSettingsService(settingsRepo, paramRepo)

	// Durable consumer: availability events published by the simulator or
	// other instances are applied to the local catalog without republishing.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats subscriber unavailable", "error", err)
	} else {
		defer sub.Close()
		if err := sub.SubscribeAvailability(ctx, availabilitySvc.Apply); err != nil {
			slog.Warn("availability subscription failed", "error", err)
		}
	}

	deps := &http.Dependencies{
		Lots:            lotSvc,
		Search:          searchSvc,
		Availability:    availabilitySvc,
		History:         historySvc,
		Settings:        settingsSvc,
		NATS:            natsConn,
		Cache:           cache,
		DataDir:         cfg.Data.Dir,
		DefaultRadiusKm: cfg.Campus.DefaultRadiusKm,
		NearbyLimit:     cfg.Campus.NearbyLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Stillpark API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.stillpark.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
