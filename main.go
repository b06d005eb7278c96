package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/contalink/erp-sync-service/common/config"
	"github.com/contalink/erp-sync-service/common/db"
	"github.com/contalink/erp-sync-service/common/legacy"
	"github.com/contalink/erp-sync-service/common/logger"
	"github.com/contalink/erp-sync-service/common/messaging"
	"github.com/contalink/erp-sync-service/common/registry"
	"github.com/contalink/erp-sync-service/common/services"
	"github.com/contalink/erp-sync-service/common/syncer"
	"github.com/contalink/erp-sync-service/common/work"
)

func main() {
	// INITIATE CONFIGURATION
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file, using environment variables")
	}

	cfg := config.DefaultConfig()
	cfg.LoadFromEnv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// INITIATE DATABASES
	dbConn, err := db.SetupDatabase(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup database")
	}
	defer dbConn.Close()

	// Repositories
	connections := services.NewConnectionConfigRepository(dbConn.Pool)
	registryCfg := services.NewRegistryConfigRepository(dbConn.Pool)
	flags := services.NewCompanyFlagRepository(dbConn.Pool)
	statuses := services.NewSyncStatusRepository(dbConn.Pool)
	logs := services.NewSyncLogRepository(dbConn.Pool)

	// Mirror warn+ logs into the database
	logger.InitializeLogging(logs)

	// INITIATE NATS CLIENT
	natsClient, err := messaging.SetupNatsBroker(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup NATS client")
	}
	defer natsClient.Close()

	// Legacy store gateway and registry client
	gateway := legacy.NewODBCGateway(connections)
	registryClient := registry.NewHTTPClient()

	// Submission pipeline: pool bounds concurrency against the registry
	pool, err := work.NewWorkerPool[registry.Result](cfg.Sync.WorkerCount, cfg.Sync.QueueSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the submission worker pool")
	}
	pool.Start(ctx, "supplier-submission")
	defer pool.Stop()

	worker := syncer.NewWorker(registryClient, registryCfg, statuses, cfg.Sync.UnitDelay)
	consumeCtx, err := syncer.RegisterConsumer(ctx, natsClient, pool, worker)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to register the submission consumer")
	}
	defer consumeCtx.Stop()
	log.Info().Msg("Submission consumer registered")

	scheduler := syncer.NewNatsScheduler(natsClient)
	locker := work.NewRedisRunLocker(dbConn.Redis)
	orchestrator := syncer.NewOrchestrator(gateway, registryCfg, statuses, flags, scheduler, locker, cfg.Sync)
	catalog := syncer.NewCatalog(gateway, flags, statuses)

	// INITIATE SERVER
	server, err := NewAppHttpServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create the server")
	}

	server.SetDependencies(dbConn, gateway, registryClient, connections, registryCfg, flags, logs, catalog, orchestrator)
	server.setupRoute()

	go func() {
		if err := server.start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			cancel()
		}
	}()

	log.Info().Str("address", cfg.Listen.Addr()).Msg("Server started successfully")

	// Wait for shutdown signal
	select {
	case <-shutdown:
		log.Info().Msg("Shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server gracefully stopped")
}
