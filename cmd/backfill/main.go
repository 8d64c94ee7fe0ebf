package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-cet-sync/internal/config"
	"go-cet-sync/internal/database"
	"go-cet-sync/internal/features/connection"
	"go-cet-sync/internal/features/dispatch"
	"go-cet-sync/internal/features/historical"
	"go-cet-sync/internal/features/record"
	"go-cet-sync/internal/features/syncconfig"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// One-shot runner: replays all records of one sync configuration through the
// mapping and dispatch pipeline. Usage: backfill <configuration-id>
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: backfill <configuration-id>")
	}
	configurationID := os.Args[1]

	cfg, _ := config.LoadConfig()

	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(ctx)

	db := &database.MongodbDB{DB: client.Database(cfg.DBName)}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	connRepo := connection.NewConnectionRepository(db)
	registry := connection.NewRegistry(connRepo, logger)
	configRepo := syncconfig.NewSyncConfigRepository(db)
	mappingRepo := syncconfig.NewFieldMappingRepository(db)
	configService := syncconfig.NewSyncConfigService(configRepo, mappingRepo)
	recordRepo := record.NewRecordRepository(db)
	dispatcher := dispatch.NewDispatcher(registry, cfg, logger)
	eventLog := dispatch.NewEventLogger(db, logger)
	runRepo := historical.NewBackfillRunRepository(db)

	backfill := historical.NewBackfillService(configService, recordRepo, dispatcher, eventLog, runRepo, cfg, logger)

	run, err := backfill.Run(ctx, configurationID)
	if err != nil {
		log.Fatalf("backfill failed: %v", err)
	}

	fmt.Printf("Run %s finished: processed=%d succeeded=%d failed=%d\n",
		run.RunID, run.Counters.Processed, run.Counters.Succeeded, run.Counters.Failed)
}
