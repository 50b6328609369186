package main

import (
	"context"
	"flag"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/config"
	"github.com/mamadbah2/inventory-pulse/internal/repository/mongodb"
	"github.com/mamadbah2/inventory-pulse/internal/repository/sheets"
	importersvc "github.com/mamadbah2/inventory-pulse/internal/service/importer"
	"github.com/mamadbah2/inventory-pulse/pkg/clients/feed"
	"github.com/mamadbah2/inventory-pulse/pkg/logger"
)

// One-shot feed import: pulls the catalog and daily record feeds from the
// configured source and upserts them into MongoDB. Safe to re-run; the
// upserts are keyed by (itemId) and (itemId, date).
func main() {
	envFile := flag.String("env", "", "optional .env file to load configuration from")
	itemsPath := flag.String("items", "", "override path of the item catalog feed file")
	recordsPath := flag.String("records", "", "override path of the daily record feed file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		panic(err)
	}
	if *itemsPath != "" {
		cfg.Import.ItemFilePath = *itemsPath
	}
	if *recordsPath != "" {
		cfg.Import.RecordFilePath = *recordsPath
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	source, err := buildSource(ctx, cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init import source", zap.Error(err))
	}

	importSvc := importersvc.NewService(source, mongoRepo, baseLogger.Named("svc.importer"))

	summary, err := importSvc.Sync(ctx)
	if err != nil {
		baseLogger.Fatal("import failed", zap.Error(err))
	}

	baseLogger.Info("import complete",
		zap.Int64("items_upserted", summary.ItemsUpserted),
		zap.Int64("records_upserted", summary.RecordsUpserted),
		zap.Int("skipped_items", summary.SkippedItems),
		zap.Int("skipped_records", summary.SkippedRecords))
}

func buildSource(ctx context.Context, cfg *config.Config, baseLogger *zap.Logger) (importersvc.Source, error) {
	switch cfg.Import.Source {
	case config.SourceHTTP:
		return feed.NewClient(cfg.Import), nil
	case config.SourceSheets:
		return sheets.NewFeedSource(ctx, cfg.Import.Sheets, baseLogger.Named("repo.sheets"))
	default:
		return importersvc.NewFileSource(cfg.Import.ItemFilePath, cfg.Import.RecordFilePath), nil
	}
}
