package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/config"
	"github.com/mamadbah2/inventory-pulse/internal/repository/mongodb"
	"github.com/mamadbah2/inventory-pulse/internal/repository/sheets"
	"github.com/mamadbah2/inventory-pulse/internal/scheduler"
	"github.com/mamadbah2/inventory-pulse/internal/server/handlers"
	"github.com/mamadbah2/inventory-pulse/internal/server/router"
	analyticssvc "github.com/mamadbah2/inventory-pulse/internal/service/analytics"
	importersvc "github.com/mamadbah2/inventory-pulse/internal/service/importer"
	"github.com/mamadbah2/inventory-pulse/pkg/clients/feed"
	"github.com/mamadbah2/inventory-pulse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	analyticsSvc := analyticssvc.NewService(mongoRepo, cfg.Analytics, baseLogger.Named("svc.analytics"))
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsSvc, baseLogger.Named("handlers.analytics"))
	engine := router.New(analyticsHandler, baseLogger.Named("router"))

	// Scheduled feed syncing is optional; without a schedule and a source the
	// server is a pure query engine over whatever the importer CLI loaded.
	if cfg.Import.Source != "" && cfg.Import.CronSchedule != "" {
		source, err := buildSource(context.Background(), cfg, baseLogger)
		if err != nil {
			baseLogger.Fatal("failed to init import source", zap.Error(err))
		}

		importSvc := importersvc.NewService(source, mongoRepo, baseLogger.Named("svc.importer"))
		sched := scheduler.NewScheduler(cfg.Import.CronSchedule, importSvc, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
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
