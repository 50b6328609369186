package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-pulse/internal/service/importer"
)

const syncTimeout = 5 * time.Minute

// Scheduler re-runs the feed import on a cron schedule so the store keeps
// tracking the upstream export without manual runs.
type Scheduler struct {
	cron      *cron.Cron
	importSvc *importer.Service
	schedule  string
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(schedule string, importSvc *importer.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:      cron.New(),
		importSvc: importSvc,
		schedule:  schedule,
		logger:    logger,
	}
}

// Start registers the sync job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runSync); err != nil {
		s.logger.Error("failed to schedule import sync", zap.Error(err))
		return
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runSync() {
	s.logger.Info("running scheduled import sync")
	ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
	defer cancel()

	summary, err := s.importSvc.Sync(ctx)
	if err != nil {
		s.logger.Error("scheduled import sync failed", zap.Error(err))
		return
	}

	s.logger.Info("scheduled import sync done",
		zap.Int64("items_upserted", summary.ItemsUpserted),
		zap.Int64("records_upserted", summary.RecordsUpserted))
}
