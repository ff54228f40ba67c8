package scheduler

import (
	"context"
	"time"

	"github.com/fadedpez/blondie/internal/logging"
	"github.com/fadedpez/blondie/pkg/repositories/history"
)

// ElasticsearchMaintenanceScheduler runs the housekeeping for the
// hand-history archive: rolling over to fresh dated indices and pruning the
// oldest ones past the retention bound.
type ElasticsearchMaintenanceScheduler struct {
	scheduler *Scheduler
	repo      *history.ElasticsearchRepository
	logger    *logging.Logger
}

// NewElasticsearchMaintenanceScheduler creates the archive maintenance
// scheduler
func NewElasticsearchMaintenanceScheduler(repo *history.ElasticsearchRepository, logger *logging.Logger) *ElasticsearchMaintenanceScheduler {
	return &ElasticsearchMaintenanceScheduler{
		scheduler: NewScheduler(logger),
		repo:      repo,
		logger:    logger,
	}
}

// Start initializes and starts the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Start(ctx context.Context) {
	config := s.repo.GetConfig()

	rotationInterval := config.RotationPeriod
	if rotationInterval <= 0 {
		rotationInterval = 24 * time.Hour
	}
	s.scheduler.AddTask("index_rotation", rotationInterval, s.repo.RotateIndex)

	// Pruning is cheap; weekly keeps the index count bounded without racing
	// the rotation
	s.scheduler.AddTask("index_pruning", 7*24*time.Hour, s.repo.PruneOldIndices)

	s.scheduler.Start(ctx)
	s.logger.Info("Hand-history archive maintenance started")
}

// Stop stops the maintenance scheduler
func (s *ElasticsearchMaintenanceScheduler) Stop() {
	s.scheduler.Stop()
}
