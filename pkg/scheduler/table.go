package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/blondie/internal/logging"
)

// TableMaintainer is the slice of the table service the scheduler drives
type TableMaintainer interface {
	ListActiveGameIDs(ctx context.Context) ([]string, error)
	MaintainGame(ctx context.Context, gameID string) error
}

// TableScheduler runs the continuous-play maintenance pass: every interval
// it visits each active game and pushes it forward (abandonment, all-in
// fast-forward, next-hand start). Games are processed concurrently and in
// isolation; one game's failure is logged and never stops the pass.
type TableScheduler struct {
	scheduler *Scheduler
	tables    TableMaintainer
	logger    *logging.Logger
	interval  time.Duration
}

// NewTableScheduler creates the maintenance scheduler for the given tables
func NewTableScheduler(tables TableMaintainer, logger *logging.Logger, interval time.Duration) *TableScheduler {
	return &TableScheduler{
		scheduler: NewScheduler(logger),
		tables:    tables,
		logger:    logger,
		interval:  interval,
	}
}

// Start begins the recurring maintenance pass
func (s *TableScheduler) Start(ctx context.Context) {
	s.scheduler.AddTask("table_maintenance", s.interval, s.RunPass)
	s.scheduler.Start(ctx)
}

// Stop stops the maintenance pass
func (s *TableScheduler) Stop() {
	s.scheduler.Stop()
}

// RunPass visits every active game once. Exported so a pass can also be
// triggered directly, outside the ticker.
func (s *TableScheduler) RunPass(ctx context.Context) error {
	ids, err := s.tables.ListActiveGameIDs(ctx)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(gameID string) {
			defer wg.Done()
			if err := s.tables.MaintainGame(ctx, gameID); err != nil {
				s.logger.Warn("Maintenance pass skipped game %s: %v", gameID, err)
			}
		}(id)
	}
	wg.Wait()
	return nil
}
