package sync

import (
	"context"
	stderrors "errors"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cast"
)

const defaultIntervalMinutes = 60

// IntervalFromEnv reads SYNC_INTERVAL_MINUTES. An unset or invalid value
// falls back to the default with a warning, matching the manual trigger's
// forgiving behavior.
func IntervalFromEnv(logger Logger) time.Duration {
	raw := os.Getenv("SYNC_INTERVAL_MINUTES")
	if raw == "" {
		return defaultIntervalMinutes * time.Minute
	}
	minutes, err := cast.ToIntE(raw)
	if err != nil || minutes <= 0 {
		logger.Warnf("invalid sync interval %q, using default: %d", raw, defaultIntervalMinutes)
		return defaultIntervalMinutes * time.Minute
	}
	return time.Duration(minutes) * time.Minute
}

// Scheduler triggers full runs on a wall-clock interval or a cron
// expression. It never overlaps runs: a trigger that fires while the
// manager is busy is skipped.
type Scheduler struct {
	manager *Manager
	logger  Logger
}

func NewScheduler(manager *Manager, logger Logger) *Scheduler {
	return &Scheduler{manager: manager, logger: logger}
}

func (s *Scheduler) runOnce() {
	if _, err := s.manager.SyncAll(); err != nil {
		if stderrors.Is(err, ErrSyncRunning) {
			s.logger.Warnf("previous sync run still active, skipping this trigger")
			return
		}
		s.logger.Errorf("scheduled sync failed: %v", err)
	}
}

// StartInterval blocks until ctx is done, running a full sync every
// interval.
func (s *Scheduler) StartInterval(ctx context.Context, interval time.Duration) {
	s.logger.Infof("interval scheduler started, syncing every %s", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-ctx.Done():
			s.logger.Infof("interval scheduler stopped")
			return
		}
	}
}

// StartCron registers a 5 or 6 field cron expression and blocks until ctx
// is done.
func (s *Scheduler) StartCron(ctx context.Context, expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return errors.New("cron expression is empty")
	}

	parts := strings.Fields(expr)
	var c *cron.Cron
	switch len(parts) {
	case 6:
		c = cron.New(cron.WithSeconds())
	case 5:
		c = cron.New()
	default:
		return errors.Errorf("cron expression must have 5 or 6 fields: %s", expr)
	}

	entryID, err := c.AddFunc(expr, func() {
		s.logger.Infof("cron trigger fired")
		s.runOnce()
	})
	if err != nil {
		return errors.Wrap(err, "parse cron expression")
	}
	s.logger.Infof("cron job registered (entry %d, expression %q)", entryID, expr)

	c.Start()
	<-ctx.Done()

	s.logger.Infof("stopping cron scheduler...")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	s.logger.Infof("cron scheduler stopped")
	return nil
}
