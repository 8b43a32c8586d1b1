// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/go-co-op/gocron"
)

// SessionPurger removes sessions past their expiry.
type SessionPurger interface {
	PurgeExpiredSessions(ctx context.Context) error
}

const jobTimeout = 30 * time.Second

// Scheduler periodically purges expired login sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	purger    SessionPurger
	interval  time.Duration
}

// New creates a Scheduler that runs purger every interval.
func New(purger SessionPurger, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		purger:    purger,
		interval:  interval,
	}
}

// Start schedules the purge job and starts the scheduler. The first run
// happens immediately. ctx supplies the logger for job output.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return errors.New("scheduler: interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).Do(func() {
		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), jobTimeout)
		defer cancel()

		if err := s.purger.PurgeExpiredSessions(jobCtx); err != nil {
			logger.Errorf(jobCtx, "scheduler: purge sessions: %v", err)
			return
		}
		logger.Debugf(jobCtx, "scheduler: purged expired sessions")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Infof(ctx, "scheduler: purging expired sessions every %s", s.interval)
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
