// Package cron runs the assistant's background maintenance: pruning
// abandoned applications and reminding the team about pending ones.
package cron

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tdh/emily/internal/logger"
	"github.com/tdh/emily/internal/persist"
)

// Notifier delivers maintenance notices to whoever watches the intake
type Notifier interface {
	Notify(message string) error
}

// Config holds the maintenance schedules
type Config struct {
	// CleanupSchedule prunes unfinished applications older than
	// Retention. Standard 5-field or 6-field (with seconds) cron.
	CleanupSchedule string
	// ReminderSchedule reports how many applications await review
	ReminderSchedule string
	Retention        time.Duration
}

// Scheduler manages the maintenance jobs
type Scheduler struct {
	cron     *cron.Cron
	store    *persist.Store
	notifier Notifier
	cfg      Config
}

// NewScheduler creates a scheduler over the application store. The
// notifier may be nil; reminders then only hit the log.
func NewScheduler(store *persist.Store, notifier Notifier, cfg Config) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		store:    store,
		notifier: notifier,
		cfg:      cfg,
	}
}

// normalizeCron prepends "0 " to standard 5-field cron expressions
// so they work with the 6-field (with seconds) parser.
func normalizeCron(schedule string) string {
	if len(strings.Fields(schedule)) == 5 {
		return "0 " + schedule
	}
	return schedule
}

// Start registers the configured jobs and starts the scheduler
func (s *Scheduler) Start() error {
	if s.cfg.CleanupSchedule != "" {
		if _, err := s.cron.AddFunc(normalizeCron(s.cfg.CleanupSchedule), s.runCleanup); err != nil {
			return fmt.Errorf("schedule cleanup: %w", err)
		}
	}
	if s.cfg.ReminderSchedule != "" {
		if _, err := s.cron.AddFunc(normalizeCron(s.cfg.ReminderSchedule), s.runReminder); err != nil {
			return fmt.Errorf("schedule reminder: %w", err)
		}
	}

	s.cron.Start()
	logger.Info("[CRON] Maintenance scheduler started (cleanup %q, reminder %q)",
		s.cfg.CleanupSchedule, s.cfg.ReminderSchedule)
	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("[CRON] Maintenance scheduler stopped")
}

func (s *Scheduler) runCleanup() {
	n, err := s.store.CleanupStale(s.cfg.Retention)
	if err != nil {
		logger.Error("[CRON] Cleanup failed: %v", err)
		return
	}
	if n > 0 {
		logger.Info("[CRON] Removed %d stale applications", n)
	}
}

func (s *Scheduler) runReminder() {
	count, err := s.store.CountPending()
	if err != nil {
		logger.Error("[CRON] Pending count failed: %v", err)
		return
	}
	if count == 0 {
		return
	}
	msg := fmt.Sprintf("%d applications are still in progress", count)
	logger.Info("[CRON] %s", msg)
	if s.notifier != nil {
		if err := s.notifier.Notify(msg); err != nil {
			logger.Warn("[CRON] Reminder notification failed: %v", err)
		}
	}
}
