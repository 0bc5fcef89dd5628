package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/auth"
)

// JobFunc runs one job and returns a short summary for the job log
type JobFunc func(ctx context.Context) (string, error)

type job struct {
	name     string
	schedule string
	timeout  time.Duration
	run      JobFunc
}

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron          *cron.Cron
	db            *gorm.DB
	clock         services.Clock
	notifications *services.NotificationService
	sessions      auth.SessionStore
	jobs          []job
}

// NewCronManager creates a new cron manager. Schedules are evaluated in the
// clock's time zone so "daily at 7" means the user's morning.
func NewCronManager(db *gorm.DB, clock services.Clock, notifications *services.NotificationService, sessions auth.SessionStore) *CronManager {
	m := &CronManager{
		cron:          cron.New(cron.WithSeconds(), cron.WithLocation(clock.Location)),
		db:            db,
		clock:         clock,
		notifications: notifications,
		sessions:      sessions,
	}
	m.jobs = m.defaultJobs()
	return m
}

// Start registers every job and starts the scheduler
func (m *CronManager) Start() error {
	log.Info("Starting cron jobs...")

	for _, j := range m.jobs {
		j := j
		if _, err := m.cron.AddFunc(j.schedule, func() { m.execute(j) }); err != nil {
			return fmt.Errorf("failed to register cron job %s: %w", j.name, err)
		}
	}

	m.cron.Start()
	log.Infof("Cron jobs started successfully (%d jobs)", len(m.jobs))
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (m *CronManager) Stop() {
	log.Info("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Info("Cron jobs stopped")
}

// RunJob executes a registered job immediately
func (m *CronManager) RunJob(name string) error {
	for _, j := range m.jobs {
		if j.name == name {
			return m.execute(j)
		}
	}
	return fmt.Errorf("unknown cron job %q", name)
}

func (m *CronManager) execute(j job) error {
	entry := m.logJobStart(j.name)

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	message, err := j.run(ctx)
	if err != nil {
		m.logJobError(entry, err)
		return err
	}
	m.logJobComplete(entry, message)
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) *model.CronJobLog {
	now := m.clock.Now().UTC()
	log.Infof("[CRON] Starting job: %s at %s", jobName, now.Format(time.RFC3339))

	entry := &model.CronJobLog{
		JobName:   jobName,
		Status:    model.CronStatusStarted,
		StartedAt: now,
	}
	if err := m.db.Create(entry).Error; err != nil {
		log.Warnf("[CRON] Failed to record start of %s: %v", jobName, err)
	}
	return entry
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(entry *model.CronJobLog, message string) {
	log.Infof("[CRON] Completed job: %s - %s", entry.JobName, message)
	m.finish(entry, map[string]interface{}{
		"status":  model.CronStatusCompleted,
		"message": message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(entry *model.CronJobLog, err error) {
	log.Errorf("[CRON] Error in job: %s - %v", entry.JobName, err)
	m.finish(entry, map[string]interface{}{
		"status":    model.CronStatusFailed,
		"error_msg": err.Error(),
	})
}

func (m *CronManager) finish(entry *model.CronJobLog, updates map[string]interface{}) {
	if entry.ID == 0 {
		return
	}
	now := m.clock.Now().UTC()
	updates["completed_at"] = now
	updates["duration"] = int(now.Sub(entry.StartedAt).Milliseconds())

	if err := m.db.Model(&model.CronJobLog{}).Where("id = ?", entry.ID).Updates(updates).Error; err != nil {
		log.Warnf("[CRON] Failed to record end of %s: %v", entry.JobName, err)
	}
}
