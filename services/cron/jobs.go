package cron

import (
	"context"
	"fmt"
	"time"
)

// Job names, also used as CronJobLog.JobName
const (
	JobRevisionReminders    = "revision_reminders"
	JobExamReminders        = "exam_reminders"
	JobCleanupSessions      = "cleanup_sessions"
	JobCleanupNotifications = "cleanup_notifications"
)

// NotificationRetention is how long read notifications are kept
const NotificationRetention = 30 * 24 * time.Hour

func (m *CronManager) defaultJobs() []job {
	return []job{
		// Daily at 7 AM: remind users about revisions due today
		{JobRevisionReminders, "0 0 7 * * *", 5 * time.Minute, m.SendRevisionReminders},
		// Daily at 7:05 AM: warn about exams in the coming week
		{JobExamReminders, "0 5 7 * * *", 5 * time.Minute, m.SendExamReminders},
		// Every hour: purge expired sessions
		{JobCleanupSessions, "0 0 * * * *", time.Minute, m.CleanupExpiredSessions},
		// Daily at 2 AM: drop old read notifications
		{JobCleanupNotifications, "0 0 2 * * *", 5 * time.Minute, m.CleanupOldNotifications},
	}
}

// SendRevisionReminders creates the daily "revisions due" notifications
func (m *CronManager) SendRevisionReminders(ctx context.Context) (string, error) {
	created, err := m.notifications.CreateRevisionReminders(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created %d revision reminders", created), nil
}

// SendExamReminders creates reminders for exams within the next week
func (m *CronManager) SendExamReminders(ctx context.Context) (string, error) {
	created, err := m.notifications.CreateExamReminders(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created %d exam reminders", created), nil
}

// CleanupExpiredSessions removes sessions past their expiry
func (m *CronManager) CleanupExpiredSessions(ctx context.Context) (string, error) {
	if m.sessions == nil {
		return "No session store configured", nil
	}
	removed, err := m.sessions.DeleteExpired(ctx, m.clock.Now())
	if err != nil {
		return "", fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return fmt.Sprintf("Removed %d expired sessions", removed), nil
}

// CleanupOldNotifications removes read notifications past retention
func (m *CronManager) CleanupOldNotifications(ctx context.Context) (string, error) {
	removed, err := m.notifications.CleanupOldNotifications(ctx, NotificationRetention)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Removed %d old notifications", removed), nil
}
