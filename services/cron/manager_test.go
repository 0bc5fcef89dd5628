package cron

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/services"
	"github.com/sahilchouksey/study-planner/utils/auth"
)

var now = time.Date(2025, time.March, 12, 7, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T) (*CronManager, *gorm.DB) {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	db := store.GetDB()
	clock := services.FixedClock(now, time.UTC)
	m := NewCronManager(db, clock, services.NewNotificationService(db, clock), auth.NewGORMSessionStore(db))
	return m, db
}

func TestRunJob_RevisionRemindersLogged(t *testing.T) {
	m, db := newTestManager(t)

	user := model.User{Name: "Cron", Email: "cron@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	subject := model.Subject{UserID: user.ID, Name: "Maths", DailyTargetHours: 2, ExamDate: now.AddDate(0, 1, 0)}
	require.NoError(t, db.Create(&subject).Error)
	require.NoError(t, db.Create(&model.Revision{
		UserID: user.ID, SubjectID: subject.ID, Topic: "Limits", StudyDate: now.AddDate(0, 0, -3), NextRevisionDate: now,
	}).Error)

	require.NoError(t, m.RunJob(JobRevisionReminders))

	var entry model.CronJobLog
	require.NoError(t, db.Where("job_name = ?", JobRevisionReminders).First(&entry).Error)
	assert.Equal(t, model.CronStatusCompleted, entry.Status)
	assert.Equal(t, "Created 1 revision reminders", entry.Message)
	require.NotNil(t, entry.CompletedAt)

	var count int64
	db.Model(&model.UserNotification{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRunJob_CleanupSessions(t *testing.T) {
	m, db := newTestManager(t)

	user := model.User{Name: "Cron", Email: "sessions@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&user).Error)
	sessions := auth.NewGORMSessionStore(db)
	require.NoError(t, sessions.Create(context.Background(), &model.Session{ID: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, sessions.Create(context.Background(), &model.Session{ID: "live", UserID: user.ID, ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, m.RunJob(JobCleanupSessions))

	var remaining []model.Session
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "live", remaining[0].ID)
}

func TestRunJob_Unknown(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Error(t, m.RunJob("nope"))
}

func TestStartStop(t *testing.T) {
	m, _ := newTestManager(t)
	require.NoError(t, m.Start())
	assert.Len(t, m.cron.Entries(), len(m.jobs))
	m.Stop()
}
