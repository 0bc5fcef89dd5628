package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/database"
	"github.com/sahilchouksey/study-planner/model"
)

// fixedNow is a Wednesday morning, far from any DST change
var fixedNow = time.Date(2025, time.March, 12, 9, 30, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	return store.GetDB()
}

// newFileTestDB opens a SQLite file so concurrent callers share real
// transactions instead of one in-memory connection
func newFileTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.StartSQLite(filepath.Join(t.TempDir(), "planner.db"), nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	return store.GetDB()
}

// runConcurrently calls fn from n goroutines released together and returns
// their errors
func runConcurrently(n int, fn func() error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func testClock() Clock {
	return FixedClock(fixedNow, time.UTC)
}

func createUser(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	user := model.User{Name: "Student", Email: email, PasswordHash: "x", AcademicLevel: model.DefaultAcademicLevel}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createSubject(t *testing.T, db *gorm.DB, userID uint, name string, examDate time.Time) model.Subject {
	t.Helper()
	subject := model.Subject{UserID: userID, Name: name, DailyTargetHours: 2, ExamDate: examDate.UTC(), Color: model.DefaultSubjectColor}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func createTask(t *testing.T, db *gorm.DB, task model.Task) model.Task {
	t.Helper()
	task.Date = task.Date.UTC()
	require.NoError(t, db.Create(&task).Error)
	return task
}

func intPtr(v int) *int { return &v }

var ctx = context.Background()
