package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

func boolPtr(v bool) *bool { return &v }

func TestCreateTask_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, testClock())
	owner := createUser(t, db, "tasks@example.com")
	other := createUser(t, db, "other@example.com")
	subject := createSubject(t, db, owner.ID, "Maths", fixedNow)

	_, err := svc.CreateTask(ctx, owner.ID, CreateTaskInput{SubjectID: subject.ID, Title: "Algebra", Date: fixedNow, Duration: 0.2})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = svc.CreateTask(ctx, owner.ID, CreateTaskInput{SubjectID: subject.ID, Title: " ", Date: fixedNow, Duration: 1})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	_, err = svc.CreateTask(ctx, other.ID, CreateTaskInput{SubjectID: subject.ID, Title: "Algebra", Date: fixedNow, Duration: 1})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	task, err := svc.CreateTask(ctx, owner.ID, CreateTaskInput{SubjectID: subject.ID, Title: "Algebra", Date: fixedNow, Duration: 0.25})
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedAt)
	require.NotNil(t, task.Subject)
	assert.Equal(t, "Maths", task.Subject.Name)
}

func TestUpdateTask_CompletedAtTransitions(t *testing.T) {
	db := newTestDB(t)
	now := fixedNow
	clock := Clock{Now: func() time.Time { return now }, Location: time.UTC}
	svc := NewTaskService(db, clock)
	user := createUser(t, db, "toggle@example.com")
	subject := createSubject(t, db, user.ID, "Chemistry", fixedNow)
	task := createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Bonds", Date: fixedNow, Duration: 1})

	done, err := svc.UpdateTask(ctx, user.ID, task.ID, UpdateTaskInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, done.CompletedAt)
	assert.True(t, done.CompletedAt.Equal(fixedNow))

	// Re-marking a completed task keeps the original timestamp
	now = fixedNow.Add(time.Hour)
	again, err := svc.UpdateTask(ctx, user.ID, task.ID, UpdateTaskInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, again.CompletedAt)
	assert.True(t, again.CompletedAt.Equal(fixedNow))

	reopened, err := svc.UpdateTask(ctx, user.ID, task.ID, UpdateTaskInput{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, reopened.Completed)
	assert.Nil(t, reopened.CompletedAt)
}

func TestUpdateTask_NotOwned(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, testClock())
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	subject := createSubject(t, db, owner.ID, "Art", fixedNow)
	task := createTask(t, db, model.Task{UserID: owner.ID, SubjectID: subject.ID, Title: "Sketch", Date: fixedNow, Duration: 1})

	_, err := svc.UpdateTask(ctx, other.ID, task.ID, UpdateTaskInput{Completed: boolPtr(true)})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = svc.DeleteTask(ctx, other.ID, task.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, svc.DeleteTask(ctx, owner.ID, task.ID))
}

func TestToday_StatsAndWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, testClock())
	user := createUser(t, db, "today@example.com")
	subject := createSubject(t, db, user.ID, "English", fixedNow)

	midnight := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Essay", Date: midnight, Duration: 1.5, Completed: true})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Poems", Date: midnight.Add(20 * time.Hour), Duration: 1.25})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Tomorrow", Date: midnight.AddDate(0, 0, 1), Duration: 2})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Yesterday", Date: midnight.Add(-time.Minute), Duration: 2})

	view, err := svc.Today(ctx, user.ID)
	require.NoError(t, err)

	require.Len(t, view.Tasks, 2)
	assert.Equal(t, "Essay", view.Tasks[0].Title)
	assert.Equal(t, TodayStats{
		TotalTasks:           2,
		CompletedTasks:       1,
		TotalHours:           2.8,
		CompletedHours:       1.5,
		RemainingHours:       1.3,
		CompletionPercentage: 50,
	}, view.Stats)
}

func TestSummariseTasks_Empty(t *testing.T) {
	assert.Equal(t, TodayStats{}, SummariseTasks(nil))
}

func TestListTasks_Ordering(t *testing.T) {
	db := newTestDB(t)
	svc := NewTaskService(db, testClock())
	user := createUser(t, db, "order@example.com")
	subject := createSubject(t, db, user.ID, "Music", fixedNow)

	older := createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Scales", Date: fixedNow.AddDate(0, 0, -1), Duration: 1})
	newer := createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Chords", Date: fixedNow, Duration: 1})

	tasks, err := svc.ListTasks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, newer.ID, tasks[0].ID)
	assert.Equal(t, older.ID, tasks[1].ID)
	require.NotNil(t, tasks[0].Subject)
}
