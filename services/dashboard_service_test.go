package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/sahilchouksey/study-planner/model"
)

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0, AverageScore(nil))
	assert.Equal(t, 80, AverageScore([]float64{80, 60, 100}))
	assert.Equal(t, 67, AverageScore([]float64{100, 100.0 / 3 * 1, 200.0 / 3}))
}

func TestGroupHoursBySubject(t *testing.T) {
	physics := &model.Subject{ID: 1, Name: "Physics", Color: "#ff0000"}
	maths := &model.Subject{ID: 2, Name: "Maths", Color: "#00ff00"}

	got := GroupHoursBySubject([]model.Task{
		{SubjectID: 2, Subject: maths, Duration: 1.25},
		{SubjectID: 1, Subject: physics, Duration: 0.5},
		{SubjectID: 2, Subject: maths, Duration: 1},
		{SubjectID: 9, Duration: 2},
	})

	require.Len(t, got, 3)
	assert.Equal(t, SubjectHours{SubjectID: 2, Name: "Maths", Color: "#00ff00", Hours: 2.3}, got[0])
	assert.Equal(t, "Physics", got[1].Name)
	assert.Equal(t, "", got[2].Name, "orphaned tasks still count")
}

func TestDashboard_EmptyUser(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "empty@example.com")

	stats, err := NewDashboardService(db, testClock()).GetStats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 0.0, stats.TotalStudyHours)
	assert.Equal(t, 0, stats.TodayCompletionPercentage)
	assert.Equal(t, TaskCounts{}, stats.TodayTasks)
	assert.Equal(t, 0, stats.AverageTestScore)
	assert.Equal(t, int64(0), stats.PendingRevisions)
	assert.Empty(t, stats.SubjectStats)
}

func TestDashboard_GetStats(t *testing.T) {
	db := newTestDB(t)
	clock := testClock()
	user := createUser(t, db, "dash@example.com")
	other := createUser(t, db, "noise@example.com")
	physics := createSubject(t, db, user.ID, "Physics", fixedNow.AddDate(0, 0, 20))
	maths := createSubject(t, db, user.ID, "Maths", fixedNow.AddDate(0, 0, 40))

	today := clock.StartOfDay(fixedNow)
	completedAt := fixedNow.Add(-time.Hour).UTC()
	oldCompletion := fixedNow.AddDate(0, 0, -45).UTC()

	// today: two of two completed
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: physics.ID, Title: "Optics", Date: today.Add(8 * time.Hour), Duration: 1.5, Completed: true, CompletedAt: &completedAt})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: maths.ID, Title: "Algebra", Date: today, Duration: 0.75, Completed: true, CompletedAt: &completedAt})
	// completed long ago: counts toward total hours only
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: maths.ID, Title: "Old", Date: today.AddDate(0, 0, -45), Duration: 2, Completed: true, CompletedAt: &oldCompletion})
	// upcoming: tomorrow through day 6, plus one outside the window
	for i := 1; i <= 7; i++ {
		createTask(t, db, model.Task{UserID: user.ID, SubjectID: physics.ID, Title: "Upcoming", Date: today.AddDate(0, 0, i), Duration: 1})
	}
	// another user's data is invisible
	createTask(t, db, model.Task{UserID: other.ID, SubjectID: physics.ID, Title: "Noise", Date: today, Duration: 5})

	for i, score := range []int{4, 3, 5} { // 80, 60, 100 percent
		at := fixedNow.Add(-time.Duration(i+1) * time.Hour).UTC()
		test := model.Test{UserID: user.ID, SubjectID: physics.ID, Title: "Quiz",
			Questions: datatypes.NewJSONSlice([]model.TestQuestion{}), Score: score, TotalQuestions: 5, Completed: true, CompletedAt: &at}
		require.NoError(t, db.Create(&test).Error)
	}

	for i := 0; i < 7; i++ {
		rev := model.Revision{UserID: user.ID, SubjectID: maths.ID, Topic: "Limits",
			StudyDate: fixedNow.AddDate(0, 0, -10).UTC(), NextRevisionDate: fixedNow.AddDate(0, 0, -i).UTC()}
		require.NoError(t, db.Create(&rev).Error)
	}
	future := model.Revision{UserID: user.ID, SubjectID: maths.ID, Topic: "Series",
		StudyDate: fixedNow.UTC(), NextRevisionDate: fixedNow.Add(time.Hour).UTC()}
	require.NoError(t, db.Create(&future).Error)

	svc := NewDashboardService(db, clock)
	stats, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 4.3, stats.TotalStudyHours)
	assert.Equal(t, TaskCounts{Total: 2, Completed: 2}, stats.TodayTasks)
	assert.Equal(t, 100, stats.TodayCompletionPercentage)

	require.Len(t, stats.UpcomingTasks, 5)
	assert.True(t, stats.UpcomingTasks[0].Date.Equal(today.AddDate(0, 0, 1)))
	require.NotNil(t, stats.UpcomingTasks[0].Subject)
	for _, task := range stats.UpcomingTasks {
		assert.True(t, task.Date.Before(today.AddDate(0, 0, 7)))
	}

	require.Len(t, stats.TestPerformance, 3)
	assert.Equal(t, 80, stats.TestPerformance[0].Percentage, "most recent first")
	assert.Equal(t, "Physics", stats.TestPerformance[0].Subject)
	assert.Equal(t, 80, stats.AverageTestScore)

	assert.Equal(t, int64(7), stats.PendingRevisions)
	require.Len(t, stats.PendingRevisionsList, 5)
	assert.True(t, stats.PendingRevisionsList[0].NextRevisionDate.Equal(fixedNow.AddDate(0, 0, -6)))

	require.Len(t, stats.SubjectStats, 2)
	assert.Equal(t, SubjectHours{SubjectID: physics.ID, Name: "Physics", Color: model.DefaultSubjectColor, Hours: 1.5}, stats.SubjectStats[0])
	assert.Equal(t, 0.8, stats.SubjectStats[1].Hours)

	again, err := svc.GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, stats, again)
}

func TestDashboard_PartialDay(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "half@example.com")
	subject := createSubject(t, db, user.ID, "Art", fixedNow)
	today := testClock().StartOfDay(fixedNow)

	done := fixedNow.UTC()
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Sketch", Date: today, Duration: 1, Completed: true, CompletedAt: &done})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Paint", Date: today.Add(23 * time.Hour), Duration: 1})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Tomorrow", Date: today.AddDate(0, 0, 1), Duration: 1})

	stats, err := NewDashboardService(db, testClock()).GetStats(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stats.TodayCompletionPercentage)
}
