package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

func strPtr(v string) *string        { return &v }
func floatPtr(v float64) *float64    { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestCreateSubject_DefaultsColor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	user := createUser(t, db, "subj@example.com")

	subject, err := svc.CreateSubject(ctx, user.ID, SubjectInput{
		Name:             strPtr("  Biology "),
		DailyTargetHours: floatPtr(2.5),
		ExamDate:         timePtr(fixedNow.AddDate(0, 2, 0)),
	})
	require.NoError(t, err)

	assert.Equal(t, "Biology", subject.Name)
	assert.Equal(t, model.DefaultSubjectColor, subject.Color)
	assert.Equal(t, user.ID, subject.UserID)
}

func TestCreateSubject_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	user := createUser(t, db, "subj@example.com")
	exam := timePtr(fixedNow)

	cases := []struct {
		name string
		in   SubjectInput
	}{
		{"missing name", SubjectInput{DailyTargetHours: floatPtr(2), ExamDate: exam}},
		{"too few hours", SubjectInput{Name: strPtr("A"), DailyTargetHours: floatPtr(0.25), ExamDate: exam}},
		{"too many hours", SubjectInput{Name: strPtr("A"), DailyTargetHours: floatPtr(12.5), ExamDate: exam}},
		{"missing exam", SubjectInput{Name: strPtr("A"), DailyTargetHours: floatPtr(2)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateSubject(ctx, user.ID, tc.in)
			assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "got %v", err)
		})
	}
}

func TestUpdateSubject_PartialAndOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	owner := createUser(t, db, "owner@example.com")
	other := createUser(t, db, "other@example.com")
	subject := createSubject(t, db, owner.ID, "History", fixedNow)

	updated, err := svc.UpdateSubject(ctx, owner.ID, subject.ID, SubjectInput{Color: strPtr("#ff0000")})
	require.NoError(t, err)
	assert.Equal(t, "History", updated.Name)
	assert.Equal(t, "#ff0000", updated.Color)

	_, err = svc.UpdateSubject(ctx, other.ID, subject.ID, SubjectInput{Name: strPtr("Stolen")})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListSubjects_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	user := createUser(t, db, "list@example.com")
	first := createSubject(t, db, user.ID, "First", fixedNow)
	second := createSubject(t, db, user.ID, "Second", fixedNow)

	subjects, err := svc.ListSubjects(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, second.ID, subjects[0].ID)
	assert.Equal(t, first.ID, subjects[1].ID)
}

func TestDeleteSubject_CascadesAndDetachesDoubts(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	user := createUser(t, db, "cascade@example.com")
	subject := createSubject(t, db, user.ID, "Geography", fixedNow)
	keep := createSubject(t, db, user.ID, "Keep", fixedNow)

	createTask(t, db, model.Task{UserID: user.ID, SubjectID: subject.ID, Title: "Maps", Date: fixedNow, Duration: 1})
	createTask(t, db, model.Task{UserID: user.ID, SubjectID: keep.ID, Title: "Other", Date: fixedNow, Duration: 1})
	require.NoError(t, db.Create(&model.Revision{UserID: user.ID, SubjectID: subject.ID, Topic: "Rivers", StudyDate: fixedNow, NextRevisionDate: fixedNow}).Error)
	require.NoError(t, db.Create(&model.Test{UserID: user.ID, SubjectID: subject.ID, Title: "Quiz"}).Error)
	doubt := model.Doubt{UserID: user.ID, SubjectID: &subject.ID, Question: "Why?", AIResponse: "Because."}
	require.NoError(t, db.Create(&doubt).Error)

	require.NoError(t, svc.DeleteSubject(ctx, user.ID, subject.ID))

	var count int64
	db.Model(&model.Task{}).Where("subject_id = ?", subject.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Revision{}).Where("subject_id = ?", subject.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Test{}).Where("subject_id = ?", subject.ID).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.Task{}).Where("subject_id = ?", keep.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded model.Doubt
	require.NoError(t, db.First(&reloaded, doubt.ID).Error)
	assert.Nil(t, reloaded.SubjectID)

	err := svc.DeleteSubject(ctx, user.ID, subject.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSuggestions_UsesClock(t *testing.T) {
	db := newTestDB(t)
	svc := NewSubjectService(db, testClock())
	user := createUser(t, db, "advice@example.com")
	subject := createSubject(t, db, user.ID, "Physics", fixedNow.AddDate(0, 0, 5))

	suggestions, err := svc.Suggestions(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, subject.ID, suggestions[0].SubjectID)
	assert.Equal(t, 5, suggestions[0].DaysUntilExam)
	assert.Equal(t, 3.0, suggestions[0].RecommendedHours)
	assert.Equal(t, TierUrgent, suggestions[0].Tier)
}
