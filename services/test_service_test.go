package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

func sampleQuestions() []QuestionInput {
	opts := []string{"A", "B", "C", "D"}
	return []QuestionInput{
		{Question: "2+2?", Options: opts, CorrectAnswer: 0},
		{Question: "Capital of France?", Options: opts, CorrectAnswer: 1},
		{Question: "H2O is?", Options: opts, CorrectAnswer: 2},
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []model.TestQuestion{{CorrectAnswer: 0}, {CorrectAnswer: 1}, {CorrectAnswer: 2}}

	graded, score := GradeAnswers(questions, []*int{intPtr(0), nil, intPtr(2)})
	assert.Equal(t, 2, score)
	assert.Nil(t, graded[1].UserAnswer)
	assert.Nil(t, questions[0].UserAnswer, "input is not mutated")

	_, score = GradeAnswers(questions, []*int{intPtr(0)})
	assert.Equal(t, 1, score, "missing answers are unanswered")

	_, score = GradeAnswers(questions, []*int{intPtr(0), intPtr(1), intPtr(2), intPtr(3)})
	assert.Equal(t, 3, score, "extra answers are ignored")
}

func TestCreateTest_StripsAnswerKey(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "quiz@example.com")
	subject := createSubject(t, db, user.ID, "General", fixedNow)

	test, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: subject.ID, Title: "Warmup", Questions: sampleQuestions()})
	require.NoError(t, err)
	assert.Equal(t, 3, test.TotalQuestions)
	assert.Equal(t, 0, test.Score)

	resp := test.ToResponse()
	require.Len(t, resp.Questions, 3)
	for _, q := range resp.Questions {
		assert.Nil(t, q.CorrectAnswer)
		assert.Nil(t, q.UserAnswer)
		assert.Len(t, q.Options, 4)
	}
}

func TestCreateTest_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "bad@example.com")
	subject := createSubject(t, db, user.ID, "General", fixedNow)

	bad := []CreateTestInput{
		{SubjectID: subject.ID, Title: "", Questions: sampleQuestions()},
		{SubjectID: subject.ID, Title: "No questions"},
		{SubjectID: subject.ID, Title: "Blank", Questions: []QuestionInput{{Question: " ", Options: []string{"a", "b", "c", "d"}}}},
		{SubjectID: subject.ID, Title: "Three options", Questions: []QuestionInput{{Question: "q", Options: []string{"a", "b", "c"}}}},
		{SubjectID: subject.ID, Title: "Empty option", Questions: []QuestionInput{{Question: "q", Options: []string{"a", "", "c", "d"}}}},
		{SubjectID: subject.ID, Title: "Answer range", Questions: []QuestionInput{{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 4}}},
	}
	for _, in := range bad {
		_, err := svc.CreateTest(ctx, user.ID, in)
		assert.True(t, apperror.Is(err, apperror.KindInvalidInput), "title %q", in.Title)
	}

	_, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: 404, Title: "x", Questions: sampleQuestions()})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubmitTest_ScoresOnceThenConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "submit@example.com")
	subject := createSubject(t, db, user.ID, "General", fixedNow)

	test, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: subject.ID, Title: "Quiz", Questions: sampleQuestions()})
	require.NoError(t, err)

	answers := []*int{intPtr(0), nil, intPtr(2)}
	result, err := svc.SubmitTest(ctx, user.ID, test.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, 67, result.Percentage)
	assert.True(t, result.Test.Completed)
	require.NotNil(t, result.Test.Questions[0].CorrectAnswer, "answer key is revealed after submission")
	assert.Nil(t, result.Test.Questions[1].UserAnswer)

	stored, err := svc.GetTest(ctx, user.ID, test.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Equal(t, 2, stored.Score)
	require.NotNil(t, stored.Questions[2].UserAnswer)
	assert.Equal(t, 2, *stored.Questions[2].UserAnswer)

	_, err = svc.SubmitTest(ctx, user.ID, test.ID, answers)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestSubmitTest_Errors(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "err@example.com")
	other := createUser(t, db, "other@example.com")
	subject := createSubject(t, db, user.ID, "General", fixedNow)

	test, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: subject.ID, Title: "Quiz", Questions: sampleQuestions()})
	require.NoError(t, err)

	_, err = svc.SubmitTest(ctx, other.ID, test.ID, nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.SubmitTest(ctx, user.ID, test.ID, []*int{intPtr(7)})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	// the rejected submission left the test open
	_, err = svc.SubmitTest(ctx, user.ID, test.ID, []*int{})
	require.NoError(t, err)
}

func TestTestListings(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "list@example.com")
	physics := createSubject(t, db, user.ID, "Physics", fixedNow)
	maths := createSubject(t, db, user.ID, "Maths", fixedNow)

	t1, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: physics.ID, Title: "P1", Questions: sampleQuestions()})
	require.NoError(t, err)
	_, err = svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: physics.ID, Title: "P2", Questions: sampleQuestions()})
	require.NoError(t, err)
	_, err = svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: maths.ID, Title: "M1", Questions: sampleQuestions()})
	require.NoError(t, err)

	_, err = svc.SubmitTest(ctx, user.ID, t1.ID, []*int{intPtr(0)})
	require.NoError(t, err)

	history, err := svc.ListHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "P1", history[0].Title)

	bySubject, err := svc.ListBySubject(ctx, user.ID, physics.ID)
	require.NoError(t, err)
	require.Len(t, bySubject, 2)
	assert.Equal(t, "P2", bySubject[0].Title)

	require.NoError(t, svc.DeleteTest(ctx, user.ID, t1.ID))
	_, err = svc.GetTest(ctx, user.ID, t1.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestSubmitTest_ConcurrentSubmissionsGradeOnce(t *testing.T) {
	db := newFileTestDB(t)
	svc := NewTestService(db, testClock())
	user := createUser(t, db, "race-quiz@example.com")
	subject := createSubject(t, db, user.ID, "General", fixedNow)

	test, err := svc.CreateTest(ctx, user.ID, CreateTestInput{SubjectID: subject.ID, Title: "Race", Questions: sampleQuestions()})
	require.NoError(t, err)

	answers := []*int{intPtr(0), intPtr(1), intPtr(2)}
	errs := runConcurrently(2, func() error {
		_, err := svc.SubmitTest(ctx, user.ID, test.ID, answers)
		return err
	})

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperror.Is(err, apperror.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)

	stored, err := svc.GetTest(ctx, user.ID, test.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.Equal(t, 3, stored.Score)
}
