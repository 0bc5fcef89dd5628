package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

// TestService creates and grades multiple-choice tests
type TestService struct {
	db    *gorm.DB
	clock Clock
}

// NewTestService creates a new test service
func NewTestService(db *gorm.DB, clock Clock) *TestService {
	return &TestService{db: db, clock: clock}
}

// QuestionInput is one authored question
type QuestionInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// CreateTestInput holds the fields for a new test
type CreateTestInput struct {
	SubjectID uint
	Title     string
	Questions []QuestionInput
}

// SubmissionResult is returned after grading
type SubmissionResult struct {
	Test           model.TestResponse `json:"test"`
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions"`
	Percentage     int                `json:"percentage"`
}

// CreateTest validates and stores a new test
func (s *TestService) CreateTest(ctx context.Context, userID uint, in CreateTestInput) (*model.Test, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperror.InvalidInput("title is required")
	}
	if len(in.Questions) == 0 {
		return nil, apperror.InvalidInput("at least one question is required")
	}

	questions := make([]model.TestQuestion, 0, len(in.Questions))
	for i, q := range in.Questions {
		question, err := validateQuestion(i, q)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}

	subject, err := findOwnedSubject(ctx, s.db, userID, in.SubjectID)
	if err != nil {
		return nil, err
	}

	test := model.Test{
		UserID:         userID,
		SubjectID:      subject.ID,
		Title:          title,
		Questions:      datatypes.NewJSONSlice(questions),
		TotalQuestions: len(questions),
	}
	if err := s.db.WithContext(ctx).Create(&test).Error; err != nil {
		return nil, fmt.Errorf("failed to create test: %w", err)
	}
	test.Subject = subject

	return &test, nil
}

func validateQuestion(i int, q QuestionInput) (model.TestQuestion, error) {
	text := strings.TrimSpace(q.Question)
	if text == "" {
		return model.TestQuestion{}, apperror.InvalidInput("question %d: text is required", i+1)
	}
	if len(q.Options) != model.OptionsPerQuestion {
		return model.TestQuestion{}, apperror.InvalidInput("question %d: exactly %d options are required", i+1, model.OptionsPerQuestion)
	}
	options := make([]string, len(q.Options))
	for j, opt := range q.Options {
		options[j] = strings.TrimSpace(opt)
		if options[j] == "" {
			return model.TestQuestion{}, apperror.InvalidInput("question %d: option %d is empty", i+1, j+1)
		}
	}
	if !validAnswer(q.CorrectAnswer) {
		return model.TestQuestion{}, apperror.InvalidInput("question %d: correctAnswer must be between 0 and %d", i+1, model.OptionsPerQuestion-1)
	}

	return model.TestQuestion{Question: text, Options: options, CorrectAnswer: q.CorrectAnswer}, nil
}

func validAnswer(idx int) bool {
	return idx >= 0 && idx < model.OptionsPerQuestion
}

// GradeAnswers records answers on a copy of questions and counts matches.
// Missing answers stay unanswered, extra answers are ignored, and an
// unanswered question never scores.
func GradeAnswers(questions []model.TestQuestion, answers []*int) ([]model.TestQuestion, int) {
	graded := make([]model.TestQuestion, len(questions))
	score := 0
	for i, q := range questions {
		q.UserAnswer = nil
		if i < len(answers) && answers[i] != nil {
			answer := *answers[i]
			q.UserAnswer = &answer
			if answer == q.CorrectAnswer {
				score++
			}
		}
		graded[i] = q
	}
	return graded, score
}

// SubmitTest grades a test once. The write is conditional on the test
// still being open, so concurrent submissions cannot both succeed.
func (s *TestService) SubmitTest(ctx context.Context, userID, testID uint, answers []*int) (*SubmissionResult, error) {
	test, err := s.findOwnedTest(ctx, userID, testID)
	if err != nil {
		return nil, err
	}
	if test.Completed {
		return nil, apperror.Conflict("Test already submitted")
	}
	for i, a := range answers {
		if a != nil && !validAnswer(*a) {
			return nil, apperror.InvalidInput("answer %d must be between 0 and %d", i+1, model.OptionsPerQuestion-1)
		}
	}

	graded, score := GradeAnswers(test.Questions, answers)
	now := s.clock.Now().UTC()

	update := s.db.WithContext(ctx).Model(&model.Test{}).
		Where("id = ? AND user_id = ? AND completed = ?", test.ID, userID, false).
		Updates(map[string]interface{}{
			"questions":    datatypes.NewJSONSlice(graded),
			"score":        score,
			"completed":    true,
			"completed_at": now,
		})
	if update.Error != nil {
		return nil, fmt.Errorf("failed to submit test: %w", update.Error)
	}
	if update.RowsAffected == 0 {
		return nil, apperror.Conflict("Test already submitted")
	}

	test.Questions = datatypes.NewJSONSlice(graded)
	test.Score = score
	test.Completed = true
	test.CompletedAt = &now

	return &SubmissionResult{
		Test:           test.ToResponse(),
		Score:          score,
		TotalQuestions: test.TotalQuestions,
		Percentage:     percentage(score, test.TotalQuestions),
	}, nil
}

// GetTest returns one test owned by the user
func (s *TestService) GetTest(ctx context.Context, userID, testID uint) (*model.Test, error) {
	return s.findOwnedTest(ctx, userID, testID)
}

// ListHistory returns completed tests, most recently completed first
func (s *TestService) ListHistory(ctx context.Context, userID uint) ([]model.Test, error) {
	var tests []model.Test
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC, id DESC").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list test history: %w", err)
	}
	return tests, nil
}

// ListBySubject returns every test of one subject, newest first
func (s *TestService) ListBySubject(ctx context.Context, userID, subjectID uint) ([]model.Test, error) {
	var tests []model.Test
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("created_at DESC, id DESC").
		Find(&tests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return tests, nil
}

// DeleteTest removes a test
func (s *TestService) DeleteTest(ctx context.Context, userID, testID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", testID, userID).
		Delete(&model.Test{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete test: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Test not found")
	}
	return nil
}

func (s *TestService) findOwnedTest(ctx context.Context, userID, testID uint) (*model.Test, error) {
	var test model.Test
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("id = ? AND user_id = ?", testID, userID).
		First(&test).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Test not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load test: %w", err)
	}
	return &test, nil
}

// ToResponses converts tests to their client view
func ToResponses(tests []model.Test) []model.TestResponse {
	out := make([]model.TestResponse, 0, len(tests))
	for i := range tests {
		out = append(out, tests[i].ToResponse())
	}
	return out
}
