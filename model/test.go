package model

import (
	"time"

	"gorm.io/datatypes"
)

// OptionsPerQuestion is the fixed number of choices on a test question
const OptionsPerQuestion = 4

// TestQuestion is a single multiple-choice question, stored inside Test.Questions
type TestQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	UserAnswer    *int     `json:"userAnswer"`
}

// Test is a self-authored multiple-choice test. A completed test is immutable.
type Test struct {
	ID             uint                              `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time                         `json:"createdAt"`
	UpdatedAt      time.Time                         `json:"updatedAt"`
	UserID         uint                              `gorm:"index;not null" json:"userId"`
	SubjectID      uint                              `gorm:"index;not null" json:"subjectId"`
	Title          string                            `gorm:"type:varchar(255);not null" json:"title"`
	Questions      datatypes.JSONSlice[TestQuestion] `json:"questions"`
	Score          int                               `gorm:"default:0" json:"score"`
	TotalQuestions int                               `gorm:"not null" json:"totalQuestions"`
	Completed      bool                              `gorm:"default:false;index" json:"completed"`
	CompletedAt    *time.Time                        `json:"completedAt"`

	// Relationships
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

// QuestionResponse is the client view of a question; answer fields are omitted
// while the test is still open.
type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer,omitempty"`
	UserAnswer    *int     `json:"userAnswer,omitempty"`
}

// TestResponse represents the API response format for a test
type TestResponse struct {
	ID             uint               `json:"id"`
	UserID         uint               `json:"userId"`
	SubjectID      uint               `json:"subjectId"`
	Subject        *Subject           `json:"subject,omitempty"`
	Title          string             `json:"title"`
	Questions      []QuestionResponse `json:"questions"`
	Score          int                `json:"score"`
	TotalQuestions int                `json:"totalQuestions"`
	Completed      bool               `json:"completed"`
	CompletedAt    *time.Time         `json:"completedAt"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// ToResponse converts a Test to TestResponse. The answer key is only
// included once the test has been submitted.
func (t *Test) ToResponse() TestResponse {
	questions := make([]QuestionResponse, 0, len(t.Questions))
	for _, q := range t.Questions {
		qr := QuestionResponse{Question: q.Question, Options: q.Options}
		if t.Completed {
			correct := q.CorrectAnswer
			qr.CorrectAnswer = &correct
			qr.UserAnswer = q.UserAnswer
		}
		questions = append(questions, qr)
	}

	return TestResponse{
		ID:             t.ID,
		UserID:         t.UserID,
		SubjectID:      t.SubjectID,
		Subject:        t.Subject,
		Title:          t.Title,
		Questions:      questions,
		Score:          t.Score,
		TotalQuestions: t.TotalQuestions,
		Completed:      t.Completed,
		CompletedAt:    t.CompletedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
