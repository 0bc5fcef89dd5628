package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilchouksey/study-planner/utils/apperror"
)

const (
	DefaultQuestionCount   = 5
	DefaultDifficulty      = "medium"
	DefaultAcademicLevel   = "Class 10"
	questionSystemPrompt   = "You are a professional exam setter and study assistant."
	studyPlanSystemPrompt  = "You are a professional academic consultant."
	studyPlanHorizonInDays = 7
)

// Question is a generated multiple-choice question
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// PlanItem is one generated study session
type PlanItem struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Subject  string  `json:"subject"`
	Topic    string  `json:"topic"`
	Duration float64 `json:"duration"` // hours
}

// QuestionRequest parameterises question generation
type QuestionRequest struct {
	Subject       string
	Topic         string
	Count         int
	Difficulty    string
	AcademicLevel string
}

// PlanRequest parameterises study plan generation
type PlanRequest struct {
	Subjects       []string
	AvailableHours float64
	ExamDate       string
	AcademicLevel  string
}

// Generator turns structured requests into prompts and parses the replies.
// A nil completer makes every call fail with ErrNotConfigured.
type Generator struct {
	completer Completer
	now       func() time.Time
}

// NewGenerator creates a generator backed by completer
func NewGenerator(completer Completer, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{completer: completer, now: now}
}

// Configured reports whether a provider is available
func (g *Generator) Configured() bool {
	return g != nil && g.completer != nil
}

// Complete exposes the raw completer for free-text answers
func (g *Generator) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !g.Configured() {
		return "", apperror.Upstream("AI service unavailable", ErrNotConfigured)
	}
	reply, err := g.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", apperror.Upstream("AI request failed", err)
	}
	return reply, nil
}

// GenerateQuestions asks the model for multiple-choice questions
func (g *Generator) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error) {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Topic) == "" {
		return nil, apperror.InvalidInput("Subject and topic are required")
	}
	if req.Count <= 0 {
		req.Count = DefaultQuestionCount
	}
	if req.Difficulty == "" {
		req.Difficulty = DefaultDifficulty
	}
	if req.AcademicLevel == "" {
		req.AcademicLevel = DefaultAcademicLevel
	}

	reply, err := g.Complete(ctx, questionSystemPrompt, questionPrompt(req))
	if err != nil {
		return nil, err
	}

	var questions []Question
	if err := ExtractJSONTo(reply, &questions); err != nil {
		return nil, apperror.Upstream("Failed to generate questions from AI", err)
	}
	for i, q := range questions {
		if len(q.Options) != 4 || q.CorrectAnswer < 0 || q.CorrectAnswer > 3 {
			return nil, apperror.Upstream("Failed to generate questions from AI",
				fmt.Errorf("question %d is malformed", i+1))
		}
	}
	return questions, nil
}

// GenerateStudyPlan asks the model for a week of dated study sessions
func (g *Generator) GenerateStudyPlan(ctx context.Context, req PlanRequest) ([]PlanItem, error) {
	if len(req.Subjects) == 0 || req.AvailableHours <= 0 {
		return nil, apperror.InvalidInput("Subjects and available hours are required")
	}
	if req.AcademicLevel == "" {
		req.AcademicLevel = DefaultAcademicLevel
	}

	reply, err := g.Complete(ctx, studyPlanSystemPrompt, planPrompt(req, g.now()))
	if err != nil {
		return nil, err
	}

	var plan []PlanItem
	if err := ExtractJSONTo(reply, &plan); err != nil {
		return nil, apperror.Upstream("Failed to generate study plan from AI", err)
	}
	return plan, nil
}

// IsNotConfigured reports whether err stems from a missing provider key
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

func questionPrompt(req QuestionRequest) string {
	return fmt.Sprintf(`You are an expert educator. Generate %d multiple-choice questions (MCQs) for a student at the following academic level: "%s".
Subject: "%s".
Specific Topic: "%s".
Difficulty: %s.

Requirements:
1. Accuracy: Questions must be factually 100%% correct and relevant to the academic level.
2. Format: Return strictly valid JSON as an array of objects.
3. Structure:
   [
       {
           "question": "clear and precise question text",
           "options": ["Option A", "Option B", "Option C", "Option D"],
           "correctAnswer": 0
       }
   ]
   correctAnswer is the index of the correct option.
Do not include any markdown or extra text.`,
		req.Count, req.AcademicLevel, req.Subject, req.Topic, req.Difficulty)
}

func planPrompt(req PlanRequest, now time.Time) string {
	examDate := req.ExamDate
	if examDate == "" {
		examDate = "not specified"
	}
	return fmt.Sprintf(`You are a professional study planner. Create a highly accurate 100%% workable study plan for a student at the academic level: "%s".
Subjects: %s.
Available study hours per day: %s.
Exam target date: %s.
Today's date: %s.

Return the response in strictly valid JSON format:
[
    {
        "date": "YYYY-MM-DD",
        "subject": "Subject Name",
        "topic": "Highly relevant topic for %s",
        "duration": 2
    }
]
duration is in hours. Generate tasks for the next %d days.`,
		req.AcademicLevel, strings.Join(req.Subjects, ", "), trimFloat(req.AvailableHours), examDate,
		now.UTC().Format("2006-01-02"), req.AcademicLevel, studyPlanHorizonInDays)
}

func trimFloat(f float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", f), "0"), ".")
}
