package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/services/ai"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

// AIService connects the AI generator to the user's profile and planner
type AIService struct {
	db            *gorm.DB
	generator     *ai.Generator
	notifications *NotificationService
	clock         Clock
}

// NewAIService creates a new AI service. notifications may be nil.
func NewAIService(db *gorm.DB, generator *ai.Generator, notifications *NotificationService, clock Clock) *AIService {
	return &AIService{db: db, generator: generator, notifications: notifications, clock: clock}
}

// GenerateQuestionsInput is the request for question generation
type GenerateQuestionsInput struct {
	Subject    string
	Topic      string
	Count      int
	Difficulty string
}

// GeneratePlanInput is the request for study plan generation
type GeneratePlanInput struct {
	Subjects       []string
	AvailableHours float64
	ExamDate       string
	Save           bool
}

// PlanResult is the generated plan and, when saved, the created tasks
type PlanResult struct {
	Plan       []ai.PlanItem `json:"plan"`
	SavedTasks []model.Task  `json:"savedTasks,omitempty"`
	Skipped    int           `json:"skipped,omitempty"`
}

// GenerateQuestions produces MCQs pitched at the user's academic level
func (s *AIService) GenerateQuestions(ctx context.Context, userID uint, in GenerateQuestionsInput) ([]ai.Question, error) {
	level, err := s.academicLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.generator.GenerateQuestions(ctx, ai.QuestionRequest{
		Subject:       in.Subject,
		Topic:         in.Topic,
		Count:         in.Count,
		Difficulty:    in.Difficulty,
		AcademicLevel: level,
	})
}

// GeneratePlan produces a week-long plan and optionally stores it as tasks
func (s *AIService) GeneratePlan(ctx context.Context, userID uint, in GeneratePlanInput) (*PlanResult, error) {
	level, err := s.academicLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan, err := s.generator.GenerateStudyPlan(ctx, ai.PlanRequest{
		Subjects:       in.Subjects,
		AvailableHours: in.AvailableHours,
		ExamDate:       in.ExamDate,
		AcademicLevel:  level,
	})
	if err != nil {
		return nil, err
	}

	result := &PlanResult{Plan: plan}
	if !in.Save {
		return result, nil
	}

	tasks, skipped, err := s.SavePlan(ctx, userID, plan)
	if err != nil {
		return nil, err
	}
	result.SavedTasks = tasks
	result.Skipped = skipped
	return result, nil
}

// SavePlan turns plan items into tasks. Each item is matched to a subject by
// case-insensitive name, falling back to the user's first subject. Items with
// an unparseable date or a too-short duration are skipped.
func (s *AIService) SavePlan(ctx context.Context, userID uint, plan []ai.PlanItem) ([]model.Task, int, error) {
	var subjects []model.Subject
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&subjects).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load subjects: %w", err)
	}
	if len(subjects) == 0 {
		return nil, 0, apperror.InvalidInput("Add a subject before saving a study plan")
	}

	byName := make(map[string]*model.Subject, len(subjects))
	for i := range subjects {
		key := strings.ToLower(strings.TrimSpace(subjects[i].Name))
		if _, exists := byName[key]; !exists {
			byName[key] = &subjects[i]
		}
	}

	tasks := make([]model.Task, 0, len(plan))
	skipped := 0
	for _, item := range plan {
		date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(item.Date), s.clock.Location)
		if err != nil || item.Duration < MinTaskDuration {
			skipped++
			continue
		}

		subject, ok := byName[strings.ToLower(strings.TrimSpace(item.Subject))]
		if !ok {
			subject = &subjects[0]
		}

		title := strings.TrimSpace(item.Topic)
		if title == "" {
			title = "Study " + subject.Name
		}

		tasks = append(tasks, model.Task{
			UserID:    userID,
			SubjectID: subject.ID,
			Title:     title,
			Date:      date.UTC(),
			Duration:  item.Duration,
			Subject:   subject,
		})
	}

	if len(tasks) > 0 {
		if err := s.db.WithContext(ctx).Omit("Subject").Create(&tasks).Error; err != nil {
			return nil, 0, fmt.Errorf("failed to save study plan: %w", err)
		}
		s.notifyPlanSaved(ctx, userID, len(tasks))
	}

	return tasks, skipped, nil
}

func (s *AIService) notifyPlanSaved(ctx context.Context, userID uint, count int) {
	if s.notifications == nil {
		return
	}
	_, err := s.notifications.CreateNotification(ctx, CreateNotificationRequest{
		UserID:   userID,
		Type:     model.NotificationTypeSuccess,
		Category: model.NotificationCategoryStudyPlan,
		Title:    "Study plan saved",
		Message:  fmt.Sprintf("%d study tasks were added to your planner.", count),
		Metadata: &model.NotificationMetadata{TaskCount: count},
	})
	if err != nil {
		log.Warnf("failed to create study plan notification for user %d: %v", userID, err)
	}
}

func (s *AIService) academicLevel(ctx context.Context, userID uint) (string, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Select("id", "academic_level").First(&user, userID).Error; err != nil {
		return "", fmt.Errorf("failed to load profile: %w", err)
	}
	if user.AcademicLevel == "" {
		return model.DefaultAcademicLevel, nil
	}
	return user.AcademicLevel, nil
}
