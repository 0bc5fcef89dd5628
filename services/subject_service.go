package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

const (
	MinDailyTargetHours = 0.5
	MaxDailyTargetHours = 12
)

// SubjectService manages a user's subjects
type SubjectService struct {
	db    *gorm.DB
	clock Clock
}

// NewSubjectService creates a new subject service
func NewSubjectService(db *gorm.DB, clock Clock) *SubjectService {
	return &SubjectService{db: db, clock: clock}
}

// SubjectInput carries subject fields. On update, nil fields are left unchanged.
type SubjectInput struct {
	Name             *string
	DailyTargetHours *float64
	ExamDate         *time.Time
	Color            *string
}

// ListSubjects returns the user's subjects, newest first
func (s *SubjectService) ListSubjects(ctx context.Context, userID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// GetSubject returns a single subject
func (s *SubjectService) GetSubject(ctx context.Context, userID, subjectID uint) (*model.Subject, error) {
	return findOwnedSubject(ctx, s.db, userID, subjectID)
}

// CreateSubject validates and stores a subject
func (s *SubjectService) CreateSubject(ctx context.Context, userID uint, in SubjectInput) (*model.Subject, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, apperror.InvalidInput("name is required")
	}
	if in.DailyTargetHours == nil {
		return nil, apperror.InvalidInput("dailyTargetHours is required")
	}
	if in.ExamDate == nil || in.ExamDate.IsZero() {
		return nil, apperror.InvalidInput("examDate is required")
	}

	subject := model.Subject{
		UserID:           userID,
		Name:             strings.TrimSpace(*in.Name),
		DailyTargetHours: *in.DailyTargetHours,
		ExamDate:         in.ExamDate.UTC(),
		Color:            model.DefaultSubjectColor,
	}
	if in.Color != nil && *in.Color != "" {
		subject.Color = *in.Color
	}
	if err := checkTargetHours(subject.DailyTargetHours); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&subject).Error; err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}
	return &subject, nil
}

// UpdateSubject applies the non-nil fields of in
func (s *SubjectService) UpdateSubject(ctx context.Context, userID, subjectID uint, in SubjectInput) (*model.Subject, error) {
	subject, err := findOwnedSubject(ctx, s.db, userID, subjectID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperror.InvalidInput("name cannot be empty")
		}
		updates["name"] = name
	}
	if in.DailyTargetHours != nil {
		if err := checkTargetHours(*in.DailyTargetHours); err != nil {
			return nil, err
		}
		updates["daily_target_hours"] = *in.DailyTargetHours
	}
	if in.ExamDate != nil {
		updates["exam_date"] = in.ExamDate.UTC()
	}
	if in.Color != nil && *in.Color != "" {
		updates["color"] = *in.Color
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(subject).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update subject: %w", err)
		}
	}

	return findOwnedSubject(ctx, s.db, userID, subjectID)
}

// DeleteSubject removes a subject together with its tasks, tests and
// revisions. Doubts are kept and lose their subject link.
func (s *SubjectService) DeleteSubject(ctx context.Context, userID, subjectID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subject model.Subject
		if err := tx.Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("Subject not found")
			}
			return fmt.Errorf("failed to load subject: %w", err)
		}

		scope := tx.Where("subject_id = ? AND user_id = ?", subjectID, userID)
		for _, child := range []interface{}{&model.Task{}, &model.Test{}, &model.Revision{}} {
			if err := scope.Session(&gorm.Session{}).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete %T for subject: %w", child, err)
			}
		}

		if err := tx.Model(&model.Doubt{}).
			Where("subject_id = ? AND user_id = ?", subjectID, userID).
			Update("subject_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach doubts: %w", err)
		}

		if err := tx.Delete(&subject).Error; err != nil {
			return fmt.Errorf("failed to delete subject: %w", err)
		}
		return nil
	})
}

// Suggestions runs the study-time advisor over every subject of the user
func (s *SubjectService) Suggestions(ctx context.Context, userID uint) ([]SubjectSuggestion, error) {
	subjects, err := s.ListSubjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	return SuggestForSubjects(subjects, s.clock.Now()), nil
}

func checkTargetHours(h float64) error {
	if h < MinDailyTargetHours || h > MaxDailyTargetHours {
		return apperror.InvalidInput("dailyTargetHours must be between %.1f and %.0f", MinDailyTargetHours, float64(MaxDailyTargetHours))
	}
	return nil
}
