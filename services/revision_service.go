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
	// FirstRevisionInterval is the gap between first study and first review
	FirstRevisionInterval = 3
	// FollowUpRevisionInterval is the gap between a completed review and the next
	FollowUpRevisionInterval = 7
)

// RevisionService schedules spaced-repetition reviews
type RevisionService struct {
	db    *gorm.DB
	clock Clock
}

// NewRevisionService creates a new revision service
func NewRevisionService(db *gorm.DB, clock Clock) *RevisionService {
	return &RevisionService{db: db, clock: clock}
}

// CreateRevisionInput holds the fields for a new revision
type CreateRevisionInput struct {
	SubjectID uint
	Topic     string
	StudyDate *time.Time // defaults to now
}

// CompletionResult is returned when a revision is completed
type CompletionResult struct {
	CompletedRevision *model.Revision `json:"completedRevision"`
	NextRevision      *model.Revision `json:"nextRevision"`
}

// ScheduleFirstRevision returns a new, unsaved revision due three calendar
// days after studyDate.
func (s *RevisionService) ScheduleFirstRevision(userID, subjectID uint, topic string, studyDate time.Time) model.Revision {
	return model.Revision{
		UserID:           userID,
		SubjectID:        subjectID,
		Topic:            topic,
		StudyDate:        studyDate.UTC(),
		NextRevisionDate: s.clock.AddDays(studyDate, FirstRevisionInterval).UTC(),
		Completed:        false,
		RevisionCount:    0,
	}
}

// CreateRevision schedules the first review of a topic
func (s *RevisionService) CreateRevision(ctx context.Context, userID uint, in CreateRevisionInput) (*model.Revision, error) {
	topic := strings.TrimSpace(in.Topic)
	if topic == "" {
		return nil, apperror.InvalidInput("topic is required")
	}
	if in.SubjectID == 0 {
		return nil, apperror.InvalidInput("subjectId is required")
	}

	subject, err := findOwnedSubject(ctx, s.db, userID, in.SubjectID)
	if err != nil {
		return nil, err
	}

	studyDate := s.clock.Now()
	if in.StudyDate != nil {
		studyDate = *in.StudyDate
	}

	revision := s.ScheduleFirstRevision(userID, subject.ID, topic, studyDate)
	if err := s.db.WithContext(ctx).Create(&revision).Error; err != nil {
		return nil, fmt.Errorf("failed to create revision: %w", err)
	}
	revision.Subject = subject

	return &revision, nil
}

// CompleteRevision marks a pending revision as done and schedules the next
// review of the same topic. Both writes share one transaction, and the
// completion is conditional on the record still being open, so a second
// concurrent call fails with Conflict instead of forking the chain.
func (s *RevisionService) CompleteRevision(ctx context.Context, userID, revisionID uint) (*CompletionResult, error) {
	now := s.clock.Now()
	result := &CompletionResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&model.Revision{}).
			Where("id = ? AND user_id = ? AND completed = ?", revisionID, userID, false).
			Updates(map[string]interface{}{
				"completed":      true,
				"completed_at":   now.UTC(),
				"revision_count": gorm.Expr("revision_count + 1"),
			})
		if update.Error != nil {
			return fmt.Errorf("failed to complete revision: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return missingOrCompleted(tx, userID, revisionID)
		}

		var completed model.Revision
		if err := tx.Preload("Subject").First(&completed, revisionID).Error; err != nil {
			return fmt.Errorf("failed to reload revision: %w", err)
		}

		next := model.Revision{
			UserID:           completed.UserID,
			SubjectID:        completed.SubjectID,
			Topic:            completed.Topic,
			StudyDate:        completed.NextRevisionDate.UTC(),
			NextRevisionDate: s.clock.AddDays(now, FollowUpRevisionInterval).UTC(),
			Completed:        false,
			RevisionCount:    completed.RevisionCount,
		}
		if err := tx.Create(&next).Error; err != nil {
			return fmt.Errorf("failed to schedule next revision: %w", err)
		}
		next.Subject = completed.Subject

		result.CompletedRevision = &completed
		result.NextRevision = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func missingOrCompleted(tx *gorm.DB, userID, revisionID uint) error {
	var count int64
	if err := tx.Model(&model.Revision{}).
		Where("id = ? AND user_id = ?", revisionID, userID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up revision: %w", err)
	}
	if count == 0 {
		return apperror.NotFound("Revision not found")
	}
	return apperror.Conflict("Revision already completed")
}

// ListPending returns open revisions due at or before asOf, earliest first
func (s *RevisionService) ListPending(ctx context.Context, userID uint, asOf time.Time) ([]model.Revision, error) {
	var revisions []model.Revision
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ? AND completed = ? AND next_revision_date <= ?", userID, false, asOf.UTC()).
		Order("next_revision_date ASC, id ASC").
		Find(&revisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending revisions: %w", err)
	}
	return revisions, nil
}

// ListPendingToday returns revisions due by the end of the current local day
func (s *RevisionService) ListPendingToday(ctx context.Context, userID uint) ([]model.Revision, error) {
	return s.ListPending(ctx, userID, s.clock.EndOfDay(s.clock.Now()))
}

// ListAll returns every revision of the user ordered by due date
func (s *RevisionService) ListAll(ctx context.Context, userID uint) ([]model.Revision, error) {
	var revisions []model.Revision
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Where("user_id = ?", userID).
		Order("next_revision_date ASC, id ASC").
		Find(&revisions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

// DeleteRevision removes a single revision
func (s *RevisionService) DeleteRevision(ctx context.Context, userID, revisionID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", revisionID, userID).
		Delete(&model.Revision{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete revision: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Revision not found")
	}
	return nil
}

// findOwnedSubject loads a subject belonging to userID
func findOwnedSubject(ctx context.Context, db *gorm.DB, userID, subjectID uint) (*model.Subject, error) {
	var subject model.Subject
	err := db.WithContext(ctx).Where("id = ? AND user_id = ?", subjectID, userID).First(&subject).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Subject not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load subject: %w", err)
	}
	return &subject, nil
}
