package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sahilchouksey/study-planner/model"
	"github.com/sahilchouksey/study-planner/utils/apperror"
)

// ExamReminderWindowDays is how close an exam must be to trigger a reminder
const ExamReminderWindowDays = 7

// NotificationService handles user notifications
type NotificationService struct {
	db    *gorm.DB
	clock Clock
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, clock Clock) *NotificationService {
	return &NotificationService{db: db, clock: clock}
}

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	UserID   uint
	Type     model.NotificationType
	Category model.NotificationCategory
	Title    string
	Message  string
	Metadata *model.NotificationMetadata
}

// ListNotificationsOptions represents options for listing notifications
type ListNotificationsOptions struct {
	UserID     uint
	UnreadOnly bool
	Category   string
	Limit      int
	Offset     int
}

// CreateNotification creates a new notification for a user
func (s *NotificationService) CreateNotification(ctx context.Context, req CreateNotificationRequest) (*model.UserNotification, error) {
	notification := &model.UserNotification{
		CreatedAt: s.clock.Now().UTC(),
		UserID:    req.UserID,
		Type:      req.Type,
		Category:  req.Category,
		Title:     req.Title,
		Message:   req.Message,
	}

	if req.Metadata != nil {
		metadataJSON, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		notification.Metadata = datatypes.JSON(metadataJSON)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// GetNotificationsByUser retrieves notifications for a user, newest first
func (s *NotificationService) GetNotificationsByUser(ctx context.Context, opts ListNotificationsOptions) ([]model.UserNotification, int64, error) {
	var notifications []model.UserNotification
	var total int64

	query := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ?", opts.UserID)
	if opts.UnreadOnly {
		query = query.Where("read = ?", false)
	}
	if opts.Category != "" {
		query = query.Where("category = ?", opts.Category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if err := query.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(opts.Offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read
func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification as read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Notification not found")
	}
	return nil
}

// MarkAllAsRead marks all notifications for a user as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteNotification deletes a notification
func (s *NotificationService) DeleteNotification(ctx context.Context, userID, notificationID uint) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("Notification not found")
	}
	return nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.UserNotification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// CleanupOldNotifications removes read notifications older than olderThan
func (s *NotificationService) CleanupOldNotifications(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.clock.Now().Add(-olderThan).UTC()

	result := s.db.WithContext(ctx).
		Where("created_at < ? AND read = ?", cutoff, true).
		Delete(&model.UserNotification{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup old notifications: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.Infof("Cleaned up %d old notifications", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

type pendingRow struct {
	UserID uint
	Count  int
}

// CreateRevisionReminders notifies every user with revisions due by the end
// of today. A user gets at most one reminder per local day.
func (s *NotificationService) CreateRevisionReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	dayStart := s.clock.StartOfDay(now).UTC()
	asOf := s.clock.EndOfDay(now).UTC()

	var rows []pendingRow
	if err := s.db.WithContext(ctx).Model(&model.Revision{}).
		Select("user_id, COUNT(*) AS count").
		Where("completed = ? AND next_revision_date <= ?", false, asOf).
		Group("user_id").
		Order("user_id").
		Scan(&rows).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending revisions: %w", err)
	}

	created := 0
	for _, row := range rows {
		sent, err := s.alreadySent(ctx, row.UserID, model.NotificationCategoryRevisionReminder, dayStart, nil)
		if err != nil {
			return created, err
		}
		if sent {
			continue
		}

		noun := "revisions"
		if row.Count == 1 {
			noun = "revision"
		}
		if _, err := s.CreateNotification(ctx, CreateNotificationRequest{
			UserID:   row.UserID,
			Type:     model.NotificationTypeInfo,
			Category: model.NotificationCategoryRevisionReminder,
			Title:    "Revisions due today",
			Message:  fmt.Sprintf("You have %d %s waiting. A quick review now keeps the topic fresh.", row.Count, noun),
			Metadata: &model.NotificationMetadata{PendingCount: row.Count},
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// CreateExamReminders warns about exams within the next week, once per
// subject per local day.
func (s *NotificationService) CreateExamReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	dayStart := s.clock.StartOfDay(now).UTC()

	var subjects []model.Subject
	if err := s.db.WithContext(ctx).
		Where("exam_date >= ? AND exam_date < ?", now.UTC(), s.clock.AddDays(now, ExamReminderWindowDays).UTC()).
		Order("exam_date ASC, id ASC").
		Find(&subjects).Error; err != nil {
		return 0, fmt.Errorf("failed to load upcoming exams: %w", err)
	}

	created := 0
	for _, subject := range subjects {
		sent, err := s.alreadySent(ctx, subject.UserID, model.NotificationCategoryExamReminder, dayStart, &subject.ID)
		if err != nil {
			return created, err
		}
		if sent {
			continue
		}

		advice := AdviseStudyTime(subject.ExamDate, subject.DailyTargetHours, now)
		if _, err := s.CreateNotification(ctx, CreateNotificationRequest{
			UserID:   subject.UserID,
			Type:     model.NotificationTypeWarning,
			Category: model.NotificationCategoryExamReminder,
			Title:    fmt.Sprintf("%s exam in %d days", subject.Name, advice.DaysUntilExam),
			Message:  advice.Suggestion,
			Metadata: &model.NotificationMetadata{
				SubjectID:   subject.ID,
				SubjectName: subject.Name,
				DaysLeft:    advice.DaysUntilExam,
			},
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// alreadySent checks for a notification of category created since dayStart.
// When subjectID is set only notifications about that subject count.
func (s *NotificationService) alreadySent(ctx context.Context, userID uint, category model.NotificationCategory, dayStart time.Time, subjectID *uint) (bool, error) {
	var existing []model.UserNotification
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND category = ? AND created_at >= ?", userID, category, dayStart).
		Find(&existing).Error; err != nil {
		return false, fmt.Errorf("failed to check existing notifications: %w", err)
	}
	if subjectID == nil {
		return len(existing) > 0, nil
	}

	for _, n := range existing {
		var meta model.NotificationMetadata
		if len(n.Metadata) > 0 && json.Unmarshal(n.Metadata, &meta) == nil && meta.SubjectID == *subjectID {
			return true, nil
		}
	}
	return false, nil
}
