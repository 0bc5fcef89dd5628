package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
)

// NotificationCategory represents the category of notification
type NotificationCategory string

const (
	NotificationCategoryRevisionReminder NotificationCategory = "revision_reminder"
	NotificationCategoryExamReminder     NotificationCategory = "exam_reminder"
	NotificationCategoryStudyPlan        NotificationCategory = "study_plan"
	NotificationCategoryGeneral          NotificationCategory = "general"
)

// UserNotification represents a notification for a user
type UserNotification struct {
	ID        uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time            `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
	UserID    uint                 `gorm:"index;not null" json:"userId"`
	Type      NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category  NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title     string               `gorm:"type:varchar(255);not null" json:"title"`
	Message   string               `gorm:"type:text" json:"message"`
	Read      bool                 `gorm:"default:false" json:"read"`
	Metadata  datatypes.JSON       `json:"metadata,omitempty"`
}

// NotificationMetadata represents common metadata fields
type NotificationMetadata struct {
	SubjectID    uint   `json:"subjectId,omitempty"`
	SubjectName  string `json:"subjectName,omitempty"`
	PendingCount int    `json:"pendingCount,omitempty"`
	DaysLeft     int    `json:"daysLeft,omitempty"`
	TaskCount    int    `json:"taskCount,omitempty"`
}
