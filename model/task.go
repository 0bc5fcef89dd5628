package model

import (
	"time"
)

// Task is a scheduled block of study time for one subject on one day
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      uint       `gorm:"index:idx_tasks_user_date;not null" json:"userId"`
	SubjectID   uint       `gorm:"index;not null" json:"subjectId"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Date        time.Time  `gorm:"index:idx_tasks_user_date;not null" json:"date"`
	Duration    float64    `gorm:"not null" json:"duration"` // hours
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`

	// Relationships
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
