package model

import (
	"time"
)

// DefaultSubjectColor is applied when a subject is created without a color
const DefaultSubjectColor = "#6366f1"

// Subject is a course of study with an exam date and a daily study target
type Subject struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	UserID           uint      `gorm:"index;not null" json:"userId"`
	Name             string    `gorm:"type:varchar(100);not null" json:"name"`
	DailyTargetHours float64   `gorm:"not null;default:2" json:"dailyTargetHours"`
	ExamDate         time.Time `gorm:"not null" json:"examDate"`
	Color            string    `gorm:"type:varchar(7);default:'#6366f1'" json:"color"`
}
