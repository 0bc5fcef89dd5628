package model

import (
	"time"
)

// Doubt is a free-text question asked by a student together with the
// generated answer and the student's feedback on it.
type Doubt struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	SubjectID  *uint     `gorm:"index" json:"subjectId"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	AIResponse string    `gorm:"type:text" json:"aiResponse"`
	Helpful    *bool     `json:"helpful"` // nil until the student gives feedback

	// Relationships
	Subject *Subject `gorm:"foreignKey:SubjectID;constraint:OnDelete:SET NULL" json:"subject,omitempty"`
}
