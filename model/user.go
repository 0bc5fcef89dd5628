package model

import (
	"time"
)

// DefaultAcademicLevel is used when a user does not pick one at registration
const DefaultAcademicLevel = "Class 10"

// User represents a registered student
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Name          string    `gorm:"type:varchar(100);not null" json:"name"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"not null" json:"-"` // Never expose password in JSON
	AcademicLevel string    `gorm:"type:varchar(50);default:'Class 10'" json:"academicLevel"`

	// Relationships
	Subjects      []Subject          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Sessions      []Session          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []UserNotification `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
