package model

import (
	"time"
)

// Revision is one scheduled review of a topic. Completing a revision is
// terminal; the follow-up review is a new record.
type Revision struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	UserID           uint       `gorm:"index:idx_revisions_user_due;not null" json:"userId"`
	SubjectID        uint       `gorm:"index;not null" json:"subjectId"`
	Topic            string     `gorm:"type:varchar(255);not null" json:"topic"`
	StudyDate        time.Time  `gorm:"not null" json:"studyDate"`
	NextRevisionDate time.Time  `gorm:"index:idx_revisions_user_due;not null" json:"nextRevisionDate"`
	Completed        bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt      *time.Time `json:"completedAt"`
	RevisionCount    int        `gorm:"default:0" json:"revisionCount"`

	// Relationships
	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}
