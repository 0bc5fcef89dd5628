package model

import (
	"time"
)

// Session is a server-side login session, keyed by the JTI of the session cookie
type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	UserAgent string    `gorm:"type:varchar(255)" json:"userAgent"`
	IP        string    `gorm:"type:varchar(64)" json:"ip"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "user_sessions"
}
