package models

import "time"

// PasswordReset stores a single-use password reset action code. Only the
// SHA-256 hash of the code is persisted; the raw code is emailed to the user.
type PasswordReset struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	CodeHash  string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"-"`
}
