package models

import "time"

// User represents an account holder. Passwords are stored as bcrypt hashes
// and never serialized.
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	Assets              []Asset    `gorm:"foreignKey:UserID" json:"assets,omitempty"`
}
