package models

import (
	"time"

	"gorm.io/gorm"
)

type Admin struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Email     string         `gorm:"uniqueIndex;size:150" json:"email"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash, never returned in JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// AdminSession is a bearer token issued at login. Expired rows are ignored
// by the auth middleware and pruned opportunistically.
type AdminSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdminID   uint      `gorm:"index;not null" json:"admin_id"`
	Token     string    `gorm:"uniqueIndex;size:128;not null" json:"-"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	Admin Admin `gorm:"foreignKey:AdminID" json:"-"`
}
