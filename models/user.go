package models

import "time"

// User represents the users table: operator accounts for the privileged
// endpoints (round management, bulk deletion, secure download).
type User struct {
	UserID   int       `gorm:"primaryKey;column:user_id" json:"user_id"`
	Email    string    `gorm:"column:email;uniqueIndex" json:"email"`
	Password string    `gorm:"column:password" json:"-"` // bcrypt hash
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`
}

func (User) TableName() string {
	return "users"
}
