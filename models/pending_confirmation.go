package models

import "time"

// PendingConfirmation represents the pending_confirmations table. One row
// exists per unconfirmed entry; the row is deleted exactly once, either when
// the token is redeemed or when the owning entry is deleted first.
type PendingConfirmation struct {
	UID          string    `gorm:"primaryKey;column:uid" json:"uid"`
	SubmissionID int       `gorm:"column:submission_id;uniqueIndex" json:"submission_id"`
	CreateAt     time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
}

func (PendingConfirmation) TableName() string {
	return "pending_confirmations"
}
