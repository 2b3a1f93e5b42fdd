package models

import "time"

// SubmissionRound represents the submission_rounds table. Rounds are
// append-only history: at most one row has active = true at any time, and a
// round is never deleted once created.
type SubmissionRound struct {
	RoundID  int       `gorm:"primaryKey;column:round_id" json:"round_id"`
	Name     string    `gorm:"column:name;uniqueIndex" json:"name"`
	Active   bool      `gorm:"column:active" json:"active"`
	Paused   bool      `gorm:"column:paused" json:"paused"`
	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`

	Submissions []Submission `gorm:"foreignKey:SubmissionRoundID;references:RoundID" json:"submissions,omitempty"`
}

func (SubmissionRound) TableName() string {
	return "submission_rounds"
}

// AcceptingEntries reports whether new entries may be added to this round.
func (r *SubmissionRound) AcceptingEntries() bool {
	return r.Active && !r.Paused
}
