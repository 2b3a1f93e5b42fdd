package models

import (
	"strings"
	"time"
)

// DoomEngine enumerates the engines an entry can be played with.
type DoomEngine int

const (
	EngineClassic DoomEngine = iota
	EngineBoom
	EngineGZDoom
)

func (e DoomEngine) String() string {
	switch e {
	case EngineClassic:
		return "Classic Doom"
	case EngineBoom:
		return "Boom"
	case EngineGZDoom:
		return "GZDoom"
	}
	return "Unknown"
}

// Valid reports whether the value is a known engine.
func (e DoomEngine) Valid() bool {
	return e >= EngineClassic && e <= EngineGZDoom
}

// GzDoomAction enumerates the per-entry GZDoom gameplay toggles.
type GzDoomAction int

const (
	ActionMouselook GzDoomAction = iota
	ActionCrouch
	ActionJump
)

func (a GzDoomAction) String() string {
	switch a {
	case ActionMouselook:
		return "mouselook"
	case ActionCrouch:
		return "crouch"
	case ActionJump:
		return "jump"
	}
	return "unknown"
}

func (a GzDoomAction) Valid() bool {
	return a >= ActionMouselook && a <= ActionJump
}

// MaxGzDoomActions caps how many action toggles one entry may carry.
const MaxGzDoomActions = 3

// Submission represents the submissions table. Entries with the same
// submission_round_id must have unique submitter emails.
type Submission struct {
	SubmissionID      int        `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionRoundID int        `gorm:"column:submission_round_id;uniqueIndex:idx_round_email" json:"submission_round_id"`
	WadName           string     `gorm:"column:wad_name" json:"wad_name"`
	WadURL            *string    `gorm:"column:wad_url" json:"wad_url,omitempty"`
	WadLevel          string     `gorm:"column:wad_level" json:"wad_level"`
	WadEngine         DoomEngine `gorm:"column:wad_engine" json:"wad_engine"`

	// Comma separated GzDoomAction values, empty unless the engine is GZDoom.
	GzDoomActions *string `gorm:"column:gzdoom_actions" json:"gzdoom_actions,omitempty"`

	SubmitterName     *string `gorm:"column:submitter_name" json:"submitter_name,omitempty"`
	SubmitterEmail    string  `gorm:"column:submitter_email;uniqueIndex:idx_round_email" json:"submitter_email"`
	SubmitterAuthor   bool    `gorm:"column:submitter_author" json:"submitter_author"`
	Distributable     bool    `gorm:"column:distributable" json:"distributable"`
	Info              *string `gorm:"column:info" json:"info,omitempty"`
	CustomWadFileName *string `gorm:"column:custom_wad_file_name" json:"-"`
	SubmissionValid   bool    `gorm:"column:submission_valid" json:"submission_valid"`
	ChosenRoundID     *int    `gorm:"column:chosen_round_id" json:"chosen_round_id,omitempty"`

	CreateAt time.Time `gorm:"column:create_at;autoCreateTime" json:"create_at"`
	UpdateAt time.Time `gorm:"column:update_at;autoUpdateTime" json:"update_at"`

	Round        SubmissionRound      `gorm:"foreignKey:SubmissionRoundID;references:RoundID" json:"round,omitempty"`
	Confirmation *PendingConfirmation `gorm:"foreignKey:SubmissionID;references:SubmissionID" json:"confirmation,omitempty"`
}

func (Submission) TableName() string {
	return "submissions"
}

// HasFile reports whether a custom WAD file has been ingested for this entry.
func (s *Submission) HasFile() bool {
	return s.CustomWadFileName != nil && *s.CustomWadFileName != ""
}

// HasURL reports whether the entry references its content by URL.
func (s *Submission) HasURL() bool {
	return s.WadURL != nil && *s.WadURL != ""
}

// Downloadable implements the download access policy. The forced (secure)
// path is always allowed; the public path is denied only when the submitter
// is the author and declined distribution.
func (s *Submission) Downloadable(force bool) bool {
	if force {
		return true
	}
	return !(s.SubmitterAuthor && !s.Distributable)
}

// EngineName returns the engine as a display string.
func (s *Submission) EngineName() string {
	return s.WadEngine.String()
}

// ActionList decodes the stored action set.
func (s *Submission) ActionList() []GzDoomAction {
	if s.GzDoomActions == nil || *s.GzDoomActions == "" {
		return nil
	}
	parts := strings.Split(*s.GzDoomActions, ",")
	actions := make([]GzDoomAction, 0, len(parts))
	for _, p := range parts {
		switch strings.TrimSpace(p) {
		case "0":
			actions = append(actions, ActionMouselook)
		case "1":
			actions = append(actions, ActionCrouch)
		case "2":
			actions = append(actions, ActionJump)
		}
	}
	return actions
}

// SubmissionView is the reduced public shape broadcast to observers. It must
// never carry the submitter email or any file path.
type SubmissionView struct {
	SubmissionID int    `json:"submission_id"`
	WadName      string `json:"wad_name"`
	WadLevel     string `json:"wad_level"`
}

// ToView reduces the entry to its broadcast shape.
func (s *Submission) ToView() SubmissionView {
	return SubmissionView{
		SubmissionID: s.SubmissionID,
		WadName:      s.WadName,
		WadLevel:     s.WadLevel,
	}
}
