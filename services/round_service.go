package services

import (
	"errors"
	"strings"

	"wad-submission-api/config"
	"wad-submission-api/models"

	"gorm.io/gorm"
)

// RoundService manages the submission round lifecycle. It is the sole
// mutator of the "currently active round" state; all activation changes run
// inside one transaction so no two rounds can appear active concurrently.
type RoundService struct {
	db *gorm.DB
}

// NewRoundService instantiates the service.
func NewRoundService(db *gorm.DB) *RoundService {
	if db == nil {
		db = config.DB
	}
	return &RoundService{db: db}
}

// NewRound creates a round and makes it the active one, deactivating any
// prior holder in the same transaction. A name collision fails with a
// conflict.
func (s *RoundService) NewRound(name string) (*models.SubmissionRound, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("round name must not be empty")
	}

	round := models.SubmissionRound{Name: name, Active: true}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SubmissionRound{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&round).Error
	})
	if err != nil {
		if isDuplicateKey(err) {
			return nil, conflict("a round named %q already exists", name)
		}
		return nil, internal("unable to create submission round", err)
	}
	return &round, nil
}

// PauseRound pauses or resumes the currently active round. Both directions
// require an active round to exist. The round is loaded first so the check
// does not depend on the driver's row count semantics; re-pausing an already
// paused round is a no-op, not an error.
func (s *RoundService) PauseRound(pause bool) error {
	round, err := s.GetCurrentActiveRound()
	if err != nil {
		return err
	}
	if err := s.db.Model(round).Update("paused", pause).Error; err != nil {
		return internal("unable to update submission round", err)
	}
	return nil
}

// GetCurrentActiveRound returns the single active round.
func (s *RoundService) GetCurrentActiveRound() (*models.SubmissionRound, error) {
	var round models.SubmissionRound
	err := s.db.Where("active = ?", true).First(&round).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("no submission round is currently active")
		}
		return nil, internal("unable to load active submission round", err)
	}
	return &round, nil
}

// GetAllRounds lists rounds, newest first. When includeInactive is false
// only the active round (if any) is returned.
func (s *RoundService) GetAllRounds(includeInactive bool) ([]models.SubmissionRound, error) {
	query := s.db.Order("round_id DESC")
	if !includeInactive {
		query = query.Where("active = ?", true)
	}
	var rounds []models.SubmissionRound
	if err := query.Find(&rounds).Error; err != nil {
		return nil, internal("unable to list submission rounds", err)
	}
	return rounds, nil
}

// isDuplicateKey recognises unique constraint violations across drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
