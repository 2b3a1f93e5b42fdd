package services

import (
	"errors"
	"fmt"
	"log"
	"os"

	"wad-submission-api/config"
	"wad-submission-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConfirmationService issues and redeems the one-time tokens that prove
// control of a submitter's e-mail address. Entry state per token:
// pending -> confirmed (redeemed) or pending -> discarded (entry deleted
// before redemption).
type ConfirmationService struct {
	db *gorm.DB
}

// NewConfirmationService instantiates the service.
func NewConfirmationService(db *gorm.DB) *ConfirmationService {
	if db == nil {
		db = config.DB
	}
	return &ConfirmationService{db: db}
}

// Issue persists a PendingConfirmation for the entry inside the caller's
// transaction and returns its unguessable token.
func (s *ConfirmationService) Issue(tx *gorm.DB, submissionID int) (string, error) {
	confirmation := models.PendingConfirmation{
		UID:          uuid.NewString(),
		SubmissionID: submissionID,
	}
	if err := tx.Create(&confirmation).Error; err != nil {
		return "", internal("unable to create pending confirmation", err)
	}
	return confirmation.UID, nil
}

// Redeem consumes a token and marks the owning entry valid. The conditional
// delete and the validity flip run in one transaction, so concurrent
// redemptions of the same token produce exactly one success; the rest fail
// as not found.
func (s *ConfirmationService) Redeem(token string) (int, error) {
	var submissionID int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var confirmation models.PendingConfirmation
		if err := tx.Where("uid = ?", token).First(&confirmation).Error; err != nil {
			return notFound("no pending confirmation for the given token")
		}
		res := tx.Where("uid = ?", token).Delete(&models.PendingConfirmation{})
		if res.Error != nil {
			return internal("unable to consume confirmation token", res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("no pending confirmation for the given token")
		}
		submissionID = confirmation.SubmissionID
		return tx.Model(&models.Submission{}).
			Where("submission_id = ?", submissionID).
			Update("submission_valid", true).Error
	})
	if err != nil {
		var se *ServiceError
		if errors.As(err, &se) {
			return 0, se
		}
		return 0, internal("unable to process confirmation", err)
	}
	return submissionID, nil
}

// SendConfirmationMail mails the confirmation link for the given token.
// Delivery is fire and forget: failures are logged, never surfaced to the
// submitter's request.
func SendConfirmationMail(email, wadName, token string) {
	baseURL := os.Getenv("BASE_URL")
	link := fmt.Sprintf("%s/processSubmission?uid=%s", baseURL, token)
	body := fmt.Sprintf(
		"<p>Thanks for submitting <b>%s</b>!</p>"+
			"<p>Please confirm your entry by clicking <a href=%q>this link</a>. "+
			"Your submission does not count until it is confirmed.</p>",
		wadName, link,
	)
	if err := config.SendMail([]string{email}, "Confirm your WAD submission", body); err != nil {
		log.Printf("confirmation mail to %s failed: %v", email, err)
	}
}
