package services

import (
	"testing"

	"wad-submission-api/models"
)

func TestRedeemMarksEntryValidExactlyOnce(t *testing.T) {
	svc, db, _ := newTestSubmissionService(t, "")
	mustCreateActiveRound(t, db, "Round1")

	entry, err := svc.AddEntry(SubmissionData{
		WadName:        "Sunlust",
		WadURL:         "https://example.com/sunlust",
		WadLevel:       "12",
		WadEngine:      models.EngineBoom,
		SubmitterEmail: "foo@example.com",
	}, nil)
	if err != nil {
		t.Fatalf("AddEntry returned error: %v", err)
	}
	if entry.SubmissionValid {
		t.Fatal("entry must start unconfirmed")
	}

	var confirmation models.PendingConfirmation
	if err := db.First(&confirmation, "submission_id = ?", entry.SubmissionID).Error; err != nil {
		t.Fatalf("expected a pending confirmation: %v", err)
	}

	confirmations := NewConfirmationService(db)
	gotID, err := confirmations.Redeem(confirmation.UID)
	if err != nil {
		t.Fatalf("Redeem returned error: %v", err)
	}
	if gotID != entry.SubmissionID {
		t.Fatalf("Redeem returned entry %d, want %d", gotID, entry.SubmissionID)
	}

	var reloaded models.Submission
	if err := db.First(&reloaded, "submission_id = ?", entry.SubmissionID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.SubmissionValid {
		t.Fatal("expected entry to be valid after redemption")
	}

	// second redemption of the same token fails
	if _, err := confirmations.Redeem(confirmation.UID); KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found on second redemption, got %v", err)
	}
}

func TestRedeemUnknownToken(t *testing.T) {
	confirmations := NewConfirmationService(newTestDB(t))

	_, err := confirmations.Redeem("never-issued")
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}
