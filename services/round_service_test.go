package services

import (
	"testing"

	"wad-submission-api/models"
)

func TestNewRoundActivatesAndDeactivatesPrior(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoundService(db)

	first, err := svc.NewRound("Round1")
	if err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}
	if !first.Active {
		t.Fatal("expected new round to be active")
	}

	second, err := svc.NewRound("Round2")
	if err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}
	if !second.Active {
		t.Fatal("expected second round to be active")
	}

	var activeCount int64
	if err := db.Model(&models.SubmissionRound{}).Where("active = ?", true).Count(&activeCount).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active round, got %d", activeCount)
	}

	current, err := svc.GetCurrentActiveRound()
	if err != nil {
		t.Fatalf("GetCurrentActiveRound returned error: %v", err)
	}
	if current.RoundID != second.RoundID {
		t.Fatalf("expected round %d to be active, got %d", second.RoundID, current.RoundID)
	}
}

func TestNewRoundDuplicateNameConflicts(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoundService(db)

	if _, err := svc.NewRound("Round1"); err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}
	_, err := svc.NewRound("Round1")
	if err == nil {
		t.Fatal("expected duplicate round name to fail")
	}
	if KindOf(err) != KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestNewRoundRejectsEmptyName(t *testing.T) {
	svc := NewRoundService(newTestDB(t))

	_, err := svc.NewRound("   ")
	if KindOf(err) != KindBadRequest {
		t.Fatalf("expected bad-request, got %v", err)
	}
}

func TestPauseAndResumeRound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoundService(db)

	round, err := svc.NewRound("Round1")
	if err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}

	if err := svc.PauseRound(true); err != nil {
		t.Fatalf("PauseRound returned error: %v", err)
	}
	var paused models.SubmissionRound
	if err := db.First(&paused, "round_id = ?", round.RoundID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !paused.Paused || !paused.Active {
		t.Fatalf("expected active paused round, got active=%v paused=%v", paused.Active, paused.Paused)
	}
	if paused.AcceptingEntries() {
		t.Fatal("paused round must not accept entries")
	}

	if err := svc.PauseRound(false); err != nil {
		t.Fatalf("resume returned error: %v", err)
	}
	if err := db.First(&paused, "round_id = ?", round.RoundID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if paused.Paused {
		t.Fatal("expected round to be resumed")
	}
}

func TestPauseRoundIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoundService(db)

	round, err := svc.NewRound("Round1")
	if err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}

	// repeating the same transition changes no rows and must still succeed
	for i := 0; i < 2; i++ {
		if err := svc.PauseRound(true); err != nil {
			t.Fatalf("pause attempt %d returned error: %v", i+1, err)
		}
	}
	var reloaded models.SubmissionRound
	if err := db.First(&reloaded, "round_id = ?", round.RoundID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.Paused {
		t.Fatal("expected round to stay paused")
	}

	for i := 0; i < 2; i++ {
		if err := svc.PauseRound(false); err != nil {
			t.Fatalf("resume attempt %d returned error: %v", i+1, err)
		}
	}
	if err := db.First(&reloaded, "round_id = ?", round.RoundID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Paused {
		t.Fatal("expected round to stay resumed")
	}
}

func TestPauseRoundWithoutActiveRound(t *testing.T) {
	svc := NewRoundService(newTestDB(t))

	err := svc.PauseRound(true)
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestGetCurrentActiveRoundWithoutRounds(t *testing.T) {
	svc := NewRoundService(newTestDB(t))

	_, err := svc.GetCurrentActiveRound()
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestGetAllRoundsFiltersInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewRoundService(db)

	if _, err := svc.NewRound("Round1"); err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}
	if _, err := svc.NewRound("Round2"); err != nil {
		t.Fatalf("NewRound returned error: %v", err)
	}

	all, err := svc.GetAllRounds(true)
	if err != nil {
		t.Fatalf("GetAllRounds returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(all))
	}

	activeOnly, err := svc.GetAllRounds(false)
	if err != nil {
		t.Fatalf("GetAllRounds returned error: %v", err)
	}
	if len(activeOnly) != 1 || activeOnly[0].Name != "Round2" {
		t.Fatalf("expected only Round2, got %+v", activeOnly)
	}
}
