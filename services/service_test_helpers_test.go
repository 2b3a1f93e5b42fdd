package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"wad-submission-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens an isolated in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.SubmissionRound{},
		&models.Submission{},
		&models.PendingConfirmation{},
		&models.User{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return db
}

// newTestSubmissionService wires a submission service against an in-memory
// database and a temp-dir WAD store, with mail dispatch stubbed out.
func newTestSubmissionService(t *testing.T, allowedHeaders string) (*SubmissionService, *gorm.DB, *WadStore) {
	t.Helper()
	db := newTestDB(t)
	wads := NewWadStore(t.TempDir(), allowedHeaders)
	svc := NewSubmissionService(db, wads, NoopBroadcaster{})
	svc.mailer = func(email, wadName, token string) {}
	return svc, db, wads
}

// mustCreateActiveRound seeds a round accepting entries.
func mustCreateActiveRound(t *testing.T, db *gorm.DB, name string) *models.SubmissionRound {
	t.Helper()
	round, err := NewRoundService(db).NewRound(name)
	if err != nil {
		t.Fatalf("failed to create round %q: %v", name, err)
	}
	return round
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
