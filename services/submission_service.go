package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"wad-submission-api/config"
	"wad-submission-api/models"
	"wad-submission-api/utils"

	"gorm.io/gorm"
)

// SubmissionData is the payload for adding an entry.
type SubmissionData struct {
	WadName         string                `json:"wad_name" form:"wad_name"`
	WadURL          string                `json:"wad_url" form:"wad_url"`
	WadLevel        string                `json:"wad_level" form:"wad_level"`
	WadEngine       models.DoomEngine     `json:"wad_engine" form:"wad_engine"`
	GzDoomActions   []models.GzDoomAction `json:"gzdoom_actions" form:"gzdoom_actions"`
	SubmitterName   string                `json:"submitter_name" form:"submitter_name"`
	SubmitterEmail  string                `json:"submitter_email" form:"submitter_email"`
	SubmitterAuthor bool                  `json:"submitter_author" form:"submitter_author"`
	Distributable   bool                  `json:"distributable" form:"distributable"`
	Info            string                `json:"info" form:"info"`
}

// UploadedFile describes a file already spooled to a temp location by the
// transport layer.
type UploadedFile struct {
	TempPath     string
	OriginalName string
}

// SubmissionUpdate enumerates exactly the fields that are mutable after
// creation. Round membership, validity and the ingested file are not.
type SubmissionUpdate struct {
	WadName         *string                `json:"wad_name"`
	WadURL          *string                `json:"wad_url"`
	WadLevel        *string                `json:"wad_level"`
	WadEngine       *models.DoomEngine     `json:"wad_engine"`
	GzDoomActions   *[]models.GzDoomAction `json:"gzdoom_actions"`
	SubmitterName   *string                `json:"submitter_name"`
	SubmitterAuthor *bool                  `json:"submitter_author"`
	Distributable   *bool                  `json:"distributable"`
	Info            *string                `json:"info"`
	ChosenRoundID   *int                   `json:"chosen_round_id"`
}

// SubmissionService orchestrates entry creation, modification, deletion,
// confirmation and download access. It composes the round service, the WAD
// store and the confirmation workflow.
type SubmissionService struct {
	db            *gorm.DB
	rounds        *RoundService
	confirmations *ConfirmationService
	wads          *WadStore
	broadcaster   EventBroadcaster
	mailer        func(email, wadName, token string)
}

// NewSubmissionService instantiates the service.
func NewSubmissionService(db *gorm.DB, wads *WadStore, broadcaster EventBroadcaster) *SubmissionService {
	if db == nil {
		db = config.DB
	}
	if broadcaster == nil {
		broadcaster = NoopBroadcaster{}
	}
	return &SubmissionService{
		db:            db,
		rounds:        NewRoundService(db),
		confirmations: NewConfirmationService(db),
		wads:          wads,
		broadcaster:   broadcaster,
		mailer:        SendConfirmationMail,
	}
}

// AddEntry validates and persists a new entry in the active round. When a
// file is uploaded, its signature is checked before anything is persisted
// and ingestion happens inside the entry transaction, so a failed ingest
// rolls the entry row back. On success a confirmation token is issued, the
// confirmation mail is dispatched and a created event is broadcast.
func (s *SubmissionService) AddEntry(data SubmissionData, file *UploadedFile) (*models.Submission, error) {
	round, err := s.rounds.GetCurrentActiveRound()
	if err != nil {
		return nil, err
	}
	if !round.AcceptingEntries() {
		return nil, badRequest("round %q is paused and not accepting entries", round.Name)
	}

	entry, err := buildEntry(data, round.RoundID, file != nil)
	if err != nil {
		return nil, err
	}

	if file != nil {
		ok, err := s.wads.ValidateSignature(file.TempPath)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, badRequest("uploaded file is not an allowed WAD type")
		}
	}

	var token string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			if isDuplicateKey(err) {
				return conflict("an entry for %s already exists in round %q", entry.SubmitterEmail, round.Name)
			}
			return err
		}
		if file != nil {
			if err := s.wads.Ingest(entry.SubmissionID, file.TempPath, file.OriginalName); err != nil {
				return err
			}
			name := file.OriginalName
			entry.CustomWadFileName = &name
			if err := tx.Model(entry).Update("custom_wad_file_name", name).Error; err != nil {
				return err
			}
		}
		uid, err := s.confirmations.Issue(tx, entry.SubmissionID)
		if err != nil {
			return err
		}
		token = uid
		return nil
	})
	if err != nil {
		// the row is rolled back; make sure no ingested file outlives it
		if file != nil && entry.SubmissionID != 0 {
			if cleanupErr := s.wads.Delete(entry.SubmissionID); cleanupErr != nil {
				log.Printf("rollback left stored WAD %d behind: %v", entry.SubmissionID, cleanupErr)
				return nil, internal("submission rolled back but its stored WAD could not be removed", cleanupErr)
			}
		}
		var se *ServiceError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, internal("unable to persist submission", err)
	}

	go s.mailer(entry.SubmitterEmail, entry.WadName, token)
	s.broadcaster.PublishNewSubmission(entry.ToView())
	return entry, nil
}

// buildEntry sanitizes and validates the raw submission data.
func buildEntry(data SubmissionData, roundID int, hasFile bool) (*models.Submission, error) {
	entry := &models.Submission{
		SubmissionRoundID: roundID,
		WadName:           utils.SanitizeInput(data.WadName),
		WadLevel:          utils.SanitizeInput(data.WadLevel),
		WadEngine:         data.WadEngine,
		SubmitterEmail:    strings.TrimSpace(data.SubmitterEmail),
		SubmitterAuthor:   data.SubmitterAuthor,
		Distributable:     data.SubmitterAuthor && data.Distributable,
	}
	if entry.WadName == "" {
		return nil, badRequest("WAD name is required")
	}
	if entry.WadLevel == "" {
		return nil, badRequest("WAD level is required")
	}
	if !entry.WadEngine.Valid() {
		return nil, badRequest("unknown game engine")
	}
	if !utils.ValidateEmail(entry.SubmitterEmail) {
		return nil, badRequest("a valid submitter email is required")
	}
	if url := utils.SanitizeInput(data.WadURL); url != "" {
		entry.WadURL = &url
	}
	if entry.WadURL == nil && !hasFile {
		return nil, badRequest("either a WAD URL or a file must be uploaded")
	}
	if entry.WadURL != nil && hasFile {
		return nil, badRequest("provide a WAD URL or a file, not both")
	}
	if name := utils.SanitizeInput(data.SubmitterName); name != "" {
		entry.SubmitterName = &name
	}
	if info := utils.SanitizeInput(data.Info); info != "" {
		entry.Info = &info
	}
	actions, err := encodeActions(data.GzDoomActions, data.WadEngine)
	if err != nil {
		return nil, err
	}
	entry.GzDoomActions = actions
	return entry, nil
}

// encodeActions validates the action set and serialises it for storage.
// Actions only apply to GZDoom; for other engines they are dropped.
func encodeActions(actions []models.GzDoomAction, engine models.DoomEngine) (*string, error) {
	if len(actions) == 0 || engine != models.EngineGZDoom {
		return nil, nil
	}
	if len(actions) > models.MaxGzDoomActions {
		return nil, badRequest("at most %d GZDoom actions may be selected", models.MaxGzDoomActions)
	}
	parts := make([]string, 0, len(actions))
	seen := make(map[models.GzDoomAction]bool)
	for _, a := range actions {
		if !a.Valid() {
			return nil, badRequest("unknown GZDoom action")
		}
		if seen[a] {
			continue
		}
		seen[a] = true
		parts = append(parts, fmt.Sprintf("%d", int(a)))
	}
	encoded := strings.Join(parts, ",")
	return &encoded, nil
}

// GetEntry loads an entry by id.
func (s *SubmissionService) GetEntry(id int) (*models.Submission, error) {
	var entry models.Submission
	if err := s.db.First(&entry, "submission_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("no submission with ID %d", id)
		}
		return nil, internal("unable to load submission", err)
	}
	return &entry, nil
}

// ModifyEntry applies a partial update to an existing entry. Round
// membership and confirmation state are untouched; the content-source
// invariant must still hold afterwards.
func (s *SubmissionService) ModifyEntry(id int, update SubmissionUpdate) (*models.Submission, error) {
	entry, err := s.GetEntry(id)
	if err != nil {
		return nil, err
	}

	if update.WadName != nil {
		if v := utils.SanitizeInput(*update.WadName); v != "" {
			entry.WadName = v
		} else {
			return nil, badRequest("WAD name must not be empty")
		}
	}
	if update.WadLevel != nil {
		if v := utils.SanitizeInput(*update.WadLevel); v != "" {
			entry.WadLevel = v
		} else {
			return nil, badRequest("WAD level must not be empty")
		}
	}
	if update.WadEngine != nil {
		if !update.WadEngine.Valid() {
			return nil, badRequest("unknown game engine")
		}
		entry.WadEngine = *update.WadEngine
	}
	if update.WadURL != nil {
		if v := utils.SanitizeInput(*update.WadURL); v != "" {
			if entry.HasFile() {
				return nil, badRequest("provide a WAD URL or a file, not both")
			}
			entry.WadURL = &v
		} else {
			entry.WadURL = nil
		}
	}
	if entry.WadURL == nil && !entry.HasFile() {
		return nil, badRequest("either a WAD URL or a file must be present")
	}
	if update.SubmitterName != nil {
		if v := utils.SanitizeInput(*update.SubmitterName); v != "" {
			entry.SubmitterName = &v
		} else {
			entry.SubmitterName = nil
		}
	}
	if update.SubmitterAuthor != nil {
		entry.SubmitterAuthor = *update.SubmitterAuthor
	}
	if update.Distributable != nil {
		entry.Distributable = *update.Distributable
	}
	if !entry.SubmitterAuthor {
		entry.Distributable = false
	}
	if update.Info != nil {
		if v := utils.SanitizeInput(*update.Info); v != "" {
			entry.Info = &v
		} else {
			entry.Info = nil
		}
	}
	if update.ChosenRoundID != nil {
		entry.ChosenRoundID = update.ChosenRoundID
	}

	actionUpdate := update.GzDoomActions
	if actionUpdate == nil && update.WadEngine != nil {
		current := entry.ActionList()
		actionUpdate = &current
	}
	if actionUpdate != nil {
		encoded, err := encodeActions(*actionUpdate, entry.WadEngine)
		if err != nil {
			return nil, err
		}
		entry.GzDoomActions = encoded
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, internal("unable to update submission", err)
	}
	return entry, nil
}

// DeleteEntries removes the given entries, each with its pending
// confirmation and stored WAD file. Ids that match nothing are skipped;
// false is returned only when none matched. One deleted event carrying the
// removed id set is broadcast.
func (s *SubmissionService) DeleteEntries(ids []int) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	var existing []models.Submission
	if err := s.db.Where("submission_id IN ?", ids).Find(&existing).Error; err != nil {
		return false, internal("unable to load submissions", err)
	}
	if len(existing) == 0 {
		return false, nil
	}

	deleted := make([]int, 0, len(existing))
	for _, entry := range existing {
		deleted = append(deleted, entry.SubmissionID)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("submission_id IN ?", deleted).
			Delete(&models.PendingConfirmation{}).Error; err != nil {
			return err
		}
		return tx.Where("submission_id IN ?", deleted).
			Delete(&models.Submission{}).Error
	})
	if err != nil {
		return false, internal("unable to delete submissions", err)
	}

	for _, id := range deleted {
		if err := s.wads.Delete(id); err != nil {
			return true, internal("entry rows removed but WAD cleanup failed", err)
		}
	}

	s.broadcaster.PublishDeletedSubmissions(deleted)
	return true, nil
}

// ProcessConfirmation redeems a confirmation token, marking the owning
// entry valid.
func (s *SubmissionService) ProcessConfirmation(token string) error {
	_, err := s.confirmations.Redeem(token)
	return err
}

// ResolveDownload fetches an entry and its stored WAD for download and
// applies the access policy: the secure path is always allowed, the public
// path is denied for author entries marked non-distributable.
func (s *SubmissionService) ResolveDownload(roundID, entryID int, secure bool) (*models.Submission, *WadEntry, error) {
	entry, err := s.GetEntry(entryID)
	if err != nil {
		return nil, nil, err
	}
	if entry.SubmissionRoundID != roundID {
		return nil, nil, notFound("no WAD with ID %d in round %d", entryID, roundID)
	}
	wad, err := s.wads.Fetch(entryID)
	if err != nil {
		if entry.HasFile() && KindOf(err) == KindNotFound {
			// the entry references a stored file that no longer exists
			return nil, nil, internal(fmt.Sprintf("stored WAD for entry %d is missing", entryID), err)
		}
		return nil, nil, err
	}
	if !entry.HasFile() {
		return nil, nil, internal("entry references no file but one is stored", nil)
	}
	if !entry.Downloadable(secure) {
		return nil, nil, badRequest("this WAD is not shareable by the author's request")
	}
	return entry, wad, nil
}
