package services

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WadEntry is a stored custom WAD: its content plus the filename the
// submitter originally uploaded it under.
type WadEntry struct {
	Content  []byte
	Filename string
}

// WadStore owns on-disk placement of uploaded WAD files. Each entry gets its
// own namespace directory holding at most one file, so author-chosen
// filenames cannot collide and entry deletion is a single recursive remove.
// The store knows nothing about rounds or confirmation state.
type WadStore struct {
	basePath       string
	allowedHeaders []string
}

// NewWadStore creates a store rooted at basePath. allowedHeaders is the
// comma separated magic-byte allow-list (e.g. "IWAD,PWAD"); when empty,
// signature validation always passes.
func NewWadStore(basePath, allowedHeaders string) *WadStore {
	store := &WadStore{basePath: basePath}
	for _, h := range strings.Split(allowedHeaders, ",") {
		if h = strings.TrimSpace(h); h != "" {
			store.allowedHeaders = append(store.allowedHeaders, h)
		}
	}
	return store
}

// NewWadStoreFromEnv builds the store from WAD_PATH and ALLOWED_HEADERS.
func NewWadStoreFromEnv() *WadStore {
	basePath := os.Getenv("WAD_PATH")
	if basePath == "" {
		basePath = "./customWads"
	}
	return NewWadStore(basePath, os.Getenv("ALLOWED_HEADERS"))
}

func (w *WadStore) entryDir(entryID int) string {
	return filepath.Join(w.basePath, strconv.Itoa(entryID))
}

// ValidateSignature reads the first bytes of the uploaded file and compares
// them against the configured allow-list. The check is advisory: a false
// result is an input validation failure for the caller to reject, not a
// store error.
func (w *WadStore) ValidateSignature(tempPath string) (bool, error) {
	if len(w.allowedHeaders) == 0 {
		return true, nil
	}
	f, err := os.Open(tempPath)
	if err != nil {
		return false, ioError("unable to read uploaded file", err)
	}
	defer f.Close()

	header := make([]byte, 4)
	n, err := f.Read(header)
	if err != nil || n < len(header) {
		return false, nil
	}
	for _, allowed := range w.allowedHeaders {
		if string(header) == allowed {
			return true, nil
		}
	}
	return false, nil
}

// Ingest moves the uploaded temp file into the entry's namespace under its
// original filename. The rename is atomic on the same filesystem; when it
// cannot complete the caller must not assume partial content is visible.
func (w *WadStore) Ingest(entryID int, tempPath, originalName string) error {
	dir := w.entryDir(entryID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return ioError("unable to create WAD directory", err)
	}
	dest := filepath.Join(dir, filepath.Base(originalName))
	if err := os.Rename(tempPath, dest); err != nil {
		return ioError("unable to move uploaded WAD into place", err)
	}
	return nil
}

// Fetch returns the single file stored under the entry's namespace.
func (w *WadStore) Fetch(entryID int) (*WadEntry, error) {
	dir := w.entryDir(entryID)
	files, err := os.ReadDir(dir)
	if err != nil || len(files) == 0 {
		return nil, notFound("no WAD stored for entry %d", entryID)
	}
	name := files[0].Name()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, ioError("unable to read stored WAD", err)
	}
	return &WadEntry{Content: content, Filename: name}, nil
}

// Delete removes the entry's namespace recursively. Deleting a namespace
// that does not exist is not an error.
func (w *WadStore) Delete(entryID int) error {
	if err := os.RemoveAll(w.entryDir(entryID)); err != nil {
		return ioError("unable to delete stored WAD", err)
	}
	return nil
}
