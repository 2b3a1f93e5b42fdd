package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"wad-submission-api/config"
	"wad-submission-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func submissionService() *services.SubmissionService {
	var broadcaster services.EventBroadcaster = services.NoopBroadcaster{}
	if config.Redis != nil {
		broadcaster = services.NewRedisBroadcaster(config.Redis)
	}
	return services.NewSubmissionService(config.DB, services.NewWadStoreFromEnv(), broadcaster)
}

// writeServiceError maps a classified service failure onto an HTTP status.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindBadRequest:
		status = http.StatusBadRequest
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// allowedExtension applies the ALLOWED_FILES extension filter. An unset
// list allows everything.
func allowedExtension(filename string) (bool, string) {
	allowed := os.Getenv("ALLOWED_FILES")
	if allowed == "" {
		return true, ""
	}
	parts := strings.Split(filename, ".")
	ext := strings.ToLower(parts[len(parts)-1])
	for _, a := range strings.Split(allowed, ",") {
		if ext == strings.ToLower(strings.TrimSpace(a)) {
			return true, ""
		}
	}
	return false, fmt.Sprintf("Invalid file: got %s, expected: %s", ext, allowed)
}

// AddEntry accepts a new submission for the active round, optionally with
// an uploaded WAD file
func AddEntry(c *gin.Context) {
	var data services.SubmissionData
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var uploaded *services.UploadedFile
	if file, err := c.FormFile("file"); err == nil && file != nil {
		if ok, msg := allowedExtension(file.Filename); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		// spool the upload next to the WAD store so ingestion is a rename
		wadPath := os.Getenv("WAD_PATH")
		if wadPath == "" {
			wadPath = "./customWads"
		}
		if err := os.MkdirAll(wadPath, os.ModePerm); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare upload directory"})
			return
		}
		tempPath := fmt.Sprintf("%s/upload-%s", wadPath, uuid.NewString())
		if err := c.SaveUploadedFile(file, tempPath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save uploaded file"})
			return
		}
		defer os.Remove(tempPath)
		uploaded = &services.UploadedFile{TempPath: tempPath, OriginalName: file.Filename}
	}

	entry, err := submissionService().AddEntry(data, uploaded)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ModifyEntry applies a partial update to an existing submission. Unknown
// fields in the payload are rejected.
func ModifyEntry(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var update services.SubmissionUpdate
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := submissionService().ModifyEntry(id, update)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// GetSubmission returns a single submission
func GetSubmission(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	entry, err := submissionService().GetEntry(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteEntries removes the submissions with the given ids, along with
// their stored WADs and pending confirmations
func DeleteEntries(c *gin.Context) {
	var ids []int
	if err := c.ShouldBindJSON(&ids); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	removed, err := submissionService().DeleteEntries(ids)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No entry with IDs %v found", ids)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entries have been deleted"})
}

// DownloadWad serves a stored WAD over the public path, honouring the
// author-distribution restriction
func DownloadWad(c *gin.Context) {
	serveWad(c, false)
}

// DownloadWadSecure serves a stored WAD over the privileged path
func DownloadWadSecure(c *gin.Context) {
	serveWad(c, true)
}

func serveWad(c *gin.Context, secure bool) {
	roundID, err := strconv.Atoi(c.Param("roundId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round ID"})
		return
	}
	entryID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	entry, wad, err := submissionService().ResolveDownload(roundID, entryID, secure)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var filename string
	if entry.CustomWadFileName != nil {
		filename = *entry.CustomWadFileName
	} else {
		filename = wad.Filename
	}
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", wad.Content)
}
