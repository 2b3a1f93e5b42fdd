package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProcessConfirmation redeems a confirmation token, marking the owning
// submission as valid. A token can only be redeemed once.
func ProcessConfirmation(c *gin.Context) {
	uid := c.Query("uid")
	if uid == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid is required"})
		return
	}

	if err := submissionService().ProcessConfirmation(uid); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Submission confirmed"})
}
