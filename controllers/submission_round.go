package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"wad-submission-api/config"
	"wad-submission-api/services"

	"github.com/gin-gonic/gin"
)

func roundService() *services.RoundService {
	return services.NewRoundService(config.DB)
}

// NewRound creates a submission round and makes it the active one
func NewRound(c *gin.Context) {
	name := c.Query("name")
	round, err := roundService().NewRound(name)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, round)
}

// PauseRound pauses or resumes the currently active round
func PauseRound(c *gin.Context) {
	pause, err := strconv.ParseBool(c.DefaultQuery("pause", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pause value"})
		return
	}

	if err := roundService().PauseRound(pause); err != nil {
		writeServiceError(c, err)
		return
	}

	verb := "Paused"
	if !pause {
		verb = "Resumed"
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Round has been %s", verb)})
}

// CurrentActiveRound returns the single active round
func CurrentActiveRound(c *gin.Context) {
	round, err := roundService().GetCurrentActiveRound()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

// GetAllRounds lists rounds, optionally including inactive ones
func GetAllRounds(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("includeInactive", "true"))
	rounds, err := roundService().GetAllRounds(includeInactive)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rounds)
}
