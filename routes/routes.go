package routes

import (
	"wad-submission-api/controllers"
	"wad-submission-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/login", controllers.Login)

			// Submissions
			public.POST("/submission/addEntry", controllers.AddEntry)
			public.POST("/submission/modifyEntry/:id", controllers.ModifyEntry)
			public.GET("/submission/getSubmission/:id", controllers.GetSubmission)
			public.GET("/submission/downloadWad/:roundId/:id", controllers.DownloadWad)

			// E-mail confirmation redemption
			public.POST("/submissionConfirmation/processSubmission", controllers.ProcessConfirmation)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "WAD Submission API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Round management
			rounds := protected.Group("/submissionRound")
			{
				rounds.POST("/newRound", controllers.NewRound)
				rounds.POST("/pauseRound", controllers.PauseRound)
				rounds.GET("/currentActiveRound", controllers.CurrentActiveRound)
				rounds.GET("/getAllRounds", controllers.GetAllRounds)
			}

			// Privileged submission operations
			protected.DELETE("/submission/deleteEntries", controllers.DeleteEntries)
			protected.GET("/submission/downloadWadSecure/:roundId/:id", controllers.DownloadWadSecure)
		}
	}
}
