package campaignRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/campaign"
	"lms/middleware"
	validators "lms/validators/campaign"
)

// SetupCampaignRoutes sets up all learner-facing campaign routes
func SetupCampaignRoutes(app *fiber.App, pc *controllers.ProgressController, sc *controllers.StreakController) {
	campaignGroup := app.Group("/campaign")

	// Campaign listing and details
	campaignGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCampaigns)
	campaignGroup.Get("/:id", middleware.JWTMiddleware, validators.CampaignID(), controllers.GetCampaignDetails)

	// Enrollment and access tracking
	campaignGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CampaignID(), pc.Enroll)
	campaignGroup.Post("/:id/open", middleware.JWTMiddleware, validators.CampaignID(), pc.Open)
	campaignGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CampaignID(), pc.GetProgress)

	// Module progress events
	campaignGroup.Post("/:id/module/:module_id/video", middleware.JWTMiddleware, validators.ModuleEvent(), validators.VideoFinishedBody(), pc.VideoFinished)
	campaignGroup.Post("/:id/module/:module_id/question", middleware.JWTMiddleware, validators.ModuleEvent(), validators.QuestionAnsweredBody(), pc.QuestionAnswered)

	// Streaks
	userGroup := app.Group("/user")
	userGroup.Get("/streak", middleware.JWTMiddleware, sc.GetStreak)
}
