package campaignRoutes

import (
	"github.com/gofiber/fiber/v2"

	controllers "lms/controllers/campaign"
	"lms/middleware"
	validators "lms/validators/campaign"
)

// SetupAdminRoutes sets up campaign authoring and override routes
func SetupAdminRoutes(app *fiber.App, ac *controllers.AdminController) {
	adminGroup := app.Group("/admin/campaign", middleware.JWTMiddleware, middleware.AdminOnly)

	adminGroup.Post("/", validators.CreateCampaign(), ac.CreateCampaign)
	adminGroup.Post("/:id/module", validators.AddModule(), ac.AddModule)
	adminGroup.Get("/:id/enrollments", validators.CampaignID(), ac.ListEnrollments)
	adminGroup.Post("/:id/enrollment/:user_id/complete", validators.EnrollmentOverride(), ac.MarkEnrollmentCompleted)
}
