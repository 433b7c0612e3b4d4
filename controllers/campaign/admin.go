package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	campaignModels "lms/models/campaign"
	"lms/progress"
)

// AdminController owns campaign authoring and administrative overrides.
type AdminController struct {
	Svc *progress.Service
}

func NewAdminController(svc *progress.Service) *AdminController {
	return &AdminController{Svc: svc}
}

// CreateCampaign creates a campaign for the admin's organization
func (ac *AdminController) CreateCampaign(c *fiber.Ctx) error {
	orgID, ok := c.Locals("orgId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	reqData := c.Locals("validatedCampaign").(*struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	})

	cmp := campaignModels.Campaign{
		OrganizationID: orgID,
		Title:          reqData.Title,
		Description:    reqData.Description,
		Status:         "ACTIVE",
		IsPublished:    true,
	}
	if err := database.Database.Db.Create(&cmp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create campaign!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Campaign created successfully!", cmp)
}

// AddModule adds a module to a campaign. Enrollments that already completed
// against the smaller module total get their total refreshed, which demotes
// them back to in-progress.
func (ac *AdminController) AddModule(c *fiber.Ctx) error {
	campaignID := c.Locals("campaignID").(uint)
	reqData := c.Locals("validatedModule").(*struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoURL        string `json:"video_url"`
		DurationSeconds int    `json:"duration_seconds"`
		QuestionTarget  *int   `json:"question_target"`
		OrderIndex      int    `json:"order_index"`
	})

	var cmp campaignModels.Campaign
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", campaignID, false).First(&cmp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Campaign not found!", nil)
	}

	target := campaignModels.DefaultQuestionTarget
	if reqData.QuestionTarget != nil {
		target = *reqData.QuestionTarget
		if target < 0 {
			target = 0
		}
	}

	module := campaignModels.CampaignModule{
		CampaignID:      campaignID,
		Title:           reqData.Title,
		Description:     reqData.Description,
		VideoURL:        reqData.VideoURL,
		DurationSeconds: reqData.DurationSeconds,
		QuestionTarget:  target,
		OrderIndex:      reqData.OrderIndex,
		IsPublished:     true,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	// refresh cached module totals on existing enrollments
	var enrollments []campaignModels.Enrollment
	database.Database.Db.Where("campaign_id = ? AND is_deleted = ?", campaignID, false).Find(&enrollments)
	for _, e := range enrollments {
		if _, err := ac.Svc.RefreshModuleTotal(e.CampaignID, e.UserID); err != nil {
			log.Printf("[ADMIN] failed to refresh module total for enrollment %d: %v", e.ID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module created successfully!", module)
}

// MarkEnrollmentCompleted is the administrative completion override
func (ac *AdminController) MarkEnrollmentCompleted(c *fiber.Ctx) error {
	campaignID := c.Locals("campaignID").(uint)
	targetUserID := c.Locals("targetUserID").(uint)

	enrollment, err := ac.Svc.MarkEnrollmentCompleted(campaignID, targetUserID)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment marked completed!", enrollment)
}

// ListEnrollments lists all enrollments for a campaign
func (ac *AdminController) ListEnrollments(c *fiber.Ctx) error {
	campaignID := c.Locals("campaignID").(uint)

	var enrollments []campaignModels.Enrollment
	if err := database.Database.Db.Where("campaign_id = ? AND is_deleted = ?", campaignID, false).
		Order("created_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}
