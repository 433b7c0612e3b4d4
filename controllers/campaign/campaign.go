package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	campaignModels "lms/models/campaign"
)

// GetAllCampaigns lists published campaigns for the user's organization
func GetAllCampaigns(c *fiber.Ctx) error {
	orgID, ok := c.Locals("orgId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var campaigns []campaignModels.Campaign
	if err := database.Database.Db.
		Where("organization_id = ? AND is_deleted = ? AND is_published = ?", orgID, false, true).
		Order("created_at desc").Find(&campaigns).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch campaigns!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Campaigns fetched successfully!", campaigns)
}

// GetCampaignDetails gets campaign details with modules
func GetCampaignDetails(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)

	var cmp campaignModels.Campaign
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", campaignID, false, true).First(&cmp).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Campaign not found!", nil)
	}

	var modules []campaignModels.CampaignModule
	database.Database.Db.Where("campaign_id = ? AND is_deleted = ?", campaignID, false).Order("order_index asc").Find(&modules)

	// Check if user is enrolled
	var enrollment campaignModels.Enrollment
	isEnrolled := database.Database.Db.Where("user_id = ? AND campaign_id = ? AND is_deleted = ?", userID, campaignID, false).First(&enrollment).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Campaign details fetched successfully!", fiber.Map{
		"campaign":    cmp,
		"modules":     modules,
		"is_enrolled": isEnrolled,
		"enrollment":  enrollment,
	})
}
