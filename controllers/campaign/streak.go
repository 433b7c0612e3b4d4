package controllers

import (
	"github.com/gofiber/fiber/v2"

	"lms/database"
	"lms/middleware"
	campaignModels "lms/models/campaign"
	"lms/streak"
)

// StreakController exposes the user's daily activity streak.
type StreakController struct {
	Engine *streak.Engine
}

func NewStreakController(engine *streak.Engine) *StreakController {
	return &StreakController{Engine: engine}
}

// GetStreak returns the active streak, streak history and milestone events
func (sc *StreakController) GetStreak(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	active, history, err := sc.Engine.Overview(userID)
	if err != nil {
		return respondStoreError(c, err)
	}

	var milestones []campaignModels.StreakMilestone
	database.Database.Db.Where("user_id = ?", userID).Order("achieved_on asc").Find(&milestones)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Streak fetched successfully!", fiber.Map{
		"active_streak": active,
		"history":       history,
		"milestones":    milestones,
	})
}
