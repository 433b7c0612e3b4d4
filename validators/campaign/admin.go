package campaignValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
)

// CreateCampaign validates the campaign creation body
func CreateCampaign() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCampaign", reqData)
		return c.Next()
	}
}

// AddModule validates the module creation body and :id parameter
func AddModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		campaignID, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Campaign ID!", nil)
		}

		reqData := new(struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			VideoURL        string `json:"video_url"`
			DurationSeconds int    `json:"duration_seconds"`
			QuestionTarget  *int   `json:"question_target"`
			OrderIndex      int    `json:"order_index"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		if strings.TrimSpace(reqData.VideoURL) == "" {
			errors["video_url"] = "Video URL is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("campaignID", campaignID)
		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

// EnrollmentOverride validates the :id and :user_id parameters for the
// administrative completion override
func EnrollmentOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		campaignID, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Campaign ID!", nil)
		}
		userID, ok := parseUintParam(c, "user_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		c.Locals("campaignID", campaignID)
		c.Locals("targetUserID", userID)
		return c.Next()
	}
}
