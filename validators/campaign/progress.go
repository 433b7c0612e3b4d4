package campaignValidator

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/progress"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Params(name))
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CampaignID validates the :id path parameter
func CampaignID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Campaign ID!", nil)
		}
		c.Locals("campaignID", id)
		return c.Next()
	}
}

// ModuleEvent validates the :id and :module_id path parameters
func ModuleEvent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		campaignID, ok := parseUintParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Campaign ID!", nil)
		}
		moduleID, ok := parseUintParam(c, "module_id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		c.Locals("campaignID", campaignID)
		c.Locals("moduleID", moduleID)
		return c.Next()
	}
}

// VideoFinishedBody validates the video-finished event body
func VideoFinishedBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ev := new(progress.VideoFinishedEvent)
		if err := c.BodyParser(ev); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if ev.WatchedSeconds != nil && *ev.WatchedSeconds < 0 {
			errors["watched_seconds"] = "Watched seconds must not be negative!"
		}
		if ev.TotalSeconds != nil && *ev.TotalSeconds <= 0 {
			errors["total_seconds"] = "Total seconds must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("videoEvent", ev)
		return c.Next()
	}
}

// QuestionAnsweredBody validates the question-answered event body
func QuestionAnsweredBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ev := new(progress.QuestionAnsweredEvent)
		if err := c.BodyParser(ev); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		// default one question per event
		if ev.Count == 0 {
			ev.Count = 1
		}

		errors := make(map[string]string)
		if ev.Count < 0 {
			errors["count"] = "Count must be greater than 0!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("questionEvent", ev)
		return c.Next()
	}
}
