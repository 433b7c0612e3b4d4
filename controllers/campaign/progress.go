package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"lms/middleware"
	"lms/progress"
	"lms/store"
)

// ProgressController exposes the learner-facing progress operations. All
// mutations go through the progress service's transactional coordinator.
type ProgressController struct {
	Svc *progress.Service
}

func NewProgressController(svc *progress.Service) *ProgressController {
	return &ProgressController{Svc: svc}
}

func respondStoreError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Record not found!", nil)
	case errors.Is(err, store.ErrConflict):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Record was modified concurrently, please retry!", nil)
	case errors.Is(err, store.ErrInvalidInput):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid input!", nil)
	default:
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

// Enroll enrolls the authenticated user in a campaign
func (pc *ProgressController) Enroll(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)

	enrollment, err := pc.Svc.Enroll(campaignID, userID)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in campaign successfully!", enrollment)
}

// Open records one campaign open (access count)
func (pc *ProgressController) Open(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)

	enrollment, err := pc.Svc.RecordAccess(campaignID, userID)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Campaign opened!", enrollment)
}

// GetProgress returns the user's enrollment snapshot for a campaign
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)

	enrollment, err := pc.Svc.Get(campaignID, userID)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", enrollment)
}

// VideoFinished records a video-finished event for one module
func (pc *ProgressController) VideoFinished(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)
	moduleID := c.Locals("moduleID").(uint)
	ev := c.Locals("videoEvent").(*progress.VideoFinishedEvent)

	enrollment, err := pc.Svc.RecordVideoFinished(campaignID, userID, strconv.FormatUint(uint64(moduleID), 10), *ev)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video progress recorded!", enrollment)
}

// QuestionAnswered records a question-answered event for one module
func (pc *ProgressController) QuestionAnswered(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	campaignID := c.Locals("campaignID").(uint)
	moduleID := c.Locals("moduleID").(uint)
	ev := c.Locals("questionEvent").(*progress.QuestionAnsweredEvent)

	enrollment, err := pc.Svc.RecordQuestionAnswered(campaignID, userID, strconv.FormatUint(uint64(moduleID), 10), *ev)
	if err != nil {
		return respondStoreError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Answer recorded!", enrollment)
}
