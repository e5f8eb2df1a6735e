package controller

import (
	"encoding/json"

	"audio-eval-be/internal/pkg/serverutils"
	"audio-eval-be/internal/repository/feedback"
	"audio-eval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
}

type feedbackController struct {
	service service.IFeedbackService
}

func NewFeedbackController(service service.IFeedbackService) IFeedbackController {
	return &feedbackController{service: service}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	r.Post("/save-feedback", c.Save)
}

func (c *feedbackController) Save(ctx *fiber.Ctx) error {
	var payload map[string]interface{}
	if err := json.Unmarshal(ctx.Body(), &payload); err != nil || payload == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.StatusResponse("error", feedback.ErrInvalidPayload.Error()))
	}

	if err := c.service.Save(ctx.UserContext(), serverutils.SessionID(ctx), payload); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.StatusResponse("error", err.Error()))
	}

	return ctx.JSON(serverutils.StatusResponse("success", "Feedback saved"))
}
