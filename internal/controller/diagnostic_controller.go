package controller

import (
	"audio-eval-be/internal/pkg/serverutils"
	"audio-eval-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDiagnosticController interface {
	RegisterRoutes(r fiber.Router)
	Test(ctx *fiber.Ctx) error
}

type diagnosticController struct {
	service service.IDiagnosticService
}

func NewDiagnosticController(service service.IDiagnosticService) IDiagnosticController {
	return &diagnosticController{service: service}
}

func (c *diagnosticController) RegisterRoutes(r fiber.Router) {
	r.Get("/test", c.Test)
}

// Test reports provider, form and session health for operators.
func (c *diagnosticController) Test(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Snapshot(ctx.UserContext(), serverutils.SessionID(ctx)))
}
