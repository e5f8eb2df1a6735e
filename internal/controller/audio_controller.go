package controller

import (
	"errors"
	"net/url"

	"audio-eval-be/internal/pkg/serverutils"
	"audio-eval-be/internal/service"
	"audio-eval-be/pkg/source"

	"github.com/gofiber/fiber/v2"
)

type IAudioController interface {
	RegisterRoutes(r fiber.Router)
	Stream(ctx *fiber.Ctx) error
}

type audioController struct {
	service service.IAudioService
}

func NewAudioController(service service.IAudioService) IAudioController {
	return &audioController{service: service}
}

func (c *audioController) RegisterRoutes(r fiber.Router) {
	r.Get("/audio/:filename", c.Stream)
}

func (c *audioController) Stream(ctx *fiber.Ctx) error {
	filename, err := url.PathUnescape(ctx.Params("filename"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
	}

	body, contentType, err := c.service.Open(ctx.UserContext(), filename)
	if errors.Is(err, source.ErrFileNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Audio file not found"))
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Audio provider unavailable")
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=300")
	// fasthttp closes body once streamed
	return ctx.SendStream(body)
}
