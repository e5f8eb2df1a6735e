package controller

import (
	"errors"
	"net/url"

	"audio-eval-be/internal/dto"
	"audio-eval-be/internal/pkg/serverutils"
	"audio-eval-be/internal/service"
	"audio-eval-be/internal/view"
	"audio-eval-be/pkg/playlist"

	"github.com/gofiber/fiber/v2"
)

type IPlaylistController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	NextAudio(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Metadata(ctx *fiber.Ctx) error
}

type playlistController struct {
	service service.IPlaylistService
}

func NewPlaylistController(service service.IPlaylistService) IPlaylistController {
	return &playlistController{service: service}
}

func (c *playlistController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Index)
	r.Get("/next-audio", c.NextAudio)
	r.Get("/progress", c.Progress)
	r.Post("/reset-session", c.Reset)
	r.Get("/get-metadata/:filename", c.Metadata)
}

func (c *playlistController) Index(ctx *fiber.Ctx) error {
	page, err := c.service.Page(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return view.RenderIndex(ctx, page)
}

func (c *playlistController) NextAudio(ctx *fiber.Ctx) error {
	res, err := c.service.Next(ctx.UserContext(), serverutils.SessionID(ctx))
	if errors.Is(err, playlist.ErrNoFiles) {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "No audio files found"))
	}
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *playlistController) Progress(ctx *fiber.Ctx) error {
	res, err := c.service.Progress(ctx.UserContext(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *playlistController) Reset(ctx *fiber.Ctx) error {
	if err := c.service.Reset(ctx.UserContext(), serverutils.SessionID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.StatusResponse("success", "Session reset"))
}

func (c *playlistController) Metadata(ctx *fiber.Ctx) error {
	filename, err := url.PathUnescape(ctx.Params("filename"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
	}

	req := dto.MetadataRequest{Filename: filename}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	return ctx.JSON(c.service.Metadata(ctx.UserContext(), req.Filename))
}
