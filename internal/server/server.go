package server

import (
	"audio-eval-be/internal/bootstrap"
	"audio-eval-be/internal/config"
	"audio-eval-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024, // 1MB of feedback is plenty
		ErrorHandler: serverutils.NewErrorHandler(container.Logger),
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: cfg.App.CorsAllowedOrigins != "*",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(container.Registry, promhttp.HandlerOpts{})))

	// Static audio for the local provider
	if container.StaticDir != "" {
		app.Static("/static", container.StaticDir, fiber.Static{ByteRange: true})
	}

	app.Use(serverutils.SessionMiddleware())

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.container.Logger.Info("Server", "Listening", map[string]interface{}{
		"addr":     "http://localhost:" + s.cfg.App.Port,
		"provider": s.container.Source.Name(),
	})
	return s.app.Listen(":" + s.cfg.App.Port)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	c.PlaylistController.RegisterRoutes(app)
	c.FeedbackController.RegisterRoutes(app)
	c.AudioController.RegisterRoutes(app)
	c.DiagnosticController.RegisterRoutes(app)
}
