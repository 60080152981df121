package server

import (
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"ai-chat-be/internal/bootstrap"
	"ai-chat-be/internal/config"
	"ai-chat-be/internal/pkg/serverutils"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(otelfiber.Middleware())
	app.Use(serverutils.ErrorHandlerMiddleware())

	registerRoutes(app, container)

	return &Server{app: app, cfg: cfg}
}

func registerRoutes(app *fiber.App, container *bootstrap.Container) {
	api := app.Group("/api")
	container.HealthController.RegisterRoutes(api)
	container.WsController.RegisterRoutes(api)
	container.AuthController.RegisterRoutes(api)
	container.ChatController.RegisterRoutes(api)
	container.DocumentController.RegisterRoutes(api)
	container.PreferenceController.RegisterRoutes(api)
	container.AdminController.RegisterRoutes(api)
}

func (s *Server) Run() error {
	return s.app.Listen(":" + s.cfg.App.Port)
}
