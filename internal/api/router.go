package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/ponto/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/ponto/internal/ws"
)

// snapshots arrive base64-encoded inside a form field
const maxBodySize = 16 * 1024 * 1024

// Service is everything the routes need; *service.AttendanceService implements it.
type Service interface {
	handler.AttendanceService
	handler.GalleryService
	handler.SummaryService
}

type Dependencies struct {
	Service         Service
	IndexPage       []byte
	Version         string
	ReadinessChecks map[string]handler.ReadinessCheck
	// Hub enables the /ws live feed when set.
	Hub *ws.Hub
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Ponto",
		BodyLimit:    maxBodySize,
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	healthHandler := handler.NewHealthHandler(r.deps.Version, r.deps.ReadinessChecks)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Landing page
	pageHandler := handler.NewPageHandler(r.deps.IndexPage)
	r.app.Get("/", pageHandler.Index)

	// Kiosk endpoints
	attendanceHandler := handler.NewAttendanceHandler(r.deps.Service, r.logger)
	r.app.Post("/upload", attendanceHandler.Upload)
	r.app.Post("/register", attendanceHandler.Register)

	// Gallery
	galleryHandler := handler.NewGalleryHandler(r.deps.Service)
	r.app.Get("/faces/:filename", galleryHandler.FaceImage)
	r.app.Get("/gallery", galleryHandler.List)

	// Summary
	summaryHandler := handler.NewSummaryHandler(r.deps.Service)
	r.app.Get("/summary", summaryHandler.Get)
	r.app.Post("/summary/rebuild", summaryHandler.Rebuild)

	// Live feed
	if r.deps.Hub != nil {
		r.app.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
