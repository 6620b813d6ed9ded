package handlers

import (
	"time"

	"ecobloom/internal/middleware"
	"ecobloom/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Deps are the services and settings the HTTP layer is built from.
type Deps struct {
	Auth       *services.AuthService
	Categories *services.CategoryService
	Plants     *services.PlantService
	Orders     *services.OrderService
	Contacts   *services.ContactService

	Cookie      CookieConfig
	FrontendURL string
	// RateLimiter throttles the routes that send mail; nil disables it.
	RateLimiter *middleware.RateLimiter
	// OTPAttempts caps OTP checks per client IP within OTPWindow; zero disables it.
	OTPAttempts int
	OTPWindow   time.Duration
	// BodyLimit in bytes; zero keeps fiber's default.
	BodyLimit int
	AccessLog bool
	Log       *zap.SugaredLogger
}

// NewApp builds the fiber application with every route under /api.
func NewApp(d Deps) *fiber.App {
	cfg := fiber.Config{
		AppName:      "EcoBloom API",
		ErrorHandler: ErrorHandler(d.Log),
	}
	if d.BodyLimit > 0 {
		cfg.BodyLimit = d.BodyLimit
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	if d.AccessLog {
		app.Use(logger.New())
	}
	if d.FrontendURL != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     d.FrontendURL,
			AllowCredentials: true,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		}))
	}

	api := app.Group("/api")
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "service": "EcoBloom API"})
	})

	auth := middleware.AuthRequired(d.Auth, d.Cookie.Name)
	admin := middleware.AdminOnly()
	limit, attempts := passThrough, passThrough
	if d.RateLimiter != nil {
		limit = d.RateLimiter.Limit()
	}
	if d.OTPAttempts > 0 {
		attempts = middleware.AttemptLimit(d.OTPAttempts, d.OTPWindow)
	}

	NewUserHandler(d.Auth, d.Cookie).RegisterRoutes(api, auth, limit, attempts)
	NewCategoryHandler(d.Categories).RegisterRoutes(api, auth, admin)
	NewPlantHandler(d.Plants).RegisterRoutes(api, auth, admin)
	NewOrderHandler(d.Orders).RegisterRoutes(api, auth, admin)
	NewContactHandler(d.Contacts).RegisterRoutes(api, auth, admin)

	return app
}

func passThrough(c *fiber.Ctx) error { return c.Next() }
