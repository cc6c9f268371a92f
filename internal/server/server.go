// Package server assembles the Fiber application.
package server

import (
	"errors"
	"log"
	"time"

	"productcrud/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Options carries the pieces the application is built from.
type Options struct {
	ProductHandler *handlers.ProductHandler
	// DB is pinged by the health check. It is nil for the in-memory store.
	DB            *gorm.DB
	EventsEnabled bool
	// DisableRequestLog turns off the per-request logger middleware.
	DisableRequestLog bool
}

// NewApp creates the Fiber app with middleware, health check and product routes.
func NewApp(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}

	app.Get("/health", healthHandler(opts))

	api := app.Group("/api")
	opts.ProductHandler.RegisterRoutes(api)

	return app
}

// errorHandler logs unhandled errors and answers without internal details.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	rid, _ := c.Locals("requestid").(string)
	log.Printf("Request %s %s %s failed with %d: %v", rid, c.Method(), c.Path(), code, err)

	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

func healthHandler(opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := fiber.StatusOK
		database := "memory"
		if opts.DB != nil {
			database = "connected"
			if err := ping(opts.DB); err != nil {
				log.Printf("Health check database ping failed: %v", err)
				database = "unreachable"
				status = fiber.StatusServiceUnavailable
			}
		}

		events := "disabled"
		if opts.EventsEnabled {
			events = "enabled"
		}

		healthy := "healthy"
		if status != fiber.StatusOK {
			healthy = "unhealthy"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   healthy,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
			"events":   events,
		})
	}
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
