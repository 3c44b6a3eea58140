package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/storefront/pkg/asyncx"
	"github.com/Abraxas-365/storefront/pkg/config"
	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	logx.Info("🚀 Starting Storefront API Server...")

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Dependency container
	container := NewContainer(cfg)
	defer container.Cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	container.StartBackgroundServices(ctx)

	// 3. Fiber app
	app := fiber.New(fiber.Config{
		AppName:               cfg.Server.AppName,
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             cfg.Server.BodyLimit,
		IdleTimeout:           120 * time.Second,
	})

	// 4. Global middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:     "X-Request-ID",
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		AllowCredentials: cfg.Server.CORSOrigins != "*",
		ExposeHeaders:    "X-Request-ID",
	}))

	app.Use(requestLogger())

	// 5. Health
	app.Get("/health", healthCheckHandler(container))

	// 6. Routes: /auth/*, /user/*
	container.IAM.RegisterRoutes(app)
	logx.Info("✓ IAM routes registered")

	// 7. 404
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Route not found")
	})

	// 8. Serve
	startServer(app, cfg.Server.Port, cancel)
}

const requestIDKey = "requestid"

// requestLogger puts request-scoped fields on the user context and writes one
// access log line per request.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		c.SetUserContext(logx.ContextWithFields(c.UserContext(), logx.Fields{
			"request_id": c.Locals(requestIDKey),
			"ip":         c.IP(),
		}))

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		entry := logx.WithContext(c.UserContext()).WithFields(logx.Fields{
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		})

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
		return nil
	}
}

// globalErrorHandler renders every error in the errx shape. Server-side
// failures are logged with their cause; the client only sees a generic
// message.
func globalErrorHandler(c *fiber.Ctx, err error) error {
	if resp := errx.ResponseFor(err); resp.StatusCode >= fiber.StatusInternalServerError {
		logx.WithContext(c.UserContext()).
			WithError(err).
			WithFields(logx.Fields{
				"path":       c.Path(),
				"method":     c.Method(),
				"user_agent": c.Get("User-Agent"),
			}).
			Error("Request error")
	}
	return errx.WriteFiber(c, err)
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		results := asyncx.AllSettled(c.UserContext(),
			func(ctx context.Context) (string, error) {
				return "db", container.DB.PingContext(ctx)
			},
			func(ctx context.Context) (string, error) {
				return "redis", container.Redis.Ping(ctx).Err()
			},
		)

		health := fiber.Map{
			"status":  "healthy",
			"service": container.Config.Server.AppName,
			"version": container.Config.Server.Version,
		}
		for _, r := range results {
			if r.OK() {
				health[r.Value] = "healthy"
				continue
			}
			health[r.Value] = "unhealthy"
			health["status"] = "degraded"
			if container.Config.Server.Debug {
				health[r.Value+"_error"] = r.Err.Error()
			}
		}

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func startServer(app *fiber.App, port string, stopBackground context.CancelFunc) {
	go func() {
		logx.Infof("🚀 Server listening on port %s", port)
		logx.Infof("💚 Health Check: http://localhost:%s/health", port)

		if err := app.Listen(":" + port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	gracefulShutdown(app, stopBackground)
}

func gracefulShutdown(app *fiber.App, stopBackground context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logx.Infof("🛑 Received signal: %v", sig)
	logx.Info("Shutting down gracefully...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}
	stopBackground()

	logx.Info("✅ Server exited successfully")
}
