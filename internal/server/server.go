package server

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/controllers"
	"github.com/i2p-business/i2p/internal/middlewares"
	"github.com/i2p-business/i2p/internal/version"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/fiber/v3/middleware/static"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

const serviceName = "i2p-business-advisor"

type HTTPServerDependencies struct {
	StaticDir string
	IndexFile string

	ChatController    *controllers.ChatController
	SessionController *controllers.SessionController

	// TokenIssuer is nil when session tokens are disabled
	TokenIssuer *auth.SessionTokenIssuer
}

func NewHTTPServer(ctx context.Context, deps HTTPServerDependencies) *fiber.App {
	router := fiber.New(fiber.Config{
		AppName:      serviceName,
		ErrorHandler: errorHandler,
	})

	router.Use(recoverer.New())
	router.Use(requestid.New(requestid.Config{
		Generator: func() string {
			return xid.New().String()
		},
	}))
	router.Use(cors.New())
	router.Use(logger.New(logger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${respHeader:X-Request-ID} | ${error}\n",
	}))

	router.Get("/health", func(c fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"service":   serviceName,
			"version":   version.GetVersion(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	router.Get("/version", func(c fiber.Ctx) error {
		return c.JSON(version.Get())
	})

	indexPath := deps.IndexFile
	if deps.IndexFile != "" {
		router.Get("/", func(c fiber.Ctx) error {
			return c.SendFile(indexPath)
		})
	}

	if deps.StaticDir != "" {
		router.Get("/static*", static.New(filepath.Clean(deps.StaticDir)))
	}

	router.Use(middlewares.SessionMiddleware(deps.TokenIssuer))

	router.Post("/chat", deps.ChatController.Chat)

	sessions := router.Group("/sessions")
	sessions.Post("/", deps.SessionController.CreateSession)

	specificSession := sessions.Group("/:sessionID", deps.SessionController.RequireSessionOwner)
	specificSession.Get("/", deps.SessionController.GetSession)
	specificSession.Delete("/", deps.SessionController.DeleteSession)
	specificSession.Get("/export", deps.SessionController.ExportSession)

	log.Debug().
		Str("static_dir", deps.StaticDir).
		Str("index_file", deps.IndexFile).
		Bool("session_tokens", deps.TokenIssuer != nil).
		Msg("HTTP routes registered")

	return router
}

// errorHandler renders every error as {"error": message}.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled request error")
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
