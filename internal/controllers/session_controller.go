package controllers

import (
	"context"
	"time"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/middlewares"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
)

const maxSessionIDLength = 128

type SessionService interface {
	Session(ctx context.Context, sessionID string) (types.Session, error)
	ResetSession(ctx context.Context, sessionID string) error
}

type SessionController struct {
	sessions SessionService
	tokens   *auth.SessionTokenIssuer
}

type SessionControllerDependencies struct {
	Sessions SessionService

	// Tokens is nil when session tokens are disabled
	Tokens *auth.SessionTokenIssuer
}

func NewSessionController(deps SessionControllerDependencies) *SessionController {
	return &SessionController{
		sessions: deps.Sessions,
		tokens:   deps.Tokens,
	}
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token,omitempty"`
}

type SessionStatusResponse struct {
	SessionID    string    `json:"session_id"`
	LastTask     string    `json:"last_task"`
	HasPrompt    bool      `json:"has_prompt"`
	OutputLength int       `json:"output_length"`
	CanContinue  bool      `json:"can_continue"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateSession allocates a fresh session ID and, when tokens are enabled,
// a bearer token bound to it.
func (c *SessionController) CreateSession(ctx fiber.Ctx) error {
	resp := CreateSessionResponse{
		SessionID: uuid.NewString(),
	}

	if c.tokens != nil {
		token, err := c.tokens.Issue(resp.SessionID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to issue session token")
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to issue session token")
		}
		resp.Token = token
	}

	return ctx.Status(fiber.StatusCreated).JSON(resp)
}

func (c *SessionController) GetSession(ctx fiber.Ctx) error {
	sessionID := ctx.Params("sessionID")

	session, err := c.sessions.Session(ctx.RequestCtx(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}

	return ctx.JSON(SessionStatusResponse{
		SessionID:    sessionID,
		LastTask:     session.LastTask,
		HasPrompt:    session.LastPrompt != "",
		OutputLength: len([]rune(session.LastOutput)),
		CanContinue:  session.CanContinue(),
		UpdatedAt:    session.UpdatedAt,
	})
}

func (c *SessionController) DeleteSession(ctx fiber.Ctx) error {
	sessionID := ctx.Params("sessionID")

	if err := c.sessions.ResetSession(ctx.RequestCtx(), sessionID); err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to delete session")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete session")
	}

	return ctx.JSON(fiber.Map{"ok": true})
}

// ExportSession downloads everything generated in the session as markdown.
func (c *SessionController) ExportSession(ctx fiber.Ctx) error {
	sessionID := ctx.Params("sessionID")

	session, err := c.sessions.Session(ctx.RequestCtx(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Failed to load session")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load session")
	}

	if session.LastOutput == "" {
		return fiber.NewError(fiber.StatusNotFound, "Nothing to export for this session")
	}

	ctx.Attachment(ExportFileName(session.LastTask, sessionID))
	ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")

	return ctx.SendString(session.LastOutput + "\n")
}

// ExportFileName builds a download name such as "pitch-deck-<session>.md".
func ExportFileName(lastTask, sessionID string) string {
	name := slug.Make(lastTask)
	if name == "" {
		name = "advice"
	}

	if id := slug.Make(sessionID); id != "" {
		name += "-" + id
	}

	return name + ".md"
}

// RequireSessionOwner rejects access to :sessionID routes when session tokens
// are enabled and the bearer token names a different session.
func (c *SessionController) RequireSessionOwner(ctx fiber.Ctx) error {
	sessionID := ctx.Params("sessionID")

	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	if c.tokens == nil {
		return ctx.Next()
	}

	if !middlewares.SessionFromToken(ctx) {
		return fiber.NewError(fiber.StatusUnauthorized, "Session token required")
	}

	if middlewares.SessionID(ctx) != sessionID {
		return fiber.NewError(fiber.StatusForbidden, "Session token does not grant access to this session")
	}

	return ctx.Next()
}

func validateSessionID(sessionID string) error {
	if sessionID == "" || len(sessionID) > maxSessionIDLength {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session ID")
	}
	return nil
}
