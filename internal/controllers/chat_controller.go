package controllers

import (
	"context"
	"encoding/json"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/middlewares"
	"github.com/i2p-business/i2p/pkg/advisor"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// ResponseGenerator answers chat messages. It never fails; faults come back
// as the error variant of advisor.Response.
type ResponseGenerator interface {
	GenerateResponse(ctx context.Context, p advisor.GenerateParams) advisor.Response
}

type ChatController struct {
	generator ResponseGenerator
	tokens    *auth.SessionTokenIssuer
}

type ChatControllerDependencies struct {
	Generator ResponseGenerator

	// Tokens is nil when session tokens are disabled
	Tokens *auth.SessionTokenIssuer
}

func NewChatController(deps ChatControllerDependencies) *ChatController {
	return &ChatController{
		generator: deps.Generator,
		tokens:    deps.Tokens,
	}
}

type ChatRequest struct {
	Message   string `json:"message"`
	Continue  bool   `json:"continue"`
	SessionID string `json:"session_id"`
}

// UnmarshalJSON decodes each field on its own. A field of the wrong type
// reads as its zero value, except continue, which takes the truthiness of
// whatever value was sent.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var fields struct {
		Message   json.RawMessage `json:"message"`
		Continue  json.RawMessage `json:"continue"`
		SessionID json.RawMessage `json:"session_id"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = ChatRequest{
		Message:   jsonString(fields.Message),
		Continue:  jsonTruthy(fields.Continue),
		SessionID: jsonString(fields.SessionID),
	}

	return nil
}

func jsonString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func jsonTruthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch value := v.(type) {
	case bool:
		return value
	case float64:
		return value != 0
	case string:
		return value != ""
	case []any:
		return len(value) > 0
	case map[string]any:
		return len(value) > 0
	default:
		return false
	}
}

// Chat answers one message, or continues the last task of the session when
// continue is set.
func (c *ChatController) Chat(ctx fiber.Ctx) error {
	var req ChatRequest

	// A body that does not decode is treated like an empty one.
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug().Err(err).Msg("Failed to decode chat request body")
		req = ChatRequest{}
	}

	if req.Message == "" && !req.Continue {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	sessionID := middlewares.SessionID(ctx)
	if sessionID == "" {
		sessionID = req.SessionID
	}
	if sessionID == "" {
		sessionID = types.DefaultSessionID
	}

	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	// With tokens enabled only the shared default session is reachable
	// without one.
	if c.tokens != nil && !middlewares.SessionFromToken(ctx) && sessionID != types.DefaultSessionID {
		return fiber.NewError(fiber.StatusUnauthorized, "Session token required")
	}

	log.Info().
		Str("session_id", sessionID).
		Bool("continue", req.Continue).
		Msg("Handling chat message")

	resp := c.generator.GenerateResponse(ctx.RequestCtx(), advisor.GenerateParams{
		SessionID: sessionID,
		Message:   req.Message,
		Continue:  req.Continue,
	})

	return ctx.JSON(resp)
}
