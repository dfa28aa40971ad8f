package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/controllers"
	"github.com/i2p-business/i2p/internal/middlewares"
	"github.com/i2p-business/i2p/pkg/advisor"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/inmemory"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGateway struct {
	outputs []string
	err     error
	calls   int
}

func (g *scriptedGateway) CallModel(ctx context.Context, p advisor.CallModelParams) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	out := "Done."
	if g.calls < len(g.outputs) {
		out = g.outputs[g.calls]
	}
	g.calls++
	return out, nil
}

type testServer struct {
	app   *fiber.App
	store *inmemory.Store
}

func newTestServer(t *testing.T, gateway advisor.Gateway, issuer *auth.SessionTokenIssuer) testServer {
	t.Helper()

	dir := t.TempDir()
	staticDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(staticDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(staticDir, "app.js"), []byte("console.log('i2p')"), 0644))
	indexFile := filepath.Join(dir, "i2p.html")
	require.NoError(t, os.WriteFile(indexFile, []byte("<h1>I2P</h1>"), 0644))

	store := inmemory.New()
	orchestrator := advisor.NewOrchestrator(advisor.OrchestratorDeps{
		Gateway: gateway,
		Store:   store,
	})

	app := NewHTTPServer(context.Background(), HTTPServerDependencies{
		StaticDir: staticDir,
		IndexFile: indexFile,
		ChatController: controllers.NewChatController(controllers.ChatControllerDependencies{
			Generator: orchestrator,
			Tokens:    issuer,
		}),
		SessionController: controllers.NewSessionController(controllers.SessionControllerDependencies{
			Sessions: orchestrator,
			Tokens:   issuer,
		}),
		TokenIssuer: issuer,
	})

	return testServer{app: app, store: store}
}

func (s testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(data)
}

func TestServer_IndexAndStatic(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{}, nil)

	resp, body := s.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "<h1>I2P</h1>", body)

	resp, body = s.do(t, http.MethodGet, "/static/app.js", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "console.log('i2p')", body)
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{}, nil)

	resp, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"healthy"`)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
}

func TestServer_ChatRequiresMessage(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{}, nil)

	for _, body := range []string{`{}`, `{"message":""}`, `{"continue":false}`, `not json`} {
		resp, got := s.do(t, http.MethodPost, "/chat", body, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.JSONEq(t, `{"error":"Message is required"}`, got, body)
	}
}

func TestServer_ChatNormalAndContinue(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{outputs: []string{"Advice so far", "and the rest."}}, nil)

	resp, body := s.do(t, http.MethodPost, "/chat", `{"message":"hello there"}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var normal map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &normal))
	assert.Equal(t, false, normal["completed"])
	assert.Equal(t, true, normal["business_focus"])
	assert.Equal(t, float64(1), normal["total_tasks"])
	assert.Equal(t, "assistant", normal["primary_task"])

	resp, body = s.do(t, http.MethodPost, "/chat", `{"continue":true}`, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"tasks": {"continuation": {"output": "and the rest.", "truncated": false}},
		"completed": true,
		"business_task": "assistant"
	}`, body)
}

func TestServer_ChatErrorIsStill200(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{err: errors.New("upstream 503")}, nil)

	resp, body := s.do(t, http.MethodPost, "/chat", `{"message":"hello there"}`, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"task_type":"error"`)
	assert.Contains(t, body, `"error":"upstream 503"`)
}

func TestServer_ChatSessionResolution(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{}, nil)
	ctx := context.Background()

	s.do(t, http.MethodPost, "/chat", `{"message":"hello there","session_id":"from-body"}`, nil)
	s.do(t, http.MethodPost, "/chat", `{"message":"write some code","session_id":"ignored"}`,
		map[string]string{middlewares.SessionIDHeader: "from-header"})

	fromBody, err := s.store.GetSession(ctx, "from-body")
	require.NoError(t, err)
	assert.Equal(t, "assistant", fromBody.LastTask)

	fromHeader, err := s.store.GetSession(ctx, "from-header")
	require.NoError(t, err)
	assert.Equal(t, "code", fromHeader.LastTask)

	ignored, err := s.store.GetSession(ctx, "ignored")
	require.NoError(t, err)
	assert.True(t, ignored.IsEmpty())

	assert.Equal(t, 2, s.store.Len())
}

func TestServer_SessionLifecycle(t *testing.T) {
	s := newTestServer(t, &scriptedGateway{outputs: []string{"Deck done.", "Strategy done."}}, nil)

	resp, body := s.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created controllers.CreateSessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.NotEmpty(t, created.SessionID)
	assert.Empty(t, created.Token)

	headers := map[string]string{middlewares.SessionIDHeader: created.SessionID}
	s.do(t, http.MethodPost, "/chat", `{"message":"I need a pitch deck for my startup"}`, headers)

	resp, body = s.do(t, http.MethodGet, "/sessions/"+created.SessionID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status controllers.SessionStatusResponse
	require.NoError(t, json.Unmarshal([]byte(body), &status))
	assert.Equal(t, "business_strategy", status.LastTask)
	assert.True(t, status.HasPrompt)
	assert.True(t, status.CanContinue)
	assert.Equal(t, len("Deck done.\n\nStrategy done."), status.OutputLength)

	resp, body = s.do(t, http.MethodGet, "/sessions/"+created.SessionID+"/export", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Deck done.\n\nStrategy done.\n", body)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/markdown")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "business-strategy-")

	resp, body = s.do(t, http.MethodDelete, "/sessions/"+created.SessionID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, body)

	resp, body = s.do(t, http.MethodGet, "/sessions/"+created.SessionID+"/export", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Nothing to export for this session"}`, body)
}

func TestServer_SessionTokens(t *testing.T) {
	issuer := auth.NewSessionTokenIssuer("secret", time.Hour)
	s := newTestServer(t, &scriptedGateway{}, issuer)

	resp, body := s.do(t, http.MethodPost, "/sessions", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created controllers.CreateSessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.NotEmpty(t, created.Token)

	bearer := map[string]string{fiber.HeaderAuthorization: "Bearer " + created.Token}

	resp, _ = s.do(t, http.MethodPost, "/chat", `{"message":"hello there","session_id":"someone-else"}`, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	session, err := s.store.GetSession(context.Background(), created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "assistant", session.LastTask)

	resp, _ = s.do(t, http.MethodGet, "/sessions/"+created.SessionID, "", bearer)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/sessions/"+created.SessionID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/sessions/"+created.SessionID, "",
		map[string]string{middlewares.SessionIDHeader: created.SessionID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/sessions/other", "", bearer)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "does not grant access")

	resp, body = s.do(t, http.MethodPost, "/chat", `{"message":"hi"}`,
		map[string]string{fiber.HeaderAuthorization: "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid session token"}`, body)
}

func TestServer_ChatWithoutTokenCannotReachOwnedSession(t *testing.T) {
	issuer := auth.NewSessionTokenIssuer("secret", time.Hour)
	s := newTestServer(t, &scriptedGateway{outputs: []string{"Owner plan", "more of it."}}, issuer)
	ctx := context.Background()

	_, body := s.do(t, http.MethodPost, "/sessions", "", nil)
	var created controllers.CreateSessionResponse
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	bearer := map[string]string{fiber.HeaderAuthorization: "Bearer " + created.Token}
	resp, _ := s.do(t, http.MethodPost, "/chat", `{"message":"give me a startup idea"}`, bearer)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	before, err := s.store.GetSession(ctx, created.SessionID)
	require.NoError(t, err)

	resp, body = s.do(t, http.MethodPost, "/chat", `{"continue":true}`,
		map[string]string{middlewares.SessionIDHeader: created.SessionID})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Session token required"}`, body)

	resp, _ = s.do(t, http.MethodPost, "/chat",
		`{"continue":true,"session_id":"`+created.SessionID+`"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	after, err := s.store.GetSession(ctx, created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, before.LastOutput, after.LastOutput)

	// the shared default session stays open
	resp, _ = s.do(t, http.MethodPost, "/chat", `{"message":"hello there"}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/chat", `{"message":"hello there"}`,
		map[string]string{middlewares.SessionIDHeader: "default"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_ChatContinueIsLenient(t *testing.T) {
	tests := []struct {
		body         string
		wantContinue bool
	}{
		{`{"message":"hello there","continue":1}`, true},
		{`{"message":"hello there","continue":"true"}`, true},
		{`{"message":"hello there","continue":0}`, false},
		{`{"message":"hello there","continue":""}`, false},
		{`{"message":"hello there","continue":null}`, false},
		{`{"message":42,"continue":1}`, true},
	}

	for _, tt := range tests {
		s := newTestServer(t, &scriptedGateway{outputs: []string{"First part", "second part."}}, nil)

		s.do(t, http.MethodPost, "/chat", `{"message":"hello there"}`, nil)

		resp, body := s.do(t, http.MethodPost, "/chat", tt.body, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.body)

		if tt.wantContinue {
			assert.Contains(t, body, `"continuation"`, tt.body)
		} else {
			assert.NotContains(t, body, `"continuation"`, tt.body)
		}
	}

	s := newTestServer(t, &scriptedGateway{}, nil)
	resp, _ := s.do(t, http.MethodPost, "/chat", `{"message":42,"continue":false}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
