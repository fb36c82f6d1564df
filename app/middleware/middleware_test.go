package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/amirphl/AdaptMuse/app/dto"
	businessflow "github.com/amirphl/AdaptMuse/business_flow"
	"github.com/amirphl/AdaptMuse/logger"
	"github.com/amirphl/AdaptMuse/utils"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeAuthenticator struct {
	tokens map[string]dto.Caller
	seen   []string
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*dto.Caller, error) {
	f.seen = append(f.seen, token)
	caller, ok := f.tokens[token]
	if !ok {
		return nil, businessflow.NewBusinessError("TOKEN_INVALID", "Invalid token", businessflow.ErrUnauthenticated)
	}
	return &caller, nil
}

func TestAuthMiddleware(t *testing.T) {
	jane := dto.Caller{UserID: "u-1", Email: "jane@example.com"}

	tests := []struct {
		name       string
		header     string
		cookie     string
		wantStatus int
		wantCode   string
		wantToken  string
	}{
		{name: "bearer header", header: "Bearer good", wantStatus: fiber.StatusOK, wantToken: "good"},
		{name: "session cookie", cookie: "good", wantStatus: fiber.StatusOK, wantToken: "good"},
		{name: "header wins over cookie", header: "Bearer good", cookie: "stale", wantStatus: fiber.StatusOK, wantToken: "good"},
		{name: "no credentials", wantStatus: fiber.StatusUnauthorized, wantCode: "MISSING_AUTHORIZATION_HEADER"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: fiber.StatusUnauthorized, wantCode: "INVALID_AUTHORIZATION_FORMAT"},
		{name: "empty bearer", header: "Bearer   ", wantStatus: fiber.StatusUnauthorized, wantCode: "MISSING_ACCESS_TOKEN"},
		{name: "rejected token", header: "Bearer bad", wantStatus: fiber.StatusUnauthorized, wantCode: "TOKEN_INVALID", wantToken: "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuthenticator{tokens: map[string]dto.Caller{"good": jane}}
			mw := NewAuthMiddleware(auth)

			app := fiber.New()
			app.Get("/me", mw.Authenticate(), func(c fiber.Ctx) error {
				caller, ok := c.Locals(utils.CallerLocalsKey).(dto.Caller)
				require.True(t, ok)
				return c.SendString(caller.Email)
			})

			req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.Header.Set(fiber.HeaderCookie, utils.SessionCookieName+"="+tt.cookie)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.wantCode != "" {
				var body dto.APIResponse
				require.NoError(t, json.Unmarshal(raw, &body))
				assert.False(t, body.Success)
				assert.Equal(t, tt.wantCode, body.Code)
				assert.NotEmpty(t, body.Error)
			} else {
				assert.Equal(t, jane.Email, string(raw))
			}

			if tt.wantToken != "" {
				assert.Equal(t, []string{tt.wantToken}, auth.seen)
			} else {
				assert.Empty(t, auth.seen)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(RequestLogger(base, "/health"))
	app.Get("/health", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/ok", func(c fiber.Ctx) error {
		logger.FromContext(c.Context()).Info("inside handler")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/missing", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/broken", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })

	for _, path := range []string{"/health", "/ok", "/missing", "/broken"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	inside := logs.FilterMessage("inside handler").All()
	require.Len(t, inside, 1)
	assert.NotEmpty(t, inside[0].ContextMap()["request_id"])

	access := logs.FilterMessage("http request").All()
	require.Len(t, access, 3)

	levels := map[string]zapcore.Level{}
	for _, entry := range access {
		levels[entry.ContextMap()["path"].(string)] = entry.Level
	}
	assert.Equal(t, map[string]zapcore.Level{
		"/ok":      zapcore.InfoLevel,
		"/missing": zapcore.WarnLevel,
		"/broken":  zapcore.ErrorLevel,
	}, levels)
}

func TestMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/widgets/:id", func(c fiber.Ctx) error { return c.SendString("ok") })

	for range 2 {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/widgets/42", nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// the route template is the label, never the concrete id
	assert.Contains(t, string(raw), `http_requests_total{method="GET",route="/widgets/:id",status="200"} 2`)
	assert.NotContains(t, string(raw), `route="/widgets/42"`)
}

func TestRequestLogger_FieldsSurviveBufferReuse(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core)))
	app.Get("/*", func(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	sent := map[string]string{
		"/campaigns/summer-launch-2025": "agent-long-one",
		"/a":                            "b",
		"/jobs/42":                      "curl/8.0",
	}
	for path, ua := range sent {
		req := httptest.NewRequest(fiber.MethodGet, path, nil)
		req.Header.Set(fiber.HeaderUserAgent, ua)
		resp, err := app.Test(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	got := map[string]string{}
	for _, entry := range logs.FilterMessage("http request").All() {
		ctx := entry.ContextMap()
		got[ctx["path"].(string)] = ctx["user_agent"].(string)
	}
	assert.Equal(t, sent, got)
}
