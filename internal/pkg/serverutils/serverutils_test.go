package serverutils

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"audio-eval-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddlewareIssuesCookie(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(SessionID(ctx))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	// browser-session cookie; the store owns expiry
	assert.True(t, cookie.Expires.IsZero())
	assert.Zero(t, cookie.MaxAge)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, cookie.Value, string(body))
	_, err = uuid.Parse(cookie.Value)
	assert.NoError(t, err)
}

func TestSessionMiddlewareKeepsValidCookie(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware())
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(SessionID(ctx))
	})

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, id, string(body))
	assert.Empty(t, resp.Cookies())

	// a tampered cookie is replaced
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../admin"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.NotEqual(t, "../../admin", string(body))
	assert.Len(t, resp.Cookies(), 1)
}

func TestSessionMiddlewareIDOutlivesRequest(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware())

	var kept []string
	app.Get("/", func(ctx *fiber.Ctx) error {
		kept = append(kept, SessionID(ctx))
		return ctx.SendStatus(fiber.StatusNoContent)
	})

	sent := make([]string, 32)
	for i := range sent {
		sent[i] = uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sent[i]})
		_, err := app.Test(req)
		require.NoError(t, err)
	}

	assert.Equal(t, sent, kept)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: NewErrorHandler(logger.NewNopLogger())})
	app.Get("/teapot", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/boom", func(ctx *fiber.Ctx) error {
		return errors.New("database on fire")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"code":418,"error":"short and stout"}`, string(body))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.False(t, strings.Contains(string(body), "database on fire"))
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Filename string `validate:"required,max=5"`
	}

	assert.NoError(t, ValidateRequest(req{Filename: "a.wav"}))

	err := ValidateRequest(req{})
	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Contains(t, fe.Message, "Filename failed on 'required'")

	err = ValidateRequest(req{Filename: "too_long.wav"})
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "'max'")
}
