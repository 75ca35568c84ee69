package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"ai-deckbot-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Topic string `json:"topic" validate:"required"`
	Count int    `json:"slide_count" validate:"min=1"`
}

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
	app.Get("/", handler)
	return app
}

func decode(t *testing.T, body io.Reader) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.NewDecoder(body).Decode(&r))
	return r
}

func TestValidateRequestUsesJSONNames(t *testing.T) {
	err := ValidateRequest(sampleRequest{})
	require.Error(t, err)

	app := newApp(func(*fiber.Ctx) error { return err })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp.Body)
	assert.False(t, body.Success)
	fields, ok := body.Errors.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "required", fields["topic"])
	assert.Equal(t, "min=1", fields["slide_count"])

	assert.NoError(t, ValidateRequest(sampleRequest{Topic: "x", Count: 1}))
}

func TestErrorHandlerMapsFiberAndUnknownErrors(t *testing.T) {
	app := newApp(func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusNotFound, "template not found") })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "template not found", decode(t, resp.Body).Message)

	app = newApp(func(*fiber.Ctx) error { return errors.New("boom") })
	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestSuccessResponse(t *testing.T) {
	r := SuccessResponse("ok", []string{"a"})
	assert.True(t, r.Success)
	assert.Equal(t, 200, r.Code)
	assert.Equal(t, []string{"a"}, r.Data)
}
