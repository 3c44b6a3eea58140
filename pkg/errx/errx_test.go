package errx_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRegistry = errx.NewRegistry("TEST")

var (
	codeGone = testRegistry.Register("GONE", errx.TypeNotFound, 0, "Thing is gone")
	codeBusy = testRegistry.Register("BUSY", errx.TypeDependency, http.StatusServiceUnavailable, "Mail is down")
)

func TestRegistry_DefaultsStatusFromType(t *testing.T) {
	assert.Equal(t, "TEST_GONE", codeGone.Code)
	assert.Equal(t, http.StatusNotFound, codeGone.HTTPStatus)

	got, ok := testRegistry.Get("BUSY")
	require.True(t, ok)
	assert.Same(t, codeBusy, got)
	assert.Len(t, testRegistry.Codes(), 2)
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := testRegistry.New(codeGone).WithDetail("id", 7)
	wrapped := errx.Wrap(err, "lookup failed", errx.TypeInternal)

	assert.True(t, errors.Is(wrapped, testRegistry.New(codeGone)))
	assert.False(t, errors.Is(wrapped, testRegistry.New(codeBusy)))
	assert.True(t, errx.HasCode(wrapped, codeGone))
	assert.Equal(t, errx.TypeNotFound, wrapped.Type, "wrapping keeps the domain type")
	assert.Equal(t, 7, wrapped.Details["id"])
}

func TestWrap_ForeignErrorBecomesTyped(t *testing.T) {
	cause := errors.New("connection reset")
	err := errx.Wrap(cause, "failed to query users", errx.TypeInternal)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Nil(t, errx.Wrap(nil, "nothing", errx.TypeInternal))
}

func TestToResponse_HidesInternalDetail(t *testing.T) {
	err := errx.Wrap(errors.New("pq: password authentication failed"), "failed to save user", errx.TypeInternal).
		WithDetail("dsn", "secret")

	resp := err.ToResponse()
	assert.Equal(t, "Internal server error", resp.Message)
	assert.Equal(t, "Internal Server Error", resp.Error)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Nil(t, resp.Details)
}

func TestWriteFiber_RendersShape(t *testing.T) {
	app := fiber.New()
	app.Get("/gone", func(c *fiber.Ctx) error {
		return errx.WriteFiber(c, testRegistry.New(codeGone))
	})
	app.Get("/fiber", func(c *fiber.Ctx) error {
		return errx.WriteFiber(c, fiber.NewError(fiber.StatusMethodNotAllowed, "nope"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Thing is gone", got["message"])
	assert.Equal(t, "Not Found", got["error"])
	assert.EqualValues(t, 404, got["statusCode"])
	assert.Equal(t, "TEST_GONE", got["code"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/fiber", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
