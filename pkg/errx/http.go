package errx

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Response is the body written for every failed request.
type Response struct {
	Message    string         `json:"message"`
	Error      string         `json:"error"`
	StatusCode int            `json:"statusCode"`
	Code       string         `json:"code,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}

// ToResponse converts an Error to its client representation. Internal errors
// are rendered opaquely.
func (e *Error) ToResponse() Response {
	status := e.HTTPStatus
	if status == 0 {
		status = e.Type.HTTPStatus()
	}

	if e.Type == TypeInternal {
		return Response{
			Message:    "Internal server error",
			Error:      http.StatusText(status),
			StatusCode: status,
			Code:       e.Code,
		}
	}

	return Response{
		Message:    e.Message,
		Error:      http.StatusText(status),
		StatusCode: status,
		Code:       e.Code,
		Details:    e.Details,
	}
}

// ResponseFor maps any error, including *fiber.Error, to a Response.
func ResponseFor(err error) Response {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return Response{
			Message:    fe.Message,
			Error:      http.StatusText(fe.Code),
			StatusCode: fe.Code,
		}
	}
	return From(err).ToResponse()
}

// WriteFiber writes err to the fiber context.
func WriteFiber(c *fiber.Ctx, err error) error {
	resp := ResponseFor(err)
	return c.Status(resp.StatusCode).JSON(resp)
}
