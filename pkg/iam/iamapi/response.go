// Package iamapi holds the HTTP helpers shared by the auth and user handlers.
package iamapi

import (
	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every successful response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
}

func Respond(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Envelope{StatusCode: status, Message: message, Data: data})
}

// BindJSON parses the request body into v.
func BindJSON(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return errx.Wrap(err, "Invalid request body", errx.TypeValidation)
	}
	return nil
}

// UserIDParam parses a numeric user id path parameter.
func UserIDParam(c *fiber.Ctx, name string) (kernel.UserID, error) {
	return kernel.ParseUserID(c.Params(name))
}

// PageQuery reads page and page_size from the query string.
func PageQuery(c *fiber.Ctx) kernel.PageRequest {
	return kernel.PageRequest{
		Number: c.QueryInt("page", 1),
		Size:   c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()
}
