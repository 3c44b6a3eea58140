// Package iam holds the request-level authentication errors shared by the
// guard middleware and the credential service. The subpackages cover one
// concern each: otp (one-time codes), user (accounts) and auth (tokens,
// sign-in and the fiber guards).
package iam

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("IAM")

var (
	CodeUnauthenticated = ErrRegistry.Register("UNAUTHENTICATED", errx.TypeAuthorization, http.StatusUnauthorized, "Authorization header not found")
	CodeInvalidFormat   = ErrRegistry.Register("INVALID_TOKEN_FORMAT", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid token format")
	CodeTokenExpired    = ErrRegistry.Register("TOKEN_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Token has expired")
	CodeInvalidToken    = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid token")
	CodeForbidden       = ErrRegistry.Register("FORBIDDEN", errx.TypeForbidden, http.StatusForbidden, "You do not have permission to perform this action")
)

func ErrUnauthenticated() *errx.Error { return ErrRegistry.New(CodeUnauthenticated) }
func ErrInvalidFormat() *errx.Error   { return ErrRegistry.New(CodeInvalidFormat) }
func ErrTokenExpired() *errx.Error    { return ErrRegistry.New(CodeTokenExpired) }
func ErrInvalidToken() *errx.Error    { return ErrRegistry.New(CodeInvalidToken) }
func ErrForbidden() *errx.Error       { return ErrRegistry.New(CodeForbidden) }
