package otp

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("OTP")

var (
	CodeNotFound            = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "OTP not found")
	CodeAlreadyVerified     = ErrRegistry.Register("ALREADY_VERIFIED", errx.TypeConflict, http.StatusConflict, "OTP has already been used")
	CodeExpired             = ErrRegistry.Register("EXPIRED", errx.TypeValidation, http.StatusBadRequest, "OTP has expired")
	CodeMismatch            = ErrRegistry.Register("MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Incorrect OTP")
	CodeEmailMismatch       = ErrRegistry.Register("EMAIL_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Email does not match the verification key")
	CodeDeliveryUnavailable = ErrRegistry.Register("DELIVERY_UNAVAILABLE", errx.TypeDependency, http.StatusServiceUnavailable, "OTP email could not be delivered, request a new code")
	CodeTooManyRequests     = ErrRegistry.Register("TOO_MANY_REQUESTS", errx.TypeBusiness, http.StatusTooManyRequests, "Too many OTP requests")
)

func ErrNotFound() *errx.Error        { return ErrRegistry.New(CodeNotFound) }
func ErrAlreadyVerified() *errx.Error { return ErrRegistry.New(CodeAlreadyVerified) }
func ErrExpired() *errx.Error         { return ErrRegistry.New(CodeExpired) }
func ErrMismatch() *errx.Error        { return ErrRegistry.New(CodeMismatch) }
func ErrEmailMismatch() *errx.Error   { return ErrRegistry.New(CodeEmailMismatch) }
func ErrTooManyRequests() *errx.Error { return ErrRegistry.New(CodeTooManyRequests) }

func ErrDeliveryUnavailable(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeDeliveryUnavailable, cause)
}
