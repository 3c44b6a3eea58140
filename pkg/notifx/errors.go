package notifx

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("NOTIFX")

var (
	CodeSendFailed       = ErrRegistry.Register("SEND_FAILED", errx.TypeDependency, http.StatusServiceUnavailable, "Failed to send email")
	CodeInvalidMessage   = ErrRegistry.Register("INVALID_MESSAGE", errx.TypeValidation, http.StatusBadRequest, "Invalid email message")
	CodeTemplateNotFound = ErrRegistry.Register("TEMPLATE_NOT_FOUND", errx.TypeInternal, http.StatusInternalServerError, "Email template not found")
	CodeTemplateParse    = ErrRegistry.Register("TEMPLATE_PARSE", errx.TypeInternal, http.StatusInternalServerError, "Failed to parse email template")
	CodeTemplateRender   = ErrRegistry.Register("TEMPLATE_RENDER", errx.TypeInternal, http.StatusInternalServerError, "Failed to render email template")
)

// ErrSendFailed is what providers return when the transport rejects a message.
func ErrSendFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeSendFailed, cause)
}
