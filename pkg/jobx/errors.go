package jobx

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("JOBX")

var (
	CodeEnqueueFailed  = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeDependency, http.StatusServiceUnavailable, "Failed to enqueue job")
	CodeNoHandler      = ErrRegistry.Register("NO_HANDLER", errx.TypeInternal, http.StatusInternalServerError, "No handler registered for job type")
	CodeInvalidJob     = ErrRegistry.Register("INVALID_JOB", errx.TypeValidation, http.StatusBadRequest, "Invalid job definition")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusBadRequest, "Job payload could not be decoded")
	CodeAlreadyRunning = ErrRegistry.Register("ALREADY_RUNNING", errx.TypeConflict, http.StatusConflict, "Worker is already running")
	CodeHandlerPanic   = ErrRegistry.Register("HANDLER_PANIC", errx.TypeInternal, http.StatusInternalServerError, "Job handler panicked")
)
