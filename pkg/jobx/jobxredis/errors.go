package jobxredis

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

var redisErrors = errx.NewRegistry("JOBX_REDIS")

var (
	ErrEnqueue   = redisErrors.Register("ENQUEUE", errx.TypeDependency, http.StatusServiceUnavailable, "Redis enqueue failed")
	ErrDequeue   = redisErrors.Register("DEQUEUE", errx.TypeDependency, http.StatusServiceUnavailable, "Redis dequeue failed")
	ErrGetJob    = redisErrors.Register("GET_JOB", errx.TypeDependency, http.StatusServiceUnavailable, "Redis get job failed")
	ErrSave      = redisErrors.Register("SAVE", errx.TypeDependency, http.StatusServiceUnavailable, "Redis job update failed")
	ErrRetry     = redisErrors.Register("RETRY", errx.TypeDependency, http.StatusServiceUnavailable, "Redis retry failed")
	ErrPromote   = redisErrors.Register("PROMOTE", errx.TypeDependency, http.StatusServiceUnavailable, "Redis promote failed")
	ErrNotFound  = redisErrors.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found in Redis")
	ErrMarshal   = redisErrors.Register("MARSHAL", errx.TypeInternal, http.StatusInternalServerError, "Failed to marshal job data")
	ErrUnmarshal = redisErrors.Register("UNMARSHAL", errx.TypeInternal, http.StatusInternalServerError, "Failed to unmarshal job data")
)
