package errx

import "net/http"

// Type represents the category of error
type Type string

const (
	// TypeInternal is an unexpected failure; its message never reaches the client
	TypeInternal Type = "INTERNAL"

	// TypeValidation is malformed input rejected before touching any store
	TypeValidation Type = "VALIDATION"

	// TypeAuthorization covers bad credentials, expired or invalid tokens and inactive accounts
	TypeAuthorization Type = "AUTHORIZATION"

	// TypeForbidden is an authenticated caller lacking the role or ownership required
	TypeForbidden Type = "FORBIDDEN"

	// TypeNotFound represents a missing user, OTP or route
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents a uniqueness violation such as a duplicate email
	TypeConflict Type = "CONFLICT"

	// TypeBusiness represents a rule violation on otherwise valid input
	TypeBusiness Type = "BUSINESS"

	// TypeDependency represents an unavailable downstream collaborator (mail, queue)
	TypeDependency Type = "DEPENDENCY"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}

// HTTPStatus returns the default status for the type.
func (t Type) HTTPStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
