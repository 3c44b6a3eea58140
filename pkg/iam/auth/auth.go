package auth

import (
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

// TokenKind selects the secret and audience a token is issued and verified
// under.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Tokens is the pair issued at sign-in.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeInvalidCredentials     = ErrRegistry.Register("INVALID_CREDENTIALS", errx.TypeAuthorization, http.StatusUnauthorized, "Email or password incorrect")
	CodeInactiveAccount        = ErrRegistry.Register("INACTIVE_ACCOUNT", errx.TypeAuthorization, http.StatusUnauthorized, "Account is not active, confirm your email first")
	CodeMissingRefreshToken    = ErrRegistry.Register("MISSING_REFRESH_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Refresh token not found")
	CodeInvalidVerificationKey = ErrRegistry.Register("INVALID_VERIFICATION_KEY", errx.TypeValidation, http.StatusBadRequest, "Verification key is invalid")
	CodeTokenGenerationFailed  = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Token generation failed")
)

func ErrInvalidCredentials() *errx.Error     { return ErrRegistry.New(CodeInvalidCredentials) }
func ErrInactiveAccount() *errx.Error        { return ErrRegistry.New(CodeInactiveAccount) }
func ErrMissingRefreshToken() *errx.Error    { return ErrRegistry.New(CodeMissingRefreshToken) }
func ErrInvalidVerificationKey() *errx.Error { return ErrRegistry.New(CodeInvalidVerificationKey) }
func ErrTokenGenerationFailed() *errx.Error  { return ErrRegistry.New(CodeTokenGenerationFailed) }
