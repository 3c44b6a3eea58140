package auth

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/kernel"
)

// TokenService issues and verifies the session tokens.
type TokenService interface {
	IssueAccess(id kernel.Identity) (string, error)
	IssueRefresh(id kernel.Identity) (string, error)
	Verify(token string, kind TokenKind) (kernel.Identity, error)
}

// AuditService records security-relevant events. Implementations must never
// receive passwords or codes.
type AuditService interface {
	LogSignIn(ctx context.Context, email string, userID kernel.UserID, method string, success bool, reason string)
	LogTokenRefresh(ctx context.Context, userID kernel.UserID)
	LogLogout(ctx context.Context)
	LogOTPIssued(ctx context.Context, email string)
	LogOTPVerification(ctx context.Context, email string, success bool, reason string)
	LogAccountCreated(ctx context.Context, userID kernel.UserID, email string)
	LogUserChange(ctx context.Context, actor kernel.Identity, target kernel.UserID, action string, detail map[string]any)
}
