package authinfra

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
)

// LogxAuditService implements auth.AuditService using structured logx
// logging. Request fields (request_id, ip, user_id) come from the context.
type LogxAuditService struct{}

func NewLogxAuditService() *LogxAuditService {
	return &LogxAuditService{}
}

func event(ctx context.Context, name string) *logx.Entry {
	return logx.WithContext(ctx).WithField("audit_event", name)
}

func (s *LogxAuditService) LogSignIn(ctx context.Context, email string, userID kernel.UserID, method string, success bool, reason string) {
	e := event(ctx, "sign_in").WithFields(logx.Fields{
		"email":   email,
		"method":  method,
		"success": success,
	})
	if !userID.IsZero() {
		e = e.WithField("user_id", userID)
	}
	if !success {
		e.WithField("reason", reason).Warn("Audit: sign-in rejected")
		return
	}
	e.Info("Audit: sign-in")
}

func (s *LogxAuditService) LogTokenRefresh(ctx context.Context, userID kernel.UserID) {
	event(ctx, "token_refresh").WithField("user_id", userID).Info("Audit: token refresh")
}

func (s *LogxAuditService) LogLogout(ctx context.Context) {
	event(ctx, "logout").Info("Audit: logout")
}

func (s *LogxAuditService) LogOTPIssued(ctx context.Context, email string) {
	event(ctx, "otp_issued").WithField("email", email).Info("Audit: OTP issued")
}

func (s *LogxAuditService) LogOTPVerification(ctx context.Context, email string, success bool, reason string) {
	e := event(ctx, "otp_verification").WithFields(logx.Fields{"email": email, "success": success})
	if !success {
		e.WithField("reason", reason).Warn("Audit: OTP verification failed")
		return
	}
	e.Info("Audit: OTP verified")
}

func (s *LogxAuditService) LogAccountCreated(ctx context.Context, userID kernel.UserID, email string) {
	event(ctx, "account_created").WithFields(logx.Fields{"user_id": userID, "email": email}).Info("Audit: account created")
}

func (s *LogxAuditService) LogUserChange(ctx context.Context, actor kernel.Identity, target kernel.UserID, action string, detail map[string]any) {
	event(ctx, "user_"+action).
		WithFields(logx.Fields{
			"actor_id":   actor.ID,
			"actor_role": actor.Role.String(),
			"target_id":  target,
		}).
		WithFields(detail).
		Info("Audit: user " + action)
}
