// Package authsrv implements the credential flows: sign-up with OTP email
// confirmation, password sign-in, refresh and profile lookup.
package authsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam"
	"github.com/Abraxas-365/storefront/pkg/iam/auth"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/Abraxas-365/storefront/pkg/sealx"
)

// OTPService is the part of otpsrv.OTPService the credential flows use.
type OTPService interface {
	Issue(ctx context.Context, email string) (*otp.Issued, error)
	Confirm(ctx context.Context, id kernel.OTPID, code, email string, now time.Time) error
	Now() time.Time
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

// VerificationResponse is returned whenever a code is sent. The key must be
// submitted back together with the code.
type VerificationResponse struct {
	Message         string `json:"message"`
	VerificationKey string `json:"verification_key"`
}

type SignInResult struct {
	Tokens  auth.Tokens
	Profile user.Profile
}

type CredentialService struct {
	users  user.Repository
	hasher user.PasswordHasher
	otps   OTPService
	codec  *sealx.Codec
	tokens auth.TokenService
	audit  auth.AuditService
}

func NewCredentialService(
	users user.Repository,
	hasher user.PasswordHasher,
	otps OTPService,
	codec *sealx.Codec,
	tokens auth.TokenService,
	audit auth.AuditService,
) *CredentialService {
	return &CredentialService{
		users:  users,
		hasher: hasher,
		otps:   otps,
		codec:  codec,
		tokens: tokens,
		audit:  audit,
	}
}

// SignUp creates an inactive account and sends the first confirmation code.
func (s *CredentialService) SignUp(ctx context.Context, req SignUpRequest) (*VerificationResponse, error) {
	email, err := user.ValidateEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	firstName, err := user.ValidateFirstName(req.FirstName)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, user.ErrEmailExists().WithDetail("email", email)
	} else if !errx.HasCode(err, user.CodeNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	u := &user.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     req.LastName,
		Address:      req.Address,
		Role:         kernel.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.audit.LogAccountCreated(ctx, u.ID, email)

	return s.RequestOTP(ctx, email)
}

// RequestOTP issues a fresh code for a registered email and returns the
// sealed verification key bound to it.
func (s *CredentialService) RequestOTP(ctx context.Context, email string) (*VerificationResponse, error) {
	email = user.NormalizeEmail(email)

	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	}

	issued, err := s.otps.Issue(ctx, email)
	if err != nil {
		return nil, err
	}

	s.audit.LogOTPIssued(ctx, email)

	key, err := s.codec.EncodeJSON(otp.VerificationDetails{
		Timestamp: s.otps.Now(),
		Email:     email,
		OTPID:     issued.ID,
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to seal verification key", errx.TypeInternal)
	}

	return &VerificationResponse{
		Message:         "OTP sent to " + email,
		VerificationKey: key,
	}, nil
}

// ConfirmOTP checks code against the OTP sealed in verificationKey and
// activates the account.
func (s *CredentialService) ConfirmOTP(ctx context.Context, verificationKey, email, code string) (*user.Profile, error) {
	email = user.NormalizeEmail(email)

	var details otp.VerificationDetails
	if err := s.codec.DecodeJSON(verificationKey, &details); err != nil {
		return nil, auth.ErrInvalidVerificationKey().WithCause(err)
	}
	if details.Email != email {
		s.audit.LogOTPVerification(ctx, email, false, otp.CodeEmailMismatch.Code)
		return nil, otp.ErrEmailMismatch()
	}

	if err := s.otps.Confirm(ctx, details.OTPID, code, email, s.otps.Now()); err != nil {
		s.audit.LogOTPVerification(ctx, email, false, errx.From(err).Code)
		return nil, err
	}
	s.audit.LogOTPVerification(ctx, email, true, "")

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		if err := s.users.SetActive(ctx, u.ID, true); err != nil {
			return nil, err
		}
		u.IsActive = true
		logx.WithContext(ctx).WithField("user_id", u.ID).Info("auth: account activated")
	}

	p := u.ToProfile()
	return &p, nil
}

// SignIn checks credentials and issues a token pair.
func (s *CredentialService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	return s.signIn(ctx, email, password, "password")
}

// SignInAdmin is SignIn restricted to admin and owner accounts.
func (s *CredentialService) SignInAdmin(ctx context.Context, email, password string) (*SignInResult, error) {
	return s.signIn(ctx, email, password, "password_admin", kernel.RoleAdmin)
}

func (s *CredentialService) signIn(ctx context.Context, email, password, method string, roles ...kernel.Role) (*SignInResult, error) {
	email = user.NormalizeEmail(email)

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errx.HasCode(err, user.CodeNotFound) {
			s.audit.LogSignIn(ctx, email, 0, method, false, "unknown_email")
			return nil, auth.ErrInvalidCredentials()
		}
		return nil, err
	}

	if !s.hasher.Compare(u.PasswordHash, password) {
		s.audit.LogSignIn(ctx, email, u.ID, method, false, "wrong_password")
		return nil, auth.ErrInvalidCredentials()
	}
	if !u.IsActive {
		s.audit.LogSignIn(ctx, email, u.ID, method, false, "inactive")
		return nil, auth.ErrInactiveAccount()
	}
	if len(roles) > 0 && !u.Role.Satisfies(roles...) {
		s.audit.LogSignIn(ctx, email, u.ID, method, false, "insufficient_role")
		return nil, iam.ErrForbidden().WithDetail("role", u.Role.String())
	}

	tokens, err := s.issue(u.Identity())
	if err != nil {
		return nil, err
	}

	s.audit.LogSignIn(ctx, email, u.ID, method, true, "")

	return &SignInResult{Tokens: *tokens, Profile: u.ToProfile()}, nil
}

func (s *CredentialService) issue(id kernel.Identity) (*auth.Tokens, error) {
	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return nil, err
	}
	return &auth.Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues a new access token from a refresh token. The role is read
// from the current user row, so role changes apply on the next refresh.
func (s *CredentialService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", auth.ErrMissingRefreshToken()
	}

	claims, err := s.tokens.Verify(refreshToken, auth.TokenRefresh)
	if err != nil {
		return "", err
	}

	u, err := s.users.FindByID(ctx, claims.ID)
	if err != nil {
		if errx.HasCode(err, user.CodeNotFound) {
			return "", iam.ErrInvalidToken().WithDetail("reason", "user no longer exists")
		}
		return "", err
	}
	if !u.IsActive {
		return "", auth.ErrInactiveAccount()
	}

	access, err := s.tokens.IssueAccess(u.Identity())
	if err != nil {
		return "", err
	}

	s.audit.LogTokenRefresh(ctx, u.ID)
	return access, nil
}

func (s *CredentialService) GetProfile(ctx context.Context, id kernel.Identity) (*user.Profile, error) {
	u, err := s.users.FindByID(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	p := u.ToProfile()
	return &p, nil
}

// Logout records the event. Sessions are stateless; the caller clears the
// refresh cookies.
func (s *CredentialService) Logout(ctx context.Context) {
	s.audit.LogLogout(ctx)
}
