package iamcontainer

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/config"
	"github.com/Abraxas-365/storefront/pkg/iam/auth"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authapi"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authinfra"
	"github.com/Abraxas-365/storefront/pkg/iam/auth/authsrv"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/iam/otp/otpinfra"
	"github.com/Abraxas-365/storefront/pkg/iam/otp/otpsrv"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/iam/user/userapi"
	"github.com/Abraxas-365/storefront/pkg/iam/user/userinfra"
	"github.com/Abraxas-365/storefront/pkg/iam/user/usersrv"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/Abraxas-365/storefront/pkg/sealx"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

// ---------------------------------------------------------------------------
// Deps: external dependencies the IAM module requires.
// ---------------------------------------------------------------------------

type Deps struct {
	DB  *sqlx.DB
	Cfg *config.Config

	// OTPNotifier delivers codes. cmd/ chooses between direct email and the
	// job queue.
	OTPNotifier otp.NotificationService
}

// ---------------------------------------------------------------------------
// Container: the public surface of the IAM module.
// ---------------------------------------------------------------------------

type Container struct {
	UserService       *usersrv.UserService
	OTPService        *otpsrv.OTPService
	CredentialService *authsrv.CredentialService
	TokenService      auth.TokenService

	AuthHandlers *authapi.Handlers
	UserHandlers *userapi.Handlers

	// AuthMiddleware guards routes of other modules.
	AuthMiddleware *auth.Middleware

	owner config.OwnerConfig
}

// New builds the IAM graph: repos, services, handlers, middleware.
func New(deps Deps) (*Container, error) {
	logx.Info("🔧 Initializing IAM container...")

	cfg := deps.Cfg
	c := &Container{owner: cfg.Owner}

	// ── Repositories ─────────────────────────────────────────────────────

	userRepo := userinfra.NewPostgresUserRepository(deps.DB)
	otpRepo := otpinfra.NewPostgresOTPRepository(deps.DB)

	// ── Infrastructure services ──────────────────────────────────────────

	hasher := userinfra.NewBcryptPasswordHasher(cfg.Auth.BcryptCost)

	codec, err := sealx.NewCodec(cfg.Auth.VerificationKeySecret)
	if err != nil {
		return nil, err
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		AccessSecret:  cfg.Auth.AccessSecret,
		RefreshSecret: cfg.Auth.RefreshSecret,
		AccessTTL:     cfg.Auth.AccessTTL,
		RefreshTTL:    cfg.Auth.RefreshTTL,
		Issuer:        cfg.Auth.Issuer,
	})
	c.TokenService = jwtService

	audit := authinfra.NewLogxAuditService()

	// ── Domain services ──────────────────────────────────────────────────

	c.OTPService = otpsrv.NewOTPService(otpRepo, deps.OTPNotifier, otpsrv.Config{
		TTL:            cfg.OTP.TTL,
		CodeLength:     cfg.OTP.CodeLength,
		ResendCooldown: cfg.OTP.ResendCooldown,
	})

	c.UserService = usersrv.NewUserService(userRepo, hasher, audit)

	c.CredentialService = authsrv.NewCredentialService(
		userRepo,
		hasher,
		c.OTPService,
		codec,
		c.TokenService,
		audit,
	)

	// ── Middleware and handlers ──────────────────────────────────────────

	c.AuthMiddleware = auth.NewMiddleware(c.TokenService)

	c.AuthHandlers = authapi.NewHandlers(c.CredentialService, c.UserService, c.AuthMiddleware, auth.CookieConfig{
		Secure: cfg.Auth.CookieSecure,
		MaxAge: jwtService.RefreshTTL(),
	})
	c.UserHandlers = userapi.NewHandlers(c.UserService, c.AuthMiddleware)

	logx.Info("✅ IAM container initialized")
	return c, nil
}

// RegisterRoutes mounts /auth and /user.
func (c *Container) RegisterRoutes(r fiber.Router) {
	c.AuthHandlers.RegisterRoutes(r)
	c.UserHandlers.RegisterRoutes(r)
}

// Bootstrap creates the owner account from config when it is missing.
func (c *Container) Bootstrap(ctx context.Context) error {
	return c.UserService.EnsureOwner(ctx, user.OwnerSeed{
		Email:     c.owner.Email,
		Password:  c.owner.Password,
		FirstName: c.owner.FirstName,
	})
}
