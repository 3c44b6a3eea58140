package auth

import (
	"strings"

	"github.com/Abraxas-365/storefront/pkg/iam"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// Middleware is the guard chain: Authenticate first, then one of the
// authorization checks.
type Middleware struct {
	tokens TokenService
}

func NewMiddleware(tokens TokenService) *Middleware {
	return &Middleware{tokens: tokens}
}

// Authenticate requires "Authorization: Bearer <access token>" and attaches
// the identity to the request context.
func (m *Middleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return iam.ErrUnauthenticated()
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return iam.ErrInvalidFormat()
		}

		id, err := m.tokens.Verify(token, TokenAccess)
		if err != nil {
			return err
		}

		c.Locals(identityLocal, id)
		ctx := kernel.WithIdentity(c.UserContext(), id)
		ctx = logx.ContextWithFields(ctx, logx.Fields{"user_id": id.ID, "role": id.Role.String()})
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireRoles passes when the identity's role satisfies any of roles under
// the owner > admin > user hierarchy.
func (m *Middleware) RequireRoles(roles ...kernel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return iam.ErrUnauthenticated()
		}
		if !id.Role.Satisfies(roles...) {
			return iam.ErrForbidden().WithDetail("role", id.Role.String())
		}
		return c.Next()
	}
}

// RequireSelfOrRoles passes when the path parameter names the caller, or the
// caller's role satisfies roles.
func (m *Middleware) RequireSelfOrRoles(param string, roles ...kernel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := IdentityFrom(c)
		if !ok {
			return iam.ErrUnauthenticated()
		}

		target, err := kernel.ParseUserID(c.Params(param))
		if err != nil {
			return err
		}

		if id.IsSelf(target) || id.Role.Satisfies(roles...) {
			return c.Next()
		}
		return iam.ErrForbidden().WithDetail("user_id", target)
	}
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *fiber.Ctx) (kernel.Identity, bool) {
	id, ok := c.Locals(identityLocal).(kernel.Identity)
	return id, ok
}
