package kernel

import (
	"context"
	"net/http"

	"github.com/Abraxas-365/storefront/pkg/errx"
)

// Identity is the claim carried by access and refresh tokens and attached to
// every authenticated request.
type Identity struct {
	ID   UserID `json:"id"`
	Role Role   `json:"role"`
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity attached by the authentication guard.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// IsSelf reports whether the identity is the given user.
func (i Identity) IsSelf(id UserID) bool {
	return !i.ID.IsZero() && i.ID == id
}

// AuthorizeOwnership applies the mutation rule for owned resources: the owner
// role may act on anything, every other role only on what it created.
func AuthorizeOwnership(i Identity, resourceOwner UserID) error {
	if i.Role == RoleOwner || i.IsSelf(resourceOwner) {
		return nil
	}
	return ErrNotResourceOwner().
		WithDetail("user_id", i.ID).
		WithDetail("owner_id", resourceOwner)
}

var ErrRegistry = errx.NewRegistry("KERNEL")

var (
	CodeInvalidID        = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Invalid identifier")
	CodeInvalidRole      = ErrRegistry.Register("INVALID_ROLE", errx.TypeValidation, http.StatusBadRequest, "Role must be one of user, admin, owner")
	CodeNotResourceOwner = ErrRegistry.Register("NOT_RESOURCE_OWNER", errx.TypeForbidden, http.StatusForbidden, "You can only modify resources you own")
)

func ErrInvalidID() *errx.Error        { return ErrRegistry.New(CodeInvalidID) }
func ErrInvalidRole() *errx.Error      { return ErrRegistry.New(CodeInvalidRole) }
func ErrNotResourceOwner() *errx.Error { return ErrRegistry.New(CodeNotResourceOwner) }
