package user

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/kernel"
)

type Repository interface {
	// Create inserts u and sets its ID and timestamps. A taken email
	// returns EmailExists.
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, page kernel.PageRequest) ([]User, int, error)

	// UpdateProfile writes the profile columns of u. Owner rows are never
	// matched.
	UpdateProfile(ctx context.Context, u *User) error
	SetRole(ctx context.Context, id kernel.UserID, role kernel.Role) error
	SetActive(ctx context.Context, id kernel.UserID, active bool) error
	Delete(ctx context.Context, id kernel.UserID) error

	// CreateOwner inserts u as the owner unless an owner already exists. It
	// reports whether a row was written.
	CreateOwner(ctx context.Context, u *User) (bool, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}
