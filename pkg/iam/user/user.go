package user

import (
	"time"

	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/ptrx"
)

// User is an account row. New accounts start inactive and are activated by
// OTP confirmation.
type User struct {
	ID           kernel.UserID `db:"id"`
	Email        string        `db:"email"`
	PasswordHash string        `db:"password_hash"`
	FirstName    string        `db:"first_name"`
	LastName     string        `db:"last_name"`
	Address      string        `db:"address"`
	Role         kernel.Role   `db:"role"`
	IsActive     bool          `db:"is_active"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

func (u *User) Identity() kernel.Identity {
	return kernel.Identity{ID: u.ID, Role: u.Role}
}

// IsOwner reports whether the row is the protected owner account.
func (u *User) IsOwner() bool {
	return u.Role == kernel.RoleOwner
}

// Profile is the public view of a user.
type Profile struct {
	ID        kernel.UserID `json:"id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Address   string        `json:"address"`
	Email     string        `json:"email"`
	Role      kernel.Role   `json:"role"`
	IsActive  bool          `json:"is_active"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Address:   u.Address,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

// UpdateProfileRequest carries a partial update; nil fields are left as is.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Address   *string `json:"address"`
	Email     *string `json:"email"`
}

func (r UpdateProfileRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Address == nil && r.Email == nil
}

// Apply validates r and writes it onto u. It reports whether the email
// changed.
func (r UpdateProfileRequest) Apply(u *User) (bool, error) {
	if r.IsEmpty() {
		return false, ErrNothingToUpdate()
	}

	emailChanged := false
	if r.Email != nil {
		email, err := ValidateEmail(*r.Email)
		if err != nil {
			return false, err
		}
		emailChanged = email != u.Email
		u.Email = email
	}
	if r.FirstName != nil {
		name, err := ValidateFirstName(*r.FirstName)
		if err != nil {
			return false, err
		}
		u.FirstName = name
	}
	u.LastName = trim(ptrx.Deref(r.LastName, u.LastName))
	u.Address = trim(ptrx.Deref(r.Address, u.Address))
	return emailChanged, nil
}

// OwnerSeed is the bootstrap owner account read from configuration.
type OwnerSeed struct {
	Email     string
	Password  string
	FirstName string
}
