package kernel

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Role is an ordered privilege level: user < admin < owner.
type Role uint8

const (
	roleUnknown Role = iota
	RoleUser
	RoleAdmin
	RoleOwner
)

var roleNames = map[Role]string{
	RoleUser:  "user",
	RoleAdmin: "admin",
	RoleOwner: "owner",
}

// ParseRole accepts the lowercase wire names.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser, nil
	case "admin":
		return RoleAdmin, nil
	case "owner":
		return RoleOwner, nil
	}
	return roleUnknown, ErrInvalidRole().WithDetail("role", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// Satisfies reports whether r meets at least one of the required roles under
// the hierarchy. An empty set is satisfied by any valid role.
func (r Role) Satisfies(required ...Role) bool {
	if !r.IsValid() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, req := range required {
		if req.IsValid() && r >= req {
			return true
		}
	}
	return false
}

func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("kernel: invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Scan implements sql.Scanner for the users.role column.
func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	}
	return fmt.Errorf("kernel: cannot scan %T into Role", src)
}

// Value implements driver.Valuer.
func (r Role) Value() (driver.Value, error) {
	if !r.IsValid() {
		return nil, fmt.Errorf("kernel: invalid role %d", r)
	}
	return r.String(), nil
}
