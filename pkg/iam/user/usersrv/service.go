package usersrv

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
)

// AuditLogger records privileged account changes.
type AuditLogger interface {
	LogUserChange(ctx context.Context, actor kernel.Identity, target kernel.UserID, action string, detail map[string]any)
}

type UserService struct {
	repo   user.Repository
	hasher user.PasswordHasher
	audit  AuditLogger
}

func NewUserService(repo user.Repository, hasher user.PasswordHasher, audit AuditLogger) *UserService {
	return &UserService{repo: repo, hasher: hasher, audit: audit}
}

func (s *UserService) List(ctx context.Context, page kernel.PageRequest) (kernel.Paginated[user.Profile], error) {
	page = page.Normalize()

	users, total, err := s.repo.List(ctx, page)
	if err != nil {
		return kernel.Paginated[user.Profile]{}, err
	}

	profiles := make([]user.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].ToProfile()
	}
	return kernel.NewPaginated(profiles, page, total), nil
}

func (s *UserService) Get(ctx context.Context, id kernel.UserID) (*user.Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := u.ToProfile()
	return &p, nil
}

// loadMutable loads a user that may be changed; the owner row never is.
func (s *UserService) loadMutable(ctx context.Context, id kernel.UserID) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsOwner() {
		return nil, user.ErrOwnerProtected().WithDetail("user_id", id)
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, actor kernel.Identity, id kernel.UserID, req user.UpdateProfileRequest) (*user.Profile, error) {
	u, err := s.loadMutable(ctx, id)
	if err != nil {
		return nil, err
	}
	// Admin accounts are only edited by themselves or the owner.
	if u.Role == kernel.RoleAdmin {
		if err := kernel.AuthorizeOwnership(actor, u.ID); err != nil {
			return nil, err
		}
	}

	emailChanged, err := req.Apply(u)
	if err != nil {
		return nil, err
	}

	if emailChanged {
		existing, err := s.repo.FindByEmail(ctx, u.Email)
		switch {
		case err == nil && existing.ID != u.ID:
			return nil, user.ErrEmailExists().WithDetail("email", u.Email)
		case err != nil && !errx.HasCode(err, user.CodeNotFound):
			return nil, err
		}
	}

	if err := s.repo.UpdateProfile(ctx, u); err != nil {
		return nil, err
	}

	s.audit.LogUserChange(ctx, actor, id, "profile_updated", map[string]any{"email_changed": emailChanged})

	p := u.ToProfile()
	return &p, nil
}

// UpdateRole moves a user between user and admin. Nobody can be promoted to
// owner.
func (s *UserService) UpdateRole(ctx context.Context, actor kernel.Identity, id kernel.UserID, roleName string) (*user.Profile, error) {
	role, err := kernel.ParseRole(roleName)
	if err != nil {
		return nil, err
	}
	if role == kernel.RoleOwner {
		return nil, user.ErrInvalidRoleChange().WithDetail("role", roleName)
	}

	u, err := s.loadMutable(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetRole(ctx, id, role); err != nil {
		return nil, err
	}

	s.audit.LogUserChange(ctx, actor, id, "role_changed", map[string]any{"from": u.Role.String(), "to": role.String()})

	u.Role = role
	p := u.ToProfile()
	return &p, nil
}

func (s *UserService) SetActive(ctx context.Context, actor kernel.Identity, id kernel.UserID, active bool) (*user.Profile, error) {
	u, err := s.loadMutable(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	s.audit.LogUserChange(ctx, actor, id, "status_changed", map[string]any{"active": active})

	u.IsActive = active
	p := u.ToProfile()
	return &p, nil
}

func (s *UserService) Delete(ctx context.Context, actor kernel.Identity, id kernel.UserID) error {
	if _, err := s.loadMutable(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.LogUserChange(ctx, actor, id, "deleted", nil)
	return nil
}

// EnsureOwner creates the owner account from seed unless one exists. An
// empty seed is a no-op. Safe to call on every start.
func (s *UserService) EnsureOwner(ctx context.Context, seed user.OwnerSeed) error {
	if seed.Email == "" && seed.Password == "" {
		logx.Debug("user: owner seed not configured, skipping bootstrap")
		return nil
	}

	email, err := user.ValidateEmail(seed.Email)
	if err != nil {
		return err
	}
	if err := user.ValidatePassword(seed.Password); err != nil {
		return err
	}
	firstName, err := user.ValidateFirstName(seed.FirstName)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return errx.Wrap(err, "failed to hash owner password", errx.TypeInternal)
	}

	owner := &user.User{Email: email, PasswordHash: hash, FirstName: firstName}
	created, err := s.repo.CreateOwner(ctx, owner)
	if err != nil {
		return err
	}

	log := logx.WithContext(ctx).WithField("email", email)
	if !created {
		log.Info("user: owner already present")
		return nil
	}

	log.WithField("user_id", owner.ID).Info("user: owner account created")
	s.audit.LogUserChange(ctx, owner.Identity(), owner.ID, "owner_bootstrapped", nil)
	return nil
}
