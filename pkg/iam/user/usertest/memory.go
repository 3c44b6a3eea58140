// Package usertest provides in-memory user collaborators for tests.
package usertest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/kernel"
)

// MemoryRepository implements user.Repository with the same constraints as
// the users table: unique email, at most one owner, owner rows immutable.
type MemoryRepository struct {
	mu    sync.Mutex
	next  kernel.UserID
	users map[kernel.UserID]user.User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[kernel.UserID]user.User)}
}

func (r *MemoryRepository) emailTaken(email string, except kernel.UserID) bool {
	for id, u := range r.users {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

func (r *MemoryRepository) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email, 0) {
		return user.ErrEmailExists().WithDetail("email", u.Email)
	}
	r.next++
	u.ID = r.next
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id kernel.UserID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound()
	}
	return &u, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound()
}

func (r *MemoryRepository) List(_ context.Context, page kernel.PageRequest) ([]user.User, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end], len(all), nil
}

func (r *MemoryRepository) mutate(id kernel.UserID, fn func(u *user.User)) error {
	u, ok := r.users[id]
	if !ok || u.IsOwner() {
		return user.ErrNotFound().WithDetail("user_id", id)
	}
	fn(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return nil
}

func (r *MemoryRepository) UpdateProfile(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTaken(u.Email, u.ID) {
		return user.ErrEmailExists().WithDetail("email", u.Email)
	}
	return r.mutate(u.ID, func(stored *user.User) {
		stored.Email = u.Email
		stored.FirstName = u.FirstName
		stored.LastName = u.LastName
		stored.Address = u.Address
	})
}

func (r *MemoryRepository) SetRole(_ context.Context, id kernel.UserID, role kernel.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutate(id, func(u *user.User) { u.Role = role })
}

func (r *MemoryRepository) SetActive(_ context.Context, id kernel.UserID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutate(id, func(u *user.User) { u.IsActive = active })
}

func (r *MemoryRepository) Delete(_ context.Context, id kernel.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok || u.IsOwner() {
		return user.ErrNotFound().WithDetail("user_id", id)
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryRepository) CreateOwner(_ context.Context, u *user.User) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.IsOwner() || existing.Email == u.Email {
			return false, nil
		}
	}
	r.next++
	u.ID = r.next
	u.Role = kernel.RoleOwner
	u.IsActive = true
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = *u
	return true, nil
}

// Seed stores u as is and returns its assigned ID.
func (r *MemoryRepository) Seed(u user.User) kernel.UserID {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	u.ID = r.next
	r.users[u.ID] = u
	return u.ID
}

// PlainHasher is a reversible user.PasswordHasher for fast tests.
type PlainHasher struct{}

func (PlainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (PlainHasher) Compare(hash, password string) bool  { return hash == "plain:"+password }
