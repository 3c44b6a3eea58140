package userinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/storefront/pkg/dbx"
	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/user"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, password_hash, first_name, last_name, address, role, is_active, created_at, updated_at`

const emailConstraint = "users_email_key"

// PostgresUserRepository is the sqlx implementation of user.Repository.
type PostgresUserRepository struct {
	db dbx.Queryer
}

func NewPostgresUserRepository(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, address, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Address, u.Role, u.IsActive,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, emailConstraint) {
			return user.ErrEmailExists().WithDetail("email", u.Email)
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresUserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	if err := r.db.GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to load user", errx.TypeInternal)
	}
	return &u, nil
}

func (r *PostgresUserRepository) List(ctx context.Context, page kernel.PageRequest) ([]user.User, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count users", errx.TypeInternal)
	}

	var users []user.User
	query := `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &users, query, page.Size, page.Offset()); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}
	return users, total, nil
}

func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, address = $5, updated_at = NOW()
		WHERE id = $1 AND role <> 'owner'
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, u.ID, u.Email, u.FirstName, u.LastName, u.Address).Scan(&u.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return user.ErrNotFound().WithDetail("user_id", u.ID)
		case dbx.IsUniqueViolation(err, emailConstraint):
			return user.ErrEmailExists().WithDetail("email", u.Email)
		}
		return errx.Wrap(err, "failed to update user", errx.TypeInternal).WithDetail("user_id", u.ID)
	}
	return nil
}

func (r *PostgresUserRepository) SetRole(ctx context.Context, id kernel.UserID, role kernel.Role) error {
	return r.execOne(ctx, "failed to update role", id,
		`UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1 AND role <> 'owner'`, id, role)
}

func (r *PostgresUserRepository) SetActive(ctx context.Context, id kernel.UserID, active bool) error {
	return r.execOne(ctx, "failed to update status", id,
		`UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1 AND role <> 'owner'`, id, active)
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id kernel.UserID) error {
	return r.execOne(ctx, "failed to delete user", id,
		`DELETE FROM users WHERE id = $1 AND role <> 'owner'`, id)
}

// execOne runs a single-row statement and maps zero affected rows to NotFound.
func (r *PostgresUserRepository) execOne(ctx context.Context, msg string, id kernel.UserID, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errx.Wrap(err, msg, errx.TypeInternal).WithDetail("user_id", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	if n == 0 {
		return user.ErrNotFound().WithDetail("user_id", id)
	}
	return nil
}

// CreateOwner relies on users_single_owner and users_email_key: a second
// owner or a taken email is silently skipped.
func (r *PostgresUserRepository) CreateOwner(ctx context.Context, u *user.User) (bool, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, address, role, is_active)
		VALUES ($1, $2, $3, '', '', 'owner', true)
		ON CONFLICT DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, u.Email, u.PasswordHash, u.FirstName).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errx.Wrap(err, "failed to create owner", errx.TypeInternal)
	}

	u.Role = kernel.RoleOwner
	u.IsActive = true
	return true, nil
}
