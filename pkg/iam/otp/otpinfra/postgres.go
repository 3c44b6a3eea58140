package otpinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Abraxas-365/storefront/pkg/dbx"
	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresOTPRepository stores one row per email in the otps table.
type PostgresOTPRepository struct {
	db *sqlx.DB
}

func NewPostgresOTPRepository(db *sqlx.DB) *PostgresOTPRepository {
	return &PostgresOTPRepository{db: db}
}

// Replace deletes the current row for o.Email and inserts o in one
// transaction. The advisory lock serializes concurrent issues for the same
// email so the delete never races the other insert.
func (r *PostgresOTPRepository) Replace(ctx context.Context, o *otp.OTP, guard func(*otp.OTP) error) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, o.Email); err != nil {
			return errx.Wrap(err, "failed to lock OTP email", errx.TypeInternal)
		}

		if guard != nil {
			current, err := currentRow(ctx, tx, o.Email)
			if err != nil {
				return err
			}
			if err := guard(current); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM otps WHERE email = $1`, o.Email); err != nil {
			return errx.Wrap(err, "failed to delete previous OTP", errx.TypeInternal)
		}

		query := `
			INSERT INTO otps (email, code, expires_at, verified, created_at)
			VALUES ($1, $2, $3, false, $4)
			RETURNING id`

		if err := tx.QueryRowxContext(ctx, query, o.Email, o.Code, o.ExpiresAt, o.CreatedAt).Scan(&o.ID); err != nil {
			return errx.Wrap(err, "failed to insert OTP", errx.TypeInternal).
				WithDetail("unique_violation", dbx.IsUniqueViolation(err, "otps_email_key"))
		}
		return nil
	})
}

func currentRow(ctx context.Context, tx *sqlx.Tx, email string) (*otp.OTP, error) {
	var row otp.OTP
	err := tx.GetContext(ctx, &row, `SELECT id, email, code, expires_at, verified, created_at FROM otps WHERE email = $1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errx.Wrap(err, "failed to load OTP", errx.TypeInternal)
	}
	return &row, nil
}

func (r *PostgresOTPRepository) FindByID(ctx context.Context, id kernel.OTPID) (*otp.OTP, error) {
	return r.findOne(ctx, `SELECT id, email, code, expires_at, verified, created_at FROM otps WHERE id = $1`, id)
}

func (r *PostgresOTPRepository) FindByEmail(ctx context.Context, email string) (*otp.OTP, error) {
	return r.findOne(ctx, `SELECT id, email, code, expires_at, verified, created_at FROM otps WHERE email = $1`, email)
}

func (r *PostgresOTPRepository) findOne(ctx context.Context, query string, arg any) (*otp.OTP, error) {
	var row otp.OTP
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, otp.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to load OTP", errx.TypeInternal)
	}
	return &row, nil
}

// MarkVerified is a conditional update; exactly one caller sees true.
func (r *PostgresOTPRepository) MarkVerified(ctx context.Context, id kernel.OTPID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE otps SET verified = true WHERE id = $1 AND verified = false`, id)
	if err != nil {
		return false, errx.Wrap(err, "failed to update OTP", errx.TypeInternal).WithDetail("otp_id", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errx.Wrap(err, "failed to get rows affected", errx.TypeInternal)
	}
	return n == 1, nil
}
