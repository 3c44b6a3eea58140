package otpsrv

import (
	"context"
	"crypto/subtle"
	"strconv"
	"time"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/kernel"
	"github.com/Abraxas-365/storefront/pkg/logx"
)

type Config struct {
	TTL            time.Duration
	CodeLength     int
	ResendCooldown time.Duration
}

func DefaultConfig() Config {
	return Config{TTL: 5 * time.Minute, CodeLength: 6}
}

type OTPService struct {
	repo     otp.Repository
	notifier otp.NotificationService
	cfg      Config
	now      func() time.Time
}

type Option func(*OTPService)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *OTPService) { s.now = now }
}

func NewOTPService(repo otp.Repository, notifier otp.NotificationService, cfg Config, opts ...Option) *OTPService {
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.CodeLength <= 0 {
		cfg.CodeLength = def.CodeLength
	}

	s := &OTPService{
		repo:     repo,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Issue replaces any code for email with a fresh one and delivers it. When
// delivery fails the new row is kept and DeliveryUnavailable is returned.
func (s *OTPService) Issue(ctx context.Context, email string) (*otp.Issued, error) {
	now := s.now().UTC()

	code, err := otp.GenerateOTPCode(s.cfg.CodeLength)
	if err != nil {
		return nil, errx.Wrap(err, "failed to generate OTP code", errx.TypeInternal)
	}

	row := &otp.OTP{
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(s.cfg.TTL),
		CreatedAt: now,
	}
	if err := s.repo.Replace(ctx, row, s.cooldownGuard(now)); err != nil {
		if errx.HasCode(err, otp.CodeTooManyRequests) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to store OTP", errx.TypeInternal).
			WithDetail("email", email)
	}

	log := logx.WithContext(ctx).WithFields(logx.Fields{"otp_id": row.ID, "email": email})

	if err := s.notifier.SendOTP(ctx, email, code); err != nil {
		log.WithError(err).Warn("otp: delivery failed")
		if errx.HasCode(err, otp.CodeDeliveryUnavailable) {
			return nil, err
		}
		return nil, otp.ErrDeliveryUnavailable(err)
	}

	log.Info("otp: issued")

	return &otp.Issued{ID: row.ID, Code: code, ExpiresAt: row.ExpiresAt}, nil
}

// cooldownGuard rejects a reissue while the current unverified code is
// younger than the resend cooldown. It runs under the repository's
// per-email serialization, so concurrent requests cannot both pass.
func (s *OTPService) cooldownGuard(now time.Time) func(*otp.OTP) error {
	if s.cfg.ResendCooldown <= 0 {
		return nil
	}
	return func(current *otp.OTP) error {
		if current == nil || current.Verified {
			return nil
		}
		elapsed := now.Sub(current.CreatedAt)
		if elapsed >= s.cfg.ResendCooldown {
			return nil
		}
		wait := (s.cfg.ResendCooldown - elapsed).Round(time.Second)
		return otp.ErrTooManyRequests().
			WithDetail("retry_after", strconv.Itoa(int(wait.Seconds()))+" seconds")
	}
}

// Confirm checks code against the row id at now and consumes it. Checks run
// in order: not found, already verified, expired, mismatch. Of two
// concurrent successful confirms only one wins; the other sees
// AlreadyVerified, or NotFound when a reissue replaced the row meanwhile.
func (s *OTPService) Confirm(ctx context.Context, id kernel.OTPID, code, email string, now time.Time) error {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if row.Email != email {
		return otp.ErrNotFound().WithDetail("otp_id", id)
	}
	if row.Verified {
		return otp.ErrAlreadyVerified()
	}
	if row.IsExpired(now) {
		return otp.ErrExpired().WithDetail("expired_at", row.ExpiresAt)
	}
	if subtle.ConstantTimeCompare([]byte(row.Code), []byte(code)) != 1 {
		return otp.ErrMismatch()
	}

	won, err := s.repo.MarkVerified(ctx, id)
	if err != nil {
		return errx.Wrap(err, "failed to mark OTP verified", errx.TypeInternal).WithDetail("otp_id", id)
	}
	if !won {
		// A replace between the read and the update removes the row.
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			return err
		}
		return otp.ErrAlreadyVerified()
	}

	logx.WithContext(ctx).WithFields(logx.Fields{"otp_id": id, "email": email}).Info("otp: confirmed")
	return nil
}

// Now exposes the service clock so callers confirm against the same time
// source that issued the code.
func (s *OTPService) Now() time.Time {
	return s.now().UTC()
}
