package otp

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/kernel"
)

type Repository interface {
	// Replace atomically removes any row for o.Email and inserts o, setting
	// o.ID. Concurrent calls for one email are serialized. A non-nil guard
	// runs inside that serialized section with the current row (nil when
	// there is none); its error aborts the replace.
	Replace(ctx context.Context, o *OTP, guard func(current *OTP) error) error
	FindByID(ctx context.Context, id kernel.OTPID) (*OTP, error)
	FindByEmail(ctx context.Context, email string) (*OTP, error)

	// MarkVerified flips verified to true only if it is still false. It
	// reports whether this call won.
	MarkVerified(ctx context.Context, id kernel.OTPID) (bool, error)
}

// NotificationService delivers a raw code to its owner.
type NotificationService interface {
	SendOTP(ctx context.Context, email string, code string) error
}
