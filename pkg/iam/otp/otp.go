package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Abraxas-365/storefront/pkg/kernel"
)

// OTP is the single live one-time code for an email.
type OTP struct {
	ID        kernel.OTPID `db:"id" json:"id"`
	Email     string       `db:"email" json:"email"`
	Code      string       `db:"code" json:"-"`
	ExpiresAt time.Time    `db:"expires_at" json:"expires_at"`
	Verified  bool         `db:"verified" json:"verified"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// IsExpired reports whether now is past the expiry. The expiry instant
// itself is still valid.
func (o *OTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// Issued is returned to the caller of Issue. Code is the raw value that was
// handed to delivery.
type Issued struct {
	ID        kernel.OTPID
	Code      string
	ExpiresAt time.Time
}

// VerificationDetails is the payload sealed into the verification key.
type VerificationDetails struct {
	Timestamp time.Time    `json:"timestamp"`
	Email     string       `json:"email"`
	OTPID     kernel.OTPID `json:"otp_id"`
}

// GenerateOTPCode returns a uniformly random numeric code of length digits.
func GenerateOTPCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("otp: invalid code length %d", length)
	}

	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%0*d", length, n), nil
}
