package otp_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]{6}$`)
	seen := make(map[string]struct{})

	for range 200 {
		code, err := otp.GenerateOTPCode(6)
		require.NoError(t, err)
		assert.Regexp(t, digits, code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 150)
}

func TestGenerateOTPCode_InvalidLength(t *testing.T) {
	_, err := otp.GenerateOTPCode(0)
	assert.Error(t, err)
}

func TestOTP_IsExpired(t *testing.T) {
	exp := time.Date(2026, 3, 1, 10, 5, 0, 0, time.UTC)
	o := &otp.OTP{ExpiresAt: exp}

	assert.False(t, o.IsExpired(exp))
	assert.False(t, o.IsExpired(exp.Add(-time.Second)))
	assert.True(t, o.IsExpired(exp.Add(time.Nanosecond)))
}
