package notifxsmtp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/notifx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	delay time.Duration
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	time.Sleep(d.delay)
	d.sent = append(d.sent, m...)
	return d.err
}

func TestSMTPProvider_Headers(t *testing.T) {
	d := &fakeDialer{}
	p := NewSMTPProviderWithDialer(d, "no-reply@shop.com", "Shop")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{
		To:       []string{"ana@shop.com"},
		Subject:  "Your code",
		TextBody: "123456",
	}, notifx.WithTag("kind", "otp"))
	require.NoError(t, err)

	require.Len(t, d.sent, 1)
	m := d.sent[0]
	assert.Equal(t, []string{`"Shop" <no-reply@shop.com>`}, m.GetHeader("From"))
	assert.Equal(t, []string{"ana@shop.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Your code"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"otp"}, m.GetHeader("X-Tag-kind"))
}

func TestSMTPProvider_Failure(t *testing.T) {
	p := NewSMTPProviderWithDialer(&fakeDialer{err: errors.New("535 auth failed")}, "no-reply@shop.com", "")

	err := p.SendEmail(context.Background(), notifx.EmailMessage{To: []string{"a@b.com"}, Subject: "s", TextBody: "t"})

	assert.True(t, errx.HasCode(err, notifx.CodeSendFailed))
}

func TestSMTPProvider_HonorsDeadline(t *testing.T) {
	p := NewSMTPProviderWithDialer(&fakeDialer{delay: 200 * time.Millisecond}, "no-reply@shop.com", "")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := p.SendEmail(ctx, notifx.EmailMessage{To: []string{"a@b.com"}, Subject: "s", TextBody: "t"})

	assert.True(t, errx.HasCode(err, notifx.CodeSendFailed))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
