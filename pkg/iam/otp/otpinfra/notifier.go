package otpinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/storefront/pkg/asyncx"
	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/iam/otp"
	"github.com/Abraxas-365/storefront/pkg/notifx"
)

const otpTemplate = "otp_code"

const otpTemplateHTML = `<div style="font-family:sans-serif">
<p>Your verification code is</p>
<p style="font-size:24px;letter-spacing:4px"><b>{{.Code}}</b></p>
<p>It expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
</div>`

type EmailNotifierConfig struct {
	Subject    string
	CodeTTL    time.Duration
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// EmailOTPNotifier sends the code through notifx and waits for the result.
// Each attempt is bounded by Timeout; transport failures are retried.
type EmailOTPNotifier struct {
	client *notifx.Client
	cfg    EmailNotifierConfig
}

func NewEmailOTPNotifier(client *notifx.Client, cfg EmailNotifierConfig) (*EmailOTPNotifier, error) {
	if cfg.Subject == "" {
		cfg.Subject = "Your verification code"
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	if err := client.RegisterTemplate(otpTemplate, otpTemplateHTML); err != nil {
		return nil, err
	}
	return &EmailOTPNotifier{client: client, cfg: cfg}, nil
}

func (n *EmailOTPNotifier) SendOTP(ctx context.Context, email, code string) error {
	data := struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(n.cfg.CodeTTL.Minutes())}

	msg := notifx.EmailMessage{
		To:       []string{email},
		Subject:  n.cfg.Subject,
		TextBody: fmt.Sprintf("Your verification code is %s", code),
	}

	backoff := asyncx.Backoff{
		Attempts:     n.cfg.Retries + 1,
		InitialDelay: n.cfg.RetryDelay,
		Retryable: func(err error) bool {
			return errx.IsType(err, errx.TypeDependency) || errors.Is(err, context.DeadlineExceeded)
		},
	}

	_, err := asyncx.RetryWithBackoff(ctx, backoff, func(ctx context.Context) (struct{}, error) {
		return asyncx.WithTimeout(ctx, n.cfg.Timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, n.client.SendTemplatedEmail(ctx, otpTemplate, data, msg, notifx.WithTag("kind", "otp"))
		})
	})
	if err != nil {
		return otp.ErrDeliveryUnavailable(err).WithDetail("email", email)
	}
	return nil
}
