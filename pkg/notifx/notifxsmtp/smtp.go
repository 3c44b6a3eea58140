package notifxsmtp

import (
	"context"

	"github.com/Abraxas-365/storefront/pkg/notifx"
	"gopkg.in/gomail.v2"
)

// Dialer is the part of *gomail.Dialer the provider uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPProvider implements notifx.EmailSender over plain SMTP.
type SMTPProvider struct {
	dialer      Dialer
	fromAddress string
	fromName    string
}

// NewSMTPProvider dials host:port with the given credentials on every send.
func NewSMTPProvider(host string, port int, user, password, fromAddress, fromName string) *SMTPProvider {
	return NewSMTPProviderWithDialer(gomail.NewDialer(host, port, user, password), fromAddress, fromName)
}

func NewSMTPProviderWithDialer(d Dialer, fromAddress, fromName string) *SMTPProvider {
	return &SMTPProvider{dialer: d, fromAddress: fromAddress, fromName: fromName}
}

func (p *SMTPProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	if err := ctx.Err(); err != nil {
		return notifx.ErrSendFailed(err).WithDetail("provider", "smtp")
	}

	m := p.buildMessage(msg, notifx.ApplyOptions(opts))

	// gomail has no context support; the caller bounds the whole send.
	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return notifx.ErrSendFailed(err).
				WithDetail("provider", "smtp").
				WithDetail("subject", msg.Subject)
		}
		return nil
	case <-ctx.Done():
		return notifx.ErrSendFailed(ctx.Err()).WithDetail("provider", "smtp")
	}
}

func (p *SMTPProvider) buildMessage(msg notifx.EmailMessage, so notifx.SendOptions) *gomail.Message {
	m := gomail.NewMessage()

	if msg.From != "" {
		m.SetHeader("From", msg.From)
	} else {
		m.SetAddressHeader("From", p.fromAddress, p.fromName)
	}
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	for k, v := range so.Tags {
		m.SetHeader("X-Tag-"+k, v)
	}

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		m.SetBody("text/plain", msg.TextBody)
		m.AddAlternative("text/html", msg.HTMLBody)
	case msg.HTMLBody != "":
		m.SetBody("text/html", msg.HTMLBody)
	default:
		m.SetBody("text/plain", msg.TextBody)
	}

	return m
}
