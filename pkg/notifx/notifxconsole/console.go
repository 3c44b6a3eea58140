package notifxconsole

import (
	"context"
	"strings"

	"github.com/Abraxas-365/storefront/pkg/logx"
	"github.com/Abraxas-365/storefront/pkg/notifx"
)

// ConsoleProvider logs emails instead of sending them. Development only.
type ConsoleProvider struct {
	fromAddress string
}

func NewConsoleProvider(fromAddress string) *ConsoleProvider {
	return &ConsoleProvider{fromAddress: fromAddress}
}

func (p *ConsoleProvider) SendEmail(ctx context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	from := msg.From
	if from == "" {
		from = p.fromAddress
	}

	so := notifx.ApplyOptions(opts)
	entry := logx.WithContext(ctx).WithFields(logx.Fields{
		"from":    from,
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	})
	if len(so.Tags) > 0 {
		entry = entry.WithField("tags", so.Tags)
	}
	entry.Info("notifx/console: email captured")

	if msg.TextBody != "" {
		logx.Debugf("notifx/console: text body:\n%s", msg.TextBody)
	}
	if msg.HTMLBody != "" {
		logx.Debugf("notifx/console: html body:\n%s", msg.HTMLBody)
	}

	return nil
}
