package notifx_test

import (
	"context"
	"testing"

	"github.com/Abraxas-365/storefront/pkg/errx"
	"github.com/Abraxas-365/storefront/pkg/notifx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	msgs []notifx.EmailMessage
	opts []notifx.SendOptions
}

func (s *captureSender) SendEmail(_ context.Context, msg notifx.EmailMessage, opts ...notifx.Option) error {
	s.msgs = append(s.msgs, msg)
	s.opts = append(s.opts, notifx.ApplyOptions(opts))
	return nil
}

func TestClient_SendEmailValidates(t *testing.T) {
	tests := []struct {
		name string
		msg  notifx.EmailMessage
	}{
		{"no recipients", notifx.EmailMessage{Subject: "hi", TextBody: "x"}},
		{"bad recipient", notifx.EmailMessage{To: []string{"not-an-email"}, Subject: "hi", TextBody: "x"}},
		{"no subject", notifx.EmailMessage{To: []string{"a@b.com"}, TextBody: "x"}},
		{"no body", notifx.EmailMessage{To: []string{"a@b.com"}, Subject: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &captureSender{}
			err := notifx.NewClient(sender).SendEmail(context.Background(), tt.msg)

			require.Error(t, err)
			assert.True(t, errx.HasCode(err, notifx.CodeInvalidMessage))
			assert.Empty(t, sender.msgs)
		})
	}
}

func TestClient_SendTemplatedEmail(t *testing.T) {
	sender := &captureSender{}
	client := notifx.NewClient(sender, notifx.WithTag("app", "storefront"))
	require.NoError(t, client.RegisterTemplate("otp", `<p>Your code is <b>{{.Code}}</b></p>`))

	err := client.SendTemplatedEmail(context.Background(), "otp",
		map[string]string{"Code": "<123456>"},
		notifx.EmailMessage{To: []string{"ana@shop.com"}, Subject: "Your code"},
		notifx.WithConfigID("transactional"),
	)
	require.NoError(t, err)

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, `<p>Your code is <b>&lt;123456&gt;</b></p>`, sender.msgs[0].HTMLBody)
	assert.Equal(t, "storefront", sender.opts[0].Tags["app"])
	assert.Equal(t, "transactional", sender.opts[0].ConfigID)
}

func TestClient_TemplateErrors(t *testing.T) {
	client := notifx.NewClient(&captureSender{})
	msg := notifx.EmailMessage{To: []string{"ana@shop.com"}, Subject: "s"}

	err := client.SendTemplatedEmail(context.Background(), "missing", nil, msg)
	assert.True(t, errx.HasCode(err, notifx.CodeTemplateNotFound))

	err = client.RegisterTemplate("broken", "{{.Code")
	assert.True(t, errx.HasCode(err, notifx.CodeTemplateParse))

	require.NoError(t, client.RegisterTemplate("strict", "{{.Code}}"))
	err = client.SendTemplatedEmail(context.Background(), "strict", map[string]string{}, msg)
	assert.True(t, errx.HasCode(err, notifx.CodeTemplateRender))
}

func TestErrSendFailed_IsDependency(t *testing.T) {
	err := notifx.ErrSendFailed(context.DeadlineExceeded)

	assert.Equal(t, errx.TypeDependency, err.Type)
	assert.Equal(t, 503, err.HTTPStatus)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
