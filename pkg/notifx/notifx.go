// Package notifx sends transactional email through a pluggable provider.
package notifx

import (
	"context"
	"net/mail"
)

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	From     string   `json:"from,omitempty"`
	To       []string `json:"to"`
	ReplyTo  string   `json:"reply_to,omitempty"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body,omitempty"`
	HTMLBody string   `json:"html_body,omitempty"`
}

// EmailSender sends a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error
}

// Client validates messages and renders templates before handing them to
// the provider.
type Client struct {
	provider  EmailSender
	templates *TemplateRegistry
	defaults  []Option
}

// NewClient creates a new notification client. defaults are applied before
// per-call options.
func NewClient(provider EmailSender, defaults ...Option) *Client {
	return &Client{
		provider:  provider,
		templates: NewTemplateRegistry(),
		defaults:  defaults,
	}
}

// SendEmail sends an email through the configured provider.
func (c *Client) SendEmail(ctx context.Context, msg EmailMessage, opts ...Option) error {
	if err := validate(msg); err != nil {
		return err
	}
	return c.provider.SendEmail(ctx, msg, append(c.defaults, opts...)...)
}

// RegisterTemplate parses and stores a named template for later use.
func (c *Client) RegisterTemplate(name, tmplString string) error {
	return c.templates.Register(name, tmplString)
}

// SendTemplatedEmail renders a template into the HTML body and sends it.
func (c *Client) SendTemplatedEmail(ctx context.Context, templateName string, data any, msg EmailMessage, opts ...Option) error {
	body, err := c.templates.Render(templateName, data)
	if err != nil {
		return err
	}

	msg.HTMLBody = body
	return c.SendEmail(ctx, msg, opts...)
}

func validate(msg EmailMessage) error {
	if len(msg.To) == 0 {
		return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "no recipients")
	}
	for _, to := range msg.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "bad recipient").WithDetail("to", to)
		}
	}
	if msg.Subject == "" {
		return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "empty subject")
	}
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return ErrRegistry.New(CodeInvalidMessage).WithDetail("reason", "empty body")
	}
	return nil
}
