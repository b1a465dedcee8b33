package portfolio

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/resend/resend-go/v2"
)

// Email is one outbound message.
type Email struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// Mailer sends a single email. Implementations must be safe for concurrent
// use; sends are fire-and-forget from the caller's point of view in that a
// failure never rolls back the work that preceded it.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// ErrMailerDisabled is returned by the disabled mailer used when no
// provider is configured.
var ErrMailerDisabled = errors.New("mailer not configured")

// ResendMailer delivers email through the Resend API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer creates a mailer sending from the given verified address.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

// Send delivers msg through Resend.
func (m *ResendMailer) Send(ctx context.Context, msg Email) error {
	req := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}
	if _, err := m.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	return nil
}

// disabledMailer stands in when no provider is configured; every send
// fails, which surfaces as a degraded-success outcome upstream.
type disabledMailer struct{}

func (disabledMailer) Send(ctx context.Context, msg Email) error {
	return ErrMailerDisabled
}

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "ownerInquiry"}}
<h2>New contact form submission</h2>
<p>A new inquiry arrived from the portfolio site.</p>
<table>
  <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
  <tr><td><strong>Email</strong></td><td>{{.Email}}</td></tr>
  <tr><td><strong>Contact</strong></td><td>{{if .Contact}}{{.Contact}}{{else}}N/A{{end}}</td></tr>
  <tr><td><strong>Service</strong></td><td>{{.Service}}</td></tr>
  <tr><td><strong>Budget</strong></td><td>{{if .Budget}}${{.Budget}}{{else}}N/A{{end}}</td></tr>
</table>
<p><strong>Message:</strong></p>
<blockquote>{{.Message}}</blockquote>
{{end}}

{{define "inquiryConfirmation"}}
<h2>Your message has been received</h2>
<p>Hi {{.Name}},</p>
<p>Thank you for reaching out! I've received your inquiry about
<strong>{{.Service}}</strong> and aim to respond within 24-48 business hours.</p>
<p>Here is a copy of the message you sent:</p>
<blockquote>{{.Message}}</blockquote>
<p>This is an automated confirmation; please do not reply directly.</p>
<p>Best regards,<br/><strong>{{.Author}}</strong></p>
{{end}}

{{define "newsletterWelcome"}}
<h2>Thanks for subscribing!</h2>
<p>Hi there,</p>
<p>You'll now receive updates on my latest projects, articles, and insights
directly in your inbox. Stay tuned!</p>
<p>Best regards,<br/><strong>{{.Author}}</strong></p>
<p><a href="{{.SiteURL}}">Visit the site</a></p>
{{end}}
`))

func renderEmail(name string, data any) (string, error) {
	var b strings.Builder
	if err := emailTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render email %q: %w", name, err)
	}
	return b.String(), nil
}
