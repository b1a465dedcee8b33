package portfolio

import (
	"context"
	"net/mail"

	"github.com/rs/zerolog"
)

// NewsletterService handles signups: the address is persisted first, then a
// welcome email is sent. A failed send does not undo the subscription; it
// surfaces as a degraded-success outcome.
type NewsletterService struct {
	store   *SiteStore
	mailer  Mailer
	author  string
	siteURL string
	log     zerolog.Logger
}

// NewNewsletterService creates a NewsletterService persisting into store.
func NewNewsletterService(store *SiteStore, mailer Mailer, author, siteURL string, log zerolog.Logger) *NewsletterService {
	return &NewsletterService{store: store, mailer: mailer, author: author, siteURL: siteURL, log: log}
}

// Subscribe validates and records the signup, then sends the welcome email.
// welcomeSent reports whether that send succeeded. An address already on
// the list returns ErrAlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (welcomeSent bool, err error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return false, &ValidationError{Fields: []string{"email"}, Message: "Invalid email address."}
	}
	if err := s.store.Subscribe(email); err != nil {
		return false, err
	}

	html, err := renderEmail("newsletterWelcome", struct {
		Author  string
		SiteURL string
	}{s.author, s.siteURL})
	if err != nil {
		s.log.Warn().Err(err).Msg("welcome email render failed")
		return false, nil
	}
	if err := s.mailer.Send(ctx, Email{
		To:      email,
		Subject: "Welcome aboard!",
		HTML:    html,
	}); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("welcome email failed")
		return false, nil
	}
	return true, nil
}
