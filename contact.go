package portfolio

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const minMessageLength = 20

// ValidationError reports a rejected submission with the offending fields.
// It maps to a 400 at the HTTP boundary and is never retried automatically.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ContactOutcome reports how far an accepted inquiry got. Validation
// failures are errors; once validated, the inquiry itself cannot be lost —
// only the two notification emails can individually fail.
type ContactOutcome struct {
	InquiryID        string
	OwnerNotified    bool
	ConfirmationSent bool
}

// ContactService handles contact-form inquiries: validation, then an
// owner-notification email and a user-confirmation email, each sent
// independently so one failing does not block the other.
type ContactService struct {
	mailer     Mailer
	ownerEmail string
	author     string
	log        zerolog.Logger
}

// NewContactService creates a ContactService. ownerEmail receives inquiry
// notifications; author signs the confirmation email.
func NewContactService(mailer Mailer, ownerEmail, author string, log zerolog.Logger) *ContactService {
	return &ContactService{mailer: mailer, ownerEmail: ownerEmail, author: author, log: log}
}

// Submit validates sub and sends both notification emails. The returned
// outcome says which sends succeeded; err is non-nil only for validation
// failures or when the inquiry could not be processed at all.
func (s *ContactService) Submit(ctx context.Context, sub ContactSubmission) (ContactOutcome, error) {
	if err := validateContact(sub); err != nil {
		return ContactOutcome{}, err
	}

	out := ContactOutcome{InquiryID: uuid.NewString()}
	log := s.log.With().Str("inquiry_id", out.InquiryID).Logger()

	ownerHTML, err := renderEmail("ownerInquiry", sub)
	if err != nil {
		return ContactOutcome{}, err
	}
	if err := s.mailer.Send(ctx, Email{
		To:      s.ownerEmail,
		ReplyTo: sub.Email,
		Subject: fmt.Sprintf("New project inquiry from %s [%s]", sub.Name, out.InquiryID),
		HTML:    ownerHTML,
	}); err != nil {
		log.Warn().Err(err).Msg("owner notification failed")
	} else {
		out.OwnerNotified = true
	}

	confirmHTML, err := renderEmail("inquiryConfirmation", struct {
		ContactSubmission
		Author string
	}{sub, s.author})
	if err != nil {
		return out, err
	}
	if err := s.mailer.Send(ctx, Email{
		To:      sub.Email,
		Subject: fmt.Sprintf("Thank you for your inquiry, %s!", sub.Name),
		HTML:    confirmHTML,
	}); err != nil {
		log.Warn().Err(err).Msg("confirmation email failed")
	} else {
		out.ConfirmationSent = true
	}

	log.Info().
		Bool("owner_notified", out.OwnerNotified).
		Bool("confirmation_sent", out.ConfirmationSent).
		Msg("contact inquiry processed")
	return out, nil
}

func validateContact(sub ContactSubmission) error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", sub.Name},
		{"email", sub.Email},
		{"service", sub.Service},
		{"message", sub.Message},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{
			Fields:  missing,
			Message: "Required fields are missing: " + strings.Join(missing, ", ") + ".",
		}
	}
	if _, err := mail.ParseAddress(sub.Email); err != nil {
		return &ValidationError{Fields: []string{"email"}, Message: "Invalid email address."}
	}
	if len(sub.Message) < minMessageLength {
		return &ValidationError{
			Fields:  []string{"message"},
			Message: fmt.Sprintf("Message is too short (min %d characters).", minMessageLength),
		}
	}
	return nil
}
