package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/joshua-takyi/patinhas/internal/models"
	"github.com/resend/resend-go/v2"
)

const DefaultEmailFrom = "Patinhas Pet Pamper <onboarding@resend.dev>"

// Notifier sends the booking confirmation email. It is called once per
// booking and never retried.
type Notifier interface {
	SendConfirmation(ctx context.Context, booking *models.Booking) (messageID string, err error)
	Provider() string
}

type ResendNotifier struct {
	client *resend.Client
	from   string
}

func NewResendNotifier(client *resend.Client, from string) *ResendNotifier {
	if from == "" {
		from = DefaultEmailFrom
	}
	return &ResendNotifier{client: client, from: from}
}

func (rn *ResendNotifier) Provider() string {
	return "resend"
}

func (rn *ResendNotifier) SendConfirmation(ctx context.Context, booking *models.Booking) (string, error) {
	to := strings.TrimSpace(models.Deref(booking.OwnerEmail))
	if to == "" {
		return "", fmt.Errorf("%w: no recipient", ErrNotification)
	}

	html, err := RenderConfirmationEmail(booking)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotification, err)
	}

	res, err := rn.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    rn.from,
		To:      []string{to},
		Subject: ConfirmationSubject(booking.PetName),
		Html:    html,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotification, err)
	}

	return res.Id, nil
}

// DisabledNotifier is used when no email API key is configured.
type DisabledNotifier struct{}

func (DisabledNotifier) Provider() string {
	return "disabled"
}

func (DisabledNotifier) SendConfirmation(ctx context.Context, booking *models.Booking) (string, error) {
	return "", ErrNotificationDisabled
}
