package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joshua-takyi/patinhas/internal/models"
)

var ErrListRefresh = errors.New("booking saved but the list could not be refreshed")

// Dashboard is the signed-in page: a booking form and the user's bookings.
type Dashboard struct {
	client  *Client
	session *Session

	Form     *BookingForm
	Bookings *BookingList
}

func NewDashboard(client *Client, toaster Toaster, loc *time.Location) *Dashboard {
	return &Dashboard{
		client:   client,
		Form:     NewBookingForm(client, toaster, loc),
		Bookings: NewBookingList(client, toaster, loc),
	}
}

func (d *Dashboard) SetSession(ctx context.Context, s *Session) error {
	d.session = s
	d.Form.SetSession(s)
	return d.Bookings.SetSession(ctx, s)
}

// Greeting is the name shown in the welcome banner.
func (d *Dashboard) Greeting() string {
	if d.session == nil {
		return ""
	}
	if d.session.DisplayName != "" {
		return d.session.DisplayName
	}
	for i, r := range d.session.Email {
		if r == '@' {
			return d.session.Email[:i]
		}
	}
	return d.session.Email
}

func (d *Dashboard) Stats(ctx context.Context) (*models.DashboardStats, error) {
	return d.client.Stats(ctx, d.session)
}

// Submit sends the form and refreshes the booking list after a success.
// When only the refresh fails, the saved booking is returned together with
// an error wrapping ErrListRefresh.
func (d *Dashboard) Submit(ctx context.Context) (*models.ConfirmationResponse, error) {
	res, err := d.Form.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if d.session != nil {
		if err := d.Bookings.Load(ctx); err != nil {
			return res, fmt.Errorf("%w: %v", ErrListRefresh, err)
		}
	}
	return res, nil
}
