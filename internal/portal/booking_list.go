package portal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/models"
)

// BookingList shows the bookings of one session, split into upcoming and
// past.
type BookingList struct {
	client  *Client
	toaster Toaster
	session *Session
	loc     *time.Location
	now     func() time.Time

	Upcoming []models.Booking
	Past     []models.Booking
}

func NewBookingList(client *Client, toaster Toaster, loc *time.Location) *BookingList {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingList{client: client, toaster: toaster, loc: loc, now: time.Now}
}

// SetSession reloads the list when the identity changes. A nil session
// clears it.
func (l *BookingList) SetSession(ctx context.Context, s *Session) error {
	changed := (l.session == nil) != (s == nil) ||
		(l.session != nil && s != nil && l.session.UserID != s.UserID)
	l.session = s

	if s == nil {
		l.Upcoming, l.Past = nil, nil
		return nil
	}
	if !changed {
		return nil
	}
	return l.Load(ctx)
}

func (l *BookingList) Load(ctx context.Context) error {
	if l.session == nil {
		return ErrNoSession
	}

	bookings, err := l.client.ListBookings(ctx, l.session)
	if err != nil {
		l.toaster.Toast(Toast{
			Title:       "Erro ao carregar reservas",
			Description: "Não foi possível carregar suas reservas",
			Variant:     ToastDestructive,
		})
		return err
	}

	l.Upcoming, l.Past = models.PartitionBookings(bookings, l.now(), l.loc)
	return nil
}

// Cancel asks the server to cancel a pending booking and reloads the list.
func (l *BookingList) Cancel(ctx context.Context, id uuid.UUID) error {
	if l.session == nil {
		return ErrNoSession
	}

	if err := l.client.CancelBooking(ctx, l.session, id); err != nil {
		l.toaster.Toast(Toast{
			Title:       "Erro ao cancelar",
			Description: "Não foi possível cancelar a reserva",
			Variant:     ToastDestructive,
		})
		return err
	}

	l.toaster.Toast(Toast{Title: "Reserva cancelada", Description: "Sua reserva foi cancelada com sucesso"})
	return l.Load(ctx)
}

// CanCancel reports whether the cancel action is offered for b.
func CanCancel(b models.Booking) bool {
	return b.Status == models.StatusPending
}
