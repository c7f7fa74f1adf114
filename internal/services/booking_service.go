package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/models"
)

const (
	MessageSavedAndEmailed = "Agendamento salvo e email de confirmação enviado!"
	MessageSaved           = "Agendamento salvo com sucesso!"
)

type SubmitResult struct {
	Booking   *models.Booking
	EmailSent bool
}

func (r *SubmitResult) Message() string {
	if r.EmailSent {
		return MessageSavedAndEmailed
	}
	return MessageSaved
}

type BookingService struct {
	repo          models.BookingRepo
	notifier      Notifier
	notifications models.NotificationLog
	logger        *slog.Logger
	loc           *time.Location
	now           func() time.Time
}

// NewBookingService wires the booking lifecycle. notifications may be nil.
func NewBookingService(repo models.BookingRepo, notifier Notifier, notifications models.NotificationLog, logger *slog.Logger, loc *time.Location) *BookingService {
	if notifier == nil {
		notifier = DisabledNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		repo:          repo,
		notifier:      notifier,
		notifications: notifications,
		logger:        logger,
		loc:           loc,
		now:           time.Now,
	}
}

// DecodeBookingRequest parses the raw submission body.
func DecodeBookingRequest(body []byte) (*models.BookingRequest, error) {
	var req models.BookingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	return &req, nil
}

// SubmitBooking validates and stores a booking, then sends the confirmation
// email when an owner email is present. Email failures never fail the
// submission; they only show up as EmailSent=false.
func (bs *BookingService) SubmitBooking(ctx context.Context, req *models.BookingRequest, userID *uuid.UUID, accessToken string) (*SubmitResult, error) {
	if err := models.Validate.Struct(req); err != nil {
		return nil, &ValidationError{Fields: models.FormatValidationErrors(err)}
	}

	booking, err := bs.repo.CreateBooking(ctx, req.ToNewBooking(userID), accessToken)
	if err != nil {
		bs.logger.Error("Failed to save booking", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	bs.logger.Info("Booking saved", "booking_id", booking.ID, "service_id", booking.ServiceID)

	result := &SubmitResult{Booking: booking}
	if req.OwnerEmail == "" {
		return result, nil
	}

	messageID, err := bs.notifier.SendConfirmation(ctx, booking)
	if err != nil {
		bs.logger.Error("Confirmation email not sent",
			"booking_id", booking.ID,
			"provider", bs.notifier.Provider(),
			"error", err,
		)
	} else {
		result.EmailSent = true
		bs.logger.Info("Confirmation email sent", "booking_id", booking.ID, "message_id", messageID)
	}

	bs.recordAttempt(ctx, booking, messageID, err)
	return result, nil
}

func (bs *BookingService) recordAttempt(ctx context.Context, booking *models.Booking, messageID string, sendErr error) {
	if bs.notifications == nil {
		return
	}

	attempt := &models.NotificationAttempt{
		BookingID: booking.ID.String(),
		Recipient: models.Deref(booking.OwnerEmail),
		Provider:  bs.notifier.Provider(),
		MessageID: messageID,
		Sent:      sendErr == nil,
	}
	if sendErr != nil {
		attempt.Error = sendErr.Error()
	}

	if err := bs.notifications.RecordAttempt(ctx, attempt); err != nil {
		bs.logger.Warn("Failed to record notification attempt", "booking_id", booking.ID, "error", err)
	}
}

// ListForUser returns the user's bookings ordered by date.
func (bs *BookingService) ListForUser(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Booking, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	bookings, err := bs.repo.ListBookingsByUser(ctx, userID, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return bookings, nil
}

// PartitionForUser lists and splits the user's bookings into upcoming and
// past at the current time.
func (bs *BookingService) PartitionForUser(ctx context.Context, userID uuid.UUID, accessToken string) (*models.BookingLists, error) {
	bookings, err := bs.ListForUser(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}
	upcoming, past := models.PartitionBookings(bookings, bs.now(), bs.loc)
	return &models.BookingLists{Upcoming: upcoming, Past: past}, nil
}

// CancelBooking cancels a pending booking owned by userID. Unknown ids,
// bookings of other users and bookings that are no longer pending all
// report ErrBookingNotFound and leave the store unchanged.
func (bs *BookingService) CancelBooking(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	if userID == uuid.Nil {
		return ErrUnauthenticated
	}
	rows, err := bs.repo.CancelBooking(ctx, id, userID, accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	bs.logger.Info("Booking cancelled", "booking_id", id, "user_id", userID)
	return nil
}

// DashboardStats counts the user's bookings by status at request time.
func (bs *BookingService) DashboardStats(ctx context.Context, userID uuid.UUID, accessToken string) (*models.DashboardStats, error) {
	bookings, err := bs.ListForUser(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{TotalBookings: len(bookings)}
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			stats.PendingBookings++
		case models.StatusConfirmed:
			stats.ConfirmedBookings++
		case models.StatusCancelled:
			stats.CancelledBookings++
		case models.StatusCompleted:
			stats.CompletedBookings++
		}
	}
	upcoming, _ := models.PartitionBookings(bookings, bs.now(), bs.loc)
	stats.UpcomingBookings = len(upcoming)

	return stats, nil
}

// NotificationAttempts lists email attempts for a booking owned by userID.
func (bs *BookingService) NotificationAttempts(ctx context.Context, id, userID uuid.UUID, accessToken string) ([]models.NotificationAttempt, error) {
	if bs.notifications == nil {
		return []models.NotificationAttempt{}, nil
	}

	bookings, err := bs.ListForUser(ctx, userID, accessToken)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, b := range bookings {
		if b.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		return nil, ErrBookingNotFound
	}

	return bs.notifications.ListAttempts(ctx, id.String())
}
