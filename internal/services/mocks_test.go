package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/patinhas/internal/models"
)

// MockBookingRepo is an in-memory bookings table.
type MockBookingRepo struct {
	mu          sync.Mutex
	rows        []models.Booking
	CreateErr   error
	ListErr     error
	CancelErr   error
	CreateCalls int
	LastToken   string
}

func (m *MockBookingRepo) CreateBooking(ctx context.Context, b *models.NewBooking, accessToken string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	m.LastToken = accessToken
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	now := time.Now()
	row := models.Booking{
		ID:              uuid.New(),
		UserID:          b.UserID,
		ServiceID:       b.ServiceID,
		ServiceName:     b.ServiceName,
		ServicePrice:    b.ServicePrice,
		ServiceDuration: b.ServiceDuration,
		BookingDate:     b.BookingDate,
		BookingTime:     b.BookingTime,
		PetName:         b.PetName,
		PetBreed:        b.PetBreed,
		PetSize:         b.PetSize,
		PetAge:          b.PetAge,
		PetNotes:        b.PetNotes,
		OwnerName:       b.OwnerName,
		OwnerPhone:      b.OwnerPhone,
		OwnerEmail:      b.OwnerEmail,
		Status:          b.Status,
		CreatedAt:       &now,
	}
	m.rows = append(m.rows, row)
	return &row, nil
}

func (m *MockBookingRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID, accessToken string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := []models.Booking{}
	for _, r := range m.rows {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockBookingRepo) CancelBooking(ctx context.Context, id, userID uuid.UUID, accessToken string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CancelErr != nil {
		return 0, m.CancelErr
	}
	for i, r := range m.rows {
		if r.ID == id && r.UserID != nil && *r.UserID == userID && r.Status == models.StatusPending {
			m.rows[i].Status = models.StatusCancelled
			return 1, nil
		}
	}
	return 0, nil
}

func (m *MockBookingRepo) Rows() []models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Booking, len(m.rows))
	copy(out, m.rows)
	return out
}

type MockNotifier struct {
	Err   error
	Calls int
	Last  *models.Booking
}

func (m *MockNotifier) Provider() string { return "mock" }

func (m *MockNotifier) SendConfirmation(ctx context.Context, b *models.Booking) (string, error) {
	m.Calls++
	m.Last = b
	if m.Err != nil {
		return "", m.Err
	}
	return "msg_123", nil
}

type MockNotificationLog struct {
	Attempts  []models.NotificationAttempt
	RecordErr error
}

func (m *MockNotificationLog) RecordAttempt(ctx context.Context, a *models.NotificationAttempt) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Attempts = append(m.Attempts, *a)
	return nil
}

func (m *MockNotificationLog) ListAttempts(ctx context.Context, bookingID string) ([]models.NotificationAttempt, error) {
	out := []models.NotificationAttempt{}
	for _, a := range m.Attempts {
		if a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	return out, nil
}

var errStore = errors.New("(42501) new row violates row-level security policy")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
