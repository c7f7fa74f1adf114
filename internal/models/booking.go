package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const BookingsTable = "bookings"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Label returns the customer-facing name of the status.
func (s BookingStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pendente"
	case StatusConfirmed:
		return "Confirmada"
	case StatusCancelled:
		return "Cancelada"
	case StatusCompleted:
		return "Concluída"
	}
	return string(s)
}

// Booking is a row of the bookings table. Service fields are a snapshot of
// the catalog entry at the time the booking was made.
type Booking struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	UserID          *uuid.UUID    `db:"user_id" json:"user_id"`
	ServiceID       string        `db:"service_id" json:"service_id"`
	ServiceName     string        `db:"service_name" json:"service_name"`
	ServicePrice    float64       `db:"service_price" json:"service_price"`
	ServiceDuration string        `db:"service_duration" json:"service_duration"`
	BookingDate     string        `db:"booking_date" json:"booking_date"`
	BookingTime     string        `db:"booking_time" json:"booking_time"`
	PetName         string        `db:"pet_name" json:"pet_name"`
	PetBreed        *string       `db:"pet_breed" json:"pet_breed"`
	PetSize         *string       `db:"pet_size" json:"pet_size"`
	PetAge          *string       `db:"pet_age" json:"pet_age"`
	PetNotes        *string       `db:"pet_notes" json:"pet_notes"`
	OwnerName       string        `db:"owner_name" json:"owner_name"`
	OwnerPhone      string        `db:"owner_phone" json:"owner_phone"`
	OwnerEmail      *string       `db:"owner_email" json:"owner_email"`
	Status          BookingStatus `db:"status" json:"status"`
	CreatedAt       *time.Time    `db:"created_at" json:"created_at,omitempty"`
}

// NewBooking is the insert payload. id and created_at are left to the store.
type NewBooking struct {
	UserID          *uuid.UUID    `db:"user_id" json:"user_id"`
	ServiceID       string        `db:"service_id" json:"service_id"`
	ServiceName     string        `db:"service_name" json:"service_name"`
	ServicePrice    float64       `db:"service_price" json:"service_price"`
	ServiceDuration string        `db:"service_duration" json:"service_duration"`
	BookingDate     string        `db:"booking_date" json:"booking_date"`
	BookingTime     string        `db:"booking_time" json:"booking_time"`
	PetName         string        `db:"pet_name" json:"pet_name"`
	PetBreed        *string       `db:"pet_breed" json:"pet_breed"`
	PetSize         *string       `db:"pet_size" json:"pet_size"`
	PetAge          *string       `db:"pet_age" json:"pet_age"`
	PetNotes        *string       `db:"pet_notes" json:"pet_notes"`
	OwnerName       string        `db:"owner_name" json:"owner_name"`
	OwnerPhone      string        `db:"owner_phone" json:"owner_phone"`
	OwnerEmail      *string       `db:"owner_email" json:"owner_email"`
	Status          BookingStatus `db:"status" json:"status"`
}

// BookingRequest is the payload accepted by the confirmation function.
type BookingRequest struct {
	ServiceID       string  `json:"serviceId" validate:"required,notblank"`
	ServiceName     string  `json:"serviceName" validate:"required,notblank"`
	ServicePrice    float64 `json:"servicePrice" validate:"required"`
	ServiceDuration string  `json:"serviceDuration" validate:"required,notblank"`
	BookingDate     string  `json:"bookingDate" validate:"required,notblank"`
	BookingTime     string  `json:"bookingTime" validate:"required,notblank"`
	PetName         string  `json:"petName" validate:"required,notblank"`
	PetBreed        string  `json:"petBreed,omitempty"`
	PetSize         string  `json:"petSize,omitempty"`
	PetAge          string  `json:"petAge,omitempty"`
	PetNotes        string  `json:"petNotes,omitempty"`
	OwnerName       string  `json:"ownerName" validate:"required,notblank"`
	OwnerPhone      string  `json:"ownerPhone" validate:"required,notblank"`
	OwnerEmail      string  `json:"ownerEmail,omitempty"`
}

// ToNewBooking builds a pending row. Empty optional fields become NULL.
func (r *BookingRequest) ToNewBooking(userID *uuid.UUID) *NewBooking {
	return &NewBooking{
		UserID:          userID,
		ServiceID:       r.ServiceID,
		ServiceName:     r.ServiceName,
		ServicePrice:    r.ServicePrice,
		ServiceDuration: r.ServiceDuration,
		BookingDate:     r.BookingDate,
		BookingTime:     r.BookingTime,
		PetName:         r.PetName,
		PetBreed:        NullIfEmpty(r.PetBreed),
		PetSize:         NullIfEmpty(r.PetSize),
		PetAge:          NullIfEmpty(r.PetAge),
		PetNotes:        NullIfEmpty(r.PetNotes),
		OwnerName:       r.OwnerName,
		OwnerPhone:      r.OwnerPhone,
		OwnerEmail:      NullIfEmpty(r.OwnerEmail),
		Status:          StatusPending,
	}
}

func NullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TimeSlot is booking_time as HH:MM. time columns come back as HH:MM:SS.
func (b *Booking) TimeSlot() string {
	if len(b.BookingTime) > 5 {
		return b.BookingTime[:5]
	}
	return b.BookingTime
}

// StartsAt combines booking_date and booking_time in loc.
func (b *Booking) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", b.BookingDate+" "+b.TimeSlot(), loc)
}

// PartitionBookings splits rows into upcoming (not cancelled and not yet
// started) and past. Rows whose date or time cannot be parsed are past.
// Input order is kept in both slices.
func PartitionBookings(bookings []Booking, now time.Time, loc *time.Location) (upcoming, past []Booking) {
	upcoming = []Booking{}
	past = []Booking{}
	for _, b := range bookings {
		if b.Status == StatusCancelled {
			past = append(past, b)
			continue
		}
		startsAt, err := b.StartsAt(loc)
		if err != nil || startsAt.Before(now) {
			past = append(past, b)
			continue
		}
		upcoming = append(upcoming, b)
	}
	return upcoming, past
}
