package models

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/postgrest-go"
)

func (su *SupabaseRepo) CreateBooking(ctx context.Context, booking *NewBooking, accessToken string) (*Booking, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(BookingsTable).
		Insert(booking, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, err
	}

	var rows []Booking
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no booking returned after insert")
	}

	return &rows[0], nil
}

func (su *SupabaseRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID, accessToken string) ([]Booking, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(BookingsTable).
		Select("*", "", false).
		Eq("user_id", userID.String()).
		Order("booking_date", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, err
	}

	bookings := []Booking{}
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking rows: %v", err)
	}

	return bookings, nil
}

func (su *SupabaseRepo) CancelBooking(ctx context.Context, id, userID uuid.UUID, accessToken string) (int64, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return 0, fmt.Errorf("invalid UUID")
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return 0, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(BookingsTable).
		Update(map[string]interface{}{"status": StatusCancelled}, "representation", "").
		Eq("id", id.String()).
		Eq("user_id", userID.String()).
		Eq("status", string(StatusPending)).
		Execute()
	if err != nil {
		return 0, err
	}

	var rows []Booking
	if err := json.Unmarshal(raw, &rows); err != nil {
		return 0, fmt.Errorf("failed to unmarshal cancelled rows: %v", err)
	}

	return int64(len(rows)), nil
}
