package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const bookingColumns = `
	id,
	user_id,
	service_id,
	service_name,
	service_price,
	service_duration,
	booking_date::text AS booking_date,
	booking_time::text AS booking_time,
	pet_name,
	pet_breed,
	pet_size,
	pet_age,
	pet_notes,
	owner_name,
	owner_phone,
	owner_email,
	status,
	created_at`

// PostgresRepo reaches the bookings table over a direct database
// connection. Ownership is enforced by the WHERE clauses, so access tokens
// are not used.
type PostgresRepo struct {
	db *sqlx.DB
}

func PostgresNewRepo(db *sqlx.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (p *PostgresRepo) CreateBooking(ctx context.Context, booking *NewBooking, _ string) (*Booking, error) {
	query := `
		INSERT INTO bookings (
			user_id, service_id, service_name, service_price, service_duration,
			booking_date, booking_time, pet_name, pet_breed, pet_size, pet_age,
			pet_notes, owner_name, owner_phone, owner_email, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING` + bookingColumns

	var created Booking
	err := p.db.QueryRowxContext(ctx, query,
		booking.UserID,
		booking.ServiceID,
		booking.ServiceName,
		booking.ServicePrice,
		booking.ServiceDuration,
		booking.BookingDate,
		booking.BookingTime,
		booking.PetName,
		booking.PetBreed,
		booking.PetSize,
		booking.PetAge,
		booking.PetNotes,
		booking.OwnerName,
		booking.OwnerPhone,
		booking.OwnerEmail,
		string(booking.Status),
	).StructScan(&created)
	if err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}

	return &created, nil
}

func (p *PostgresRepo) ListBookingsByUser(ctx context.Context, userID uuid.UUID, _ string) ([]Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY booking_date ASC`

	bookings := []Booking{}
	if err := p.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query bookings for user %s: %w", userID, err)
	}

	return bookings, nil
}

func (p *PostgresRepo) CancelBooking(ctx context.Context, id, userID uuid.UUID, _ string) (int64, error) {
	query := `
		UPDATE bookings
		SET status = $1
		WHERE id = $2
			AND user_id = $3
			AND status = $4`

	result, err := p.db.ExecContext(ctx, query, string(StatusCancelled), id, userID, string(StatusPending))
	if err != nil {
		return 0, fmt.Errorf("failed to cancel booking: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
