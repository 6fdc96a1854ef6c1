package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
)

// uniqueViolation is the Postgres error code raised by the
// bookings_email_date_treatment_key index.
const uniqueViolation = "23505"

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, email, treatment_name, treatment_date, slot_time,
			price, paid, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	booking.ID = uuid.New()
	booking.Paid = false
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, query,
		booking.ID,
		booking.Email,
		booking.TreatmentName,
		booking.TreatmentDate,
		booking.Time,
		booking.Price,
		booking.Paid,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateBooking
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if err := appendOutboxEvent(ctx, tx, model.EventBookingCreated, booking); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, email, treatment_name, treatment_date, slot_time,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByEmail(ctx context.Context, email string) ([]*model.Booking, error) {
	query := `
		SELECT id, email, treatment_name, treatment_date, slot_time,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE email = $1
		ORDER BY treatment_date ASC, slot_time ASC
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, email); err != nil {
		return nil, fmt.Errorf("failed to list bookings by email: %w", err)
	}
	return bookings, nil
}

func (r *bookingRepository) ListByDate(ctx context.Context, date string) ([]*model.Booking, error) {
	query := `
		SELECT id, email, treatment_name, treatment_date, slot_time,
			   price, paid, transaction_id, created_at, updated_at
		FROM bookings
		WHERE treatment_date = $1
	`
	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, date); err != nil {
		return nil, fmt.Errorf("failed to list bookings by date: %w", err)
	}
	return bookings, nil
}

// appendOutboxEvent writes an event row inside the caller's transaction so
// the event exists iff the write it describes committed.
func appendOutboxEvent(ctx context.Context, tx execer, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	now := time.Now()
	_, err = tx.ExecContext(ctx, query, uuid.New(), eventType, body, model.OutboxStatusPending, now, now)
	if err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}
