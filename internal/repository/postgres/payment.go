package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
)

// foreignKeyViolation is the Postgres error code raised by
// payments_booking_id_fkey when the referenced booking does not exist.
const foreignKeyViolation = "23503"

// Record persists the payment and flips the booking's paid flag in one
// transaction. Nothing is kept if the referenced booking does not exist.
func (r *paymentRepository) Record(ctx context.Context, payment *model.Payment) error {
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	payment.UpdatedAt = time.Now()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertQuery := `
		INSERT INTO payments (
			id, booking_id, email, price, currency, transaction_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		payment.ID,
		payment.BookingID,
		payment.Email,
		payment.Price,
		payment.Currency,
		payment.TransactionID,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return repository.ErrNotFound
		}
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	updateQuery := `
		UPDATE bookings
		SET paid = TRUE, transaction_id = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := tx.ExecContext(ctx, updateQuery, payment.TransactionID, time.Now(), payment.BookingID)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if err := appendOutboxEvent(ctx, tx, model.EventPaymentRecorded, payment); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment: %w", err)
	}
	return nil
}
