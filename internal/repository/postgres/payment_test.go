package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
)

func TestPaymentRecord(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE bookings").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Record(context.Background(), &model.Payment{
		BookingID:     uuid.New(),
		Price:         99,
		Currency:      "usd",
		TransactionID: "tx1",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRecordMissingBookingRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPaymentRepository(db)

	// A missing booking surfaces on the payments insert as a foreign key
	// violation, before the bookings update would ever run.
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payments").
		WillReturnError(&pq.Error{Code: foreignKeyViolation, Constraint: "payments_booking_id_fkey"})
	mock.ExpectRollback()

	err := repo.Record(context.Background(), &model.Payment{
		BookingID:     uuid.New(),
		Price:         99,
		Currency:      "usd",
		TransactionID: "tx1",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
