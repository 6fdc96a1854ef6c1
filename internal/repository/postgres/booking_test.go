package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestBookingCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	booking := &model.Booking{
		Email:         "a@x.com",
		TreatmentName: "Dental",
		TreatmentDate: "2024-01-01",
		Time:          "9am",
	}
	err := repo.Create(context.Background(), booking)
	require.NoError(t, err)
	assert.False(t, booking.Paid)
	assert.NotZero(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&pq.Error{Code: uniqueViolation, Constraint: "bookings_email_date_treatment_key"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Booking{
		Email:         "a@x.com",
		TreatmentName: "Dental",
		TreatmentDate: "2024-01-01",
		Time:          "10am",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateBooking)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateOutboxFailureRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &model.Booking{
		Email:         "a@x.com",
		TreatmentName: "Dental",
		TreatmentDate: "2024-01-01",
		Time:          "9am",
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
