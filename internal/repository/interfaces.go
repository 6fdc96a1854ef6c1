package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/portal-api/internal/model"
)

// ErrDuplicateBooking is returned when the store rejects a booking insert
// because one already exists for the same (email, date, treatment) key. The
// constraint violation is the authoritative duplicate signal; callers never
// pre-read.
var ErrDuplicateBooking = errors.New("booking already exists for this treatment and date")

// ErrNotFound is returned by point lookups and targeted updates that match
// no row.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	ServiceRepository interface {
		List(ctx context.Context) ([]*model.Service, error)
		ListNames(ctx context.Context) ([]*model.ServiceName, error)
	}

	BookingRepository interface {
		// Create inserts the booking atomically; a racing duplicate insert
		// loses with ErrDuplicateBooking.
		Create(ctx context.Context, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		ListByEmail(ctx context.Context, email string) ([]*model.Booking, error)
		ListByDate(ctx context.Context, date string) ([]*model.Booking, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		PromoteToAdmin(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		List(ctx context.Context) ([]*model.Doctor, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	PaymentRepository interface {
		// Record persists the payment and marks its booking paid in a single
		// transaction; a missing booking rolls everything back.
		Record(ctx context.Context, payment *model.Payment) error
	}

	// OutboxRepository drains events appended by the booking and payment
	// transactions; appending happens inside those transactions, never here.
	OutboxRepository interface {
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errMsg *string) error
	}
)
