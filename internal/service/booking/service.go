package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/portal-api/internal/email"
	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
)

// Service admits booking requests against the one-treatment-per-day rule.
type Service struct {
	repo     repository.BookingRepository
	emailSvc email.Service
	logger   zerolog.Logger
}

func NewService(repo repository.BookingRepository, emailSvc email.Service, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// Admit persists the booking unless one already exists for the same
// (email, treatmentDate, treatmentName). The store's uniqueness constraint is
// the only duplicate check; two racing submissions cannot both be admitted.
// A duplicate is a business outcome, not an error.
func (s *Service) Admit(ctx context.Context, req *model.CreateBookingRequest) (*model.AdmissionResult, error) {
	booking := &model.Booking{
		Email:         req.Email,
		TreatmentName: req.TreatmentName,
		TreatmentDate: req.TreatmentDate,
		Time:          req.Time,
		Price:         req.Price,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return &model.AdmissionResult{
				Acknowledged: false,
				Message:      fmt.Sprintf("You have Booked in %s", req.TreatmentDate),
			}, nil
		}
		return nil, apperrors.Internal(err)
	}

	s.sendConfirmation(ctx, booking)

	return &model.AdmissionResult{
		Acknowledged: true,
		InsertedID:   &booking.ID,
	}, nil
}

// Get is the checkout lookup. Malformed ids are reported the same way as
// unknown ones.
func (s *Service) Get(ctx context.Context, rawID string) (*model.Booking, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperrors.NotFound("booking", err)
	}

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.Internal(err)
	}
	return booking, nil
}

// ListForEmail returns the caller's bookings. The caller may only query their
// own email; this ownership check is independent of role.
func (s *Service) ListForEmail(ctx context.Context, callerEmail, requestedEmail string) ([]*model.Booking, error) {
	if callerEmail != requestedEmail {
		return nil, apperrors.Forbidden("forbidden access", nil)
	}

	bookings, err := s.repo.ListByEmail(ctx, requestedEmail)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

// sendConfirmation is best-effort; the booking stands even if mail fails.
func (s *Service) sendConfirmation(ctx context.Context, booking *model.Booking) {
	if s.emailSvc == nil {
		return
	}
	if err := s.emailSvc.SendBookingConfirmation(ctx, booking); err != nil {
		s.logger.Error().
			Err(err).
			Str("booking_id", booking.ID.String()).
			Str("email", booking.Email).
			Msg("failed to send booking confirmation")
	}
}
