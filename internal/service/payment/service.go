package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
	"github.com/jwalitptl/portal-api/pkg/payment"
)

// Service reconciles settled charges against bookings and proxies intent
// creation to the gateway.
type Service struct {
	repo     repository.PaymentRepository
	gateway  payment.Gateway
	currency string
}

func NewService(repo repository.PaymentRepository, gateway payment.Gateway, currency string) *Service {
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		repo:     repo,
		gateway:  gateway,
		currency: currency,
	}
}

// CreateIntent asks the gateway for a charge intent. Prices are catalog
// units; the gateway wants minor units.
func (s *Service) CreateIntent(ctx context.Context, price int) (*model.PaymentIntentResponse, error) {
	intent, err := s.gateway.CreateIntent(ctx, int64(price)*100, s.currency)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

// Record stores the payment and marks the booking paid. Both writes commit
// together; an unknown booking leaves no payment behind.
func (s *Service) Record(ctx context.Context, req *model.RecordPaymentRequest) (*model.Payment, error) {
	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid booking ID", err)
	}

	pmt := &model.Payment{
		BookingID:     bookingID,
		Email:         req.Email,
		Price:         req.Price,
		Currency:      s.currency,
		TransactionID: req.TransactionID,
	}

	if err := s.repo.Record(ctx, pmt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.Internal(err)
	}
	return pmt, nil
}
