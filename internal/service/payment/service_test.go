package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
	gateway "github.com/jwalitptl/portal-api/pkg/payment"
)

// fakePaymentRepo mimics the transactional contract: the payment persists
// iff the referenced booking exists, and the booking flips to paid with it.
type fakePaymentRepo struct {
	bookings map[uuid.UUID]*model.Booking
	payments []*model.Payment
}

func (f *fakePaymentRepo) Record(_ context.Context, p *model.Payment) error {
	booking, ok := f.bookings[p.BookingID]
	if !ok {
		return repository.ErrNotFound
	}
	booking.Paid = true
	booking.TransactionID = &p.TransactionID
	f.payments = append(f.payments, p)
	return nil
}

type fakeGateway struct {
	amount   int64
	currency string
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount int64, currency string) (*gateway.Intent, error) {
	f.amount = amount
	f.currency = currency
	return &gateway.Intent{ClientSecret: "pi_secret", Amount: amount, Currency: currency}, nil
}

func TestCreateIntentConvertsToMinorUnits(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewService(&fakePaymentRepo{}, gw, "usd")

	resp, err := svc.CreateIntent(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Equal(t, int64(9900), gw.amount)
	assert.Equal(t, "usd", gw.currency)
}

func TestRecordMarksBookingPaid(t *testing.T) {
	bookingID := uuid.New()
	booking := &model.Booking{Base: model.Base{ID: bookingID}}
	repo := &fakePaymentRepo{bookings: map[uuid.UUID]*model.Booking{bookingID: booking}}
	svc := NewService(repo, &fakeGateway{}, "usd")

	pmt, err := svc.Record(context.Background(), &model.RecordPaymentRequest{
		BookingID:     bookingID.String(),
		Price:         99,
		TransactionID: "tx1",
	})
	require.NoError(t, err)
	assert.Equal(t, "usd", pmt.Currency)

	assert.True(t, booking.Paid)
	require.NotNil(t, booking.TransactionID)
	assert.Equal(t, "tx1", *booking.TransactionID)
	assert.Len(t, repo.payments, 1)
}

func TestRecordUnknownBooking(t *testing.T) {
	repo := &fakePaymentRepo{bookings: map[uuid.UUID]*model.Booking{}}
	svc := NewService(repo, &fakeGateway{}, "usd")

	_, err := svc.Record(context.Background(), &model.RecordPaymentRequest{
		BookingID:     uuid.NewString(),
		Price:         99,
		TransactionID: "tx1",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
	assert.Empty(t, repo.payments, "no payment may survive a failed booking update")
}

func TestRecordMalformedBookingID(t *testing.T) {
	svc := NewService(&fakePaymentRepo{}, &fakeGateway{}, "usd")

	_, err := svc.Record(context.Background(), &model.RecordPaymentRequest{
		BookingID:     "not-a-uuid",
		Price:         99,
		TransactionID: "tx1",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}
